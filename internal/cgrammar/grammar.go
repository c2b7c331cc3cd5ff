// Package cgrammar loads a text grammar file into a set of productions
// indexed by nonterminal, and builds the LL(1) parsing table from it by
// computing FIRST and FOLLOW sets (Purple Dragon Book Algorithm 4.31).
package cgrammar

import (
	"fmt"
	"strings"

	"github.com/kendall/compix/internal/util"
)

// Epsilon is the reserved empty-production marker. Grammar files spell it
// with the two-character sentinel ''.
const Epsilon = "ε"

// EndOfInput is the lookahead terminal admitted at the end of every
// sentential form.
const EndOfInput = "$"

// Production is an ordered right-hand-side: a sequence of terminal and
// nonterminal symbol names. A production consisting of the single symbol
// Epsilon represents the empty production.
type Production []string

func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	if len(p) == 0 {
		return Epsilon
	}
	return strings.Join(p, " ")
}

// Rule is every production defined for one nonterminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Grammar is a set of Rules plus the terminal alphabet, with a designated
// start symbol (the first-defined LHS per the grammar file format).
type Grammar struct {
	rulesByName map[string]int
	rules       []Rule
	terminals   util.StringSet
	start       string
}

// New returns an empty Grammar ready to accept rules and terminals.
func New() *Grammar {
	return &Grammar{
		rulesByName: map[string]int{},
		terminals:   util.NewStringSet(),
	}
}

// StartSymbol returns the designated start nonterminal.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// AddTerm registers term as a known terminal of the grammar's alphabet.
func (g *Grammar) AddTerm(term string) {
	g.terminals.Add(term)
}

// IsTerminal reports whether sym is in the grammar's registered terminal
// alphabet. Classification is against this fixed alphabet, never inferred
// from casing of the input symbol alone once registered — though by
// convention terminal names are lowercase and nonterminal names are
// capitalized, matching how the grammar file and the lexer's token classes
// are both written in lowercase.
func (g *Grammar) IsTerminal(sym string) bool {
	if sym == EndOfInput {
		return true
	}
	return g.terminals.Has(sym)
}

// AddRule appends a production to nonterminal's rule, creating the rule
// (and setting the start symbol, if this is the first rule added) if
// necessary.
func (g *Grammar) AddRule(nonterminal string, prod Production) {
	idx, ok := g.rulesByName[nonterminal]
	if !ok {
		idx = len(g.rules)
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		g.rulesByName[nonterminal] = idx
		if g.start == "" {
			g.start = nonterminal
		}
	}
	g.rules[idx].Productions = append(g.rules[idx].Productions, prod)
}

// Rule returns the Rule for nonterminal, or the zero Rule if none is
// defined.
func (g *Grammar) Rule(nonterminal string) Rule {
	idx, ok := g.rulesByName[nonterminal]
	if !ok {
		return Rule{}
	}
	return g.rules[idx]
}

// NonTerminals returns every defined nonterminal, in definition order.
func (g *Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.NonTerminal
	}
	return names
}

// Terminals returns every registered terminal, sorted, followed by the end
// marker as the last element.
func (g *Grammar) Terminals() []string {
	terms := util.OrderedKeys(g.terminals)
	return append(terms, EndOfInput)
}

// FIRST computes FIRST(X) for a single symbol X (terminal, nonterminal, or
// Epsilon).
func (g *Grammar) FIRST(X string) util.StringSet {
	if X == Epsilon {
		return util.StringSet{Epsilon: true}
	}
	if g.IsTerminal(X) {
		return util.StringSet{X: true}
	}

	firsts := util.NewStringSet()
	rule := g.Rule(X)
	for _, prod := range rule.Productions {
		if len(prod) == 1 && prod[0] == Epsilon {
			firsts.Add(Epsilon)
			continue
		}
		allDeriveEpsilon := true
		for _, Y := range prod {
			firstY := g.FIRST(Y)
			for sym := range firstY {
				if sym != Epsilon {
					firsts.Add(sym)
				}
			}
			if !firstY.Has(Epsilon) {
				allDeriveEpsilon = false
				break
			}
		}
		if allDeriveEpsilon {
			firsts.Add(Epsilon)
		}
	}
	return firsts
}

// firstOfSequence computes FIRST(Y1 Y2 ... Yn) for a production's remaining
// symbols, used when deriving FOLLOW sets.
func (g *Grammar) firstOfSequence(syms []string) util.StringSet {
	if len(syms) == 0 {
		return util.StringSet{Epsilon: true}
	}
	firsts := util.NewStringSet()
	for _, Y := range syms {
		firstY := g.FIRST(Y)
		for sym := range firstY {
			if sym != Epsilon {
				firsts.Add(sym)
			}
		}
		if !firstY.Has(Epsilon) {
			return firsts
		}
	}
	firsts.Add(Epsilon)
	return firsts
}

// FOLLOW computes FOLLOW(A) by running the fixed-point iteration over every
// nonterminal in the grammar and returning A's set. Every production B ->
// αAβ contributes FIRST(β)\{ε} to FOLLOW(A), and FOLLOW(B) itself if β is
// empty or nullable; the whole system is iterated to a fixed point since a
// nonterminal's FOLLOW set can depend on another's.
func (g *Grammar) FOLLOW(A string) util.StringSet {
	return g.followAll()[A]
}

func (g *Grammar) followAll() map[string]util.StringSet {
	follow := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		follow[nt] = util.NewStringSet()
	}
	follow[g.start].Add(EndOfInput)

	for {
		changed := false
		for _, rule := range g.rules {
			for _, prod := range rule.Productions {
				for i, sym := range prod {
					if g.IsTerminal(sym) || sym == Epsilon {
						continue
					}
					beta := prod[i+1:]
					firstBeta := g.firstOfSequence(beta)
					for t := range firstBeta {
						if t != Epsilon && !follow[sym].Has(t) {
							follow[sym].Add(t)
							changed = true
						}
					}
					if firstBeta.Has(Epsilon) {
						for t := range follow[rule.NonTerminal] {
							if !follow[sym].Has(t) {
								follow[sym].Add(t)
								changed = true
							}
						}
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return follow
}

// IsLL1 reports whether, for every pair of distinct productions of the same
// nonterminal, FIRST sets are disjoint and any ε-deriving alternative's
// FIRST/FOLLOW overlap is ruled out. Grounded on Purple Dragon Book's
// characterization of LL(1) grammars.
func (g *Grammar) IsLL1() bool {
	for _, A := range g.NonTerminals() {
		rule := g.Rule(A)
		followA := g.FOLLOW(A)
		for i := range rule.Productions {
			for j := i + 1; j < len(rule.Productions); j++ {
				firstI := g.firstOfSequence(rule.Productions[i])
				firstJ := g.firstOfSequence(rule.Productions[j])
				if !disjointIgnoringEpsilon(firstI, firstJ) {
					return false
				}
				if firstI.Has(Epsilon) && !disjointIgnoringEpsilon(followA, firstJ) {
					return false
				}
				if firstJ.Has(Epsilon) && !disjointIgnoringEpsilon(followA, firstI) {
					return false
				}
			}
		}
	}
	return true
}

// disjointIgnoringEpsilon wraps util.StringSet.DisjointWith: FOLLOW sets
// never contain Epsilon, but a FIRST set can, and Epsilon overlap alone
// does not make a grammar non-LL(1).
func disjointIgnoringEpsilon(a, b util.StringSet) bool {
	withoutEpsilon := util.NewStringSet()
	for k := range a {
		if k != Epsilon {
			withoutEpsilon.Add(k)
		}
	}
	return withoutEpsilon.DisjointWith(b)
}

// Table is the LL(1) parsing table: (nonterminal, terminal) -> production.
// Absent entries (Get returning ok=false) indicate a parse error.
type Table struct {
	m     util.Matrix2[string, string, Production]
	conflicts []string
}

// Get looks up the table entry for (nonterminal, terminal).
func (t *Table) Get(nonterminal, terminal string) (Production, bool) {
	v := t.m.Get(nonterminal, terminal)
	if v == nil {
		return nil, false
	}
	return *v, true
}

func (t *Table) set(nonterminal, terminal string, prod Production) {
	if existing := t.m.Get(nonterminal, terminal); existing != nil && !existing.Equal(prod) {
		t.conflicts = append(t.conflicts, fmt.Sprintf("M[%s, %s] has conflicting productions %q and %q", nonterminal, terminal, existing.String(), prod.String()))
		return
	}
	t.m.Set(nonterminal, terminal, prod)
}

// NonTerminals returns the nonterminal rows present in the table.
func (t *Table) NonTerminals() []string {
	return util.OrderedKeys(t.m)
}

// LLParseTable builds the LL(1) parsing table for the grammar (Purple
// Dragon Book Algorithm 4.31). Returns an error listing every conflicting
// cell if the grammar is not LL(1).
func (g *Grammar) LLParseTable() (*Table, error) {
	table := &Table{m: util.NewMatrix2[string, string, Production]()}

	for _, A := range g.NonTerminals() {
		rule := g.Rule(A)
		for _, alpha := range rule.Productions {
			firstAlpha := g.firstOfSequence(alpha)
			for a := range firstAlpha {
				if a != Epsilon {
					table.set(A, a, alpha)
				}
			}
			if firstAlpha[Epsilon] {
				for b := range g.FOLLOW(A) {
					table.set(A, b, alpha)
				}
			}
		}
	}

	if len(table.conflicts) > 0 {
		return table, fmt.Errorf("grammar is not LL(1): %s", util.MakeTextList(table.conflicts))
	}
	return table, nil
}
