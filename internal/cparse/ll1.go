package cparse

import (
	"github.com/kendall/compix/internal/cdiag"
	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/clex"
	"github.com/kendall/compix/internal/util"
)

// stackSym pairs a grammar symbol with the tree node that was pushed for it,
// so the driver can bind a terminal's matched token onto the right node and
// attach a nonterminal's children to the right parent.
type stackSym struct {
	symbol string
	node   *Tree
}

// Parse runs the standard explicit-stack LL(1) algorithm against table,
// using g only to classify a right-hand-side symbol as terminal or
// nonterminal (never the current input). It returns the root of the
// constructed parse tree; on failure the partially-built tree is returned
// alongside a diagnostic describing the first mismatch.
func Parse(g *cgrammar.Grammar, table *cgrammar.Table, tokens []clex.Token) (*Tree, cdiag.List) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != clex.KindEndOfInput {
		tokens = append(tokens, clex.EndOfInput)
	}

	seq := 0
	node := func(symbol string) *Tree {
		seq++
		return newNode(symbol, seq)
	}

	root := node(g.StartSymbol())

	stack := util.Stack[stackSym]{}
	stack.Push(stackSym{symbol: cgrammar.EndOfInput})
	stack.Push(stackSym{symbol: g.StartSymbol(), node: root})

	i := 0
	next := tokens[i]

	for {
		top := stack.Peek()
		if top.symbol == cgrammar.EndOfInput {
			break
		}

		if g.IsTerminal(top.symbol) {
			if matchesTerminal(top.symbol, next) {
				stack.Pop()
				top.node.Terminal = true
				tok := next
				top.node.Token = &tok
				if i < len(tokens)-1 {
					i++
				}
				next = tokens[i]
				continue
			}
			return root, cdiag.List{cdiag.New(cdiag.Syntax, next.Line, next.Col, next.FullLine,
				"expected %q, found %q", top.symbol, next.Class)}
		}

		// nonterminal
		prod, ok := table.Get(top.symbol, terminalFor(next))
		if !ok {
			return root, cdiag.List{cdiag.New(cdiag.Syntax, next.Line, next.Col, next.FullLine,
				"unexpected %q while parsing %s", next.Class, top.symbol)}
		}

		stack.Pop()
		if len(prod) == 1 && prod[0] == cgrammar.Epsilon {
			eps := node(cgrammar.Epsilon)
			eps.Terminal = true
			top.node.addChild(eps)
			continue
		}

		children := make([]*Tree, len(prod))
		for k, sym := range prod {
			child := node(sym)
			top.node.addChild(child)
			children[k] = child
		}
		for k := len(prod) - 1; k >= 0; k-- {
			stack.Push(stackSym{symbol: prod[k], node: children[k]})
		}
	}

	if next.Kind != clex.KindEndOfInput {
		return root, cdiag.List{cdiag.New(cdiag.Syntax, next.Line, next.Col, next.FullLine,
			"unexpected trailing input %q", next.Class)}
	}

	return root, nil
}

func matchesTerminal(symbol string, tok clex.Token) bool {
	return symbol == terminalFor(tok)
}

// terminalFor returns the grammar terminal name a lexed token corresponds
// to: its class name, or "$" for the synthetic end-of-input token.
func terminalFor(tok clex.Token) string {
	if tok.Kind == clex.KindEndOfInput {
		return cgrammar.EndOfInput
	}
	return tok.Class
}
