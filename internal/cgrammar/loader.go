package cgrammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kendall/compix/internal/cdiag"
)

// LoadFile reads a grammar text file: one production per line, of the form
// "LHS -> s1 s2 ... sk" (both "->" and "::=" accepted as the arrow). Lines
// starting with # and blank lines are skipped. "''" denotes the empty
// production. The first LHS encountered becomes the start symbol.
func LoadFile(r io.Reader) (*Grammar, cdiag.List) {
	g := New()
	var diags cdiag.List

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		lhs, rhsSymbols, err := parseLine(trimmed)
		if err != nil {
			diags = append(diags, cdiag.New(cdiag.GrammarLoad, lineNo, 1, line, "%s", err.Error()))
			continue
		}

		for _, sym := range rhsSymbols {
			if sym == Epsilon {
				continue
			}
			if isLowerSymbol(sym) {
				g.AddTerm(sym)
			}
		}
		g.AddRule(lhs, rhsSymbols)
	}

	return g, diags
}

// parseLine splits "LHS -> s1 s2 | s3" style text (here always a single
// alternative per line; callers wanting "A -> X | Y" shorthand should write
// one line per alternative) into its LHS and RHS symbol list.
func parseLine(line string) (string, Production, error) {
	arrow := "->"
	idx := strings.Index(line, arrow)
	if idx < 0 {
		arrow = "::="
		idx = strings.Index(line, arrow)
	}
	if idx < 0 {
		return "", nil, fmt.Errorf("expected '->' or '::=' in grammar line: %q", line)
	}

	lhs := strings.TrimSpace(line[:idx])
	rhs := strings.TrimSpace(line[idx+len(arrow):])
	if lhs == "" {
		return "", nil, fmt.Errorf("empty nonterminal in grammar line: %q", line)
	}

	if rhs == "''" {
		return lhs, Production{Epsilon}, nil
	}

	fields := strings.Fields(rhs)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("empty production in grammar line: %q", line)
	}
	prod := make(Production, 0, len(fields))
	for _, f := range fields {
		if f == "''" {
			prod = append(prod, Epsilon)
			continue
		}
		prod = append(prod, f)
	}
	return lhs, prod, nil
}

func isLowerSymbol(sym string) bool {
	return strings.ToLower(sym) == sym
}
