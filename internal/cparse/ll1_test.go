package cparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/clex"
)

func arithGrammar(t *testing.T) (*cgrammar.Grammar, *cgrammar.Table) {
	src := strings.Join([]string{
		"E -> T EP",
		"EP -> + T EP",
		"EP -> ''",
		"T -> F TP",
		"TP -> * F TP",
		"TP -> ''",
		"F -> ( E )",
		"F -> id",
	}, "\n")
	g, diags := cgrammar.LoadFile(strings.NewReader(src))
	assert.Empty(t, diags)
	table, err := g.LLParseTable()
	assert.NoError(t, err)
	return g, table
}

func idTok(line, col int) clex.Token {
	return clex.Token{Class: "id", Kind: clex.KindIdent, Lexeme: "id", Line: line, Col: col}
}

func opTok(class string, line, col int) clex.Token {
	return clex.Token{Class: class, Kind: clex.KindOperator, Lexeme: class, Line: line, Col: col}
}

func Test_Parse_simpleSum(t *testing.T) {
	g, table := arithGrammar(t)
	toks := []clex.Token{idTok(1, 1), opTok("+", 1, 2), idTok(1, 3), clex.EndOfInput}

	tree, diags := Parse(g, table, toks)
	assert.Empty(t, diags)
	assert.Equal(t, "E", tree.Symbol)
	assert.False(t, tree.Terminal)
	assert.Nil(t, tree.Parent)

	// every child's parent back-link points to this node
	var walk func(n *Tree)
	walk = func(n *Tree) {
		for _, c := range n.Children {
			assert.Same(t, n, c.Parent)
			walk(c)
		}
	}
	walk(tree)
}

func Test_Parse_mismatchReportsExpectedVsFound(t *testing.T) {
	g, table := arithGrammar(t)
	toks := []clex.Token{opTok("+", 1, 1), clex.EndOfInput}

	_, diags := Parse(g, table, toks)
	assert.NotEmpty(t, diags)
}

func Test_Parse_parenthesizedExpression(t *testing.T) {
	g, table := arithGrammar(t)
	toks := []clex.Token{
		clex.Token{Class: "(", Kind: clex.KindPunct, Lexeme: "("},
		idTok(1, 2),
		clex.Token{Class: ")", Kind: clex.KindPunct, Lexeme: ")"},
		clex.EndOfInput,
	}

	tree, diags := Parse(g, table, toks)
	assert.Empty(t, diags)
	assert.Equal(t, "E", tree.Symbol)
}
