package cgrammar

import (
	"strings"
	"testing"

	"github.com/kendall/compix/internal/util"
	"github.com/stretchr/testify/assert"
)

func arithGrammar() *Grammar {
	// classic non-left-recursive expression grammar, already LL(1).
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
	g, diags := LoadFile(strings.NewReader(src))
	if len(diags) > 0 {
		panic(diags.Error())
	}
	return g
}

func Test_FIRST(t *testing.T) {
	g := arithGrammar()

	assert.Equal(t, util.StringSet{"(": true, "id": true}, g.FIRST("F"))
	assert.Equal(t, util.StringSet{"(": true, "id": true}, g.FIRST("T"))
	assert.Equal(t, util.StringSet{"(": true, "id": true}, g.FIRST("E"))
	assert.Equal(t, util.StringSet{"+": true, Epsilon: true}, g.FIRST("EP"))
	assert.Equal(t, util.StringSet{"*": true, Epsilon: true}, g.FIRST("TP"))
}

func Test_FOLLOW(t *testing.T) {
	g := arithGrammar()

	assert.Equal(t, util.StringSet{"$": true, ")": true}, g.FOLLOW("E"))
	assert.Equal(t, util.StringSet{"$": true, ")": true}, g.FOLLOW("EP"))
	assert.Equal(t, util.StringSet{"+": true, "$": true, ")": true}, g.FOLLOW("T"))
	assert.Equal(t, util.StringSet{"+": true, "$": true, ")": true}, g.FOLLOW("TP"))
	assert.Equal(t, util.StringSet{"+": true, "*": true, "$": true, ")": true}, g.FOLLOW("F"))
}

func Test_IsLL1(t *testing.T) {
	assert.True(t, arithGrammar().IsLL1())
}

func Test_LLParseTable_noConflicts(t *testing.T) {
	g := arithGrammar()
	table, err := g.LLParseTable()
	assert.NoError(t, err)

	prod, ok := table.Get("E", "id")
	assert.True(t, ok)
	assert.Equal(t, Production{"T", "EP"}, prod)

	prod, ok = table.Get("EP", ")")
	assert.True(t, ok)
	assert.Equal(t, Production{Epsilon}, prod)

	_, ok = table.Get("EP", "id")
	assert.False(t, ok)
}

func Test_LLParseTable_conflictIsError(t *testing.T) {
	src := strings.Join([]string{
		"S -> id",
		"S -> id id",
	}, "\n")
	g, diags := LoadFile(strings.NewReader(src))
	assert.Empty(t, diags)

	_, err := g.LLParseTable()
	assert.Error(t, err)
}

func Test_LoadFile_skipsCommentsAndBlankLines(t *testing.T) {
	src := "# comment\n\nS -> id\n"
	g, diags := LoadFile(strings.NewReader(src))
	assert.Empty(t, diags)
	assert.Equal(t, "S", g.StartSymbol())
}

func Test_LoadFile_acceptsArrowSynonymAndEpsilon(t *testing.T) {
	src := "S ::= A\nA -> ''\n"
	g, diags := LoadFile(strings.NewReader(src))
	assert.Empty(t, diags)
	rule := g.Rule("A")
	assert.Equal(t, Production{Epsilon}, rule.Productions[0])
}

func Test_WriteCSV_and_ReadCSV_roundTrip(t *testing.T) {
	g := arithGrammar()
	table, err := g.LLParseTable()
	assert.NoError(t, err)

	var buf strings.Builder
	assert.NoError(t, WriteCSV(&buf, g, table))

	reread, _, _, err := ReadCSV(strings.NewReader(buf.String()))
	assert.NoError(t, err)

	prod, ok := reread.Get("E", "id")
	assert.True(t, ok)
	assert.Equal(t, Production{"T", "EP"}, prod)
}
