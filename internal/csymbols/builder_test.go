package csymbols

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/clex"
	"github.com/kendall/compix/internal/cparse"
)

func parseSource(t *testing.T, src string) *cparse.Tree {
	t.Helper()
	f, err := os.Open("../../testdata/grammar.txt")
	require.NoError(t, err)
	defer f.Close()

	g, diags := cgrammar.LoadFile(f)
	require.Empty(t, diags)

	table, err := g.LLParseTable()
	require.NoError(t, err)

	toks, lexDiags := clex.Lex(src)
	require.Empty(t, lexDiags)

	tree, parseDiags := cparse.Parse(g, table, toks)
	require.Empty(t, parseDiags)
	return tree
}

func Test_Build_scenarioA_mainOnly(t *testing.T) {
	tree := parseSource(t, `fn main() int { return 0; }`)
	global, diags := Build(tree)
	assert.Empty(t, diags)

	main, ok := global.Lookup("main")
	require.True(t, ok)
	assert.Equal(t, KindFunction, main.Kind)
	assert.Equal(t, "int", main.ReturnType)
	assert.Empty(t, main.Params)

	_, ok = global.ChildByName("main")
	assert.True(t, ok)
}

func Test_Build_scenarioB_variableDeclaration(t *testing.T) {
	tree := parseSource(t, `fn main() int { x int = 3 + 4; return x; }`)
	global, diags := Build(tree)
	assert.Empty(t, diags)

	mainScope, ok := global.ChildByName("main")
	require.True(t, ok)

	x, ok := mainScope.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, KindVariable, x.Kind)
	assert.Equal(t, "int", x.Type)
}

func Test_Build_functionWithParameters(t *testing.T) {
	tree := parseSource(t, `fn f(n int) int { if (n <= 1) { return 1; } else { return n * f(n - 1); } } fn main() int { return f(5); }`)
	global, diags := Build(tree)
	assert.Empty(t, diags)

	f, ok := global.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, []Param{{Name: "n", Type: "int"}}, f.Params)
	assert.Equal(t, "int", f.ReturnType)

	fScope, ok := global.ChildByName("f")
	require.True(t, ok)
	n, ok := fScope.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, KindParameter, n.Kind)
}

func Test_Build_duplicateDeclarationIsDiagnostic(t *testing.T) {
	tree := parseSource(t, `fn main() int { x int = 1; x int = 2; return 0; }`)
	_, diags := Build(tree)
	assert.NotEmpty(t, diags)
}
