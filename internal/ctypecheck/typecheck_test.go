package ctypecheck

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/clex"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
)

func checkSource(t *testing.T, src string) Result {
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

	global, symDiags := csymbols.Build(tree)
	require.Empty(t, symDiags)

	return Check(tree, global)
}

func Test_Check_scenarioB_additionIsInt(t *testing.T) {
	res := checkSource(t, `fn main() int { x int = 3 + 4; return x; }`)
	assert.Empty(t, res.Diags)
}

func Test_Check_scenarioE_stringPlusIntIsError(t *testing.T) {
	res := checkSource(t, `fn main() int { x int = "hi" + 3; return 0; }`)
	assert.True(t, res.Diags.HasErrors())
}

func Test_Check_nonBoolGuardIsError(t *testing.T) {
	res := checkSource(t, `fn main() int { if (1) { return 0; } return 1; }`)
	assert.True(t, res.Diags.HasErrors())
}

func Test_Check_recursiveCallTypes(t *testing.T) {
	res := checkSource(t, `fn f(n int) int { if (n <= 1) { return 1; } else { return n * f(n - 1); } } fn main() int { return f(5); }`)
	assert.Empty(t, res.Diags)
}

func Test_Check_floatToIntNarrowsWithWarningNotError(t *testing.T) {
	res := checkSource(t, `fn main() int { x int = 1.5; return x; }`)
	assert.False(t, res.Diags.HasErrors())
	assert.NotEmpty(t, res.Diags)
}
