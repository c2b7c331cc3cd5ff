package compix

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Frontend_Compile_scenarioA_helloMain(t *testing.T) {
	fe, err := NewFrontend("testdata/grammar.txt")
	require.NoError(t, err)

	res, err := fe.Compile(`fn main() int { return 0; }`)
	require.NoError(t, err)
	assert.Empty(t, res.Diags)
	assert.NotNil(t, res.Tree)
	assert.NotNil(t, res.Symbols)
	assert.Contains(t, res.Assembly, "main:")
	assert.Contains(t, res.Assembly, "li $v0, 10")
}

func Test_Frontend_Compile_scenarioE_typeErrorStopsBeforeCodegen(t *testing.T) {
	fe, err := NewFrontend("testdata/grammar.txt")
	require.NoError(t, err)

	res, err := fe.Compile(`fn main() int { x int = "hi" + 3; return 0; }`)
	require.Error(t, err)
	assert.True(t, res.Diags.HasErrors())
	assert.Empty(t, res.Assembly)
}

func Test_Frontend_Compile_recursiveFunction(t *testing.T) {
	fe, err := NewFrontend("testdata/grammar.txt")
	require.NoError(t, err)

	res, err := fe.Compile(`fn f(n int) int { if (n <= 1) { return 1; } else { return n * f(n - 1); } } fn main() int { return f(5); }`)
	require.NoError(t, err)
	assert.Contains(t, res.Assembly, "jal f")
}

func Test_Frontend_Compile_fixtures(t *testing.T) {
	fe, err := NewFrontend("testdata/grammar.txt")
	require.NoError(t, err)

	fixtures := []string{"hello.compix", "arithmetic.compix", "branching.compix", "recursion.compix", "loop.compix"}
	for _, name := range fixtures {
		name := name
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile("testdata/" + name)
			require.NoError(t, err)
			res, err := fe.Compile(string(src))
			require.NoError(t, err, "diagnostics: %v", res.Diags)
			assert.NotEmpty(t, res.Assembly)
		})
	}
}
