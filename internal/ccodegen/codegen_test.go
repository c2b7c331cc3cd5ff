package ccodegen

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/clex"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
	"github.com/kendall/compix/internal/ctypecheck"
)

func compile(t *testing.T, src string) string {
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

	res := ctypecheck.Check(tree, global)
	require.Empty(t, res.Diags)

	return Generate(tree, global, res.Types)
}

func Test_Generate_scenarioA_helloMain(t *testing.T) {
	asm := compile(t, `fn main() int { return 0; }`)
	assert.Contains(t, asm, "main:")
	assert.Contains(t, asm, "li $v0, 10")
	assert.Contains(t, asm, "syscall")
}

func Test_Generate_scenarioB_variableDeclaration(t *testing.T) {
	asm := compile(t, `fn main() int { x int = 3 + 4; return x; }`)
	assert.Contains(t, asm, "add $t")
	assert.Contains(t, asm, "sw $t")
}

func Test_Generate_ifElseEmitsMatchedLabelPair(t *testing.T) {
	asm := compile(t, `fn main() int { if (1 == 1) { return 1; } else { return 0; } }`)
	assert.Contains(t, asm, "else1:")
	assert.Contains(t, asm, "endif1:")
}

func Test_Generate_whileEmitsMatchedLabelPair(t *testing.T) {
	asm := compile(t, `fn main() int { x int = 0; while (x < 3) { x = x + 1; } return x; }`)
	assert.Contains(t, asm, "while_start1:")
	assert.Contains(t, asm, "while_end1:")
}

func Test_Generate_recursiveCallEmitsJalAndEpilogue(t *testing.T) {
	asm := compile(t, `fn f(n int) int { if (n <= 1) { return 1; } else { return n * f(n - 1); } } fn main() int { return f(5); }`)
	assert.Contains(t, asm, "jal f")
	assert.Contains(t, asm, "f:")
	assert.Contains(t, asm, "jr $ra")
}

func Test_Generate_parameterIsCopiedFromFixedCallerOffset(t *testing.T) {
	asm := compile(t, `fn f(n int) int { return n; } fn main() int { return f(5); }`)
	// f's only parameter must be pulled in from $fp+8, the fixed slot
	// emitCall's reverse-order pushes leave it at regardless of argc.
	assert.Contains(t, asm, "lw $t0, 8($fp)")
	assert.Contains(t, asm, "sw $t0, -4($fp)")
}

func Test_Generate_twoParameters_secondLandsAtFpPlus12(t *testing.T) {
	asm := compile(t, `fn add(a int, b int) int { return a + b; } fn main() int { return add(1, 2); }`)
	assert.Contains(t, asm, "lw $t0, 8($fp)")
	assert.Contains(t, asm, "sw $t0, -4($fp)")
	assert.Contains(t, asm, "lw $t1, 12($fp)")
	assert.Contains(t, asm, "sw $t1, -8($fp)")
}

func Test_Generate_showStringUsesSyscall4(t *testing.T) {
	asm := compile(t, `fn main() int { show("hi"); return 0; }`)
	assert.Contains(t, asm, "str1: .asciiz \"hi\"")
	assert.Contains(t, asm, "li $v0, 4")
}
