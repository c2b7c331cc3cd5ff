package clex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lex_classSequence(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "empty", input: "", expect: []string{"$"}},
		{name: "hello world", input: `fn main() int { show("hello"); return 0; }`, expect: []string{
			"fn", "main", "(", ")", "int", "{", "show", "(", "strlit", ")", ";", "return", "intlit", ";", "}", "$",
		}},
		{name: "two char ops", input: "a == b != c <= d >= e && f || g", expect: []string{
			"id", "==", "id", "!=", "id", "<=", "id", ">=", "id", "&&", "id", "||", "id", "$",
		}},
		{name: "float literal", input: "3.14", expect: []string{"floatlit", "$"}},
		{name: "line comment skipped", input: "1 // comment\n2", expect: []string{"intlit", "intlit", "$"}},
		{name: "block comment skipped", input: "1 /* c\nc */ 2", expect: []string{"intlit", "intlit", "$"}},
		{name: "bool literals", input: "true false", expect: []string{"true", "false", "$"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, diags := Lex(tc.input)
			assert := assert.New(t)
			assert.Empty(diags)

			got := make([]string, len(toks))
			for i, tok := range toks {
				got[i] = tok.Class
			}
			assert.Equal(tc.expect, got)
		})
	}
}

func Test_Lex_unterminatedStringHalts(t *testing.T) {
	_, diags := Lex(`"unterminated`)
	assert.NotEmpty(t, diags)
	assert.True(t, diags.HasErrors())
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 1, diags[0].Col, "must report at the opening quote, not end-of-input")
}

func Test_Lex_unterminatedStringOnLaterLineReportsOpeningQuote(t *testing.T) {
	_, diags := Lex("x\ny = \"unterminated")
	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 5, diags[0].Col)
}

func Test_Lex_unknownCharacterSkipsOne(t *testing.T) {
	toks, diags := Lex("1 @ 2")
	assert.NotEmpty(t, diags)

	got := make([]string, len(toks))
	for i, tok := range toks {
		got[i] = tok.Class
	}
	assert.Equal(t, []string{"intlit", "intlit", "$"}, got)
}

func Test_Lex_positionsAreNonDecreasing(t *testing.T) {
	toks, _ := Lex("fn main() int {\n  x int = 1 + 2;\n}")
	lastLine, lastCol := 0, 0
	for _, tok := range toks {
		if tok.Kind == KindEndOfInput {
			continue
		}
		assert.True(t, tok.Line > lastLine || (tok.Line == lastLine && tok.Col >= lastCol))
		lastLine, lastCol = tok.Line, tok.Col
	}
}
