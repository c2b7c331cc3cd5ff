// Package compix is the top-level driver that strings the compiler's
// stages together: lex, load the LL(1) grammar, build its parsing table,
// parse, build the symbol table, type-check, and emit MIPS32 assembly.
package compix

import (
	"fmt"
	"os"

	"github.com/kendall/compix/internal/ccodegen"
	"github.com/kendall/compix/internal/cdiag"
	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/clex"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
	"github.com/kendall/compix/internal/ctypecheck"
)

// Result collects every artifact produced along the pipeline, so a caller
// (the CLI, or a test) can inspect any intermediate stage without
// re-running it.
type Result struct {
	Tokens   []clex.Token
	Tree     *cparse.Tree
	Symbols  *csymbols.Scope
	Types    *ctypecheck.Result
	Assembly string
	Diags    cdiag.List
}

// Frontend owns a loaded grammar and its precomputed LL(1) parsing table,
// so repeated calls to Compile don't redo grammar analysis for every
// source file.
type Frontend struct {
	Grammar *cgrammar.Grammar
	Table   *cgrammar.Table
}

// NewFrontend loads a grammar description from grammarPath and builds its
// LL(1) parsing table, failing if the grammar contains FIRST/FIRST or
// FIRST/FOLLOW conflicts.
func NewFrontend(grammarPath string) (*Frontend, error) {
	f, err := os.Open(grammarPath)
	if err != nil {
		return nil, fmt.Errorf("open grammar file: %w", err)
	}
	defer f.Close()

	g, diags := cgrammar.LoadFile(f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("load grammar: %w", diags)
	}

	table, err := g.LLParseTable()
	if err != nil {
		return nil, fmt.Errorf("build LL(1) parsing table: %w", err)
	}

	return &Frontend{Grammar: g, Table: table}, nil
}

// Compile runs source through every pipeline stage. It always returns as
// much of Result as it managed to build, so a caller can report tokens or
// a partial parse tree even when a later stage fails; Result.Diags
// accumulates every diagnostic raised along the way and the returned error
// is non-nil only for the first stage that couldn't proceed at all.
func (fe *Frontend) Compile(source string) (Result, error) {
	var res Result

	toks, lexDiags := clex.Lex(source)
	res.Tokens = toks
	res.Diags = append(res.Diags, lexDiags...)
	if lexDiags.HasErrors() {
		return res, fmt.Errorf("lex: %w", lexDiags)
	}

	tree, parseDiags := cparse.Parse(fe.Grammar, fe.Table, toks)
	res.Tree = tree
	res.Diags = append(res.Diags, parseDiags...)
	if parseDiags.HasErrors() {
		return res, fmt.Errorf("parse: %w", parseDiags)
	}

	scope, symDiags := csymbols.Build(tree)
	res.Symbols = scope
	res.Diags = append(res.Diags, symDiags...)
	if symDiags.HasErrors() {
		return res, fmt.Errorf("build symbol table: %w", symDiags)
	}

	typeRes := ctypecheck.Check(tree, scope)
	res.Types = &typeRes
	res.Diags = append(res.Diags, typeRes.Diags...)
	if typeRes.Diags.HasErrors() {
		return res, fmt.Errorf("type check: %w", typeRes.Diags)
	}

	res.Assembly = ccodegen.Generate(tree, scope, typeRes.Types)
	return res, nil
}
