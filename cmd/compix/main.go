/*
Compix compiles a compix source file to MIPS32 assembly targeting the SPIM
simulator.

Usage:

	compix [flags] SOURCE_FILE

The flags are:

	-v, --version
		Give the current version of compix and then exit.

	-c, --config FILE
		Read settings from the given TOML config file. Defaults to
		"compix.toml" in the current working directory if present.

	-g, --grammar FILE
		Use the given grammar description file. Defaults to "grammar.txt".

	-o, --out FILE
		Write the generated assembly to the given file. Defaults to
		"out.asm"; "-" writes to stdout.

	--table FILE
		Write the built LL(1) parsing table as CSV to the given file.

	--emit-tokens
		Print the lexed token stream to stderr after compiling, ahead of
		any diagnostics.

	--emit-tree
		Print the parse tree to stderr after compiling, ahead of any
		diagnostics.

	--emit-symbols
		Write the symbol table as CSV to stderr after compiling, ahead of
		any diagnostics.

	-i, --interactive
		After compiling, open an interactive shell for inspecting the
		tokens, parse tree, symbol table, and assembly output.

Exit codes:

	0  success
	1  error initializing the frontend (grammar load or LL(1) table conflict)
	2  error compiling the source (lexical, syntax, semantic, or type error)
*/
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kendall/compix"
	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/csymbols"
	"github.com/kendall/compix/internal/inspect"
	"github.com/kendall/compix/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates a problem initializing the frontend: the
	// grammar file could not be loaded or its LL(1) table has conflicts.
	ExitInitError

	// ExitCompileError indicates the source itself failed to compile.
	ExitCompileError
)

var (
	returnCode    int
	flagVersion   = pflag.BoolP("version", "v", false, "Gives the version info")
	configFile    = pflag.StringP("config", "c", "compix.toml", "TOML config file to read default settings from")
	grammarFile   = pflag.StringP("grammar", "g", "", "Grammar description file (overrides the config file)")
	outFile       = pflag.StringP("out", "o", "", "Write assembly output to this file (\"-\" for stdout; overrides the config file)")
	tableFile     = pflag.String("table", "", "Write the LL(1) parsing table as CSV to this file")
	emitTokens    = pflag.Bool("emit-tokens", false, "Print the lexed token stream to stderr")
	emitTree      = pflag.Bool("emit-tree", false, "Print the parse tree to stderr")
	emitSymbols   = pflag.Bool("emit-symbols", false, "Write the symbol table as CSV to stderr")
	interactive   = pflag.BoolP("interactive", "i", false, "Open an interactive inspection shell after compiling")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := compix.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}
	if *grammarFile != "" {
		cfg.GrammarFile = *grammarFile
	}
	if *outFile != "" {
		cfg.OutFile = *outFile
	}
	if *emitTokens {
		cfg.EmitTokens = true
	}
	if *emitTree {
		cfg.EmitTree = true
	}
	if *emitSymbols {
		cfg.EmitSymbols = true
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: a source file is required")
		returnCode = ExitInitError
		return
	}
	sourcePath := pflag.Arg(0)

	fe, err := compix.NewFrontend(cfg.GrammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}

	if *tableFile != "" {
		if err := writeTableCSV(fe, *tableFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitInitError
			return
		}
	}

	sourceBytes, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}

	res, compileErr := fe.Compile(string(sourceBytes))

	if cfg.EmitTokens {
		for _, tok := range res.Tokens {
			fmt.Fprintln(os.Stderr, tok.String())
		}
	}
	if cfg.EmitTree && res.Tree != nil {
		fmt.Fprint(os.Stderr, res.Tree.String())
	}
	if cfg.EmitSymbols && res.Symbols != nil {
		cw := csv.NewWriter(os.Stderr)
		if err := cw.WriteAll(csymbols.CSVRows(res.Symbols)); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		}
	}
	for _, d := range res.Diags {
		fmt.Fprintln(os.Stderr, d.FullMessage())
	}

	if compileErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", compileErr)
		returnCode = ExitCompileError
		return
	}

	if cfg.OutFile == "" || cfg.OutFile == "-" {
		fmt.Print(res.Assembly)
	} else {
		if err := os.WriteFile(cfg.OutFile, []byte(res.Assembly), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitCompileError
			return
		}
	}

	if *interactive {
		if err := inspect.Run(res, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitCompileError
			return
		}
	}
}

func writeTableCSV(fe *compix.Frontend, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table file: %w", err)
	}
	defer f.Close()
	return cgrammar.WriteCSV(f, fe.Grammar, fe.Table)
}
