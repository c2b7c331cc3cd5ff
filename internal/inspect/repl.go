// Package inspect implements the interactive inspection shell started by
// cmd/compix --interactive: a readline-driven loop that lets a user replay
// a compiled program's tokens, parse tree, symbol table, or assembly
// output without recompiling from the CLI flags.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/kendall/compix"
	"github.com/kendall/compix/internal/csymbols"
	"github.com/kendall/compix/internal/input"
)

// Run starts the inspection shell over an already-compiled result. It
// blocks until the user types "quit" or sends EOF.
func Run(res compix.Result, out io.Writer) error {
	reader, err := input.NewInteractiveReader()
	if err != nil {
		return fmt.Errorf("open interactive reader: %w", err)
	}
	defer reader.Close()
	reader.AllowBlank(true)

	fmt.Fprintln(out, "compix interactive inspector. Commands: tokens, tree, symbols, asm, diags, quit")
	for {
		line, err := reader.ReadCommand()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "tokens":
			for _, tok := range res.Tokens {
				fmt.Fprintln(out, tok.String())
			}
		case "tree":
			if res.Tree != nil {
				fmt.Fprint(out, res.Tree.String())
			}
		case "symbols":
			if res.Symbols != nil {
				fmt.Fprint(out, csymbols.String(res.Symbols))
			}
		case "asm":
			fmt.Fprint(out, res.Assembly)
		case "diags":
			for _, d := range res.Diags {
				fmt.Fprintln(out, d.FullMessage())
			}
		case "quit", "exit":
			return nil
		case "":
			// ignore blank lines
		default:
			fmt.Fprintf(out, "unknown command %q\n", line)
		}
	}
}
