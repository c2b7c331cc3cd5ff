package csymbols

import "github.com/dekarrin/rosed"

// String renders the symbol table as a bordered grid, one row per symbol
// across every scope, for human inspection in the CLI's --interactive mode.
func String(global *Scope) string {
	return rosed.Edit("").
		InsertTableOpts(0, CSVRows(global), 100, rosed.Options{TableBorders: true}).
		String()
}
