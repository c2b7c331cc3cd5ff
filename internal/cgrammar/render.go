package cgrammar

import "github.com/dekarrin/rosed"

// String renders the table as a bordered grid, nonterminals down the rows
// and terminals across the columns, for human inspection. The CLI's
// --interactive shell has no command that prints it.
func (t *Table) String(g *Grammar) string {
	terms := g.Terminals()
	nts := t.NonTerminals()

	data := make([][]string, 0, len(nts)+1)
	header := append([]string{""}, terms...)
	data = append(data, header)

	for _, nt := range nts {
		row := make([]string, 0, len(terms)+1)
		row = append(row, nt)
		for _, term := range terms {
			prod, ok := t.Get(nt, term)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, prod.String())
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{TableBorders: true}).
		String()
}
