package cgrammar

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kendall/compix/internal/util"
)

// WriteCSV serializes the LL(1) table per the external interface format:
// header row is an empty cell followed by the terminal alphabet (with $
// last); each subsequent row begins with a nonterminal name followed by,
// for each terminal column, either an empty cell (no entry) or the
// production's symbols separated by spaces, using "e" for ε.
func WriteCSV(w io.Writer, g *Grammar, t *Table) error {
	cw := csv.NewWriter(w)

	terms := g.Terminals()
	header := append([]string{""}, terms...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, nt := range g.NonTerminals() {
		row := make([]string, 0, len(terms)+1)
		row = append(row, nt)
		for _, term := range terms {
			prod, ok := t.Get(nt, term)
			if !ok {
				row = append(row, "")
				continue
			}
			if len(prod) == 1 && prod[0] == Epsilon {
				row = append(row, "e")
				continue
			}
			row = append(row, strings.Join(prod, " "))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table file written by WriteCSV back into a Table bound
// to the terminal/nonterminal names found in the header and first column.
func ReadCSV(r io.Reader) (*Table, []string, []string, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil, fmt.Errorf("empty table file")
	}

	terms := records[0][1:]
	var nts []string
	table := &Table{m: util.NewMatrix2[string, string, Production]()}

	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		nt := row[0]
		nts = append(nts, nt)
		for i, cell := range row[1:] {
			if i >= len(terms) {
				break
			}
			if cell == "" {
				continue
			}
			var prod Production
			if cell == "e" {
				prod = Production{Epsilon}
			} else {
				prod = strings.Fields(cell)
			}
			table.set(nt, terms[i], prod)
		}
	}

	return table, nts, terms, nil
}
