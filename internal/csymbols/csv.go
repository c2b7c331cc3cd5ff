package csymbols

import "strings"

// CSVRows builds the per-scope row data described by the symbol table
// serialization interface (name, category, type, scope name, parameter
// list, return type) as plain [][]string, leaving the actual file write to
// the CLI driver. The header row is included first.
func CSVRows(global *Scope) [][]string {
	rows := [][]string{{"name", "category", "type", "scope", "parameters", "return_type"}}
	var walk func(s *Scope)
	walk = func(s *Scope) {
		for _, sym := range s.Ordered() {
			rows = append(rows, symbolRow(sym, s.Name))
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(global)
	return rows
}

func symbolRow(sym Symbol, scopeName string) []string {
	switch sym.Kind {
	case KindFunction:
		params := make([]string, len(sym.Params))
		for i, p := range sym.Params {
			params[i] = p.Name + ":" + p.Type
		}
		return []string{sym.Name, sym.Kind.String(), "", scopeName, strings.Join(params, " "), sym.ReturnType}
	default:
		return []string{sym.Name, sym.Kind.String(), sym.Type, scopeName, "", ""}
	}
}
