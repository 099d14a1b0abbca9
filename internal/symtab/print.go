package symtab

import (
	"fmt"
	"io"
	"sort"
)

// Print writes one line per symbol declared directly in s, sorted by name
// for deterministic output (spec.md §6 "--print-st"). It does not descend
// into nested scopes; a caller wanting the whole table prints each scope
// it holds a reference to.
func Print(w io.Writer, s *Scope) {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, sym := range s.symbols[name] {
			fmt.Fprintf(w, "%s %s", sym.Category, sym.Name)
			if sym.Type != nil {
				fmt.Fprintf(w, " : %s", sym.Type)
			}
			fmt.Fprintln(w)
		}
	}
}
