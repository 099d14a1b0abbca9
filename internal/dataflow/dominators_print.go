package dataflow

import (
	"fmt"
	"io"

	"github.com/andaur/scc/internal/ir"
)

// PrintDOT emits d's dominator tree over prog in Graphviz DOT format, one
// subgraph per procedure, an edge from each block to its immediate
// dominator (spec.md §6 "--print-dom"), mirroring internal/ir.PrintDOT's
// CFG emitter so both flags produce visually consistent graphs.
func (d *Dominators) PrintDOT(w io.Writer, prog *ir.Program) {
	fmt.Fprintln(w, "digraph Dominators {")
	for pi, proc := range prog.Procedures {
		fmt.Fprintf(w, "  subgraph cluster_%d {\n", pi)
		fmt.Fprintf(w, "    label=%q;\n", proc.Name)
		for _, b := range proc.Blocks {
			fmt.Fprintf(w, "    p%d_b%d [shape=box label=%q];\n", pi, b.Index, fmt.Sprintf("block%d", b.Index))
		}
		for _, b := range proc.Blocks {
			idom := d.Idom(b)
			if idom == nil || idom == b {
				continue
			}
			fmt.Fprintf(w, "    p%d_b%d -> p%d_b%d;\n", pi, b.Index, pi, idom.Index)
		}
		fmt.Fprintln(w, "  }")
	}
	fmt.Fprintln(w, "}")
}
