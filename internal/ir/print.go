package ir

import (
	"fmt"
	"io"
)

// Print writes the canonical textual form of prog to w: one procedure per
// section, one block per paragraph, one instruction per line (spec.md §6
// "IR printer").
func Print(w io.Writer, prog *Program) {
	for _, proc := range prog.Procedures {
		fmt.Fprintf(w, "proc %s:\n", proc.Name)
		for _, b := range proc.Blocks {
			fmt.Fprintf(w, "  block%d:\n", b.Index)
			for _, i := range b.Instructions() {
				fmt.Fprintf(w, "    %s\n", i)
			}
		}
	}
}

// PrintDOT emits the CFG of prog in Graphviz DOT format: one subgraph per
// procedure, nodes labelled with block index and instructions, edges
// labelled with edge kind (spec.md §6 "CFG DOT").
func PrintDOT(w io.Writer, prog *Program) {
	fmt.Fprintln(w, "digraph CFG {")
	for pi, proc := range prog.Procedures {
		fmt.Fprintf(w, "  subgraph cluster_%d {\n", pi)
		fmt.Fprintf(w, "    label=%q;\n", proc.Name)
		for _, b := range proc.Blocks {
			nodeID := fmt.Sprintf("p%d_b%d", pi, b.Index)
			label := fmt.Sprintf("block%d", b.Index)
			for _, i := range b.Instructions() {
				label += "\\n" + i.String()
			}
			fmt.Fprintf(w, "    %s [shape=box label=%q];\n", nodeID, label)
		}
		for _, b := range proc.Blocks {
			from := fmt.Sprintf("p%d_b%d", pi, b.Index)
			for _, e := range b.Succs {
				to := fmt.Sprintf("p%d_b%d", pi, e.To.Index)
				fmt.Fprintf(w, "    %s -> %s [label=%q];\n", from, to, e.Kind)
			}
		}
		fmt.Fprintln(w, "  }")
	}
	fmt.Fprintln(w, "}")
}
