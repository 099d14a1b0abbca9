// Package dataflow runs monotone analyses over a Program's procedures to a
// common fixpoint (spec.md §4.6): reaching definitions, live variables,
// dominators, and the constant-folding/constant-propagation lattice, plus the
// optimizer pass that exploits the latter. Grounded on original_source's
// analysis/ directory (Dominators.cpp/.h, ConstantFolding.cpp); the generic
// four-callback driver is new, expressing the architecture spec.md
// describes directly rather than any single retrieved file.
package dataflow

import "github.com/andaur/scc/internal/ir"

// Analysis is one monotone dataflow pass, driven to a fixpoint alongside
// any number of others by a Driver sharing the same block traversal
// (spec.md §4.6 "amortising CFG traversal").
type Analysis interface {
	// Start runs once before any block is visited.
	Start(prog *ir.Program)
	// StartBlock resets b's per-iteration state before folding in
	// predecessor state.
	StartBlock(b *ir.Block)
	// InFrom folds pred's out-state across the edge into b's in-state.
	InFrom(pred *ir.Block, kind ir.EdgeKind, b *ir.Block)
	// FinishBlock propagates b's in-state through its instructions,
	// updating its out-state; it reports whether the out-state changed
	// from the previous iteration.
	FinishBlock(b *ir.Block) bool
	// Finish runs once after the fixpoint is reached.
	Finish()
}

// Driver runs a set of Analyses to a common fixpoint over one Program.
type Driver struct {
	analyses []Analysis
}

// NewDriver creates a Driver running every given analysis together.
func NewDriver(analyses ...Analysis) *Driver {
	return &Driver{analyses: analyses}
}

// Run iterates prog's procedures' blocks in quasi-reverse-postorder until no
// analysis reports a change, per spec.md §4.6/§5 ("Dataflow iterates blocks
// in reverse-postorder inside each procedure").
func (d *Driver) Run(prog *ir.Program) {
	for _, a := range d.analyses {
		a.Start(prog)
	}

	for _, proc := range prog.Procedures {
		order := reversePostorder(proc)
		changed := true
		for changed {
			changed = false
			for _, b := range order {
				for _, a := range d.analyses {
					a.StartBlock(b)
					for _, pred := range b.Preds {
						a.InFrom(pred.To, pred.Kind, b)
					}
					if a.FinishBlock(b) {
						changed = true
					}
				}
			}
		}
	}

	for _, a := range d.analyses {
		a.Finish()
	}
}

// reversePostorder computes a DFS-based reverse-postorder block ordering
// rooted at proc.Entry, falling back to declaration order for blocks the DFS
// never reaches (unreachable code, still visited so its facts settle too).
func reversePostorder(proc *ir.Procedure) []*ir.Block {
	visited := make(map[*ir.Block]bool, len(proc.Blocks))
	var post []*ir.Block
	var visit func(b *ir.Block)
	visit = func(b *ir.Block) {
		if b == nil || visited[b] {
			return
		}
		visited[b] = true
		for _, e := range b.Succs {
			visit(e.To)
		}
		post = append(post, b)
	}
	visit(proc.Entry)
	for _, b := range proc.Blocks {
		visit(b)
	}

	out := make([]*ir.Block, len(post))
	for i, b := range post {
		out[len(post)-1-i] = b
	}
	return out
}
