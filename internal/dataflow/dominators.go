package dataflow

import "github.com/andaur/scc/internal/ir"

// Dominators computes, for each reachable block, its immediate dominator by
// the Cooper-Harvey-Kennedy iterated intersect-by-DFN algorithm (spec.md
// §4.6 "Dominators"). Grounded on original_source's
// analysis/Dominators.{h,cpp}: start seeds each procedure's entry as its own
// idom, inFrom intersects the already-processed predecessors by walking
// their current idom guesses, finishBlock
// commits the result and reports whether it changed.
type Dominators struct {
	dfn     map[*ir.Block]int
	idoms   map[*ir.Block]*ir.Block
	newIdom *ir.Block
}

// NewDominators creates an empty Dominators analysis.
func NewDominators() *Dominators {
	return &Dominators{dfn: make(map[*ir.Block]int), idoms: make(map[*ir.Block]*ir.Block)}
}

func (d *Dominators) Start(prog *ir.Program) {
	n := 0
	for _, proc := range prog.Procedures {
		for _, b := range reversePostorder(proc) {
			if _, ok := d.dfn[b]; !ok {
				d.dfn[b] = n
				n++
			}
		}
		if proc.Entry != nil {
			d.idoms[proc.Entry] = proc.Entry
		}
	}
}

func (d *Dominators) StartBlock(b *ir.Block) { d.newIdom = nil }

func (d *Dominators) intersect(b1, b2 *ir.Block) *ir.Block {
	for b1 != b2 {
		for d.dfn[b1] > d.dfn[b2] {
			b1 = d.idoms[b1]
			if b1 == nil {
				return b2
			}
		}
		for d.dfn[b2] > d.dfn[b1] {
			b2 = d.idoms[b2]
			if b2 == nil {
				return b1
			}
		}
	}
	return b1
}

func (d *Dominators) InFrom(pred *ir.Block, kind ir.EdgeKind, b *ir.Block) {
	if _, ok := d.idoms[pred]; !ok {
		return
	}
	if d.newIdom == nil {
		d.newIdom = pred
	} else {
		d.newIdom = d.intersect(d.newIdom, pred)
	}
}

func (d *Dominators) FinishBlock(b *ir.Block) bool {
	if d.newIdom == nil {
		return false
	}
	if d.idoms[b] != d.newIdom {
		d.idoms[b] = d.newIdom
		return true
	}
	return false
}

func (d *Dominators) Finish() {}

// Idom returns b's immediate dominator, or nil if b was never reached.
func (d *Dominators) Idom(b *ir.Block) *ir.Block { return d.idoms[b] }

// Chain returns block, its idom, its idom's idom, ... up to (and including)
// the procedure's own entry block.
func (d *Dominators) Chain(block *ir.Block) []*ir.Block {
	var out []*ir.Block
	for {
		out = append(out, block)
		next := d.idoms[block]
		if next == nil || next == block {
			break
		}
		block = next
	}
	return out
}
