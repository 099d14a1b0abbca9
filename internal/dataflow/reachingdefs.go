package dataflow

import (
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
)

// defSet is a set of instructions whose write to some symbol may still be
// visible at a program point.
type defSet map[*ir.Imop]bool

func cloneDefSet(s defSet) defSet {
	out := make(defSet, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func defSetsEqual(a, b defSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// ReachingDefinitions computes, for each block, the set of instructions
// whose write to a symbol may still reach the block's entry unshadowed by
// a later write along at least one path (spec.md §4.6 "Reaching definitions...
// Per-variable set of IR instructions that last wrote it"). It follows
// Dominators' Start/StartBlock/InFrom/FinishBlock/Finish shape, over sets
// of defining Imops rather than Dominators' single-idom-guess state:
// GEN(b) is each symbol's last write inside b, KILL(b) is every other
// reaching definition of a symbol b itself overwrites.
type ReachingDefinitions struct {
	ins  map[*ir.Block]defSet
	outs map[*ir.Block]defSet

	// defsOf indexes every Imop writing a given symbol anywhere in the
	// program, so FinishBlock can kill exactly the reaching defs of a
	// symbol the block overwrites without rescanning the whole program.
	defsOf map[*symtab.Symbol][]*ir.Imop
}

// NewReachingDefinitions creates an empty ReachingDefinitions analysis.
func NewReachingDefinitions() *ReachingDefinitions {
	return &ReachingDefinitions{
		ins:    make(map[*ir.Block]defSet),
		outs:   make(map[*ir.Block]defSet),
		defsOf: make(map[*symtab.Symbol][]*ir.Imop),
	}
}

func (r *ReachingDefinitions) Start(prog *ir.Program) {
	for _, proc := range prog.Procedures {
		for _, b := range proc.Blocks {
			for _, imop := range b.Instructions() {
				if imop.Dest != nil {
					r.defsOf[imop.Dest] = append(r.defsOf[imop.Dest], imop)
				}
			}
		}
	}
}

func (r *ReachingDefinitions) StartBlock(b *ir.Block) { r.ins[b] = make(defSet) }

func (r *ReachingDefinitions) InFrom(pred *ir.Block, kind ir.EdgeKind, b *ir.Block) {
	in := r.ins[b]
	for d := range r.outs[pred] {
		in[d] = true
	}
}

func (r *ReachingDefinitions) FinishBlock(b *ir.Block) bool {
	old := r.outs[b]
	out := cloneDefSet(r.ins[b])
	for _, imop := range b.Instructions() {
		if imop.Dest == nil {
			continue
		}
		for _, d := range r.defsOf[imop.Dest] {
			delete(out, d)
		}
		out[imop] = true
	}
	r.outs[b] = out
	return !defSetsEqual(old, out)
}

func (r *ReachingDefinitions) Finish() {}

// At returns the reaching definitions at b's entry, for callers (tests,
// "-a rd") that want to inspect the result directly.
func (r *ReachingDefinitions) At(b *ir.Block) []*ir.Imop {
	out := make([]*ir.Imop, 0, len(r.ins[b]))
	for d := range r.ins[b] {
		out = append(out, d)
	}
	return out
}
