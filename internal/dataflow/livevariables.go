package dataflow

import (
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
)

type varSet map[*symtab.Symbol]bool

func cloneVarSet(s varSet) varSet {
	out := make(varSet, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func varSetsEqual(a, b varSet) bool {
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

// LiveVariables computes, for each block, the set of symbols whose
// currently-held value may still be read along some path forward from the
// block's entry (spec.md §4.6 "Live variables... Classical backward...
// liveness-style analyses"). Live variables is a genuinely *backward*
// analysis — live-out folds from successors, not predecessors — whereas
// dataflow.Driver's shared fixpoint loop is wired strictly forward (it
// calls InFrom once per entry in b.Preds; see dataflow.go). Rather than
// force a backward analysis through a forward-only driver, LiveVariables
// runs its own small fixpoint directly over proc.Blocks, walking each
// block's instructions tail-to-head and folding state from b.Succs; see
// DESIGN.md for why this one analysis does not implement the shared
// Analysis interface.
type LiveVariables struct {
	ins  map[*ir.Block]varSet
	outs map[*ir.Block]varSet
}

// NewLiveVariables creates an empty LiveVariables analysis.
func NewLiveVariables() *LiveVariables {
	return &LiveVariables{ins: make(map[*ir.Block]varSet), outs: make(map[*ir.Block]varSet)}
}

// Run drives the analysis to a fixpoint over every procedure of prog.
func (l *LiveVariables) Run(prog *ir.Program) {
	for _, proc := range prog.Procedures {
		order := reversePostorder(proc)
		changed := true
		for changed {
			changed = false
			for i := len(order) - 1; i >= 0; i-- {
				if l.stepBlock(order[i]) {
					changed = true
				}
			}
		}
	}
}

// stepBlock recomputes b's in/out sets from its successors' current
// in-sets and reports whether b's in-set changed.
func (l *LiveVariables) stepBlock(b *ir.Block) bool {
	out := make(varSet)
	for _, succ := range b.Succs {
		for sym := range l.ins[succ.To] {
			out[sym] = true
		}
	}
	l.outs[b] = out

	in := cloneVarSet(out)
	instrs := b.Instructions()
	for i := len(instrs) - 1; i >= 0; i-- {
		imop := instrs[i]
		if imop.Dest != nil {
			delete(in, imop.Dest)
		}
		for _, a := range imop.Args {
			if a != nil && a.Category != symtab.CatConstant {
				in[a] = true
			}
		}
	}

	old := l.ins[b]
	l.ins[b] = in
	return !varSetsEqual(old, in)
}

// At returns the set of symbols live at b's entry, for callers (tests,
// "-a lv") that want to inspect the result directly.
func (l *LiveVariables) At(b *ir.Block) []*symtab.Symbol {
	out := make([]*symtab.Symbol, 0, len(l.ins[b]))
	for sym := range l.ins[b] {
		out = append(out, sym)
	}
	return out
}
