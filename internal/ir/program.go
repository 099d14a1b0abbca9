package ir

import "github.com/andaur/scc/internal/symtab"

// Procedure is one procedure's CFG: an ordered vector of blocks (insertion
// order, spec.md §5 "Ordering guarantees") addressed by stable index.
type Procedure struct {
	// Symbol is the symbol-table entry this body belongs to. The pointer
	// runs ir -> symtab only: internal/ir imports internal/symtab and
	// symtab never imports ir, so the two packages form no import cycle.
	Symbol *symtab.ProcedureSymbol
	Name   string

	Blocks []*Block
	Entry  *Block
	Exit   *Block // epilogue block RETURN jumps target
}

// NewProcedure creates an empty procedure named name bound to sym.
func NewProcedure(name string, sym *symtab.ProcedureSymbol) *Procedure {
	return &Procedure{Symbol: sym, Name: name}
}

// NewBlock appends a fresh block to the procedure and returns it.
func (p *Procedure) NewBlock() *Block {
	b := newBlock()
	b.Index = len(p.Blocks)
	b.Proc = p
	p.Blocks = append(p.Blocks, b)
	return b
}

// Program is the whole compilation unit: every procedure across every
// module, in parse order (spec.md §5).
type Program struct {
	Procedures []*Procedure

	// ProcBySymbol maps a procedure symbol to its generated entry point,
	// the ir-side counterpart of the one-directional Symbol pointer above.
	ProcBySymbol map[*symtab.ProcedureSymbol]*Procedure
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{ProcBySymbol: make(map[*symtab.ProcedureSymbol]*Procedure)}
}

// AddProcedure appends proc to the program and indexes it by symbol.
func (p *Program) AddProcedure(proc *Procedure) {
	p.Procedures = append(p.Procedures, proc)
	if proc.Symbol != nil {
		p.ProcBySymbol[proc.Symbol] = proc
	}
}
