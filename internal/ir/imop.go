package ir

import (
	"fmt"
	"strings"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/symtab"
)

// Imop is one three-address instruction: an opcode, an optional
// destination symbol, and an ordered operand list. It is held in exactly
// one Block's intrusive doubly-linked list at a time; Unlink detaches it
// (spec.md §4.6.2 "instruction replacement").
type Imop struct {
	Op       Opcode
	Dest     *symtab.Symbol
	Args     []*symtab.Symbol
	Loc      diag.Location
	Comment  string // freeform text for COMMENT, or a diagnostic message for ERROR

	// Jump targets, set for Op.IsJump(): the first instruction of the
	// target block. CALL additionally uses Next as the RETCLEAN it is
	// paired with.
	Target *Imop
	Next   *Imop // RETCLEAN paired with this CALL, else unused

	block    *Block
	prev, nx *Imop
}

// NewImop constructs a detached instruction; Block.Append links it into a
// block.
func NewImop(op Opcode, dest *symtab.Symbol, args ...*symtab.Symbol) *Imop {
	return &Imop{Op: op, Dest: dest, Args: args}
}

// Block reports the block currently holding this instruction, or nil if
// detached.
func (i *Imop) Block() *Block { return i.block }

// Unlink removes i from its containing block's list; auto-unlink means a
// caller that drops the last reference to i need not separately patch
// neighbours — but Unlink itself still must be called explicitly, since Go
// has no destructors.
func (i *Imop) Unlink() {
	if i.block == nil {
		return
	}
	b := i.block
	if i.prev != nil {
		i.prev.nx = i.nx
	} else {
		b.head = i.nx
	}
	if i.nx != nil {
		i.nx.prev = i.prev
	} else {
		b.tail = i.prev
	}
	i.prev, i.nx, i.block = nil, nil, nil
}

// ReplaceWith swaps i out of its block for repl, which takes i's
// position (spec.md §4.6.2). i is left detached; the caller (the
// constant-folding optimizer) is responsible for not touching i again.
func (i *Imop) ReplaceWith(repl *Imop) {
	b := i.block
	repl.block = b
	repl.prev = i.prev
	repl.nx = i.nx
	if i.prev != nil {
		i.prev.nx = repl
	} else {
		b.head = repl
	}
	if i.nx != nil {
		i.nx.prev = repl
	} else {
		b.tail = repl
	}
	i.prev, i.nx, i.block = nil, nil, nil
}

// Prev/NextInst walk the intrusive list within the owning block.
func (i *Imop) Prev() *Imop { return i.prev }
func (i *Imop) NextInst() *Imop { return i.nx }

// String renders the canonical single-line form: destination, opcode
// mnemonic, operands (spec.md §6 "IR printer").
func (i *Imop) String() string {
	var b strings.Builder
	if i.Dest != nil {
		b.WriteString(i.Dest.Name)
		b.WriteString(" = ")
	}
	b.WriteString(i.Op.String())
	for _, a := range i.Args {
		b.WriteByte(' ')
		b.WriteString(a.Name)
	}
	if i.Op == ERROR && i.Comment != "" {
		fmt.Fprintf(&b, " %q", i.Comment)
	}
	if i.Op == COMMENT {
		fmt.Fprintf(&b, " %s", i.Comment)
	}
	return b.String()
}
