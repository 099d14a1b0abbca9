// Package codegen lowers a type-checked AST into the three-address IR of
// internal/ir (spec.md §4.5): CGResult/CGStmtResult result shapes,
// temporary/shape-symbol allocation, classify/declassify/cast lowering,
// loop and conditional CFG patterns, call/return sequencing, and scoped
// release. Grounded on original_source's CodeGen*.cpp family; see
// DESIGN.md.
package codegen

import (
	"fmt"

	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// CGResult is the result of generating code for an expression: the
// symbol holding the value, and the status (nil on success). It carries
// no patch-lists: unlike the original's first-instruction/patch-list
// shape, each jump is aimed directly at its target block's first
// instruction (see ensureEntry), leaning on ir.Block's stable index
// addressing instead of raw instruction patching (spec.md §9
// "represent blocks by stable indices").
type CGResult struct {
	Value *symtab.Symbol
	Err   error
}

// CGStmtResult additionally reports which control-flow edges a statement
// produced, so the caller can wire break/continue/return targets once
// the enclosing loop or procedure epilogue block exists.
type CGStmtResult struct {
	Breaks    []*ir.Block
	Continues []*ir.Block
	Returns   []*ir.Block
	Err       error
}

// loopContext tracks the blocks break/continue should jump to, and the
// set of scopes whose variables must be released on the way out (spec.md
// §4.5.6, §4.5.8).
type loopContext struct {
	breakTarget, continueTarget *ir.Block
	scopesAtEntry               int
}

// Generator lowers one procedure at a time. temps counts allocations to
// produce unique temporary names.
type Generator struct {
	Cxt     *types.Context
	Program *ir.Program

	// StructType, when set, resolves a struct type reference to its
	// composite DataType, mirroring typecheck.Checker.StructType; wired by
	// the driver so codegen can materialize a struct-typed local variable's
	// symbol (genVarDecl) without re-running the checker.
	StructType func(name string, args []*ast.TypeExpr) (*types.DataType, error)

	proc       *ir.Procedure
	cur        *ir.Block
	temps      int
	loops      []*loopContext
	scopeStack [][]*symtab.Symbol // variables declared per active block scope, innermost last
}

// NewGenerator creates a Generator emitting into prog.
func NewGenerator(cxt *types.Context, prog *ir.Program) *Generator {
	return &Generator{Cxt: cxt, Program: prog}
}

func (g *Generator) newTemp(t *types.Type) *symtab.Symbol {
	g.temps++
	name := fmt.Sprintf("%%t%d", g.temps)
	sym := symtab.NewVariable(g.Cxt, name, t)
	g.pushDecl(sym)
	return sym
}

func (g *Generator) emit(op ir.Opcode, dest *symtab.Symbol, args ...*symtab.Symbol) *ir.Imop {
	i := ir.NewImop(op, dest, args...)
	g.cur.Append(i)
	return i
}

func (g *Generator) pushScope() { g.scopeStack = append(g.scopeStack, nil) }

func (g *Generator) popScope() []*symtab.Symbol {
	n := len(g.scopeStack) - 1
	top := g.scopeStack[n]
	g.scopeStack = g.scopeStack[:n]
	return top
}

func (g *Generator) pushDecl(sym *symtab.Symbol) {
	if len(g.scopeStack) == 0 {
		return
	}
	n := len(g.scopeStack) - 1
	g.scopeStack[n] = append(g.scopeStack[n], sym)
}

// isNonTrivial reports whether sym needs an explicit RELEASE on scope
// exit: arrays, private values, and strings (spec.md §4.5.8).
func isNonTrivial(sym *symtab.Symbol) bool {
	t := sym.Type
	if t == nil || t.Kind != types.KindBasic {
		return false
	}
	if t.Dim > 0 || !t.Sec.IsPublic() {
		return true
	}
	return t.Data.Tag == types.TagBuiltin && t.Data.Builtin == types.StringK
}

// releaseScope emits RELEASE for every non-trivial variable declared in
// the most recently pushed scope, in reverse declaration order, and pops
// it (spec.md §4.5.8).
func (g *Generator) releaseScope() {
	vars := g.popScope()
	for i := len(vars) - 1; i >= 0; i-- {
		if isNonTrivial(vars[i]) {
			g.emit(ir.RELEASE, nil, vars[i])
		}
	}
}

// releaseScopesAbove emits the cumulative release for every scope above
// (and including) the one at depth target, in the reverse of declaration
// order, without popping them — used by break/continue, which leave
// intervening scopes still logically open at the IR level (spec.md
// §4.5.6 "release every variable that is live... between the loop
// boundary and the break/continue").
func (g *Generator) releaseScopesAbove(target int) {
	for depth := len(g.scopeStack) - 1; depth >= target; depth-- {
		vars := g.scopeStack[depth]
		for i := len(vars) - 1; i >= 0; i-- {
			if isNonTrivial(vars[i]) {
				g.emit(ir.RELEASE, nil, vars[i])
			}
		}
	}
}
