package codegen

import (
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
)

// GenGlobalInit lowers a module-scope variable's initializer (or, absent
// one, its declared type's default) into proc, a procedure reserved solely
// for this purpose and invoked once at program start (spec.md §4.5.3
// "Global variables are lowered into a per-variable initializer procedure
// called once at program start"). sym is the variable's own symbol,
// already declared in the global scope by the driver so every procedure
// body sharing that scope resolves the same symbol this initializer fills.
func (g *Generator) GenGlobalInit(proc *ir.Procedure, scope *symtab.Scope, sym *symtab.Symbol, init ast.Expr) CGStmtResult {
	g.proc = proc
	g.cur = proc.Entry
	g.pushScope()

	var out CGStmtResult
	if init == nil {
		g.genDefaultInit(sym)
	} else if rhs := g.GenExpr(scope, init, sym.Type); rhs.Err != nil {
		out.Err = rhs.Err
	} else if sym.Type != nil && sym.Type.Dim > 0 {
		g.genArrayAssign(sym, rhs.Value, init.Loc())
	} else {
		g.emit(ir.ASSIGN, sym, rhs.Value)
	}

	if g.cur.Last() == nil || !g.cur.Last().Op.IsTerminator() {
		ret := g.emit(ir.RETURN, nil)
		ret.Target = ensureEntry(proc.Exit)
		ir.AddEdge(g.cur, proc.Exit, ir.EdgeReturn)
	}
	g.releaseScope()
	return out
}
