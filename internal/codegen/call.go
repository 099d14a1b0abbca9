package codegen

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// DeclareProcedure registers proc's entry/exit shell in g.Program before any
// body is generated, so forward calls (including recursive and mutually
// recursive procedures) can resolve their CALL target in a first pass
// (spec.md §4.5.7). GenProcedureBody fills the entry block in a second
// pass.
func (g *Generator) DeclareProcedure(name string, sym *symtab.ProcedureSymbol) *ir.Procedure {
	proc := ir.NewProcedure(name, sym)
	proc.Entry = proc.NewBlock()
	proc.Exit = proc.NewBlock()
	g.emitInto(proc.Exit, ir.END, nil)
	g.Program.AddProcedure(proc)
	return proc
}

func (g *Generator) emitInto(b *ir.Block, op ir.Opcode, dest *symtab.Symbol, args ...*symtab.Symbol) *ir.Imop {
	i := ir.NewImop(op, dest, args...)
	b.Append(i)
	return i
}

// GenProcedureBody lowers body into proc's entry block, declaring params in
// scope first.
func (g *Generator) GenProcedureBody(proc *ir.Procedure, scope *symtab.Scope, params []*symtab.Symbol, body *ast.BlockStmt) CGStmtResult {
	g.proc = proc
	g.cur = proc.Entry
	g.pushScope()
	for _, p := range params {
		g.pushDecl(p)
	}
	out := g.genBlock(scope, body)
	if g.cur.Last() == nil || !g.cur.Last().Op.IsTerminator() {
		ret := g.emit(ir.RETURN, nil)
		ret.Target = ensureEntry(proc.Exit)
		ir.AddEdge(g.cur, proc.Exit, ir.EdgeReturn)
	}
	g.releaseScope()
	return out
}

// flattenLeaves returns, in field-declaration order, every scalar/array leaf
// type making up t — t itself if t is not composite (spec.md §4.5.2, §4.5.7
// "flattened across composite return types").
func flattenLeaves(t *types.Type) []*types.Type {
	if t == nil || t.Kind != types.KindBasic || !t.Data.IsComposite() {
		return []*types.Type{t}
	}
	var out []*types.Type
	for _, f := range t.Data.Fields {
		out = append(out, flattenLeaves(f.Type)...)
	}
	return out
}

// genCall lowers a resolved call: evaluate arguments left to right, PUSH
// each, CALL the callee with a paired RETCLEAN, then PARAM once per
// flattened return-value component (spec.md §4.5.7).
func (g *Generator) genCall(scope *symtab.Scope, n *ast.Call, resultType *types.Type) CGResult {
	matches := scope.LookupCategory(n.Name, symtab.CatProcedure)
	var sym *symtab.Symbol
	for _, m := range matches {
		if m.Proc != nil && len(m.Proc.Params) == len(n.Args) {
			sym = m
			break
		}
	}
	if sym == nil {
		return CGResult{Err: diag.New(diag.KindName, n.Loc(), "no matching procedure %q", n.Name)}
	}

	var argSyms []*symtab.Symbol
	for i, a := range n.Args {
		var want *types.Type
		if i < len(sym.Proc.Params) {
			want = sym.Proc.Params[i].Type
		}
		r := g.GenExpr(scope, a, want)
		if r.Err != nil {
			return r
		}
		argSyms = append(argSyms, r.Value)
	}
	return g.emitCall(sym.Proc, argSyms)
}

// binaryOperatorName, unaryOperatorName and castOperatorName mirror
// internal/typecheck's mangling of an OperatorDecl/CastDecl's declared
// shape into the procedure name internal/driver registers it under, so
// genBinary/genUnary/genCast can look the overload back up by name the
// same way the checker already resolved it (spec.md §4.4).
func binaryOperatorName(op ast.BinaryOp) string { return "operator$" + op.String() }

func unaryOperatorName(op ast.UnaryOp) string { return "operator$u" + op.String() }

func castOperatorName(from, to *types.DataType) string {
	return "cast$" + from.String() + "$" + to.String()
}

// genOperatorCall looks up the best arity match for a user operator/cast
// overload and lowers it exactly like an ordinary call (spec.md §4.4);
// the checker has already confirmed a matching overload exists by the
// time codegen visits the expression, so an arity match here is enough.
func (g *Generator) genOperatorCall(scope *symtab.Scope, name string, argSyms []*symtab.Symbol, loc diag.Location) CGResult {
	matches := scope.LookupCategory(name, symtab.CatProcedure)
	var sym *symtab.Symbol
	for _, m := range matches {
		if m.Proc != nil && len(m.Proc.Params) == len(argSyms) {
			sym = m
			break
		}
	}
	if sym == nil {
		return CGResult{Err: diag.New(diag.KindName, loc, "no matching overload %q", name)}
	}
	return g.emitCall(sym.Proc, argSyms)
}

// emitCall lowers a resolved call given its already-evaluated argument
// symbols: PUSH each, CALL the callee with a paired RETCLEAN, then PARAM
// once per flattened return-value component (spec.md §4.5.7). Shared by
// genCall and by genBinary/genUnary/genCast's user-operator-overload
// dispatch, which have no *ast.Call node to read a callee name off of.
func (g *Generator) emitCall(proc *symtab.ProcedureSymbol, argSyms []*symtab.Symbol) CGResult {
	for _, a := range argSyms {
		g.emit(ir.PUSH, nil, a)
	}

	callee := g.Program.ProcBySymbol[proc]
	call := g.emit(ir.CALL, nil)
	retClean := ir.NewImop(ir.RETCLEAN, nil)
	g.cur.Append(retClean)
	call.Next = retClean
	if callee != nil {
		call.Target = ensureEntry(callee.Entry)
		ir.AddEdge(g.cur, callee.Entry, ir.EdgeCall)
	}

	if proc.Ret == nil {
		return CGResult{}
	}
	leaves := flattenLeaves(proc.Ret)
	var result *symtab.Symbol
	var fields map[string]*symtab.Symbol
	isComposite := proc.Ret.Kind == types.KindBasic && proc.Ret.Data.IsComposite()
	if isComposite {
		fields = make(map[string]*symtab.Symbol)
	}
	for i, leaf := range leaves {
		dst := g.newTemp(leaf)
		g.emit(ir.PARAM, dst)
		if isComposite && i < len(proc.Ret.Data.Fields) {
			fields[proc.Ret.Data.Fields[i].Name] = dst
		}
		result = dst
	}
	if isComposite {
		result = g.newTemp(proc.Ret)
		result.Fields = fields
	}
	return CGResult{Value: result}
}

