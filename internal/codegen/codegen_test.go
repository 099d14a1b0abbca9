package codegen

import (
	"testing"

	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func newGen() (*Generator, *types.Context) {
	cxt := types.NewContext()
	return NewGenerator(cxt, ir.NewProgram()), cxt
}

// collectOps walks a procedure's blocks in index order and flattens every
// instruction into one slice, for assertions that don't care which block an
// opcode landed in.
func collectOps(proc *ir.Procedure) []*ir.Imop {
	var out []*ir.Imop
	for _, b := range proc.Blocks {
		out = append(out, b.Instructions()...)
	}
	return out
}

func opcodes(ops []*ir.Imop) []ir.Opcode {
	out := make([]ir.Opcode, len(ops))
	for i, op := range ops {
		out[i] = op.Op
	}
	return out
}

func TestGenExprIdentLooksUpScope(t *testing.T) {
	g, cxt := newGen()
	scope := symtab.NewScope(nil)
	i32 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)
	x := symtab.NewVariable(cxt, "x", i32)
	scope.Declare(x)

	proc := g.DeclareProcedure("f", &symtab.ProcedureSymbol{})
	g.proc, g.cur = proc, proc.Entry

	b := ast.NewBuilder()
	r := g.GenExpr(scope, b.Ident("x"), i32)
	require.NoError(t, r.Err)
	require.Same(t, x, r.Value)
}

func TestGenExprBinaryEmitsSingleOpcode(t *testing.T) {
	g, cxt := newGen()
	scope := symtab.NewScope(nil)
	i64 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int64), 0)
	proc := g.DeclareProcedure("f", &symtab.ProcedureSymbol{})
	g.proc, g.cur = proc, proc.Entry

	b := ast.NewBuilder()
	expr := b.Binary(ast.OpAdd, b.Int(1), b.Int(2))
	r := g.GenExpr(scope, expr, i64)
	require.NoError(t, r.Err)

	ops := opcodes(collectOps(proc))
	require.Contains(t, ops, ir.ADD)
}

func TestGenIfProducesThenElseJoinBlocks(t *testing.T) {
	g, cxt := newGen()
	scope := symtab.NewScope(nil)
	boolT := cxt.PublicBoolType()
	proc := g.DeclareProcedure("f", &symtab.ProcedureSymbol{})
	g.proc, g.cur = proc, proc.Entry
	g.pushScope()

	b := ast.NewBuilder()
	stmt := b.If(b.Bool(true), b.Block(b.ExprStmt(b.Int(1))), b.Block(b.ExprStmt(b.Int(2))))
	out := g.GenStmt(scope, stmt)
	require.NoError(t, out.Err)

	// entry, then, else, join, plus the DeclareProcedure exit block.
	require.GreaterOrEqual(t, len(proc.Blocks), 5)
	_ = boolT
}

func TestGenWhileWiresBreakToExitBlock(t *testing.T) {
	g, cxt := newGen()
	scope := symtab.NewScope(nil)
	proc := g.DeclareProcedure("f", &symtab.ProcedureSymbol{})
	g.proc, g.cur = proc, proc.Entry
	g.pushScope()

	b := ast.NewBuilder()
	loop := b.While(b.Bool(true), b.Block(b.Break()))
	out := g.GenStmt(scope, loop)
	require.NoError(t, out.Err)
	require.Empty(t, out.Breaks, "break targets are consumed by the loop that owns them")

	ops := opcodes(collectOps(proc))
	require.Contains(t, ops, ir.JT)
	require.Contains(t, ops, ir.JUMP)
}

func TestGenReturnReleasesNonTrivialLocalsBeforeJumping(t *testing.T) {
	g, cxt := newGen()
	dom := cxt.PrivateSecType("pd_shared3p", cxt.DeclareKind("additive3pp"))
	privI32 := cxt.BasicType(dom, cxt.BuiltinType(types.Int32), 0)

	scope := symtab.NewScope(nil)
	proc := g.DeclareProcedure("f", &symtab.ProcedureSymbol{Ret: privI32})
	g.proc, g.cur = proc, proc.Entry
	g.pushScope()

	sym := symtab.NewVariable(cxt, "secret", privI32)
	scope.Declare(sym)
	g.pushDecl(sym)

	b := ast.NewBuilder()
	out := g.GenStmt(scope, b.Return(b.Ident("secret")))
	require.NoError(t, out.Err)

	ops := collectOps(proc)
	var sawRelease, sawPush, sawReturn bool
	for _, op := range ops {
		switch op.Op {
		case ir.RELEASE:
			sawRelease = true
		case ir.PUSH:
			sawPush = true
		case ir.RETURN:
			sawReturn = true
		}
	}
	require.True(t, sawRelease, "private local must be released before return")
	require.True(t, sawPush, "return value must be pushed")
	require.True(t, sawReturn)
}

func TestGenCallLowersPushCallRetcleanParam(t *testing.T) {
	g, cxt := newGen()
	i64 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int64), 0)

	calleeSym := &symtab.ProcedureSymbol{
		Params: []*symtab.Symbol{{Name: "x", Type: i64}},
		Ret:    i64,
	}
	callee := g.DeclareProcedure("double", calleeSym)

	global := symtab.NewScope(nil)
	global.Declare(&symtab.Symbol{Name: "double", Category: symtab.CatProcedure, Proc: calleeSym})

	callerProc := g.DeclareProcedure("main", &symtab.ProcedureSymbol{})
	g.proc, g.cur = callerProc, callerProc.Entry
	g.pushScope()

	b := ast.NewBuilder()
	call := b.Call("double", b.Int(21))
	r := g.GenExpr(global, call, i64)
	require.NoError(t, r.Err)
	require.NotNil(t, r.Value)

	ops := opcodes(collectOps(callerProc))
	require.Contains(t, ops, ir.PUSH)
	require.Contains(t, ops, ir.CALL)
	require.Contains(t, ops, ir.RETCLEAN)
	require.Contains(t, ops, ir.PARAM)
	_ = callee
}

func TestGenProcedureBodyAddsImplicitReturnOnFallthrough(t *testing.T) {
	g, _ := newGen()
	scope := symtab.NewScope(nil)
	proc := g.DeclareProcedure("noop", &symtab.ProcedureSymbol{})

	b := ast.NewBuilder()
	body := b.Block(b.ExprStmt(b.Int(1)))
	out := g.GenProcedureBody(proc, scope, nil, body)
	require.NoError(t, out.Err)

	last := proc.Entry.Last()
	require.NotNil(t, last)
	require.Equal(t, ir.RETURN, last.Op)
}
