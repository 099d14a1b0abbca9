package typecheck

import (
	"testing"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func newChecker() (*Checker, *types.Context) {
	cxt := types.NewContext()
	return New(cxt, diag.NewMemoryLog()), cxt
}

func TestIntLiteralDefaultsToInt64(t *testing.T) {
	c, cxt := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)

	lit := b.Int(42)
	t1, err := c.Elaborate(scope, lit)
	require.NoError(t, err)
	require.Equal(t, cxt.BuiltinType(types.Numeric), t1.Data)

	defaulted := c.InstantiateDataType(t1, nil)
	require.Equal(t, cxt.BuiltinType(types.Int64), defaulted.Data)
}

func TestFloatLiteralDefaultsToFloat64(t *testing.T) {
	c, cxt := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)

	lit := b.Float(1.5)
	t1, err := c.Elaborate(scope, lit)
	require.NoError(t, err)
	defaulted := c.InstantiateDataType(t1, nil)
	require.Equal(t, cxt.BuiltinType(types.Float64), defaulted.Data)
}

func TestBinaryAddJoinsSecurityType(t *testing.T) {
	c, cxt := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)

	kind := cxt.DeclareKind("additive3pp")
	dom := cxt.PrivateSecType("pd_shared3p", kind)
	i32 := cxt.BuiltinType(types.Int32)
	scope.Declare(symtab.NewVariable(cxt, "priv", cxt.BasicType(dom, i32, 0)))

	expr := b.Binary(ast.OpAdd, b.Ident("priv"), b.Int(1))
	result, err := c.Elaborate(scope, expr)
	require.NoError(t, err)
	require.Equal(t, dom, result.Sec, "public literal joins up to the private side")
}

func TestMemoizationReturnsCachedResult(t *testing.T) {
	c, _ := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)

	lit := b.Int(7)
	first, err := c.Elaborate(scope, lit)
	require.NoError(t, err)
	second, err := c.Elaborate(scope, lit)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestVarDeclInfersTypeFromInitializer(t *testing.T) {
	c, cxt := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)

	decl := b.VarDecl("x", nil, b.Int(5))
	require.NoError(t, c.ElaborateStmt(scope, decl))

	syms := scope.LookupCategory("x", symtab.CatVariable)
	require.Len(t, syms, 1)
	require.Equal(t, cxt.BuiltinType(types.Int64), syms[0].Type.Data)
}

func TestOverloadResolutionPicksExactSignature(t *testing.T) {
	c, cxt := newChecker()
	scope := symtab.NewScope(nil)
	i64 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int64), 0)
	boolT := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Bool), 0)

	fInt := &symtab.ProcedureSymbol{Params: []*symtab.Symbol{{Type: i64}}, Ret: i64}
	fBool := &symtab.ProcedureSymbol{Params: []*symtab.Symbol{{Type: boolT}}, Ret: boolT}
	scope.Declare(&symtab.Symbol{Name: "f", Category: symtab.CatProcedure, Proc: fInt})
	scope.Declare(&symtab.Symbol{Name: "f", Category: symtab.CatProcedure, Proc: fBool})

	b := ast.NewBuilder()
	call := b.Call("f", b.Int(1))
	result, err := c.elaborateCall(scope, call, nil)
	require.NoError(t, err)
	require.Equal(t, cxt.BuiltinType(types.Int64), result.Data, "literal defaults to int64, matching the int overload only")
}

func TestClassifyAcceptsPublicOperand(t *testing.T) {
	c, cxt := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)
	cxt.DeclareKind("additive3pp")
	cxt.PrivateSecType("pd_shared3p", cxt.DeclareKind("additive3pp"))

	expr := b.Classify(b.SecDomain("pd_shared3p"), b.Int(5))
	_, err := c.Elaborate(scope, expr)
	require.NoError(t, err)
}

func TestDeclassifyRejectsPublicOperand(t *testing.T) {
	c, _ := newChecker()
	b := ast.NewBuilder()
	scope := symtab.NewScope(nil)

	expr := b.Declassify(b.Int(5))
	_, err := c.Elaborate(scope, expr)
	require.Error(t, err)
}
