package unify

import (
	"testing"

	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestUnifyTemplateProcedureBindsAllThreeQuantifiers(t *testing.T) {
	cxt := types.NewContext()
	kind := cxt.DeclareKind("additive3pp")
	dom := cxt.PrivateSecType("pd_shared3p", kind)
	concrete := cxt.BasicType(dom, cxt.BuiltinType(types.Int32), 1)

	b := ast.NewBuilder()
	declared := b.Type(b.SecVar("D"), b.DataVar("T"), b.DimVar("N"))

	s := NewSubst()
	require.True(t, UnifyType(cxt, declared, concrete, s))

	secArg, ok := s.Lookup("D")
	require.True(t, ok)
	require.Equal(t, dom, secArg.Sec)

	dataArg, ok := s.Lookup("T")
	require.True(t, ok)
	require.Equal(t, cxt.BuiltinType(types.Int32), dataArg.Data)

	dimArg, ok := s.Lookup("N")
	require.True(t, ok)
	require.EqualValues(t, 1, dimArg.Dim)
}

func TestUnifyRepeatedQuantifierMustAgree(t *testing.T) {
	cxt := types.NewContext()
	i32 := cxt.BuiltinType(types.Int32)
	i64 := cxt.BuiltinType(types.Int64)
	pub := cxt.PublicSecType()

	b := ast.NewBuilder()
	tVar := b.DataVar("T")

	s := NewSubst()
	require.True(t, UnifyData(cxt, tVar, i32, s))
	require.False(t, UnifyData(cxt, tVar, i64, s), "T already bound to int32, cannot also bind to int64")
	_ = pub
}

func TestUnifyDeclassifyBridgesPublicRepresentation(t *testing.T) {
	cxt := types.NewContext()
	kind := cxt.DeclareKind("additive3pp")
	pub8 := cxt.BuiltinType(types.Uint8)
	shared := cxt.UserPrimitiveType("uint8", kind, pub8, 1)

	b := ast.NewBuilder()
	declared := b.DataBuiltin("uint8")

	s := NewSubst()
	require.True(t, UnifyData(cxt, declared, shared, s),
		"public uint8 declaration should accept a private-uint8 concrete type via its public rep")
}

func TestUnifyStructTemplateArgsPairwise(t *testing.T) {
	cxt := types.NewContext()
	i32 := cxt.BuiltinType(types.Int32)
	args := []types.TypeArg{{Tag: types.ArgData, Data: i32}}
	pairStruct := cxt.CompositeType("Box", args, []types.Field{{Name: "v", Type: cxt.BasicType(cxt.PublicSecType(), i32, 0)}})

	b := ast.NewBuilder()
	declared := b.DataName("Box", []*ast.TypeExpr{b.Type(nil, b.DataVar("T"), nil)})

	s := NewSubst()
	require.True(t, UnifyData(cxt, declared, pairStruct, s))
	bound, ok := s.Lookup("T")
	require.True(t, ok)
	require.Equal(t, i32, bound.Data)
}

func TestUnifySecurityMismatchFails(t *testing.T) {
	cxt := types.NewContext()
	kind := cxt.DeclareKind("k")
	dom := cxt.PrivateSecType("pd_a", kind)

	b := ast.NewBuilder()
	s := NewSubst()
	require.False(t, UnifySec(cxt, b.SecDomain("pd_other"), dom, s))
}
