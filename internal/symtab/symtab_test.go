package symtab

import (
	"testing"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestScopeLookupShadowing(t *testing.T) {
	cxt := types.NewContext()
	intType := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)

	outer := NewScope(nil)
	outer.Declare(NewVariable(cxt, "x", intType))

	inner := NewScope(outer)
	inner.Declare(NewVariable(cxt, "x", intType))

	matches := inner.LookupCategory("x", CatVariable)
	require.Len(t, matches, 2, "inner binding plus shadowed outer binding both visible")
	require.Same(t, inner.symbols["x"][0], matches[0], "inner binding listed first")
}

func TestVariableArrayAuxiliarySymbols(t *testing.T) {
	cxt := types.NewContext()
	arrType := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 2)

	v := NewVariable(cxt, "arr", arrType)
	require.Len(t, v.DimSyms, 2)
	require.NotNil(t, v.SizeSym)
	for _, d := range v.DimSyms {
		require.Equal(t, cxt.IndexType(), d.Type)
	}
}

func TestScalarHasNoAuxiliarySymbols(t *testing.T) {
	cxt := types.NewContext()
	scalar := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)
	v := NewVariable(cxt, "x", scalar)
	require.Nil(t, v.DimSyms)
	require.Nil(t, v.SizeSym)
}

func TestImportVisibility(t *testing.T) {
	cxt := types.NewContext()
	boolType := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Bool), 0)

	lib := NewScope(nil)
	lib.Declare(NewVariable(cxt, "helper", boolType))

	main := NewScope(nil)
	main.Import(lib)

	matches := main.LookupCategory("helper", CatVariable)
	require.Len(t, matches, 1)
}

func TestLookupOneReportsNameError(t *testing.T) {
	s := NewScope(nil)
	_, err := s.LookupOne("missing", CatVariable, diag.Location{File: "t.sc", Line: 1})
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, diag.KindName, derr.Kind)
}
