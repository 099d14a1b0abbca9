package template

import (
	"testing"

	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func buildIdentityTemplate(b *ast.Builder) (*ast.TemplateDecl, map[string]types.TypeArg) {
	q := []*ast.Quantifier{
		b.Quantifier("D", ast.QuantSec, ""),
		b.Quantifier("T", ast.QuantData, ""),
	}
	ty := b.Type(b.SecVar("D"), b.DataVar("T"), nil)
	proc := b.ProcDecl("id", []*ast.Param{b.Param("x", ty)}, ty, b.Block(b.Return(b.Ident("x"))))
	return b.TemplateDecl(q, proc), nil
}

func TestAddCachesIdenticalArgumentTuples(t *testing.T) {
	cxt := types.NewContext()
	b := ast.NewBuilder()
	tmpl, _ := buildIdentityTemplate(b)
	global := symtab.NewScope(nil)

	bindings := map[string]types.TypeArg{
		"D": {Tag: types.ArgSec, Sec: cxt.PublicSecType()},
		"T": {Tag: types.ArgData, Data: cxt.BuiltinType(types.Int32)},
	}

	inst := New(cxt)
	first := inst.Add("id", tmpl, bindings, global, ast.CloneDecl)
	second := inst.Add("id", tmpl, bindings, global, ast.CloneDecl)

	require.Same(t, first, second, "identical argument tuples must hit the cache")
	require.Equal(t, 1, inst.Count())
}

func TestAddProducesDistinctInstancesForDistinctArgs(t *testing.T) {
	cxt := types.NewContext()
	b := ast.NewBuilder()
	tmpl, _ := buildIdentityTemplate(b)
	global := symtab.NewScope(nil)
	inst := New(cxt)

	b1 := map[string]types.TypeArg{
		"D": {Tag: types.ArgSec, Sec: cxt.PublicSecType()},
		"T": {Tag: types.ArgData, Data: cxt.BuiltinType(types.Int32)},
	}
	b2 := map[string]types.TypeArg{
		"D": {Tag: types.ArgSec, Sec: cxt.PublicSecType()},
		"T": {Tag: types.ArgData, Data: cxt.BuiltinType(types.Uint64)},
	}

	i1 := inst.Add("id", tmpl, b1, global, ast.CloneDecl)
	i2 := inst.Add("id", tmpl, b2, global, ast.CloneDecl)

	require.NotSame(t, i1, i2)
	require.Equal(t, 2, inst.Count())
}

func TestCloneIsIndependentFromTemplateBody(t *testing.T) {
	cxt := types.NewContext()
	b := ast.NewBuilder()
	tmpl, _ := buildIdentityTemplate(b)
	global := symtab.NewScope(nil)
	inst := New(cxt)

	bindings := map[string]types.TypeArg{
		"D": {Tag: types.ArgSec, Sec: cxt.PublicSecType()},
		"T": {Tag: types.ArgData, Data: cxt.BuiltinType(types.Int32)},
	}
	instance := inst.Add("id", tmpl, bindings, global, ast.CloneDecl)

	require.NotSame(t, tmpl.Inner, instance.Decl, "instance body must be a distinct clone")
}

func TestDrainProcessesWorklistToEmpty(t *testing.T) {
	cxt := types.NewContext()
	b := ast.NewBuilder()
	tmpl, _ := buildIdentityTemplate(b)
	global := symtab.NewScope(nil)
	inst := New(cxt)

	bindings := map[string]types.TypeArg{
		"D": {Tag: types.ArgSec, Sec: cxt.PublicSecType()},
		"T": {Tag: types.ArgData, Data: cxt.BuiltinType(types.Int32)},
	}
	inst.Add("id", tmpl, bindings, global, ast.CloneDecl)

	var processed int
	err := inst.Drain(func(i *Instance) error {
		processed++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, processed)
	require.False(t, inst.Pending())
}
