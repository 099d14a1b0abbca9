package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andaur/scc/pkg/ast"
)

func TestRunSimpleProcedureCompiles(t *testing.T) {
	b := ast.NewBuilder()
	u32 := b.ScalarType(b.SecPublic(), "uint32")
	proc := b.ProcDecl("identity", []*ast.Param{b.Param("x", u32)}, u32, b.Block(b.Return(b.Ident("x"))))
	mod := b.Module("m", []ast.Decl{proc})

	p := NewPipeline()
	require.NoError(t, p.Run(mod))
	require.Empty(t, p.Log.All())
	require.Len(t, p.Program.Procedures, 1)
	require.Equal(t, "identity", p.Program.Procedures[0].Name)
}

func TestRunReportsUndeclaredProcedure(t *testing.T) {
	b := ast.NewBuilder()
	u32 := b.ScalarType(b.SecPublic(), "uint32")
	body := b.Block(b.ExprStmt(b.Call("missing", b.Ident("x"))))
	proc := b.ProcDecl("caller", []*ast.Param{b.Param("x", u32)}, nil, body)
	mod := b.Module("m", []ast.Decl{proc})

	p := NewPipeline()
	err := p.Run(mod)
	require.Error(t, err)
	require.True(t, p.Log.HasErrors())
}

func TestRunKindAndDomainDeclResolves(t *testing.T) {
	b := ast.NewBuilder()
	kind := b.KindDecl("additive3pp")
	domain := b.DomainDecl("pd_shared3p", "additive3pp")
	priv := b.ScalarType(b.SecDomain("pd_shared3p"), "uint32")
	proc := b.ProcDecl("classifyIt", []*ast.Param{b.Param("x", priv)}, priv, b.Block(b.Return(b.Ident("x"))))
	mod := b.Module("m", []ast.Decl{kind, domain, proc})

	p := NewPipeline()
	require.NoError(t, p.Run(mod))
	require.Empty(t, p.Log.All())

	_, ok := p.Cxt.LookupPrivateSecType("pd_shared3p")
	require.True(t, ok)
}

// TestRunTemplateCallInstantiates checks that a call against a template
// procedure enqueues exactly one instance and that the driver lowers it
// once Run drains the instantiator's worklist (spec.md §4.4).
func TestRunTemplateCallInstantiates(t *testing.T) {
	b := ast.NewBuilder()

	tParam := b.DataVar("T")
	tType := b.Type(b.SecPublic(), tParam, nil)
	tmplInner := b.ProcDecl("identity", []*ast.Param{b.Param("x", tType)}, tType, b.Block(b.Return(b.Ident("x"))))
	quant := b.Quantifier("T", ast.QuantData, "")
	tmpl := b.TemplateDecl([]*ast.Quantifier{quant}, tmplInner)

	u32 := b.ScalarType(b.SecPublic(), "uint32")
	caller := b.ProcDecl("caller", []*ast.Param{b.Param("x", u32)}, u32,
		b.Block(b.Return(b.Call("identity", b.Ident("x")))))

	mod := b.Module("m", []ast.Decl{tmpl, caller})

	p := NewPipeline()
	require.NoError(t, p.Run(mod))
	require.Empty(t, p.Log.All())
	require.Equal(t, 1, p.Inst.Count())
	require.Len(t, p.Program.Procedures, 2) // caller + one instantiation
}
