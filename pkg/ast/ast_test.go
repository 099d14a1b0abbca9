package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderSimpleProcedure(t *testing.T) {
	b := NewBuilder()

	// public uint32 add(public uint32 x, public uint32 y) { return x + y; }
	params := []*Param{
		b.Param("x", b.ScalarType(nil, "uint32")),
		b.Param("y", b.ScalarType(nil, "uint32")),
	}
	body := b.Block(b.Return(b.Binary(OpAdd, b.Ident("x"), b.Ident("y"))))
	proc := b.ProcDecl("add", params, b.ScalarType(nil, "uint32"), body)

	require.Equal(t, KindProcDecl, proc.Kind())
	require.Equal(t, "add", proc.Name)
	require.Len(t, proc.Params, 2)
	require.Equal(t, KindReturnStmt, proc.Body.Stmts[0].Kind())
}

func TestBuilderTemplateProcedure(t *testing.T) {
	b := NewBuilder()

	q := []*Quantifier{
		b.Quantifier("D", QuantSec, ""),
		b.Quantifier("T", QuantData, ""),
		b.Quantifier("N", QuantDim, ""),
	}
	ty := b.Type(b.SecVar("D"), b.DataVar("T"), b.DimVar("N"))
	params := []*Param{b.Param("x", ty)}
	body := b.Block(b.Return(b.Ident("x")))
	proc := b.ProcDecl("identity", params, ty, body)
	tmpl := b.TemplateDecl(q, proc)

	require.Equal(t, KindTemplateDecl, tmpl.Kind())
	require.Len(t, tmpl.Quantifiers, 3)
	require.Same(t, proc, tmpl.Inner)
	require.True(t, ty.Sec.IsVar())
	require.True(t, ty.Data.IsVar())
	require.True(t, ty.Dim.IsVar())
}

func TestBuilderClassifyDeclassify(t *testing.T) {
	b := NewBuilder()

	classified := b.Classify(b.SecDomain("pd_shared3p"), b.Int(5))
	require.Equal(t, "pd_shared3p", classified.Domain.Domain)

	declassified := b.Declassify(b.Ident("secretVal"))
	require.Equal(t, KindDeclassify, declassified.Kind())
}

func TestBuilderModuleDeclOrder(t *testing.T) {
	b := NewBuilder()

	k := b.KindDecl("additive3pp")
	d := b.DomainDecl("pd_shared3p", "additive3pp")
	mod := b.Module("main", []Decl{k, d})

	require.Equal(t, 2, len(mod.Decls))
	require.Same(t, Decl(k), mod.Decls[0])
	require.Same(t, Decl(d), mod.Decls[1])
}

// countingVisitor counts how many times each Visit method fires, to
// exercise the double-dispatch path end to end.
type countingVisitor struct {
	BaseVisitor
	binaryCount int
	identCount  int
}

func (c *countingVisitor) VisitBinary(n *Binary) {
	c.binaryCount++
	n.Left.Accept(c)
	n.Right.Accept(c)
}

func (c *countingVisitor) VisitIdent(n *Ident) { c.identCount++ }

func TestVisitorDoubleDispatch(t *testing.T) {
	b := NewBuilder()
	expr := b.Binary(OpAdd, b.Ident("x"), b.Binary(OpMul, b.Ident("y"), b.Ident("z")))

	v := &countingVisitor{}
	expr.Accept(v)

	require.Equal(t, 2, v.binaryCount)
	require.Equal(t, 3, v.identCount)
}

func TestIndexRangeVsSingle(t *testing.T) {
	b := NewBuilder()
	idx := b.Index(b.Ident("arr"), b.Subscript(b.Int(0)), b.Slice(b.Int(1), b.Int(3)))

	require.False(t, idx.Args[0].IsRange)
	require.True(t, idx.Args[1].IsRange)
}
