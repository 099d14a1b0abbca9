package ast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpSimpleProcedure(t *testing.T) {
	b := NewBuilder()
	params := []*Param{b.Param("x", b.ScalarType(nil, "uint32"))}
	body := b.Block(b.Return(b.Ident("x")))
	proc := b.ProcDecl("identity", params, b.ScalarType(nil, "uint32"), body)
	mod := b.Module("m", []Decl{proc})

	var buf bytes.Buffer
	Dump(&buf, mod)

	out := buf.String()
	require.Contains(t, out, "Module m")
	require.Contains(t, out, "ProcDecl identity")
	require.Contains(t, out, "Param x")
	require.Contains(t, out, "ReturnStmt")
	require.Contains(t, out, "Ident x")
}

func TestDumpHandlesNilOptionalFields(t *testing.T) {
	b := NewBuilder()
	body := b.Block(b.VarDecl("n", b.ScalarType(nil, "uint32"), nil))
	ifStmt := b.If(b.Ident("cond"), body, nil)

	var buf bytes.Buffer
	Dump(&buf, ifStmt)

	out := buf.String()
	require.Contains(t, out, "IfStmt")
	require.Contains(t, out, "VarDeclStmt n")
	require.NotContains(t, out, "panic")
}
