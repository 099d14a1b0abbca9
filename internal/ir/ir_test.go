package ir

import (
	"bytes"
	"testing"

	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func testVar(cxt *types.Context, name string) *symtab.Symbol {
	i32 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)
	return symtab.NewVariable(cxt, name, i32)
}

func TestBlockAppendAndUnlink(t *testing.T) {
	cxt := types.NewContext()
	x, y := testVar(cxt, "x"), testVar(cxt, "y")

	proc := NewProcedure("f", &symtab.ProcedureSymbol{})
	b := proc.NewBlock()

	op1 := NewImop(ASSIGN, x, y)
	op2 := NewImop(ADD, x, x, y)
	b.Append(op1)
	b.Append(op2)

	require.Equal(t, []*Imop{op1, op2}, b.Instructions())

	op1.Unlink()
	require.Equal(t, []*Imop{op2}, b.Instructions())
	require.Nil(t, op1.Block())
}

func TestReplaceWithPreservesPosition(t *testing.T) {
	cxt := types.NewContext()
	x, y, z := testVar(cxt, "x"), testVar(cxt, "y"), testVar(cxt, "z")

	proc := NewProcedure("f", &symtab.ProcedureSymbol{})
	b := proc.NewBlock()
	op1 := NewImop(ASSIGN, x, y)
	op2 := NewImop(ADD, x, x, y)
	op3 := NewImop(ASSIGN, z, x)
	b.Append(op1)
	b.Append(op2)
	b.Append(op3)

	folded := NewImop(ASSIGN, x, z)
	op2.ReplaceWith(folded)

	require.Equal(t, []*Imop{op1, folded, op3}, b.Instructions())
	require.Nil(t, op2.Block())
}

func TestEdgesAndDOTOutput(t *testing.T) {
	cxt := types.NewContext()
	x := testVar(cxt, "x")

	prog := NewProgram()
	proc := NewProcedure("main", &symtab.ProcedureSymbol{})
	entry := proc.NewBlock()
	exit := proc.NewBlock()
	proc.Entry, proc.Exit = entry, exit
	AddEdge(entry, exit, EdgeNormal)
	entry.Append(NewImop(RETURN, nil, x))
	prog.AddProcedure(proc)

	require.Len(t, entry.Succs, 1)
	require.Len(t, exit.Preds, 1)
	require.Equal(t, EdgeNormal, entry.Succs[0].Kind)

	var buf bytes.Buffer
	PrintDOT(&buf, prog)
	require.Contains(t, buf.String(), "digraph CFG")
	require.Contains(t, buf.String(), "normal")
}

func TestOpcodeClassification(t *testing.T) {
	require.True(t, JUMP.IsJump())
	require.True(t, JUMP.IsTerminator())
	require.False(t, ADD.IsJump())
	require.False(t, ADD.IsTerminator())
	require.True(t, CALL.IsJump())
	require.False(t, CALL.IsTerminator(), "CALL falls through to its paired RETCLEAN")
}
