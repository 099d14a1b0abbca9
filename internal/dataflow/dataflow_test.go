package dataflow

import (
	"bytes"
	"testing"

	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestDominatorsDiamond(t *testing.T) {
	proc := ir.NewProcedure("f", &symtab.ProcedureSymbol{})
	entry := proc.NewBlock()
	a := proc.NewBlock()
	b := proc.NewBlock()
	join := proc.NewBlock()
	proc.Entry = entry

	cxt := types.NewContext()
	boolT := cxt.PublicBoolType()
	cond := symtab.NewVariable(cxt, "cond", boolT)

	aEntry := ir.NewImop(ir.COMMENT, nil)
	a.Append(aEntry)
	jt := ir.NewImop(ir.JT, nil, cond)
	jt.Target = aEntry
	entry.Append(jt)
	ir.AddEdge(entry, a, ir.EdgeNormal)

	bEntry := ir.NewImop(ir.COMMENT, nil)
	b.Append(bEntry)
	jump := ir.NewImop(ir.JUMP, nil)
	jump.Target = bEntry
	entry.Append(jump)
	ir.AddEdge(entry, b, ir.EdgeNormal)

	joinEntry := ir.NewImop(ir.COMMENT, nil)
	join.Append(joinEntry)
	toJoin := ir.NewImop(ir.JUMP, nil)
	toJoin.Target = joinEntry
	a.Append(toJoin)
	ir.AddEdge(a, join, ir.EdgeNormal)

	toJoin2 := ir.NewImop(ir.JUMP, nil)
	toJoin2.Target = joinEntry
	b.Append(toJoin2)
	ir.AddEdge(b, join, ir.EdgeNormal)

	prog := ir.NewProgram()
	prog.AddProcedure(proc)

	doms := NewDominators()
	NewDriver(doms).Run(prog)

	require.Equal(t, entry, doms.Idom(a))
	require.Equal(t, entry, doms.Idom(b))
	require.Equal(t, entry, doms.Idom(join), "join is dominated only by entry, not by either branch")

	var buf bytes.Buffer
	doms.PrintDOT(&buf, prog)
	out := buf.String()
	require.Contains(t, out, "digraph Dominators")
	require.Contains(t, out, "p0_b3 -> p0_b0") // join (block 3) dominated by entry (block 0)
}

func TestConstantFoldAddIsReplacedWithAssign(t *testing.T) {
	cxt := types.NewContext()
	i32 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)
	two := cxt.ConstInt(true, 32, 2)
	three := cxt.ConstInt(true, 32, 3)

	c1 := &symtab.Symbol{Name: "%c1", Category: symtab.CatConstant, Type: i32, Const: two}
	c2 := &symtab.Symbol{Name: "%c2", Category: symtab.CatConstant, Type: i32, Const: three}
	dst := symtab.NewVariable(cxt, "x", i32)

	proc := ir.NewProcedure("f", &symtab.ProcedureSymbol{})
	entry := proc.NewBlock()
	proc.Entry = entry
	add := ir.NewImop(ir.ADD, dst, c1, c2)
	entry.Append(add)

	prog := ir.NewProgram()
	prog.AddProcedure(proc)

	cf := NewConstantFold(cxt)
	NewDriver(cf).Run(prog)
	n := cf.Optimize(prog)

	require.Equal(t, 1, n)
	first := entry.First()
	require.Equal(t, ir.ASSIGN, first.Op)
	require.Len(t, first.Args, 1)
	folded, ok := first.Args[0].ConstInt()
	require.True(t, ok)
	require.Equal(t, int64(5), folded.Int64())
}

func TestConstantFoldDivisionByZeroNotFolded(t *testing.T) {
	cxt := types.NewContext()
	i32 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)
	one := cxt.ConstInt(true, 32, 1)
	zero := cxt.ConstInt(true, 32, 0)

	c1 := &symtab.Symbol{Name: "%one", Category: symtab.CatConstant, Type: i32, Const: one}
	c2 := &symtab.Symbol{Name: "%zero", Category: symtab.CatConstant, Type: i32, Const: zero}
	dst := symtab.NewVariable(cxt, "c", i32)

	proc := ir.NewProcedure("f", &symtab.ProcedureSymbol{})
	entry := proc.NewBlock()
	proc.Entry = entry
	div := ir.NewImop(ir.DIV, dst, c1, c2)
	entry.Append(div)

	prog := ir.NewProgram()
	prog.AddProcedure(proc)

	cf := NewConstantFold(cxt)
	NewDriver(cf).Run(prog)
	n := cf.Optimize(prog)

	require.Equal(t, 0, n, "division by zero must yield Undef, never a folded constant")
	require.Equal(t, ir.DIV, entry.First().Op)
}

func TestConstantFoldParamProducesNAC(t *testing.T) {
	cxt := types.NewContext()
	i32 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)
	dst := symtab.NewVariable(cxt, "p", i32)

	proc := ir.NewProcedure("f", &symtab.ProcedureSymbol{})
	entry := proc.NewBlock()
	proc.Entry = entry
	entry.Append(ir.NewImop(ir.PARAM, dst))
	assign := ir.NewImop(ir.ASSIGN, symtab.NewVariable(cxt, "q", i32), dst)
	entry.Append(assign)

	prog := ir.NewProgram()
	prog.AddProcedure(proc)

	cf := NewConstantFold(cxt)
	NewDriver(cf).Run(prog)
	n := cf.Optimize(prog)

	require.Equal(t, 0, n, "a value derived from PARAM is NAC, never constant-foldable")
}
