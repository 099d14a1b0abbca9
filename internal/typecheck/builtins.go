package typecheck

import (
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// elaborateBuiltin implements the fixed-arity pseudo-functions spec.md
// §4.1 lists ("cat / reshape / shape / size / toString / strlen /
// bytesFromString / stringFromBytes"), each with its own rule on operand
// count and dimensionality.
func (c *Checker) elaborateBuiltin(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	switch n.Op {
	case ast.BuiltinCat:
		return c.elaborateCat(scope, n)
	case ast.BuiltinReshape:
		return c.elaborateReshape(scope, n)
	case ast.BuiltinShape:
		return c.elaborateShapeOrSize(scope, n, true)
	case ast.BuiltinSize:
		return c.elaborateShapeOrSize(scope, n, false)
	case ast.BuiltinToString:
		return c.elaborateToString(scope, n)
	case ast.BuiltinStrlen:
		return c.elaborateStrlen(scope, n)
	case ast.BuiltinBytesFromString:
		return c.elaborateBytesFromString(scope, n)
	case ast.BuiltinStringFromBytes:
		return c.elaborateStringFromBytes(scope, n)
	case ast.BuiltinPrint:
		return c.elaboratePrint(scope, n)
	default:
		return c.fail(n.Loc(), "unsupported builtin %v", n.Op)
	}
}

func (c *Checker) elaborateCat(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) < 2 || len(n.Args) > 3 {
		return c.fail(n.Loc(), "cat takes 2 or 3 arguments, got %d", len(n.Args))
	}
	lt, err := c.Elaborate(scope, n.Args[0])
	if err != nil {
		return nil, err
	}
	rt, err := c.Elaborate(scope, n.Args[1])
	if err != nil {
		return nil, err
	}
	if lt.Dim != rt.Dim {
		return c.fail(n.Loc(), "cat requires matching dimensionality: %d vs %d", lt.Dim, rt.Dim)
	}
	if len(n.Args) == 3 {
		if it, err := c.Elaborate(scope, n.Args[2]); err != nil {
			return nil, err
		} else if !it.IsPublicUintScalar() {
			return c.fail(n.Loc(), "cat's axis argument must be a public uint scalar")
		}
	}
	sec, ok := types.SecJoin(lt.Sec, rt.Sec)
	if !ok {
		return c.fail(n.Loc(), "cat operands have incompatible security types")
	}
	data, err := joinNumeric(c.Cxt, lt.Data, rt.Data, n.Loc())
	if err != nil {
		return nil, err
	}
	return c.Cxt.BasicType(sec, data, lt.Dim), nil
}

func (c *Checker) elaborateReshape(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) < 1 {
		return c.fail(n.Loc(), "reshape requires an array argument")
	}
	t, err := c.Elaborate(scope, n.Args[0])
	if err != nil {
		return nil, err
	}
	newDim := types.DimType(len(n.Args) - 1)
	for _, dimArg := range n.Args[1:] {
		dt, err := c.Elaborate(scope, dimArg)
		if err != nil {
			return nil, err
		}
		if !dt.IsPublicUintScalar() {
			return c.fail(n.Loc(), "reshape's shape arguments must be public uint scalars")
		}
	}
	return c.Cxt.BasicType(t.Sec, t.Data, newDim), nil
}

// elaborateShapeOrSize implements both `shape` (returns a public uint64
// vector, one element per dimension) and `size` (returns a public uint64
// scalar, the element count).
func (c *Checker) elaborateShapeOrSize(scope *symtab.Scope, n *ast.Builtin, shape bool) (*types.Type, error) {
	if len(n.Args) != 1 {
		return c.fail(n.Loc(), "%v takes exactly one argument", n.Op)
	}
	if _, err := c.Elaborate(scope, n.Args[0]); err != nil {
		return nil, err
	}
	dim := types.DimType(0)
	if shape {
		dim = 1
	}
	return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.Uint64), dim), nil
}

func (c *Checker) elaborateToString(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) != 1 {
		return c.fail(n.Loc(), "toString takes exactly one argument")
	}
	t, err := c.Elaborate(scope, n.Args[0])
	if err != nil {
		return nil, err
	}
	if !t.Sec.IsPublic() {
		return c.fail(n.Loc(), "toString requires a public operand")
	}
	return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.StringK), 0), nil
}

func (c *Checker) elaborateStrlen(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) != 1 {
		return c.fail(n.Loc(), "strlen takes exactly one argument")
	}
	t, err := c.Elaborate(scope, n.Args[0])
	if err != nil {
		return nil, err
	}
	if t.Data.Tag != types.TagBuiltin || t.Data.Builtin != types.StringK {
		return c.fail(n.Loc(), "strlen requires a string operand")
	}
	return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.Uint64), 0), nil
}

func (c *Checker) elaborateBytesFromString(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) != 1 {
		return c.fail(n.Loc(), "bytesFromString takes exactly one argument")
	}
	t, err := c.Elaborate(scope, n.Args[0])
	if err != nil {
		return nil, err
	}
	if t.Data.Tag != types.TagBuiltin || t.Data.Builtin != types.StringK {
		return c.fail(n.Loc(), "bytesFromString requires a string operand")
	}
	return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.Uint8), 1), nil
}

func (c *Checker) elaborateStringFromBytes(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) != 1 {
		return c.fail(n.Loc(), "stringFromBytes takes exactly one argument")
	}
	t, err := c.Elaborate(scope, n.Args[0])
	if err != nil {
		return nil, err
	}
	if t.Data.Tag != types.TagBuiltin || t.Data.Builtin != types.Uint8 || t.Dim != 1 {
		return c.fail(n.Loc(), "stringFromBytes requires a uint8[[1]] operand")
	}
	return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.StringK), 0), nil
}

func (c *Checker) elaboratePrint(scope *symtab.Scope, n *ast.Builtin) (*types.Type, error) {
	if len(n.Args) != 1 {
		return c.fail(n.Loc(), "print takes exactly one argument")
	}
	if _, err := c.Elaborate(scope, n.Args[0]); err != nil {
		return nil, err
	}
	return c.Cxt.VoidType(), nil
}
