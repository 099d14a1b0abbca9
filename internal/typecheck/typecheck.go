// Package typecheck implements bottom-up elaboration of an AST into fully
// resolved pkg/types.Type values (spec.md §4.1), including literal
// defaulting, overload resolution and template-aware call resolution
// (spec.md §4.3). Grounded on original_source's TypeChecker.cpp; see
// DESIGN.md.
package typecheck

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// Checker holds the state threaded through elaboration: the interning
// context, the diagnostic sink, and the per-node memo table (spec.md
// §4.1 "Elaboration is memoizing").
type Checker struct {
	Cxt *types.Context
	Log diag.Log

	memo map[ast.Expr]*types.Type

	// TemplateCall, when set, is consulted by elaborateCall once no plain
	// (non-template) overload matches a call site. It exists so a driver
	// wiring a *template.Instantiator can resolve template calls without
	// this package importing internal/template, which would cycle back
	// (the instantiator drains its worklist by calling back into this
	// Checker to elaborate each instantiated body).
	TemplateCall func(scope *symtab.Scope, call *ast.Call, argTypes []*types.Type) (*types.Type, error)

	// StructType, when set, resolves a struct type reference — name plus,
	// for a generic struct, concrete type arguments — to its composite
	// DataType. Wired by the driver, which owns the struct declaration
	// registry and the quantifier-binding logic (internal/unify), so this
	// package only ever sees the result.
	StructType func(name string, args []*ast.TypeExpr) (*types.DataType, error)
}

// New creates a Checker writing diagnostics to log.
func New(cxt *types.Context, log diag.Log) *Checker {
	return &Checker{Cxt: cxt, Log: log, memo: make(map[ast.Expr]*types.Type)}
}

func (c *Checker) fail(loc diag.Location, format string, args ...any) (*types.Type, error) {
	err := diag.New(diag.KindType, loc, format, args...)
	c.Log.Append(err.ToDiagnostic())
	return nil, err
}

// Elaborate returns the fully resolved type of e, computing it on first
// visit and returning the cached result on re-entry (spec.md §4.1
// "re-entry after success is a no-op").
func (c *Checker) Elaborate(scope *symtab.Scope, e ast.Expr) (*types.Type, error) {
	if t, ok := c.memo[e]; ok {
		return t, nil
	}
	t, err := c.elaborate(scope, e)
	if err != nil {
		return nil, err
	}
	c.memo[e] = t
	return t, nil
}

func (c *Checker) elaborate(scope *symtab.Scope, e ast.Expr) (*types.Type, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.Numeric), 0), nil
	case *ast.FloatLit:
		return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.NumericFloat), 0), nil
	case *ast.BoolLit:
		return c.Cxt.PublicBoolType(), nil
	case *ast.StringLit:
		return c.Cxt.BasicType(c.Cxt.PublicSecType(), c.Cxt.BuiltinType(types.StringK), 0), nil
	case *ast.Ident:
		return c.elaborateIdent(scope, n)
	case *ast.Binary:
		return c.elaborateBinary(scope, n)
	case *ast.Unary:
		return c.elaborateUnary(scope, n)
	case *ast.Cast:
		return c.elaborateCast(scope, n)
	case *ast.Index:
		return c.elaborateIndex(scope, n)
	case *ast.Call:
		return c.elaborateCall(scope, n, nil)
	case *ast.Classify:
		return c.elaborateClassify(scope, n)
	case *ast.Declassify:
		return c.elaborateDeclassify(scope, n)
	case *ast.Ternary:
		return c.elaborateTernary(scope, n)
	case *ast.ArrayCtor:
		return c.elaborateArrayCtor(scope, n)
	case *ast.Builtin:
		return c.elaborateBuiltin(scope, n)
	case *ast.Select:
		return c.elaborateSelect(scope, n)
	default:
		return c.fail(e.Loc(), "unsupported expression kind %v", e.Kind())
	}
}

func (c *Checker) elaborateIdent(scope *symtab.Scope, n *ast.Ident) (*types.Type, error) {
	sym, err := scope.LookupOne(n.Name, symtab.CatVariable, n.Loc())
	if err != nil {
		if more := scope.LookupCategory(n.Name, symtab.CatConstant); len(more) > 0 {
			return more[0].Type, nil
		}
		return nil, err
	}
	return sym.Type, nil
}

// InstantiateDataType defaults an unresolved numeric/numeric_float literal
// type to int64/float64 (spec.md §4.1 "instantiateDataType"); any other
// type passes through unchanged. target, when non-nil, drives defaulting
// toward its data type instead of the int64/float64 default, the rule
// that lets `uint x = 1;` type the literal as uint rather than int64.
func (c *Checker) InstantiateDataType(t *types.Type, target *types.Type) *types.Type {
	if t.Kind != types.KindBasic || t.Data.Tag != types.TagBuiltin {
		return t
	}
	switch t.Data.Builtin {
	case types.Numeric:
		if target != nil && target.Kind == types.KindBasic && target.Data.Tag == types.TagBuiltin && target.Data.Builtin.IsNumeric() {
			return c.Cxt.BasicType(t.Sec, target.Data, t.Dim)
		}
		return c.Cxt.BasicType(t.Sec, c.Cxt.BuiltinType(types.Int64), t.Dim)
	case types.NumericFloat:
		if target != nil && target.Kind == types.KindBasic && target.Data.Tag == types.TagBuiltin && target.Data.Builtin.IsFloating() {
			return c.Cxt.BasicType(t.Sec, target.Data, t.Dim)
		}
		return c.Cxt.BasicType(t.Sec, c.Cxt.BuiltinType(types.Float64), t.Dim)
	default:
		return t
	}
}

func (c *Checker) elaborateBinary(scope *symtab.Scope, n *ast.Binary) (*types.Type, error) {
	lt, err := c.Elaborate(scope, n.Left)
	if err != nil {
		return nil, err
	}
	rt, err := c.Elaborate(scope, n.Right)
	if err != nil {
		return nil, err
	}
	if lt.Kind != types.KindBasic || rt.Kind != types.KindBasic {
		return c.fail(n.Loc(), "operands of %v must be basic types", n.Op)
	}
	if lt.Data.IsComposite() || rt.Data.IsComposite() {
		name := binaryOperatorName(n.Op)
		if _, ret, err := c.resolveOverload(scope, name, []*types.Type{lt, rt}, n.Loc()); err == nil {
			return ret, nil
		}
		return c.fail(n.Loc(), "no operator %v overload for %s, %s", n.Op, lt.Data, rt.Data)
	}
	sec, ok := types.SecJoin(lt.Sec, rt.Sec)
	if !ok {
		return c.fail(n.Loc(), "incompatible security types in %v: %s vs %s", n.Op, lt.Sec, rt.Sec)
	}

	var data *types.DataType
	switch n.Op {
	case ast.OpLAnd, ast.OpLOr:
		if lt.Data.Tag != types.TagBuiltin || lt.Data.Builtin != types.Bool ||
			rt.Data.Tag != types.TagBuiltin || rt.Data.Builtin != types.Bool {
			return c.fail(n.Loc(), "operands of %v must be bool", n.Op)
		}
		data = c.Cxt.BuiltinType(types.Bool)
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if !compatibleData(lt.Data, rt.Data) {
			return c.fail(n.Loc(), "incomparable data types in %v: %s vs %s", n.Op, lt.Data, rt.Data)
		}
		data = c.Cxt.BuiltinType(types.Bool)
	case ast.OpBAnd, ast.OpBOr, ast.OpXor, ast.OpShl, ast.OpShr:
		joined, err := joinNumeric(c.Cxt, lt.Data, rt.Data, n.Loc())
		if err != nil {
			return nil, err
		}
		data = joined
	default: // arithmetic
		joined, err := joinNumeric(c.Cxt, lt.Data, rt.Data, n.Loc())
		if err != nil {
			return nil, err
		}
		data = joined
	}

	dim := types.DimUpper(lt.Dim, rt.Dim)
	if lt.Dim != 0 && rt.Dim != 0 && lt.Dim != rt.Dim {
		return c.fail(n.Loc(), "incompatible dimensionalities in %v: %d vs %d", n.Op, lt.Dim, rt.Dim)
	}
	return c.Cxt.BasicType(sec, data, dim), nil
}

func compatibleData(a, b *types.DataType) bool {
	if a == b {
		return true
	}
	if a.Tag == types.TagBuiltin && b.Tag == types.TagBuiltin {
		return types.BuiltinImplicitLEQ(a.Builtin, b.Builtin) || types.BuiltinImplicitLEQ(b.Builtin, a.Builtin)
	}
	return false
}

func joinNumeric(cxt *types.Context, a, b *types.DataType, loc diag.Location) (*types.DataType, error) {
	if a == b {
		return a, nil
	}
	if a.Tag == types.TagBuiltin && b.Tag == types.TagBuiltin {
		if types.BuiltinImplicitLEQ(a.Builtin, b.Builtin) {
			return b, nil
		}
		if types.BuiltinImplicitLEQ(b.Builtin, a.Builtin) {
			return a, nil
		}
	}
	return nil, diag.New(diag.KindType, loc, "incompatible data types: %s vs %s", a, b)
}

func (c *Checker) elaborateUnary(scope *symtab.Scope, n *ast.Unary) (*types.Type, error) {
	t, err := c.Elaborate(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	if t.Kind == types.KindBasic && t.Data.IsComposite() {
		name := unaryOperatorName(n.Op)
		if _, ret, err := c.resolveOverload(scope, name, []*types.Type{t}, n.Loc()); err == nil {
			return ret, nil
		}
		return c.fail(n.Loc(), "no operator %v overload for %s", n.Op, t.Data)
	}
	return t, nil
}

func (c *Checker) elaborateCast(scope *symtab.Scope, n *ast.Cast) (*types.Type, error) {
	t, err := c.Elaborate(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	toData, err := c.resolveDataExpr(n.To)
	if err != nil {
		return c.fail(n.Loc(), "unknown cast target %q", n.To.Builtin)
	}
	if t.Data.Tag == types.TagBuiltin && toData.Tag == types.TagBuiltin {
		_, implicit, explicit := types.BuiltinCastStyle(t.Data.Builtin, toData.Builtin)
		if !implicit && !explicit && t.Data.Builtin != toData.Builtin {
			return c.fail(n.Loc(), "no cast from %s to %s", t.Data, toData)
		}
		return c.Cxt.BasicType(t.Sec, toData, t.Dim), nil
	}
	// A struct operand or a struct cast target has no builtin conversion
	// rule; dispatch to a user-declared cast overload instead (spec.md
	// §4.4 "operator/cast declarations").
	name := castOperatorName(t.Data, toData)
	if _, ret, err := c.resolveOverload(scope, name, []*types.Type{t}, n.Loc()); err == nil {
		return ret, nil
	}
	return c.fail(n.Loc(), "no cast from %s to %s", t.Data, toData)
}

func (c *Checker) elaborateIndex(scope *symtab.Scope, n *ast.Index) (*types.Type, error) {
	t, err := c.Elaborate(scope, n.Array)
	if err != nil {
		return nil, err
	}
	if t.Kind != types.KindBasic || int(t.Dim) != len(n.Args) {
		return c.fail(n.Loc(), "index arity %d does not match dimensionality %d", len(n.Args), t.Dim)
	}
	var resultDim types.DimType
	for _, a := range n.Args {
		if a.IsRange {
			resultDim++
			if a.Lo != nil {
				if lt, err := c.Elaborate(scope, a.Lo); err != nil {
					return nil, err
				} else if !lt.IsPublicUintScalar() {
					return c.fail(n.Loc(), "slice bound must be a public uint scalar")
				}
			}
			if a.Hi != nil {
				if ht, err := c.Elaborate(scope, a.Hi); err != nil {
					return nil, err
				} else if !ht.IsPublicUintScalar() {
					return c.fail(n.Loc(), "slice bound must be a public uint scalar")
				}
			}
			continue
		}
		it, err := c.Elaborate(scope, a.Single)
		if err != nil {
			return nil, err
		}
		if !it.IsPublicUintScalar() {
			return c.fail(n.Loc(), "index must be a public uint scalar")
		}
	}
	return c.Cxt.BasicType(t.Sec, t.Data, resultDim), nil
}

func (c *Checker) elaborateClassify(scope *symtab.Scope, n *ast.Classify) (*types.Type, error) {
	t, err := c.Elaborate(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	if !t.Sec.IsPublic() {
		return c.fail(n.Loc(), "classify requires a public operand")
	}
	dom, ok := c.Cxt.LookupPrivateSecType(n.Domain.Domain)
	if !ok {
		return c.fail(n.Loc(), "undeclared domain %q", n.Domain.Domain)
	}
	return c.Cxt.BasicType(dom, t.Data, t.Dim), nil
}

func (c *Checker) elaborateDeclassify(scope *symtab.Scope, n *ast.Declassify) (*types.Type, error) {
	t, err := c.Elaborate(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	if t.Sec.IsPublic() {
		return c.fail(n.Loc(), "declassify requires a private operand")
	}
	rep := types.DataTypeDeclassify(t.Data)
	if rep == nil {
		return c.fail(n.Loc(), "type %s has no public representation", t.Data)
	}
	return c.Cxt.BasicType(c.Cxt.PublicSecType(), rep, t.Dim), nil
}

func (c *Checker) elaborateTernary(scope *symtab.Scope, n *ast.Ternary) (*types.Type, error) {
	ct, err := c.Elaborate(scope, n.Cond)
	if err != nil {
		return nil, err
	}
	if ct.Data.Tag != types.TagBuiltin || ct.Data.Builtin != types.Bool || !ct.Sec.IsPublic() {
		return c.fail(n.Loc(), "ternary condition must be public bool")
	}
	tt, err := c.Elaborate(scope, n.Then)
	if err != nil {
		return nil, err
	}
	et, err := c.Elaborate(scope, n.Else)
	if err != nil {
		return nil, err
	}
	sec, ok := types.SecJoin(tt.Sec, et.Sec)
	if !ok {
		return c.fail(n.Loc(), "ternary branches have incompatible security types")
	}
	data, err := joinNumeric(c.Cxt, tt.Data, et.Data, n.Loc())
	if err != nil {
		return nil, err
	}
	dim := types.DimUpper(tt.Dim, et.Dim)
	return c.Cxt.BasicType(sec, data, dim), nil
}

func (c *Checker) elaborateArrayCtor(scope *symtab.Scope, n *ast.ArrayCtor) (*types.Type, error) {
	if len(n.Elems) == 0 {
		return c.fail(n.Loc(), "empty array constructor has no element type")
	}
	first, err := c.Elaborate(scope, n.Elems[0])
	if err != nil {
		return nil, err
	}
	sec, data := first.Sec, first.Data
	for _, el := range n.Elems[1:] {
		et, err := c.Elaborate(scope, el)
		if err != nil {
			return nil, err
		}
		var ok bool
		sec, ok = types.SecJoin(sec, et.Sec)
		if !ok {
			return c.fail(n.Loc(), "array constructor elements have incompatible security types")
		}
		data, err = joinNumeric(c.Cxt, data, et.Data, n.Loc())
		if err != nil {
			return nil, err
		}
	}
	return c.Cxt.BasicType(sec, data, 1), nil
}

func (c *Checker) elaborateSelect(scope *symtab.Scope, n *ast.Select) (*types.Type, error) {
	t, err := c.Elaborate(scope, n.Struct)
	if err != nil {
		return nil, err
	}
	if t.Kind != types.KindBasic || !t.Data.IsComposite() {
		return c.fail(n.Loc(), "select requires a struct-typed operand")
	}
	field, ok := t.Data.FieldByName(n.Field)
	if !ok {
		return c.fail(n.Loc(), "struct %s has no field %q", t.Data, n.Field)
	}
	return field.Type, nil
}

func builtinKindByName(name string) (types.BuiltinKind, bool) {
	names := map[string]types.BuiltinKind{
		"bool": types.Bool, "string": types.StringK,
		"numeric": types.Numeric, "numeric_float": types.NumericFloat,
		"int8": types.Int8, "int16": types.Int16, "int32": types.Int32, "int64": types.Int64,
		"uint8": types.Uint8, "uint16": types.Uint16, "uint32": types.Uint32, "uint64": types.Uint64,
		"xor_uint8": types.XorUint8, "xor_uint16": types.XorUint16, "xor_uint32": types.XorUint32, "xor_uint64": types.XorUint64,
		"float32": types.Float32, "float64": types.Float64,
	}
	k, ok := names[name]
	return k, ok
}
