// Package unify implements structural unification of a declaration's
// syntactic type-expression tree (pkg/ast's TypeExpr/SecExpr/DataExpr/
// DimExpr, possibly containing quantified variables) against a concrete
// pkg/types.Type, producing the substitution used by overload resolution
// and template instantiation (spec.md §4.2). Grounded on original_source's
// TemplateTypeUnifier family; see DESIGN.md.
package unify

import (
	"sort"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// Subst is the substitution being built: quantifier name -> bound
// TypeArg. A single Subst is threaded through all three unifiers below so
// that "domain D, type T, dim N" as one quantifier list unifies
// consistently across the triple.
type Subst struct {
	bindings map[string]types.TypeArg
}

// NewSubst returns an empty substitution.
func NewSubst() *Subst { return &Subst{bindings: make(map[string]types.TypeArg)} }

// Lookup returns the bound TypeArg for name, if any.
func (s *Subst) Lookup(name string) (types.TypeArg, bool) {
	a, ok := s.bindings[name]
	return a, ok
}

// bind records name -> arg, or checks consistency if name is already
// bound (a quantifier occurring twice in one declaration must unify to
// the same type argument both times).
func (s *Subst) bind(name string, arg types.TypeArg) bool {
	if existing, ok := s.bindings[name]; ok {
		return existing.Equal(arg)
	}
	s.bindings[name] = arg
	return true
}

// Names returns the bound quantifier names, for deterministic iteration
// (e.g. building an instantiation key).
func (s *Subst) Names() []string {
	out := make([]string, 0, len(s.bindings))
	for n := range s.bindings {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// UnifySec unifies a SecExpr (nil meaning public) against a concrete
// SecurityType.
func UnifySec(cxt *types.Context, expr *ast.SecExpr, concrete *types.SecurityType, s *Subst) bool {
	if expr == nil {
		return concrete.IsPublic()
	}
	if expr.IsVar() {
		return s.bind(expr.Var, types.TypeArg{Tag: types.ArgSec, Sec: concrete})
	}
	named, ok := cxt.LookupPrivateSecType(expr.Domain)
	if !ok {
		return false
	}
	return named == concrete
}

// UnifyDim unifies a DimExpr (nil meaning scalar) against a concrete
// DimType.
func UnifyDim(expr *ast.DimExpr, concrete types.DimType, s *Subst) bool {
	if expr == nil {
		return concrete == 0
	}
	if expr.IsVar() {
		return s.bind(expr.Var, types.TypeArg{Tag: types.ArgDim, Dim: concrete})
	}
	return types.DimType(expr.Value) == concrete
}

// UnifyData unifies a DataExpr against a concrete DataType. When the
// declaration names a builtin but the concrete type is a user-primitive
// whose public representation is that builtin, declassify-before-compare
// applies (spec.md §4.2 "this is the rule that makes e.g. D T x = e
// accept a public T").
func UnifyData(cxt *types.Context, expr *ast.DataExpr, concrete *types.DataType, s *Subst) bool {
	if expr.IsVar() {
		return s.bind(expr.Var, types.TypeArg{Tag: types.ArgData, Data: concrete})
	}
	if expr.Builtin != "" {
		bk, ok := lookupBuiltinKind(expr.Builtin)
		if !ok {
			return false
		}
		want := cxt.BuiltinType(bk)
		if want == concrete {
			return true
		}
		if rep := types.DataTypeDeclassify(concrete); rep != nil {
			return want == rep
		}
		return false
	}
	// Named user-primitive or struct.
	if concrete.Tag == types.TagUserPrimitive && concrete.UserName == expr.Name {
		return true
	}
	if concrete.Tag == types.TagComposite && concrete.StructName == expr.Name {
		if len(expr.Args) != len(concrete.TypeArgs) {
			return false
		}
		for i, argExpr := range expr.Args {
			if !unifyTypeExprAgainstArg(cxt, argExpr, concrete.TypeArgs[i], s) {
				return false
			}
		}
		return true
	}
	return false
}

// unifyTypeExprAgainstArg unifies one struct-template argument position;
// a TypeExpr in argument position may itself be a bare sec/data/dim
// binder depending on which component of arg is populated.
func unifyTypeExprAgainstArg(cxt *types.Context, expr *ast.TypeExpr, arg types.TypeArg, s *Subst) bool {
	switch arg.Tag {
	case types.ArgSec:
		return UnifySec(cxt, expr.Sec, arg.Sec, s)
	case types.ArgData:
		return UnifyData(cxt, expr.Data, arg.Data, s)
	case types.ArgDim:
		return UnifyDim(expr.Dim, arg.Dim, s)
	default:
		return false
	}
}

// UnifyType unifies a full TypeExpr against a concrete Basic type,
// running all three component unifiers against a shared Subst.
func UnifyType(cxt *types.Context, expr *ast.TypeExpr, concrete *types.Type, s *Subst) bool {
	if concrete.Kind != types.KindBasic {
		return false
	}
	return UnifySec(cxt, expr.Sec, concrete.Sec, s) &&
		UnifyData(cxt, expr.Data, concrete.Data, s) &&
		UnifyDim(expr.Dim, concrete.Dim, s)
}

// ResolveTypeArg resolves one generic struct's syntactic type argument (a
// full TypeExpr at a single Quantifier position) to a concrete TypeArg of
// the kind the quantifier declares — the instantiation-direction
// counterpart of unifyTypeExprAgainstArg's matching-direction unification
// (spec.md §4.4 struct instantiation). resolveData resolves a (possibly
// struct-named) DataExpr to its DataType; it is a callback so this package
// does not need to depend on the driver's struct registry.
func ResolveTypeArg(cxt *types.Context, expr *ast.TypeExpr, q *ast.Quantifier, resolveData func(name string, args []*ast.TypeExpr) (*types.DataType, error)) (types.TypeArg, error) {
	switch q.In {
	case ast.QuantSec:
		if expr.Sec == nil {
			return types.TypeArg{Tag: types.ArgSec, Sec: cxt.PublicSecType()}, nil
		}
		dom, ok := cxt.LookupPrivateSecType(expr.Sec.Domain)
		if !ok {
			return types.TypeArg{}, diag.New(diag.KindTemplate, expr.Loc(), "undeclared domain %q", expr.Sec.Domain)
		}
		return types.TypeArg{Tag: types.ArgSec, Sec: dom}, nil
	case ast.QuantData:
		if expr.Data == nil {
			return types.TypeArg{}, diag.New(diag.KindTemplate, expr.Loc(), "expected a data type argument")
		}
		if expr.Data.Builtin != "" {
			bk, ok := lookupBuiltinKind(expr.Data.Builtin)
			if !ok {
				return types.TypeArg{}, diag.New(diag.KindTemplate, expr.Loc(), "unknown type %q", expr.Data.Builtin)
			}
			return types.TypeArg{Tag: types.ArgData, Data: cxt.BuiltinType(bk)}, nil
		}
		dt, err := resolveData(expr.Data.Name, expr.Data.Args)
		if err != nil {
			return types.TypeArg{}, err
		}
		return types.TypeArg{Tag: types.ArgData, Data: dt}, nil
	case ast.QuantDim:
		if expr.Dim == nil {
			return types.TypeArg{Tag: types.ArgDim, Dim: 0}, nil
		}
		return types.TypeArg{Tag: types.ArgDim, Dim: types.DimType(expr.Dim.Value)}, nil
	default:
		return types.TypeArg{}, diag.New(diag.KindTemplate, expr.Loc(), "invalid quantifier domain")
	}
}

// builtinNames mirrors the lexical spelling of every BuiltinKind, so the
// unifier can resolve a DataExpr.Builtin string without pkg/ast depending
// on pkg/types.
var builtinNames = map[string]types.BuiltinKind{
	"bool": types.Bool, "string": types.StringK,
	"numeric": types.Numeric, "numeric_float": types.NumericFloat,
	"int8": types.Int8, "int16": types.Int16, "int32": types.Int32, "int64": types.Int64,
	"uint8": types.Uint8, "uint16": types.Uint16, "uint32": types.Uint32, "uint64": types.Uint64,
	"xor_uint8": types.XorUint8, "xor_uint16": types.XorUint16, "xor_uint32": types.XorUint32, "xor_uint64": types.XorUint64,
	"float32": types.Float32, "float64": types.Float64,
}

func lookupBuiltinKind(name string) (types.BuiltinKind, bool) {
	k, ok := builtinNames[name]
	return k, ok
}
