package typecheck

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/internal/unify"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// weight is the lexicographic overload-resolution key of spec.md §4.3:
// (type-variable-count, unrestricted-type-variable-count,
// quantified-domain-occurrence-count). A regular (non-template) procedure
// has the zero weight, which always wins a tie against any template.
type weight [3]int

// less reports whether w is strictly better than o under the
// lexicographic order spec.md §4.3 specifies.
func (w weight) less(o weight) bool {
	for i := range w {
		if w[i] != o[i] {
			return w[i] < o[i]
		}
	}
	return false
}

func (w weight) equal(o weight) bool { return w == o }

// candidate is one overload under consideration for a call site: either a
// plain procedure symbol (IsTemplate == false) with no substitution, or a
// template whose quantifiers unify against the call's argument types.
type candidate struct {
	sym    *symtab.Symbol
	w      weight
	subst  *unify.Subst
	params []*types.Type
	ret    *types.Type
}

// elaborateCall resolves Call.Name against every visible procedure symbol
// (spec.md §4.3), running the full best-match algorithm, and returns the
// winning candidate's return type. ctxType, when non-nil, is the type the
// enclosing expression expects, used to discard candidates whose return
// security type would not satisfy the context. The call's own int/float
// literal arguments default to int64/float64 regardless of ctxType.
func (c *Checker) elaborateCall(scope *symtab.Scope, n *ast.Call, ctxType *types.Type) (*types.Type, error) {
	argTypes := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		t, err := c.Elaborate(scope, a)
		if err != nil {
			return nil, err
		}
		argTypes[i] = c.InstantiateDataType(t, nil)
	}

	syms := scope.LookupCategory(n.Name, symtab.CatProcedure)
	if len(syms) == 0 {
		return c.fail(n.Loc(), "no procedure named %q in scope", n.Name)
	}

	var candidates []candidate
	for _, sym := range syms {
		if sym.Proc == nil || sym.Proc.IsTemplate {
			continue // templates are resolved by the instantiator's caller, not here
		}
		if !signatureAccepts(sym.Proc, argTypes) {
			continue
		}
		if ctxType != nil && sym.Proc.Ret != nil && !ctxType.SecrecSecType().IsPublic() {
			if sym.Proc.Ret.SecrecSecType() != ctxType.SecrecSecType() {
				continue
			}
		}
		candidates = append(candidates, candidate{sym: sym, w: weight{0, 0, 0}, params: paramTypes(sym.Proc), ret: retType(sym.Proc)})
	}

	if len(candidates) == 0 {
		if c.TemplateCall != nil {
			if t, err := c.TemplateCall(scope, n, argTypes); err == nil {
				return t, nil
			}
		}
		return c.fail(n.Loc(), "no matching procedure for call to %q", n.Name)
	}

	best := candidates[0]
	ambiguous := false
	for _, cand := range candidates[1:] {
		if cand.w.less(best.w) {
			best, ambiguous = cand, false
		} else if cand.w.equal(best.w) {
			ambiguous = true
		}
	}
	if ambiguous {
		return c.fail(n.Loc(), "multiple matching procedures for call to %q", n.Name)
	}
	return best.ret, nil
}

func signatureAccepts(p *symtab.ProcedureSymbol, args []*types.Type) bool {
	if len(p.Params) != len(args) {
		return false
	}
	for i, param := range p.Params {
		if !args[i].LatticeLEQ(param.Type) && args[i] != param.Type {
			return false
		}
	}
	return true
}

func paramTypes(p *symtab.ProcedureSymbol) []*types.Type {
	out := make([]*types.Type, len(p.Params))
	for i, s := range p.Params {
		out[i] = s.Type
	}
	return out
}

func retType(p *symtab.ProcedureSymbol) *types.Type {
	if p.Ret == nil {
		return nil
	}
	return p.Ret
}

// binaryOperatorName, unaryOperatorName and castOperatorName mangle an
// OperatorDecl/CastDecl's declared shape into the procedure name it is
// registered under (internal/driver), so elaborateBinary/elaborateUnary/
// elaborateCast can look up a user overload the same way elaborateCall
// looks up a named procedure (spec.md §4.4 "operator/cast declarations").
func binaryOperatorName(op ast.BinaryOp) string { return "operator$" + op.String() }

func unaryOperatorName(op ast.UnaryOp) string { return "operator$u" + op.String() }

func castOperatorName(from, to *types.DataType) string {
	return "cast$" + from.String() + "$" + to.String()
}

// resolveOverload looks up every plain (non-template) procedure named name
// and picks the best match for argTypes using the same signatureAccepts
// filter and weight ordering as elaborateCall, without needing a *ast.Call
// node — the shared shape operator and cast dispatch need since they have
// no call-site AST to read a name/argument list off of.
func (c *Checker) resolveOverload(scope *symtab.Scope, name string, argTypes []*types.Type, loc diag.Location) (*symtab.ProcedureSymbol, *types.Type, error) {
	syms := scope.LookupCategory(name, symtab.CatProcedure)
	var candidates []candidate
	for _, sym := range syms {
		if sym.Proc == nil || sym.Proc.IsTemplate {
			continue
		}
		if !signatureAccepts(sym.Proc, argTypes) {
			continue
		}
		candidates = append(candidates, candidate{sym: sym, w: weight{0, 0, 0}, params: paramTypes(sym.Proc), ret: retType(sym.Proc)})
	}
	if len(candidates) == 0 {
		return nil, nil, diag.New(diag.KindType, loc, "no matching overload for %q", name)
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.w.equal(best.w) {
			return nil, nil, diag.New(diag.KindType, loc, "multiple matching overloads for %q", name)
		}
	}
	return best.sym.Proc, best.ret, nil
}

// ResolveTemplateCall is the template-aware counterpart of the plain-call
// path above: it unifies one template declaration against argTypes using
// internal/unify and returns the bindings together with a weight built
// from the template's quantifier counts per spec.md §4.3 point 3. It is exported separately from elaborateCall
// because selecting and instantiating a template requires internal/
// template, which this package does not import (avoiding a cycle:
// template depends on typecheck's elaborator to drain its worklist).
func ResolveTemplateCall(cxt *types.Context, tmpl *ast.TemplateDecl, declaredParams []*ast.TypeExpr, argTypes []*types.Type, loc diag.Location) (map[string]types.TypeArg, *weight, error) {
	if len(declaredParams) != len(argTypes) {
		return nil, nil, diag.New(diag.KindTemplate, loc, "argument count mismatch")
	}
	s := unify.NewSubst()
	for i, declared := range declaredParams {
		if !unify.UnifyType(cxt, declared, argTypes[i], s) {
			return nil, nil, diag.New(diag.KindTemplate, loc, "no unifying template for argument %d", i)
		}
	}
	bindings := make(map[string]types.TypeArg)
	for _, name := range s.Names() {
		arg, _ := s.Lookup(name)
		bindings[name] = arg
	}

	var unrestricted, domainOccurrences int
	for _, q := range tmpl.Quantifiers {
		if q.In == ast.QuantSec && q.KindRestriction == "" {
			unrestricted++
		}
		if q.In == ast.QuantSec {
			domainOccurrences++
		}
	}
	w := weight{len(tmpl.Quantifiers), unrestricted, domainOccurrences}
	return bindings, &w, nil
}
