// Package template implements lazy monomorphization of polymorphic
// declarations (spec.md §4.4): an instantiation cache keyed by (template
// symbol, type-argument tuple) plus a worklist drained by the type
// checker. Grounded on original_source's TemplateInstantiator; see
// DESIGN.md.
package template

import (
	"sort"
	"strings"

	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// Instance is one monomorphic body generated from a template: a deep
// clone of the template's declaration, a fresh local scope binding each
// quantifier to its concrete argument, and the key that produced it.
type Instance struct {
	Key      string
	Decl     ast.Decl // cloned *ProcDecl/*OperatorDecl/*CastDecl
	Scope    *symtab.Scope
	Bindings map[string]types.TypeArg // quantifier name -> concrete argument
}

// Instantiator owns the cache and worklist described in spec.md §4.4.
// It is not safe for concurrent use; the core is single-threaded
// (spec.md §5).
type Instantiator struct {
	cxt      *types.Context
	cache    map[string]*Instance
	worklist []*Instance
}

// New creates an empty Instantiator.
func New(cxt *types.Context) *Instantiator {
	return &Instantiator{cxt: cxt, cache: make(map[string]*Instance)}
}

// key builds the deterministic instantiation key from a template name and
// its bound arguments, ordered by quantifier name so the same binding set
// always produces the same key regardless of map iteration order.
func key(templateName string, bindings map[string]types.TypeArg) string {
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(templateName)
	for _, n := range names {
		b.WriteByte('|')
		b.WriteString(n)
		b.WriteByte('=')
		b.WriteString(bindings[n].String())
	}
	return b.String()
}

// Add returns the cached Instance for (templateName, bindings) if one
// exists; otherwise it clones tmpl.Inner via clone, builds a fresh scope
// nested in global whose bindings map each quantifier to its concrete
// type argument, records the instance, pushes it onto the worklist, and
// returns it. Add never elaborates the cloned body itself — re-entrant
// calls from inside the type checker are therefore always safe (spec.md
// §4.4 "Re-entrant instantiation... is safe because add does not
// elaborate eagerly").
func (inst *Instantiator) Add(templateName string, tmpl *ast.TemplateDecl, bindings map[string]types.TypeArg, global *symtab.Scope, clone func(ast.Decl) ast.Decl) *Instance {
	k := key(templateName, bindings)
	if existing, ok := inst.cache[k]; ok {
		return existing
	}

	scope := symtab.NewScope(global)
	for _, q := range tmpl.Quantifiers {
		arg, ok := bindings[q.Name]
		if !ok {
			continue
		}
		bindQuantifierSymbol(scope, q, arg)
	}

	body := clone(tmpl.Inner)
	instance := &Instance{Key: k, Decl: body, Scope: scope, Bindings: bindings}
	inst.cache[k] = instance
	inst.worklist = append(inst.worklist, instance)
	return instance
}

// bindQuantifierSymbol declares a scope-level symbol recording a bound
// quantifier, so the cloned body's references to "D"/"T"/"N" resolve
// during elaboration of its instance.
func bindQuantifierSymbol(scope *symtab.Scope, q *ast.Quantifier, arg types.TypeArg) {
	var cat symtab.Category
	switch q.In {
	case ast.QuantSec:
		cat = symtab.CatDomain
	case ast.QuantData:
		cat = symtab.CatDataTypeVar
	case ast.QuantDim:
		cat = symtab.CatDimVar
	}
	scope.Declare(&symtab.Symbol{Name: q.Name, Category: cat, KindName: q.KindRestriction})
	_ = arg // the concrete binding is consulted by the checker via Instance, not re-derived from the symbol
}

// Pending reports whether the worklist has unprocessed instances.
func (inst *Instantiator) Pending() bool { return len(inst.worklist) > 0 }

// Drain repeatedly pops the worklist and calls elaborate on each
// instance, until empty (spec.md §4.4 "drain"). elaborate is expected to
// be the type checker's entry point for a single instance body; it may
// itself call Add (discovering further template calls), which appends to
// the same worklist Drain is consuming, so the loop continues until
// truly empty.
func (inst *Instantiator) Drain(elaborate func(*Instance) error) error {
	for len(inst.worklist) > 0 {
		next := inst.worklist[0]
		inst.worklist = inst.worklist[1:]
		if err := elaborate(next); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of distinct instances generated so far, used
// by tests asserting cache behaviour (spec.md §8 scenario 6).
func (inst *Instantiator) Count() int { return len(inst.cache) }
