// Package symtab implements the lexically nested symbol table: the
// elaborator's view of "what name means what" at any point in a program.
// Categories and auxiliary-symbol structure follow the original
// implementation's Symbol/SymbolTable design (see DESIGN.md); the Go
// shape (explicit *types.Context, *diag.Error returns) follows this
// module's own pkg/types and internal/diag conventions.
package symtab

import (
	"fmt"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/pkg/types"
)

// Category classifies what a Symbol denotes.
type Category int

const (
	CatConstant Category = iota
	CatVariable
	CatProcedure
	CatStruct
	CatTemplate
	CatLabel
	CatKind
	CatDomain
	CatDimVar
	CatDataTypeVar
)

func (c Category) String() string {
	names := [...]string{"constant", "variable", "procedure", "struct", "template", "label", "kind", "domain", "dim-var", "data-type-var"}
	if int(c) < len(names) {
		return names[c]
	}
	return "<invalid category>"
}

// Symbol is one scoped binding.
type Symbol struct {
	Name     string
	Category Category
	Type     *types.Type // nil for labels, kinds, domains

	// Variable-only auxiliary symbols (spec.md §3 "Symbols").
	DimSyms []*Symbol          // one public uint64 scalar per array dimension
	SizeSym *Symbol            // product of DimSyms; nil for scalars
	Fields  map[string]*Symbol // composite variables: one child per field

	// Const holds the interned constant value this symbol denotes, for the
	// throwaway symbols internal/codegen wraps integer/string literals in
	// as Imop operands; nil for ordinary variables. internal/dataflow's
	// constant-folding analysis reads it directly instead of re-deriving a
	// literal's value from IR (spec.md §4.6.1).
	Const any

	// Procedure/template-only.
	Proc *ProcedureSymbol

	// Kind/domain-only.
	KindName string
}

// ConstInt returns (v, true) if sym wraps an interned *types.ConstantInt.
func (s *Symbol) ConstInt() (*types.ConstantInt, bool) {
	v, ok := s.Const.(*types.ConstantInt)
	return v, ok
}

// ConstString returns (v, true) if sym wraps an interned *types.ConstantString.
func (s *Symbol) ConstString() (*types.ConstantString, bool) {
	v, ok := s.Const.(*types.ConstantString)
	return v, ok
}

// ConstFloat returns (v, true) if sym wraps an interned *types.ConstantFloat.
func (s *Symbol) ConstFloat() (*types.ConstantFloat, bool) {
	v, ok := s.Const.(*types.ConstantFloat)
	return v, ok
}

// ProcedureSymbol carries the extra bookkeeping a callable symbol needs:
// its declared parameter/return shape and, once generated, its entry
// point. internal/ir depends on symtab (not the reverse), so the
// IR-side entry point is recorded by internal/ir's Program.ProcBySymbol,
// not here, to avoid an import cycle.
type ProcedureSymbol struct {
	Params []*Symbol
	Ret    *types.Type // nil for void
	// IsTemplate marks a polymorphic declaration; its AST body is cloned
	// per instantiation rather than elaborated directly.
	IsTemplate bool
}

// NewVariable builds a variable symbol with its dimension/size auxiliary
// symbols already populated for an array of the given type's Dim.
func NewVariable(cxt *types.Context, name string, t *types.Type) *Symbol {
	s := &Symbol{Name: name, Category: CatVariable, Type: t}
	if t.Kind != types.KindBasic || t.Dim == 0 {
		return s
	}
	idx := cxt.IndexType()
	s.DimSyms = make([]*Symbol, t.Dim)
	for i := range s.DimSyms {
		s.DimSyms[i] = &Symbol{Name: fmt.Sprintf("%s.dim%d", name, i), Category: CatVariable, Type: idx}
	}
	s.SizeSym = &Symbol{Name: name + ".size", Category: CatVariable, Type: idx}
	return s
}

// Scope is one lexical level of nesting; it forms a tree rooted at the
// module/global scope. Multiple symbols of the same name may coexist
// (procedure overloads); lookup by category disambiguates.
type Scope struct {
	parent  *Scope
	symbols map[string][]*Symbol
	imports []*Scope // imported module scopes, searched after this one
}

// NewScope creates a scope nested inside parent (nil for the root/global
// scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string][]*Symbol)}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Import makes imp's top-level bindings visible (after this scope's own)
// from s.
func (s *Scope) Import(imp *Scope) { s.imports = append(s.imports, imp) }

// Declare adds sym to this scope. It does not check for redefinition;
// callers (the checker) decide whether an existing binding of the same
// name/category is a conflict (e.g. two procedures with identical
// signatures) or legal overloading.
func (s *Scope) Declare(sym *Symbol) {
	s.symbols[sym.Name] = append(s.symbols[sym.Name], sym)
}

// LookupLocal returns every symbol named name declared directly in s
// (not walking parents or imports).
func (s *Scope) LookupLocal(name string) []*Symbol {
	return s.symbols[name]
}

// Lookup walks s, then s's imports, then s's parent chain, collecting
// every symbol named name. Local bindings shadow imported and outer ones
// only in that they are returned first; the checker is responsible for
// category-specific shadowing rules.
func (s *Scope) Lookup(name string) []*Symbol {
	var out []*Symbol
	for scope := s; scope != nil; scope = scope.parent {
		out = append(out, scope.symbols[name]...)
		for _, imp := range scope.imports {
			out = append(out, imp.LookupLocal(name)...)
		}
	}
	return out
}

// LookupCategory is Lookup filtered to one Category; convenient for call
// resolution ("every procedure named f") and variable reads.
func (s *Scope) LookupCategory(name string, cat Category) []*Symbol {
	all := s.Lookup(name)
	var out []*Symbol
	for _, sym := range all {
		if sym.Category == cat {
			out = append(out, sym)
		}
	}
	return out
}

// LookupOne is a convenience for the common case of expecting at most one
// visible symbol of a category (variables, kinds, domains); it reports a
// name-resolution diagnostic via the Kind taxonomy when none is found.
func (s *Scope) LookupOne(name string, cat Category, loc diag.Location) (*Symbol, error) {
	matches := s.LookupCategory(name, cat)
	if len(matches) == 0 {
		return nil, diag.New(diag.KindName, loc, "undeclared %s %q", cat, name)
	}
	return matches[0], nil
}
