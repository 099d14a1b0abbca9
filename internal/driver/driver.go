// Package driver wires the front-end's separately-grounded components
// (internal/typecheck, internal/template, internal/codegen, internal/
// dataflow) into the single compiler pipeline spec.md §2's component
// table describes, so cmd/sccc and tests have one place to run a module
// through elaboration, instantiation, code generation and optimization
// rather than repeating the sequencing at every call site.
package driver

import (
	"fmt"

	"github.com/andaur/scc/internal/codegen"
	"github.com/andaur/scc/internal/dataflow"
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/scclog"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/internal/template"
	"github.com/andaur/scc/internal/typecheck"
	"github.com/andaur/scc/internal/unify"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// templateProc is the bookkeeping a template.Instantiator needs to unify
// and instantiate a call: the raw (unresolved) ProcDecl it wraps, plus
// its declared parameter type expressions, still carrying quantifier
// variables.
type templateProc struct {
	tmpl   *ast.TemplateDecl
	inner  *ast.ProcDecl
	params []*ast.TypeExpr
}

// Pipeline holds every stage's state for one compilation unit.
type Pipeline struct {
	Cxt     *types.Context
	Log     *diag.MemoryLog
	Global  *symtab.Scope
	Checker *typecheck.Checker
	Inst    *template.Instantiator
	Gen     *codegen.Generator
	Program *ir.Program

	Dominators          *dataflow.Dominators
	ConstantFold        *dataflow.ConstantFold
	ReachingDefinitions *dataflow.ReachingDefinitions
	LiveVariables       *dataflow.LiveVariables

	templates map[string]*templateProc

	// structs holds every non-generic struct's resolved DataType, keyed by
	// name. genericStructs holds a generic struct's raw declaration for
	// lazy, per-argument-list instantiation by resolveStructType.
	// structCache memoizes those instantiations so two references to the
	// same struct with the same arguments share one DataType (spec.md §3
	// "interned by *Context; equality is pointer identity").
	structs        map[string]*types.DataType
	genericStructs map[string]*ast.StructDecl
	structCache    map[string]*types.DataType
}

// NewPipeline builds an empty Pipeline ready for Run.
func NewPipeline() *Pipeline {
	cxt := types.NewContext()
	log := diag.NewMemoryLog()
	prog := ir.NewProgram()

	p := &Pipeline{
		Cxt:            cxt,
		Log:            log,
		Global:         symtab.NewScope(nil),
		Checker:        typecheck.New(cxt, log),
		Inst:           template.New(cxt),
		Gen:            codegen.NewGenerator(cxt, prog),
		Program:        prog,
		templates:      make(map[string]*templateProc),
		structs:        make(map[string]*types.DataType),
		genericStructs: make(map[string]*ast.StructDecl),
		structCache:    make(map[string]*types.DataType),
	}
	p.Checker.TemplateCall = p.resolveTemplateCall
	p.Checker.StructType = p.resolveStructType
	p.Gen.StructType = p.resolveStructType
	return p
}

// Run elaborates and lowers every declaration of mod, in source order,
// into p.Program. Per spec.md §7, every top-level declaration is still
// attempted even after an earlier one fails, so p.Log carries every
// diagnostic from the run. It returns the error of a template instance
// that fails to lower; otherwise, when p.Log holds an error, it returns a
// summary error giving the number of logged diagnostics.
func (p *Pipeline) Run(mod *ast.Module) error {
	scclog.Info("elaborate: module", "name", mod.Name)

	// Pass 0: kind/domain declarations, since a procedure signature may
	// name a domain declared later in file order than its use (spec.md
	// §3 treats declaration order as irrelevant at module scope).
	for _, decl := range mod.Decls {
		switch n := decl.(type) {
		case *ast.KindDecl:
			p.Cxt.DeclareKind(n.Name)
			p.Global.Declare(&symtab.Symbol{Name: n.Name, Category: symtab.CatKind, KindName: n.Name})
		case *ast.DomainDecl:
			kind, ok := p.Cxt.LookupKind(n.Kind)
			if !ok {
				p.fail(n.Loc(), "undeclared kind %q", n.Kind)
				continue
			}
			p.Cxt.PrivateSecType(n.Name, kind)
			p.Global.Declare(&symtab.Symbol{Name: n.Name, Category: symtab.CatDomain, KindName: n.Kind})
		}
	}

	// Pass 0.5: register every struct declaration before any signature
	// (procedure, operator, cast, or another struct's field) that might
	// reference it by name (spec.md §3 treats declaration order as
	// irrelevant at module scope). A generic struct's fields stay
	// unresolved until resolveStructType instantiates them against a
	// reference site's concrete arguments.
	for _, decl := range mod.Decls {
		n, ok := decl.(*ast.StructDecl)
		if !ok {
			continue
		}
		if len(n.Quantifiers) > 0 {
			p.genericStructs[n.Name] = n
			continue
		}
		if err := p.declareStruct(n); err != nil {
			continue
		}
	}

	// Pass 1: declare every non-template procedure/operator/cast's
	// signature and IR shell up front (spec.md §4.5.7 "forward/recursive
	// calls resolve their CALL target"), and register template wrappers
	// for the instantiator's benefit without resolving their (quantified)
	// types.
	var procs []*ast.ProcDecl
	var globals []*ast.GlobalVarDecl
	var operators []*ast.OperatorDecl
	var casts []*ast.CastDecl
	for _, decl := range mod.Decls {
		switch n := decl.(type) {
		case *ast.ProcDecl:
			if err := p.declareProc(n); err != nil {
				continue
			}
			procs = append(procs, n)
		case *ast.GlobalVarDecl:
			if err := p.declareGlobalVar(n); err != nil {
				continue
			}
			globals = append(globals, n)
		case *ast.OperatorDecl:
			if err := p.declareOperator(n); err != nil {
				continue
			}
			operators = append(operators, n)
		case *ast.CastDecl:
			if err := p.declareCast(n); err != nil {
				continue
			}
			casts = append(casts, n)
		case *ast.TemplateDecl:
			inner, ok := n.Inner.(*ast.ProcDecl)
			if !ok {
				p.fail(n.Loc(), "unsupported template kind (only procedure templates are implemented)")
				continue
			}
			params := make([]*ast.TypeExpr, len(inner.Params))
			for i, prm := range inner.Params {
				params[i] = prm.Type
			}
			p.templates[inner.Name] = &templateProc{tmpl: n, inner: inner, params: params}
			p.Global.Declare(&symtab.Symbol{Name: inner.Name, Category: symtab.CatProcedure, Proc: &symtab.ProcedureSymbol{IsTemplate: true}})
		}
	}

	// Pass 2: lower every global variable's initializer procedure ahead of
	// ordinary procedure bodies, so a procedure reading a global at call
	// time observes spec.md §4.5.3's program-start initialization order.
	for _, n := range globals {
		p.genGlobalInit(n)
	}
	for _, n := range procs {
		p.genProcBody(n)
	}
	for _, n := range operators {
		p.genOperatorBody(n)
	}
	for _, n := range casts {
		p.genCastBody(n)
	}

	if err := p.Inst.Drain(p.elaborateInstance); err != nil {
		return err
	}

	if p.Log.HasErrors() {
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(p.Log.All()))
	}
	return nil
}

func (p *Pipeline) fail(loc diag.Location, format string, args ...any) {
	p.Log.Append(diag.New(diag.KindType, loc, format, args...).ToDiagnostic())
}

// declareProc resolves a non-template procedure's signature, declares it
// in the global scope, and reserves its IR entry/exit shell.
func (p *Pipeline) declareProc(n *ast.ProcDecl) error {
	params := make([]*symtab.Symbol, len(n.Params))
	for i, prm := range n.Params {
		t, err := p.Checker.ResolveTypeExpr(prm.Type)
		if err != nil {
			return err
		}
		params[i] = symtab.NewVariable(p.Cxt, prm.Name, t)
	}
	var ret *types.Type
	if n.Ret != nil {
		t, err := p.Checker.ResolveTypeExpr(n.Ret)
		if err != nil {
			return err
		}
		ret = t
	}
	procSym := &symtab.ProcedureSymbol{Params: params, Ret: ret}
	p.Global.Declare(&symtab.Symbol{Name: n.Name, Category: symtab.CatProcedure, Proc: procSym})
	p.Gen.DeclareProcedure(n.Name, procSym)
	return nil
}

// declareStruct resolves a non-generic struct's field types and interns
// its composite DataType (spec.md §3 "composite struct type").
func (p *Pipeline) declareStruct(n *ast.StructDecl) error {
	fields := make([]types.Field, len(n.Fields))
	for i, f := range n.Fields {
		t, err := p.Checker.ResolveTypeExpr(f.Type)
		if err != nil {
			return err
		}
		fields[i] = types.Field{Name: f.Name, Type: t}
	}
	p.structs[n.Name] = p.Cxt.CompositeType(n.Name, nil, fields)
	return nil
}

// resolveStructType is wired as both typecheck.Checker.StructType and
// codegen.Generator.StructType: it resolves a struct type reference — name
// plus, for a generic struct, its concrete type arguments — to the
// composite DataType the rest of elaboration and code generation treat
// like any other DataType. A generic instantiation binds each Quantifier
// to the TypeArg its argument position resolves to (internal/unify.
// ResolveTypeArg), then substitutes every field's declared type under
// those bindings (spec.md §4.4 struct instantiation); the result is
// cached by name+arguments so two references to the same instantiation
// share one DataType.
func (p *Pipeline) resolveStructType(name string, args []*ast.TypeExpr) (*types.DataType, error) {
	if dt, ok := p.structs[name]; ok {
		return dt, nil
	}
	decl, ok := p.genericStructs[name]
	if !ok {
		return nil, diag.New(diag.KindType, diag.Location{}, "unknown struct %q", name)
	}
	if len(args) != len(decl.Quantifiers) {
		return nil, diag.New(diag.KindTemplate, decl.Loc(), "struct %q expects %d type argument(s), got %d", name, len(decl.Quantifiers), len(args))
	}
	key := name
	typeArgs := make([]types.TypeArg, len(args))
	bindings := make(map[string]types.TypeArg, len(args))
	for i, q := range decl.Quantifiers {
		arg, err := unify.ResolveTypeArg(p.Cxt, args[i], q, p.resolveStructType)
		if err != nil {
			return nil, err
		}
		typeArgs[i] = arg
		bindings[q.Name] = arg
		key += "/" + arg.String()
	}
	if dt, ok := p.structCache[key]; ok {
		return dt, nil
	}
	fields := make([]types.Field, len(decl.Fields))
	for i, f := range decl.Fields {
		t, err := p.substitutedFieldType(f.Type, bindings)
		if err != nil {
			return nil, err
		}
		fields[i] = types.Field{Name: f.Name, Type: t}
	}
	dt := p.Cxt.CompositeType(name, typeArgs, fields)
	p.structCache[key] = dt
	return dt, nil
}

// substitutedFieldType resolves a generic struct field's declared type
// expression under its instantiation's quantifier bindings. Unlike
// substitutedType (grounded on a template procedure, where every declared
// position names a quantifier), a struct field may be builtin-typed,
// quantifier-typed, or itself a reference to another (already resolvable,
// argument-free) struct, so every DataExpr shape falls through to its own
// resolution instead of failing when it isn't a bare variable. A nested
// generic struct field whose own type arguments reference this
// instantiation's quantifiers is not supported (see DESIGN.md).
func (p *Pipeline) substitutedFieldType(t *ast.TypeExpr, bindings map[string]types.TypeArg) (*types.Type, error) {
	sec := p.Cxt.PublicSecType()
	if t.Sec != nil {
		if t.Sec.IsVar() {
			if arg, ok := bindings[t.Sec.Var]; ok && arg.Sec != nil {
				sec = arg.Sec
			}
		} else if dom, ok := p.Cxt.LookupPrivateSecType(t.Sec.Domain); ok {
			sec = dom
		}
	}
	var data *types.DataType
	switch {
	case t.Data.IsVar():
		if arg, ok := bindings[t.Data.Var]; ok && arg.Data != nil {
			data = arg.Data
		}
	case t.Data.Builtin != "":
		if bk, ok := driverBuiltinKindByName(t.Data.Builtin); ok {
			data = p.Cxt.BuiltinType(bk)
		}
	default:
		dt, err := p.resolveStructType(t.Data.Name, t.Data.Args)
		if err != nil {
			return nil, err
		}
		data = dt
	}
	if data == nil {
		return nil, diag.New(diag.KindTemplate, t.Loc(), "unresolved field type in struct instance")
	}
	dim := types.DimType(0)
	if t.Dim != nil {
		if t.Dim.IsVar() {
			if arg, ok := bindings[t.Dim.Var]; ok {
				dim = arg.Dim
			}
		} else {
			dim = types.DimType(t.Dim.Value)
		}
	}
	return p.Cxt.BasicType(sec, data, dim), nil
}

// driverBuiltinKindByName maps a surface builtin type name to its
// BuiltinKind; kept in sync with internal/typecheck's and internal/
// codegen's identical resolvers (spec.md §2.2).
func driverBuiltinKindByName(name string) (types.BuiltinKind, bool) {
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

// declareGlobalVar resolves a module-scope variable's type — from its
// declared TypeExpr, its initializer, or both, with the same defaulting
// rules as typecheck.elaborateVarDecl for a local — and declares its
// symbol directly in the global scope, so every procedure body and every
// other global initializer shares the exact symbol this declaration's
// initializer will fill (spec.md §4.5.3).
func (p *Pipeline) declareGlobalVar(n *ast.GlobalVarDecl) error {
	var declared *types.Type
	if n.Type != nil {
		t, err := p.Checker.ResolveTypeExpr(n.Type)
		if err != nil {
			return err
		}
		declared = t
	}
	if n.Init != nil {
		initType, err := p.Checker.Elaborate(p.Global, n.Init)
		if err != nil {
			return err
		}
		initType = p.Checker.InstantiateDataType(initType, declared)
		if declared == nil {
			declared = initType
		} else if !initType.LatticeLEQ(declared) && initType != declared {
			p.fail(n.Loc(), "cannot initialize %s with %s", declared, initType)
			return fmt.Errorf("global %q: type mismatch", n.Name)
		}
	}
	if declared == nil {
		p.fail(n.Loc(), "variable %q has no declared type and no initializer to infer one from", n.Name)
		return fmt.Errorf("global %q: no type", n.Name)
	}
	p.Global.Declare(symtab.NewVariable(p.Cxt, n.Name, declared))
	return nil
}

// genGlobalInit looks n's already-declared symbol back up in the global
// scope and lowers its initializer into a dedicated IR procedure (spec.md
// §4.5.3).
func (p *Pipeline) genGlobalInit(n *ast.GlobalVarDecl) {
	sym, err := p.Global.LookupOne(n.Name, symtab.CatVariable, n.Loc())
	if err != nil {
		return
	}
	procSym := &symtab.ProcedureSymbol{}
	irProc := p.Gen.DeclareProcedure("$init$"+n.Name, procSym)
	scclog.Debug("codegen: global initializer", "name", n.Name)
	p.Gen.GenGlobalInit(irProc, p.Global, sym, n.Init)
}

// binaryOperatorName, unaryOperatorName and castOperatorName mirror
// internal/typecheck's and internal/codegen's identical manglings, so an
// OperatorDecl/CastDecl is registered under the exact name both those
// packages look it back up by (spec.md §4.4 "operator/cast declarations").
func binaryOperatorName(op ast.BinaryOp) string { return "operator$" + op.String() }

func unaryOperatorName(op ast.UnaryOp) string { return "operator$u" + op.String() }

func castOperatorName(from, to *types.DataType) string {
	return "cast$" + from.String() + "$" + to.String()
}

// declareOperator resolves an OperatorDecl's signature exactly like
// declareProc, under its mangled operator name, so elaborateBinary/
// elaborateUnary's overload dispatch and codegen's genOperatorCall find it
// by the same name.
func (p *Pipeline) declareOperator(n *ast.OperatorDecl) error {
	name := unaryOperatorName(n.UnOp)
	if n.IsBin {
		name = binaryOperatorName(n.BinOp)
	}
	return p.declareNamedProc(name, n.Params, n.Ret)
}

// declareCast resolves a CastDecl's signature under its mangled
// from/to-keyed name. From/To only ever need the DataType half of a full
// TypeExpr, so they are wrapped in a public, scalar TypeExpr before
// reaching the ordinary resolver.
func (p *Pipeline) declareCast(n *ast.CastDecl) error {
	from, err := p.Checker.ResolveTypeExpr(ast.NewTypeExpr(n.Loc(), nil, n.From, nil))
	if err != nil {
		return err
	}
	to, err := p.Checker.ResolveTypeExpr(ast.NewTypeExpr(n.Loc(), nil, n.To, nil))
	if err != nil {
		return err
	}
	return p.declareNamedProc(castOperatorName(from.Data, to.Data), []*ast.Param{n.Param}, n.Ret)
}

// declareNamedProc is declareProc generalized over an explicit registered
// name, since an OperatorDecl/CastDecl's own name (the operator symbol
// or the from/to pair) isn't a surface identifier the way a ProcDecl's is.
func (p *Pipeline) declareNamedProc(name string, params []*ast.Param, retExpr *ast.TypeExpr) error {
	syms := make([]*symtab.Symbol, len(params))
	for i, prm := range params {
		t, err := p.Checker.ResolveTypeExpr(prm.Type)
		if err != nil {
			return err
		}
		syms[i] = symtab.NewVariable(p.Cxt, prm.Name, t)
	}
	var ret *types.Type
	if retExpr != nil {
		t, err := p.Checker.ResolveTypeExpr(retExpr)
		if err != nil {
			return err
		}
		ret = t
	}
	procSym := &symtab.ProcedureSymbol{Params: syms, Ret: ret}
	p.Global.Declare(&symtab.Symbol{Name: name, Category: symtab.CatProcedure, Proc: procSym})
	p.Gen.DeclareProcedure(name, procSym)
	return nil
}

// genOperatorBody lowers a previously-declared operator overload's body,
// the operator/cast counterpart of genProcBody.
func (p *Pipeline) genOperatorBody(n *ast.OperatorDecl) {
	name := unaryOperatorName(n.UnOp)
	if n.IsBin {
		name = binaryOperatorName(n.BinOp)
	}
	p.genNamedProcBody(name, len(n.Params), n.Body)
}

// genCastBody lowers a previously-declared cast overload's body.
func (p *Pipeline) genCastBody(n *ast.CastDecl) {
	from, err := p.Checker.ResolveTypeExpr(ast.NewTypeExpr(n.Loc(), nil, n.From, nil))
	if err != nil {
		return
	}
	to, err := p.Checker.ResolveTypeExpr(ast.NewTypeExpr(n.Loc(), nil, n.To, nil))
	if err != nil {
		return
	}
	p.genNamedProcBody(castOperatorName(from.Data, to.Data), 1, n.Body)
}

// genNamedProcBody looks a mangled-name procedure back up by name/arity
// and lowers body into it, shared by genOperatorBody and genCastBody.
func (p *Pipeline) genNamedProcBody(name string, arity int, body *ast.BlockStmt) {
	sym, ok := p.lookupProc(name, arity)
	if !ok {
		return
	}
	scope := symtab.NewScope(p.Global)
	for _, param := range sym.Proc.Params {
		scope.Declare(param)
	}
	if err := p.Checker.ElaborateBlock(scope, body); err != nil {
		return
	}
	proc := p.Program.ProcBySymbol[sym.Proc]
	if proc == nil {
		return
	}
	scclog.Debug("codegen: operator/cast overload", "name", name)
	p.Gen.GenProcedureBody(proc, scope, sym.Proc.Params, body)
}

// genProcBody elaborates and lowers a previously-declared procedure's
// body. It looks the procedure back up by name/arity rather than caching
// it from declareProc, so p.Global stays the single source of truth a
// recursive call inside the body will also look through.
func (p *Pipeline) genProcBody(n *ast.ProcDecl) {
	sym, ok := p.lookupProc(n.Name, len(n.Params))
	if !ok {
		return
	}
	scope := symtab.NewScope(p.Global)
	for _, param := range sym.Proc.Params {
		scope.Declare(param)
	}
	if err := p.Checker.ElaborateBlock(scope, n.Body); err != nil {
		return
	}
	proc := p.Program.ProcBySymbol[sym.Proc]
	if proc == nil {
		return
	}
	scclog.Debug("codegen: procedure", "name", n.Name)
	p.Gen.GenProcedureBody(proc, scope, sym.Proc.Params, n.Body)
}

func (p *Pipeline) lookupProc(name string, arity int) (*symtab.Symbol, bool) {
	for _, sym := range p.Global.LookupCategory(name, symtab.CatProcedure) {
		if sym.Proc != nil && !sym.Proc.IsTemplate && len(sym.Proc.Params) == arity {
			return sym, true
		}
	}
	return nil, false
}

// resolveTemplateCall is wired as typecheck.Checker.TemplateCall: it
// unifies the call's argument types against the one template registered
// under the called name via internal/unify (through typecheck.
// ResolveTemplateCall, spec.md §4.3), and if unification succeeds,
// enqueues the instantiation with the instantiator and returns its return type so
// elaboration of the call site can proceed before code generation visits
// the instance.
func (p *Pipeline) resolveTemplateCall(scope *symtab.Scope, call *ast.Call, argTypes []*types.Type) (*types.Type, error) {
	tp, ok := p.templates[call.Name]
	if !ok {
		return nil, diag.New(diag.KindTemplate, call.Loc(), "no template named %q", call.Name)
	}
	bindings, _, err := typecheck.ResolveTemplateCall(p.Cxt, tp.tmpl, tp.params, argTypes, call.Loc())
	if err != nil {
		return nil, err
	}

	inst := p.Inst.Add(call.Name, tp.tmpl, bindings, p.Global, ast.CloneDecl)
	ret, err := p.instanceRetType(inst, tp, bindings)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// instanceRetType resolves a template instance's return type against its
// quantifier bindings without waiting for Drain, since the call site
// needs a type immediately to keep elaborating its enclosing expression.
func (p *Pipeline) instanceRetType(inst *template.Instance, tp *templateProc, bindings map[string]types.TypeArg) (*types.Type, error) {
	if tp.inner.Ret == nil {
		return p.Cxt.VoidType(), nil
	}
	return substitutedType(p.Cxt, tp.inner.Ret, bindings)
}

// substitutedType resolves a declared type expression under a template's
// quantifier bindings: a bound domain/data/dim variable is replaced by
// its argument, and a concrete domain name or dimension is resolved
// directly. A data position that is not a bound quantifier variable (a
// builtin or struct name) is not resolved and yields an error.
func substitutedType(cxt *types.Context, t *ast.TypeExpr, bindings map[string]types.TypeArg) (*types.Type, error) {
	sec := cxt.PublicSecType()
	if t.Sec != nil {
		if t.Sec.IsVar() {
			if arg, ok := bindings[t.Sec.Var]; ok && arg.Sec != nil {
				sec = arg.Sec
			}
		} else if dom, ok := cxt.LookupPrivateSecType(t.Sec.Domain); ok {
			sec = dom
		}
	}
	var data *types.DataType
	if t.Data.IsVar() {
		if arg, ok := bindings[t.Data.Var]; ok && arg.Data != nil {
			data = arg.Data
		}
	}
	if data == nil {
		return nil, diag.New(diag.KindTemplate, t.Loc(), "unresolved data type in template instance")
	}
	dim := types.DimType(0)
	if t.Dim != nil {
		if t.Dim.IsVar() {
			if arg, ok := bindings[t.Dim.Var]; ok {
				dim = arg.Dim
			}
		} else {
			dim = types.DimType(t.Dim.Value)
		}
	}
	return cxt.BasicType(sec, data, dim), nil
}

// elaborateInstance is the instantiator's Drain callback: it declares and
// lowers one concrete instantiation's cloned body exactly as genProcBody
// does for an ordinary procedure.
func (p *Pipeline) elaborateInstance(inst *template.Instance) error {
	procDecl, ok := inst.Decl.(*ast.ProcDecl)
	if !ok {
		return diag.New(diag.KindTemplate, diag.Location{}, "template instance is not a procedure")
	}
	params := make([]*symtab.Symbol, len(procDecl.Params))
	for i, prm := range procDecl.Params {
		t, err := substitutedType(p.Cxt, prm.Type, inst.Bindings)
		if err != nil {
			return err
		}
		params[i] = symtab.NewVariable(p.Cxt, prm.Name, t)
	}
	var ret *types.Type
	if procDecl.Ret != nil {
		t, err := substitutedType(p.Cxt, procDecl.Ret, inst.Bindings)
		if err != nil {
			return err
		}
		ret = t
	}
	procSym := &symtab.ProcedureSymbol{Params: params, Ret: ret}
	irProc := p.Gen.DeclareProcedure(procDecl.Name+"$"+inst.Key, procSym)

	scope := symtab.NewScope(p.Global)
	for _, param := range params {
		scope.Declare(param)
	}
	if err := p.Checker.ElaborateBlock(scope, procDecl.Body); err != nil {
		return err
	}
	p.Gen.GenProcedureBody(irProc, scope, params, procDecl.Body)
	return nil
}

// Optimize runs the dataflow analyses named by names (spec.md §6's "-a"
// flag) over p.Program. Recognized names: "dom" (dominators), "cf"
// (constant folding, which also rewrites folded instructions in place),
// "rd" (reaching definitions) and "lv" (live variables). spec.md §6 also
// lists "rj", "rdc", "ru", "rabled", "lm", "cp" and "rr" among -a's
// accepted names; this driver has no analysis grounded for any of them
// (the original_source analysis/ directory this package is grounded on
// carries Dominators and ConstantFolding only, and spec.md's one-line
// gloss for the rest ("reaching... jumps / declassify", "...reachable
// definitions / uses / returns") underspecifies their exact lattice and
// transfer rules), so they are reported as unimplemented rather than
// guessed at.
func (p *Pipeline) Optimize(names []string) error {
	for _, name := range names {
		switch name {
		case "dom":
			p.Dominators = dataflow.NewDominators()
			dataflow.NewDriver(p.Dominators).Run(p.Program)
		case "cf":
			p.ConstantFold = dataflow.NewConstantFold(p.Cxt)
			dataflow.NewDriver(p.ConstantFold).Run(p.Program)
			n := p.ConstantFold.Optimize(p.Program)
			scclog.Info("optimize: constant folding", "rewrites", n)
		case "rd":
			p.ReachingDefinitions = dataflow.NewReachingDefinitions()
			dataflow.NewDriver(p.ReachingDefinitions).Run(p.Program)
		case "lv":
			p.LiveVariables = dataflow.NewLiveVariables()
			p.LiveVariables.Run(p.Program)
		case "rj", "rdc", "ru", "rabled", "lm", "cp", "rr":
			return diag.ErrUnimplemented(fmt.Sprintf("%q analysis", name))
		default:
			return diag.New(diag.KindUnimplemented, diag.Location{}, "unknown analysis %q", name)
		}
	}
	return nil
}
