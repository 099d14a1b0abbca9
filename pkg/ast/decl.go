package ast

import "github.com/andaur/scc/internal/diag"

func (*KindDecl) declNode()     {}
func (*DomainDecl) declNode()   {}
func (*StructDecl) declNode()   {}
func (*ProcDecl) declNode()     {}
func (*OperatorDecl) declNode() {}
func (*CastDecl) declNode()     {}
func (*TemplateDecl) declNode() {}
func (*GlobalVarDecl) declNode() {}

// KindDecl declares a protection-domain kind ("kind additive3pp;").
type KindDecl struct {
	base
	Name string
}

func (n *KindDecl) Kind() Kind       { return KindKindDecl }
func (n *KindDecl) Accept(v Visitor) { v.VisitKindDecl(n) }

func NewKindDecl(loc diag.Location, name string) *KindDecl {
	return &KindDecl{base: base{loc}, Name: name}
}

// DomainDecl declares a named private domain within a kind
// ("domain pd_shared3p additive3pp;").
type DomainDecl struct {
	base
	Name string
	Kind string
}

func (n *DomainDecl) Kind() Kind       { return KindDomainDecl }
func (n *DomainDecl) Accept(v Visitor) { v.VisitDomainDecl(n) }

func NewDomainDecl(loc diag.Location, name, kind string) *DomainDecl {
	return &DomainDecl{base: base{loc}, Name: name, Kind: kind}
}

// Param is one formal parameter of a procedure or struct field.
type Param struct {
	base
	Name string
	Type *TypeExpr
}

func (n *Param) Kind() Kind       { return KindParam }
func (n *Param) Accept(v Visitor) { v.VisitParam(n) }

func NewParam(loc diag.Location, name string, typ *TypeExpr) *Param {
	return &Param{base: base{loc}, Name: name, Type: typ}
}

// StructDecl declares a struct type, optionally generic over Quantifiers.
type StructDecl struct {
	base
	Name        string
	Quantifiers []*Quantifier
	Fields      []*Param
}

func (n *StructDecl) Kind() Kind       { return KindStructDecl }
func (n *StructDecl) Accept(v Visitor) { v.VisitStructDecl(n) }

func NewStructDecl(loc diag.Location, name string, quantifiers []*Quantifier, fields []*Param) *StructDecl {
	return &StructDecl{base: base{loc}, Name: name, Quantifiers: quantifiers, Fields: fields}
}

// ProcDecl declares a (non-template) procedure with a body.
type ProcDecl struct {
	base
	Name   string
	Params []*Param
	Ret    *TypeExpr // nil for void
	Body   *BlockStmt
}

func (n *ProcDecl) Kind() Kind       { return KindProcDecl }
func (n *ProcDecl) Accept(v Visitor) { v.VisitProcDecl(n) }

func NewProcDecl(loc diag.Location, name string, params []*Param, ret *TypeExpr, body *BlockStmt) *ProcDecl {
	return &ProcDecl{base: base{loc}, Name: name, Params: params, Ret: ret, Body: body}
}

// OperatorDecl overloads a binary or unary operator for a user-defined
// type, carrying the same shape as ProcDecl plus the operator it
// implements.
type OperatorDecl struct {
	base
	BinOp  BinaryOp
	IsBin  bool
	UnOp   UnaryOp
	Params []*Param
	Ret    *TypeExpr
	Body   *BlockStmt
}

func (n *OperatorDecl) Kind() Kind       { return KindOperatorDecl }
func (n *OperatorDecl) Accept(v Visitor) { v.VisitOperatorDecl(n) }

func NewBinaryOperatorDecl(loc diag.Location, op BinaryOp, params []*Param, ret *TypeExpr, body *BlockStmt) *OperatorDecl {
	return &OperatorDecl{base: base{loc}, BinOp: op, IsBin: true, Params: params, Ret: ret, Body: body}
}

func NewUnaryOperatorDecl(loc diag.Location, op UnaryOp, params []*Param, ret *TypeExpr, body *BlockStmt) *OperatorDecl {
	return &OperatorDecl{base: base{loc}, UnOp: op, IsBin: false, Params: params, Ret: ret, Body: body}
}

// CastDecl defines a user-provided conversion from one data type to
// another.
type CastDecl struct {
	base
	From, To *DataExpr
	Param    *Param
	Ret      *TypeExpr
	Body     *BlockStmt
}

func (n *CastDecl) Kind() Kind       { return KindCastDecl }
func (n *CastDecl) Accept(v Visitor) { v.VisitCastDecl(n) }

func NewCastDecl(loc diag.Location, from, to *DataExpr, param *Param, ret *TypeExpr, body *BlockStmt) *CastDecl {
	return &CastDecl{base: base{loc}, From: from, To: to, Param: param, Ret: ret, Body: body}
}

// TemplateDecl wraps a ProcDecl, OperatorDecl or CastDecl with the
// quantifier list that makes it polymorphic; the instantiator binds
// Quantifiers to TypeArgs per call site (spec.md §4.4).
type TemplateDecl struct {
	base
	Quantifiers []*Quantifier
	Inner       Decl // *ProcDecl, *OperatorDecl or *CastDecl
}

func (n *TemplateDecl) Kind() Kind       { return KindTemplateDecl }
func (n *TemplateDecl) Accept(v Visitor) { v.VisitTemplateDecl(n) }

func NewTemplateDecl(loc diag.Location, quantifiers []*Quantifier, inner Decl) *TemplateDecl {
	return &TemplateDecl{base: base{loc}, Quantifiers: quantifiers, Inner: inner}
}

// GlobalVarDecl declares a module-scope variable, optionally with a
// declared type and/or initializer (spec.md §4.5.3 "Global variables are
// lowered into a per-variable initializer procedure called once at
// program start").
type GlobalVarDecl struct {
	base
	Name string
	Type *TypeExpr // nil if inferred from Init
	Init Expr      // nil if absent (defaults per the declared type)
}

func (n *GlobalVarDecl) Kind() Kind       { return KindGlobalVarDecl }
func (n *GlobalVarDecl) Accept(v Visitor) { v.VisitGlobalVarDecl(n) }

func NewGlobalVarDecl(loc diag.Location, name string, typ *TypeExpr, init Expr) *GlobalVarDecl {
	return &GlobalVarDecl{base: base{loc}, Name: name, Type: typ, Init: init}
}

// Module is the root node: an ordered list of top-level declarations.
type Module struct {
	base
	Name  string
	Decls []Decl
}

func (n *Module) Kind() Kind       { return KindModule }
func (n *Module) Accept(v Visitor) { v.VisitModule(n) }

func NewModule(loc diag.Location, name string, decls []Decl) *Module {
	return &Module{base: base{loc}, Name: name, Decls: decls}
}
