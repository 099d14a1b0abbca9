package ast

import "github.com/andaur/scc/internal/diag"

// Builder constructs AST nodes programmatically. It exists because this
// module ships no lexer or parser (spec.md §1): a caller's own front end,
// or a test, drives the type checker and code generator by building trees
// through Builder rather than by parsing source text.
//
// Builder methods are thin wrappers over the node constructors; the main
// thing they buy over calling NewXxx directly is a single, fluent place
// to track a "current location" when a caller is transcribing a real
// source file one token at a time, via At.
type Builder struct {
	loc diag.Location
}

// NewBuilder returns a Builder with the zero location; use At to set a
// location before building nodes that should carry one.
func NewBuilder() *Builder { return &Builder{} }

// At sets the location attached to subsequently built nodes and returns
// the Builder for chaining.
func (b *Builder) At(loc diag.Location) *Builder {
	b.loc = loc
	return b
}

func (b *Builder) Module(name string, decls []Decl) *Module {
	return NewModule(b.loc, name, decls)
}

func (b *Builder) KindDecl(name string) *KindDecl { return NewKindDecl(b.loc, name) }

func (b *Builder) DomainDecl(name, kind string) *DomainDecl {
	return NewDomainDecl(b.loc, name, kind)
}

func (b *Builder) Param(name string, typ *TypeExpr) *Param { return NewParam(b.loc, name, typ) }

func (b *Builder) StructDecl(name string, quantifiers []*Quantifier, fields []*Param) *StructDecl {
	return NewStructDecl(b.loc, name, quantifiers, fields)
}

func (b *Builder) ProcDecl(name string, params []*Param, ret *TypeExpr, body *BlockStmt) *ProcDecl {
	return NewProcDecl(b.loc, name, params, ret, body)
}

func (b *Builder) BinaryOperatorDecl(op BinaryOp, params []*Param, ret *TypeExpr, body *BlockStmt) *OperatorDecl {
	return NewBinaryOperatorDecl(b.loc, op, params, ret, body)
}

func (b *Builder) UnaryOperatorDecl(op UnaryOp, params []*Param, ret *TypeExpr, body *BlockStmt) *OperatorDecl {
	return NewUnaryOperatorDecl(b.loc, op, params, ret, body)
}

func (b *Builder) CastDecl(from, to *DataExpr, param *Param, ret *TypeExpr, body *BlockStmt) *CastDecl {
	return NewCastDecl(b.loc, from, to, param, ret, body)
}

func (b *Builder) TemplateDecl(quantifiers []*Quantifier, inner Decl) *TemplateDecl {
	return NewTemplateDecl(b.loc, quantifiers, inner)
}

func (b *Builder) GlobalVarDecl(name string, typ *TypeExpr, init Expr) *GlobalVarDecl {
	return NewGlobalVarDecl(b.loc, name, typ, init)
}

func (b *Builder) Quantifier(name string, in QuantifierDomain, kindRestriction string) *Quantifier {
	return NewQuantifier(b.loc, name, in, kindRestriction)
}

func (b *Builder) SecPublic() *SecExpr           { return nil }
func (b *Builder) SecDomain(domain string) *SecExpr { return NewSecExpr(b.loc, domain) }
func (b *Builder) SecVar(v string) *SecExpr         { return NewSecVar(b.loc, v) }

func (b *Builder) DataBuiltin(name string) *DataExpr { return NewDataExprBuiltin(b.loc, name) }
func (b *Builder) DataName(name string, args []*TypeExpr) *DataExpr {
	return NewDataExprName(b.loc, name, args)
}
func (b *Builder) DataVar(v string) *DataExpr { return NewDataVar(b.loc, v) }

func (b *Builder) DimScalar() *DimExpr         { return nil }
func (b *Builder) Dim(value int) *DimExpr      { return NewDimExpr(b.loc, value) }
func (b *Builder) DimVar(v string) *DimExpr     { return NewDimVar(b.loc, v) }

func (b *Builder) Type(sec *SecExpr, data *DataExpr, dim *DimExpr) *TypeExpr {
	return NewTypeExpr(b.loc, sec, data, dim)
}

// ScalarType is shorthand for Type(sec, DataBuiltin(builtin), nil).
func (b *Builder) ScalarType(sec *SecExpr, builtin string) *TypeExpr {
	return b.Type(sec, b.DataBuiltin(builtin), nil)
}

func (b *Builder) Block(stmts ...Stmt) *BlockStmt { return NewBlockStmt(b.loc, stmts) }

func (b *Builder) VarDecl(name string, typ *TypeExpr, init Expr) *VarDeclStmt {
	return NewVarDeclStmt(b.loc, name, typ, init)
}

func (b *Builder) Assign(op AssignOp, target, value Expr) *AssignStmt {
	return NewAssignStmt(b.loc, op, target, value)
}

func (b *Builder) If(cond Expr, then, els Stmt) *IfStmt { return NewIfStmt(b.loc, cond, then, els) }

func (b *Builder) While(cond Expr, body Stmt) *WhileStmt { return NewWhileStmt(b.loc, cond, body) }

func (b *Builder) DoWhile(body Stmt, cond Expr) *DoWhileStmt {
	return NewDoWhileStmt(b.loc, body, cond)
}

func (b *Builder) For(init Stmt, cond Expr, post Stmt, body Stmt) *ForStmt {
	return NewForStmt(b.loc, init, cond, post, body)
}

func (b *Builder) Break() *BreakStmt       { return NewBreakStmt(b.loc) }
func (b *Builder) Continue() *ContinueStmt { return NewContinueStmt(b.loc) }
func (b *Builder) Return(value Expr) *ReturnStmt { return NewReturnStmt(b.loc, value) }
func (b *Builder) ExprStmt(x Expr) *ExprStmt     { return NewExprStmt(b.loc, x) }

func (b *Builder) Int(value int64) *IntLit      { return NewIntLit(b.loc, value) }
func (b *Builder) Float(value float64) *FloatLit { return NewFloatLit(b.loc, value) }
func (b *Builder) Bool(value bool) *BoolLit     { return NewBoolLit(b.loc, value) }
func (b *Builder) String(value string) *StringLit { return NewStringLit(b.loc, value) }
func (b *Builder) Ident(name string) *Ident     { return NewIdent(b.loc, name) }

func (b *Builder) Binary(op BinaryOp, left, right Expr) *Binary {
	return NewBinary(b.loc, op, left, right)
}

func (b *Builder) Unary(op UnaryOp, operand Expr) *Unary { return NewUnary(b.loc, op, operand) }

func (b *Builder) Cast(to *DataExpr, operand Expr) *Cast { return NewCast(b.loc, to, operand) }

func (b *Builder) Index(array Expr, args ...IndexArg) *Index { return NewIndex(b.loc, array, args) }

// Subscript is shorthand for a single-index, non-range IndexArg.
func (b *Builder) Subscript(e Expr) IndexArg { return IndexArg{Single: e} }

// Slice is shorthand for a lo:hi range IndexArg.
func (b *Builder) Slice(lo, hi Expr) IndexArg { return IndexArg{IsRange: true, Lo: lo, Hi: hi} }

func (b *Builder) Call(name string, args ...Expr) *Call { return NewCall(b.loc, name, args) }

func (b *Builder) Classify(domain *SecExpr, operand Expr) *Classify {
	return NewClassify(b.loc, domain, operand)
}

func (b *Builder) Declassify(operand Expr) *Declassify { return NewDeclassify(b.loc, operand) }

func (b *Builder) Ternary(cond, then, els Expr) *Ternary { return NewTernary(b.loc, cond, then, els) }

func (b *Builder) ArrayCtor(elems ...Expr) *ArrayCtor { return NewArrayCtor(b.loc, elems) }

func (b *Builder) Builtin(op BuiltinOp, args ...Expr) *Builtin { return NewBuiltin(b.loc, op, args) }

func (b *Builder) Select(structExpr Expr, field string) *Select {
	return NewSelect(b.loc, structExpr, field)
}
