package ast

import "github.com/andaur/scc/internal/diag"

// Kind tags every concrete node type with a stable discriminant, for
// consumers that want a switch without a type assertion.
type Kind int

const (
	KindModule Kind = iota

	// Declarations
	KindKindDecl
	KindDomainDecl
	KindStructDecl
	KindProcDecl
	KindOperatorDecl
	KindCastDecl
	KindTemplateDecl
	KindGlobalVarDecl
	KindParam

	// Type expressions
	KindTypeExpr
	KindSecExpr
	KindDataExpr
	KindDimExpr
	KindQuantifier

	// Statements
	KindBlockStmt
	KindVarDeclStmt
	KindAssignStmt
	KindIfStmt
	KindWhileStmt
	KindDoWhileStmt
	KindForStmt
	KindBreakStmt
	KindContinueStmt
	KindReturnStmt
	KindExprStmt
	KindPrintStmt
	KindSyscallStmt

	// Expressions
	KindIntLit
	KindFloatLit
	KindBoolLit
	KindStringLit
	KindIdent
	KindBinary
	KindUnary
	KindCast
	KindIndex
	KindCall
	KindClassify
	KindDeclassify
	KindTernary
	KindArrayCtor
	KindBuiltin
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindKindDecl:
		return "KindDecl"
	case KindDomainDecl:
		return "DomainDecl"
	case KindStructDecl:
		return "StructDecl"
	case KindProcDecl:
		return "ProcDecl"
	case KindOperatorDecl:
		return "OperatorDecl"
	case KindCastDecl:
		return "CastDecl"
	case KindTemplateDecl:
		return "TemplateDecl"
	case KindGlobalVarDecl:
		return "GlobalVarDecl"
	case KindParam:
		return "Param"
	case KindTypeExpr:
		return "TypeExpr"
	case KindSecExpr:
		return "SecExpr"
	case KindDataExpr:
		return "DataExpr"
	case KindDimExpr:
		return "DimExpr"
	case KindQuantifier:
		return "Quantifier"
	case KindBlockStmt:
		return "BlockStmt"
	case KindVarDeclStmt:
		return "VarDeclStmt"
	case KindAssignStmt:
		return "AssignStmt"
	case KindIfStmt:
		return "IfStmt"
	case KindWhileStmt:
		return "WhileStmt"
	case KindDoWhileStmt:
		return "DoWhileStmt"
	case KindForStmt:
		return "ForStmt"
	case KindBreakStmt:
		return "BreakStmt"
	case KindContinueStmt:
		return "ContinueStmt"
	case KindReturnStmt:
		return "ReturnStmt"
	case KindExprStmt:
		return "ExprStmt"
	case KindPrintStmt:
		return "PrintStmt"
	case KindSyscallStmt:
		return "SyscallStmt"
	case KindIntLit:
		return "IntLit"
	case KindFloatLit:
		return "FloatLit"
	case KindBoolLit:
		return "BoolLit"
	case KindStringLit:
		return "StringLit"
	case KindIdent:
		return "Ident"
	case KindBinary:
		return "Binary"
	case KindUnary:
		return "Unary"
	case KindCast:
		return "Cast"
	case KindIndex:
		return "Index"
	case KindCall:
		return "Call"
	case KindClassify:
		return "Classify"
	case KindDeclassify:
		return "Declassify"
	case KindTernary:
		return "Ternary"
	case KindArrayCtor:
		return "ArrayCtor"
	case KindBuiltin:
		return "Builtin"
	case KindSelect:
		return "Select"
	default:
		return "<invalid kind>"
	}
}

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	Loc() diag.Location
	Accept(v Visitor)
}

// Expr is a Node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a Node that has no value, only effect.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a Node introduced at module scope (or nested inside one).
type Decl interface {
	Node
	declNode()
}

// base carries the fields every node has; embedded by concrete types so
// Loc() comes for free.
type base struct {
	loc diag.Location
}

func (b base) Loc() diag.Location { return b.loc }
