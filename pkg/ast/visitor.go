package ast

// Visitor is implemented by consumers that handle every node type
// exhaustively, such as Dump: adding a method here makes every
// implementation that lacks it fail to compile. The type checker and the
// code generator do not implement Visitor; they type-switch and fall
// through to a default case for a node type they do not handle.
type Visitor interface {
	VisitModule(*Module)

	VisitKindDecl(*KindDecl)
	VisitDomainDecl(*DomainDecl)
	VisitStructDecl(*StructDecl)
	VisitProcDecl(*ProcDecl)
	VisitOperatorDecl(*OperatorDecl)
	VisitCastDecl(*CastDecl)
	VisitTemplateDecl(*TemplateDecl)
	VisitGlobalVarDecl(*GlobalVarDecl)
	VisitParam(*Param)

	VisitTypeExpr(*TypeExpr)
	VisitSecExpr(*SecExpr)
	VisitDataExpr(*DataExpr)
	VisitDimExpr(*DimExpr)
	VisitQuantifier(*Quantifier)

	VisitBlockStmt(*BlockStmt)
	VisitVarDeclStmt(*VarDeclStmt)
	VisitAssignStmt(*AssignStmt)
	VisitIfStmt(*IfStmt)
	VisitWhileStmt(*WhileStmt)
	VisitDoWhileStmt(*DoWhileStmt)
	VisitForStmt(*ForStmt)
	VisitBreakStmt(*BreakStmt)
	VisitContinueStmt(*ContinueStmt)
	VisitReturnStmt(*ReturnStmt)
	VisitExprStmt(*ExprStmt)

	VisitIntLit(*IntLit)
	VisitFloatLit(*FloatLit)
	VisitBoolLit(*BoolLit)
	VisitStringLit(*StringLit)
	VisitIdent(*Ident)
	VisitBinary(*Binary)
	VisitUnary(*Unary)
	VisitCast(*Cast)
	VisitIndex(*Index)
	VisitCall(*Call)
	VisitClassify(*Classify)
	VisitDeclassify(*Declassify)
	VisitTernary(*Ternary)
	VisitArrayCtor(*ArrayCtor)
	VisitBuiltin(*Builtin)
	VisitSelect(*Select)
}

// BaseVisitor implements Visitor with no-op methods, so a consumer that
// only cares about a handful of node types can embed it and override the
// rest, rather than writing out every method.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(*Module)                 {}
func (BaseVisitor) VisitKindDecl(*KindDecl)              {}
func (BaseVisitor) VisitDomainDecl(*DomainDecl)          {}
func (BaseVisitor) VisitStructDecl(*StructDecl)          {}
func (BaseVisitor) VisitProcDecl(*ProcDecl)              {}
func (BaseVisitor) VisitOperatorDecl(*OperatorDecl)      {}
func (BaseVisitor) VisitCastDecl(*CastDecl)              {}
func (BaseVisitor) VisitTemplateDecl(*TemplateDecl)      {}
func (BaseVisitor) VisitGlobalVarDecl(*GlobalVarDecl)    {}
func (BaseVisitor) VisitParam(*Param)                    {}
func (BaseVisitor) VisitTypeExpr(*TypeExpr)              {}
func (BaseVisitor) VisitSecExpr(*SecExpr)                {}
func (BaseVisitor) VisitDataExpr(*DataExpr)              {}
func (BaseVisitor) VisitDimExpr(*DimExpr)                {}
func (BaseVisitor) VisitQuantifier(*Quantifier)          {}
func (BaseVisitor) VisitBlockStmt(*BlockStmt)            {}
func (BaseVisitor) VisitVarDeclStmt(*VarDeclStmt)        {}
func (BaseVisitor) VisitAssignStmt(*AssignStmt)          {}
func (BaseVisitor) VisitIfStmt(*IfStmt)                  {}
func (BaseVisitor) VisitWhileStmt(*WhileStmt)            {}
func (BaseVisitor) VisitDoWhileStmt(*DoWhileStmt)        {}
func (BaseVisitor) VisitForStmt(*ForStmt)                {}
func (BaseVisitor) VisitBreakStmt(*BreakStmt)             {}
func (BaseVisitor) VisitContinueStmt(*ContinueStmt)       {}
func (BaseVisitor) VisitReturnStmt(*ReturnStmt)          {}
func (BaseVisitor) VisitExprStmt(*ExprStmt)              {}
func (BaseVisitor) VisitIntLit(*IntLit)                  {}
func (BaseVisitor) VisitFloatLit(*FloatLit)              {}
func (BaseVisitor) VisitBoolLit(*BoolLit)                {}
func (BaseVisitor) VisitStringLit(*StringLit)            {}
func (BaseVisitor) VisitIdent(*Ident)                    {}
func (BaseVisitor) VisitBinary(*Binary)                  {}
func (BaseVisitor) VisitUnary(*Unary)                    {}
func (BaseVisitor) VisitCast(*Cast)                      {}
func (BaseVisitor) VisitIndex(*Index)                    {}
func (BaseVisitor) VisitCall(*Call)                      {}
func (BaseVisitor) VisitClassify(*Classify)               {}
func (BaseVisitor) VisitDeclassify(*Declassify)          {}
func (BaseVisitor) VisitTernary(*Ternary)                {}
func (BaseVisitor) VisitArrayCtor(*ArrayCtor)            {}
func (BaseVisitor) VisitBuiltin(*Builtin)                {}
func (BaseVisitor) VisitSelect(*Select)                  {}
