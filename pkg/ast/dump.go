package ast

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Dump writes an indented textual form of n to w, one node per line,
// child nodes nested under their parent (spec.md §6 "--print-ast"). It
// walks through the Visitor interface rather than a type switch, so a new
// node kind that forgets to implement a Visit method fails to compile
// instead of silently dumping nothing.
func Dump(w io.Writer, n Node) {
	d := &dumper{w: w}
	n.Accept(d)
}

type dumper struct {
	w     io.Writer
	depth int
}

func (d *dumper) line(format string, args ...any) {
	fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", d.depth), fmt.Sprintf(format, args...))
}

// child visits n one level deeper, unless n is a nil pointer wrapped in
// the Node interface — callers pass optional fields (TypeExpr.Sec, an
// else-less IfStmt.Else, ...) straight through, and a plain `n == nil`
// check does not see through a typed nil to the interface itself.
func (d *dumper) child(n Node) {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return
	}
	d.depth++
	n.Accept(d)
	d.depth--
}

func (d *dumper) children(ns ...Node) {
	for _, n := range ns {
		d.child(n)
	}
}

func (d *dumper) VisitModule(n *Module) {
	d.line("Module %s", n.Name)
	d.depth++
	for _, decl := range n.Decls {
		decl.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitKindDecl(n *KindDecl) { d.line("KindDecl %s", n.Name) }

func (d *dumper) VisitDomainDecl(n *DomainDecl) {
	d.line("DomainDecl %s : %s", n.Name, n.Kind)
}

func (d *dumper) VisitStructDecl(n *StructDecl) {
	d.line("StructDecl %s", n.Name)
	d.depth++
	for _, q := range n.Quantifiers {
		q.Accept(d)
	}
	for _, f := range n.Fields {
		f.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitProcDecl(n *ProcDecl) {
	d.line("ProcDecl %s", n.Name)
	d.depth++
	for _, p := range n.Params {
		p.Accept(d)
	}
	d.child(n.Ret)
	d.child(n.Body)
	d.depth--
}

func (d *dumper) VisitOperatorDecl(n *OperatorDecl) {
	if n.IsBin {
		d.line("OperatorDecl binary %s", n.BinOp)
	} else {
		d.line("OperatorDecl unary %s", n.UnOp)
	}
	d.depth++
	for _, p := range n.Params {
		p.Accept(d)
	}
	d.child(n.Ret)
	d.child(n.Body)
	d.depth--
}

func (d *dumper) VisitCastDecl(n *CastDecl) {
	d.line("CastDecl")
	d.depth++
	d.children(n.From, n.To)
	if n.Param != nil {
		n.Param.Accept(d)
	}
	d.child(n.Ret)
	d.child(n.Body)
	d.depth--
}

func (d *dumper) VisitTemplateDecl(n *TemplateDecl) {
	d.line("TemplateDecl")
	d.depth++
	for _, q := range n.Quantifiers {
		q.Accept(d)
	}
	d.child(n.Inner)
	d.depth--
}

func (d *dumper) VisitGlobalVarDecl(n *GlobalVarDecl) {
	d.line("GlobalVarDecl %s", n.Name)
	d.depth++
	d.child(n.Type)
	d.child(n.Init)
	d.depth--
}

func (d *dumper) VisitParam(n *Param) {
	d.line("Param %s", n.Name)
	d.child(n.Type)
}

func (d *dumper) VisitTypeExpr(n *TypeExpr) {
	d.line("TypeExpr")
	d.depth++
	d.child(n.Sec)
	d.child(n.Data)
	d.child(n.Dim)
	d.depth--
}

func (d *dumper) VisitSecExpr(n *SecExpr) {
	if n.IsVar() {
		d.line("SecExpr var %s", n.Var)
		return
	}
	d.line("SecExpr %s", n.Domain)
}

func (d *dumper) VisitDataExpr(n *DataExpr) {
	switch {
	case n.IsVar():
		d.line("DataExpr var %s", n.Var)
	case n.Builtin != "":
		d.line("DataExpr %s", n.Builtin)
	default:
		d.line("DataExpr %s", n.Name)
		d.depth++
		for _, a := range n.Args {
			a.Accept(d)
		}
		d.depth--
	}
}

func (d *dumper) VisitDimExpr(n *DimExpr) {
	if n.IsVar() {
		d.line("DimExpr var %s", n.Var)
		return
	}
	d.line("DimExpr %d", n.Value)
}

func (d *dumper) VisitQuantifier(n *Quantifier) {
	d.line("Quantifier %s kind=%d restrict=%q", n.Name, n.In, n.KindRestriction)
}

func (d *dumper) VisitBlockStmt(n *BlockStmt) {
	d.line("BlockStmt")
	d.depth++
	for _, s := range n.Stmts {
		s.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitVarDeclStmt(n *VarDeclStmt) {
	d.line("VarDeclStmt %s", n.Name)
	d.depth++
	d.child(n.Type)
	d.child(n.Init)
	d.depth--
}

func (d *dumper) VisitAssignStmt(n *AssignStmt) {
	d.line("AssignStmt op=%d", n.Op)
	d.depth++
	d.children(n.Target, n.Value)
	d.depth--
}

func (d *dumper) VisitIfStmt(n *IfStmt) {
	d.line("IfStmt")
	d.depth++
	d.child(n.Cond)
	d.child(n.Then)
	d.child(n.Else)
	d.depth--
}

func (d *dumper) VisitWhileStmt(n *WhileStmt) {
	d.line("WhileStmt")
	d.depth++
	d.children(n.Cond, n.Body)
	d.depth--
}

func (d *dumper) VisitDoWhileStmt(n *DoWhileStmt) {
	d.line("DoWhileStmt")
	d.depth++
	d.children(n.Body, n.Cond)
	d.depth--
}

func (d *dumper) VisitForStmt(n *ForStmt) {
	d.line("ForStmt")
	d.depth++
	d.child(n.Init)
	d.child(n.Cond)
	d.child(n.Post)
	d.child(n.Body)
	d.depth--
}

func (d *dumper) VisitBreakStmt(*BreakStmt)       { d.line("BreakStmt") }
func (d *dumper) VisitContinueStmt(*ContinueStmt) { d.line("ContinueStmt") }

func (d *dumper) VisitReturnStmt(n *ReturnStmt) {
	d.line("ReturnStmt")
	d.child(n.Value)
}

func (d *dumper) VisitExprStmt(n *ExprStmt) {
	d.line("ExprStmt")
	d.child(n.X)
}

func (d *dumper) VisitIntLit(n *IntLit)       { d.line("IntLit %d", n.Value) }
func (d *dumper) VisitFloatLit(n *FloatLit)   { d.line("FloatLit %g", n.Value) }
func (d *dumper) VisitBoolLit(n *BoolLit)     { d.line("BoolLit %t", n.Value) }
func (d *dumper) VisitStringLit(n *StringLit) { d.line("StringLit %q", n.Value) }
func (d *dumper) VisitIdent(n *Ident)         { d.line("Ident %s", n.Name) }

func (d *dumper) VisitBinary(n *Binary) {
	d.line("Binary %s", n.Op)
	d.depth++
	d.children(n.Left, n.Right)
	d.depth--
}

func (d *dumper) VisitUnary(n *Unary) {
	d.line("Unary %s", n.Op)
	d.child(n.Operand)
}

func (d *dumper) VisitCast(n *Cast) {
	d.line("Cast")
	d.depth++
	d.child(n.To)
	d.child(n.Operand)
	d.depth--
}

func (d *dumper) VisitIndex(n *Index) {
	d.line("Index")
	d.depth++
	d.child(n.Array)
	for _, a := range n.Args {
		if a.IsRange {
			d.line("Range")
			d.depth++
			d.child(a.Lo)
			d.child(a.Hi)
			d.depth--
		} else {
			d.child(a.Single)
		}
	}
	d.depth--
}

func (d *dumper) VisitCall(n *Call) {
	d.line("Call %s", n.Name)
	d.depth++
	for _, a := range n.Args {
		a.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitClassify(n *Classify) {
	d.line("Classify")
	d.depth++
	d.child(n.Domain)
	d.child(n.Operand)
	d.depth--
}

func (d *dumper) VisitDeclassify(n *Declassify) {
	d.line("Declassify")
	d.child(n.Operand)
}

func (d *dumper) VisitTernary(n *Ternary) {
	d.line("Ternary")
	d.depth++
	d.children(n.Cond, n.Then, n.Else)
	d.depth--
}

func (d *dumper) VisitArrayCtor(n *ArrayCtor) {
	d.line("ArrayCtor")
	d.depth++
	for _, e := range n.Elems {
		e.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitBuiltin(n *Builtin) {
	d.line("Builtin %s", n.Op)
	d.depth++
	for _, a := range n.Args {
		a.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitSelect(n *Select) {
	d.line("Select .%s", n.Field)
	d.child(n.Struct)
}
