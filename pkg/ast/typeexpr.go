package ast

import "github.com/andaur/scc/internal/diag"

// SecExpr is the syntactic security-type position of a TypeExpr: either an
// explicit private domain name ("pd_shared3p", ...) or a bound
// quantifier variable written "D" in a template's domain parameter list.
// Public is written as a nil *SecExpr.
type SecExpr struct {
	base
	Domain   string // "" when Var is set
	Var      string // quantifier variable name, "" when Domain is set
}

func (e *SecExpr) Kind() Kind          { return KindSecExpr }
func (e *SecExpr) Accept(v Visitor)    { v.VisitSecExpr(e) }

// NewSecExpr builds a concrete domain reference.
func NewSecExpr(loc diag.Location, domain string) *SecExpr {
	return &SecExpr{base: base{loc}, Domain: domain}
}

// NewSecVar builds a quantifier-variable reference.
func NewSecVar(loc diag.Location, v string) *SecExpr {
	return &SecExpr{base: base{loc}, Var: v}
}

func (e *SecExpr) IsVar() bool { return e.Var != "" }

// DataExpr is the syntactic data-type position: a builtin name, a
// user-defined primitive/struct name (optionally with template
// arguments), or a bound quantifier variable.
type DataExpr struct {
	base
	Builtin string     // e.g. "uint32", "" if not a builtin
	Name    string     // user primitive/struct name, "" if builtin or var
	Args    []*TypeExpr // template arguments when Name names a struct template
	Var     string     // quantifier variable name
}

func (e *DataExpr) Kind() Kind       { return KindDataExpr }
func (e *DataExpr) Accept(v Visitor) { v.VisitDataExpr(e) }

func NewDataExprBuiltin(loc diag.Location, name string) *DataExpr {
	return &DataExpr{base: base{loc}, Builtin: name}
}

func NewDataExprName(loc diag.Location, name string, args []*TypeExpr) *DataExpr {
	return &DataExpr{base: base{loc}, Name: name, Args: args}
}

func NewDataVar(loc diag.Location, v string) *DataExpr {
	return &DataExpr{base: base{loc}, Var: v}
}

func (e *DataExpr) IsVar() bool { return e.Var != "" }

// DimExpr is the syntactic dimensionality position: a non-negative integer
// literal or a bound quantifier variable.
type DimExpr struct {
	base
	Value int  // valid when Var == ""
	Var   string
}

func (e *DimExpr) Kind() Kind       { return KindDimExpr }
func (e *DimExpr) Accept(v Visitor) { v.VisitDimExpr(e) }

func NewDimExpr(loc diag.Location, value int) *DimExpr {
	return &DimExpr{base: base{loc}, Value: value}
}

func NewDimVar(loc diag.Location, v string) *DimExpr {
	return &DimExpr{base: base{loc}, Var: v}
}

func (e *DimExpr) IsVar() bool { return e.Var != "" }

// TypeExpr is the full syntactic type written at a declaration site:
// a (security, data, dimensionality) triple, any component of which may
// be a bound quantifier variable or, for Sec/Dim, simply omitted (meaning
// "public"/"scalar").
type TypeExpr struct {
	base
	Sec  *SecExpr // nil means public
	Data *DataExpr
	Dim  *DimExpr // nil means scalar (dimensionality 0)
}

func (e *TypeExpr) Kind() Kind       { return KindTypeExpr }
func (e *TypeExpr) Accept(v Visitor) { v.VisitTypeExpr(e) }

func NewTypeExpr(loc diag.Location, sec *SecExpr, data *DataExpr, dim *DimExpr) *TypeExpr {
	return &TypeExpr{base: base{loc}, Sec: sec, Data: data, Dim: dim}
}

// QuantifierDomain distinguishes the three positions a template
// quantifier can bind: QuantSec, QuantData and QuantDim.
type QuantifierDomain int

const (
	QuantSec QuantifierDomain = iota
	QuantData
	QuantDim
)

// Quantifier declares one template type parameter, e.g. "domain D" or
// "dim N" or "type T".
type Quantifier struct {
	base
	Name            string
	In              QuantifierDomain
	KindRestriction string // for QuantSec, an optional "kind" restriction; else ""
}

func (q *Quantifier) Kind() Kind      { return KindQuantifier }
func (q *Quantifier) Accept(v Visitor) { v.VisitQuantifier(q) }

func NewQuantifier(loc diag.Location, name string, in QuantifierDomain, kindRestriction string) *Quantifier {
	return &Quantifier{base: base{loc}, Name: name, In: in, KindRestriction: kindRestriction}
}
