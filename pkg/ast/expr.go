package ast

import "github.com/andaur/scc/internal/diag"

func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*BoolLit) exprNode()    {}
func (*StringLit) exprNode()  {}
func (*Ident) exprNode()      {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*Cast) exprNode()       {}
func (*Index) exprNode()      {}
func (*Call) exprNode()       {}
func (*Classify) exprNode()   {}
func (*Declassify) exprNode() {}
func (*Ternary) exprNode()    {}
func (*ArrayCtor) exprNode()  {}
func (*Builtin) exprNode()    {}
func (*Select) exprNode()     {}

// IntLit is an integer literal, untyped until the checker assigns it a
// DataType (defaulting to "numeric" per spec.md §4.2).
type IntLit struct {
	base
	Value int64
}

func (n *IntLit) Kind() Kind       { return KindIntLit }
func (n *IntLit) Accept(v Visitor) { v.VisitIntLit(n) }

func NewIntLit(loc diag.Location, value int64) *IntLit {
	return &IntLit{base: base{loc}, Value: value}
}

// FloatLit is a floating-point literal, untyped until the checker assigns
// it a DataType (defaulting to "numeric_float", resolving to float64).
type FloatLit struct {
	base
	Value float64
}

func (n *FloatLit) Kind() Kind       { return KindFloatLit }
func (n *FloatLit) Accept(v Visitor) { v.VisitFloatLit(n) }

func NewFloatLit(loc diag.Location, value float64) *FloatLit {
	return &FloatLit{base: base{loc}, Value: value}
}

// BoolLit is a boolean literal.
type BoolLit struct {
	base
	Value bool
}

func (n *BoolLit) Kind() Kind       { return KindBoolLit }
func (n *BoolLit) Accept(v Visitor) { v.VisitBoolLit(n) }

func NewBoolLit(loc diag.Location, value bool) *BoolLit {
	return &BoolLit{base: base{loc}, Value: value}
}

// StringLit is a public string literal.
type StringLit struct {
	base
	Value string
}

func (n *StringLit) Kind() Kind       { return KindStringLit }
func (n *StringLit) Accept(v Visitor) { v.VisitStringLit(n) }

func NewStringLit(loc diag.Location, value string) *StringLit {
	return &StringLit{base: base{loc}, Value: value}
}

// Ident references a variable, constant or procedure by name.
type Ident struct {
	base
	Name string
}

func (n *Ident) Kind() Kind       { return KindIdent }
func (n *Ident) Accept(v Visitor) { v.VisitIdent(n) }

func NewIdent(loc diag.Location, name string) *Ident {
	return &Ident{base: base{loc}, Name: name}
}

// BinaryOp enumerates the surface binary operators; overload resolution
// maps each to one or more SymbolOperatorTemplate candidates.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLAnd
	OpLOr
	OpBAnd
	OpBOr
	OpXor
	OpShl
	OpShr
)

func (op BinaryOp) String() string {
	names := [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "&", "|", "^", "<<", ">>"}
	if int(op) < len(names) {
		return names[op]
	}
	return "<invalid op>"
}

// Binary is a binary operator application.
type Binary struct {
	base
	Op          BinaryOp
	Left, Right Expr
}

func (n *Binary) Kind() Kind       { return KindBinary }
func (n *Binary) Accept(v Visitor) { v.VisitBinary(n) }

func NewBinary(loc diag.Location, op BinaryOp, left, right Expr) *Binary {
	return &Binary{base: base{loc}, Op: op, Left: left, Right: right}
}

// UnaryOp enumerates the surface unary operators.
type UnaryOp int

const (
	OpNeg  UnaryOp = iota // arithmetic negation
	OpNot                 // logical/bitwise inversion
)

func (op UnaryOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "!"
}

// Unary is a unary operator application.
type Unary struct {
	base
	Op      UnaryOp
	Operand Expr
}

func (n *Unary) Kind() Kind       { return KindUnary }
func (n *Unary) Accept(v Visitor) { v.VisitUnary(n) }

func NewUnary(loc diag.Location, op UnaryOp, operand Expr) *Unary {
	return &Unary{base: base{loc}, Op: op, Operand: operand}
}

// Cast is an explicit (or, after elaboration, implicit) data-type
// conversion written Type(expr).
type Cast struct {
	base
	To      *DataExpr
	Operand Expr
}

func (n *Cast) Kind() Kind       { return KindCast }
func (n *Cast) Accept(v Visitor) { v.VisitCast(n) }

func NewCast(loc diag.Location, to *DataExpr, operand Expr) *Cast {
	return &Cast{base: base{loc}, To: to, Operand: operand}
}

// IndexArg is one dimension of an Index expression: either a single
// subscript expression, or a lo:hi slice range (either bound may be nil,
// meaning "from the start"/"to the end").
type IndexArg struct {
	Single   Expr
	IsRange  bool
	Lo, Hi   Expr
}

// Index subscripts or slices an array.
type Index struct {
	base
	Array Expr
	Args  []IndexArg
}

func (n *Index) Kind() Kind       { return KindIndex }
func (n *Index) Accept(v Visitor) { v.VisitIndex(n) }

func NewIndex(loc diag.Location, array Expr, args []IndexArg) *Index {
	return &Index{base: base{loc}, Array: array, Args: args}
}

// Call invokes a named procedure (possibly a template) with argument
// expressions; the checker resolves Name to a concrete overload.
type Call struct {
	base
	Name string
	Args []Expr
}

func (n *Call) Kind() Kind       { return KindCall }
func (n *Call) Accept(v Visitor) { v.VisitCall(n) }

func NewCall(loc diag.Location, name string, args []Expr) *Call {
	return &Call{base: base{loc}, Name: name, Args: args}
}

// Classify raises a public value into a named private domain.
type Classify struct {
	base
	Domain  *SecExpr
	Operand Expr
}

func (n *Classify) Kind() Kind       { return KindClassify }
func (n *Classify) Accept(v Visitor) { v.VisitClassify(n) }

func NewClassify(loc diag.Location, domain *SecExpr, operand Expr) *Classify {
	return &Classify{base: base{loc}, Domain: domain, Operand: operand}
}

// Declassify lowers a private value down to public (or to a less private
// domain along the same kind's lattice, when the target language supports
// more than two levels).
type Declassify struct {
	base
	Operand Expr
}

func (n *Declassify) Kind() Kind       { return KindDeclassify }
func (n *Declassify) Accept(v Visitor) { v.VisitDeclassify(n) }

func NewDeclassify(loc diag.Location, operand Expr) *Declassify {
	return &Declassify{base: base{loc}, Operand: operand}
}

// Ternary is the cond ? then : els conditional expression.
type Ternary struct {
	base
	Cond, Then, Else Expr
}

func (n *Ternary) Kind() Kind       { return KindTernary }
func (n *Ternary) Accept(v Visitor) { v.VisitTernary(n) }

func NewTernary(loc diag.Location, cond, then, els Expr) *Ternary {
	return &Ternary{base: base{loc}, Cond: cond, Then: then, Else: els}
}

// ArrayCtor is a brace array constructor "{ e1, e2, ... }".
type ArrayCtor struct {
	base
	Elems []Expr
}

func (n *ArrayCtor) Kind() Kind       { return KindArrayCtor }
func (n *ArrayCtor) Accept(v Visitor) { v.VisitArrayCtor(n) }

func NewArrayCtor(loc diag.Location, elems []Expr) *ArrayCtor {
	return &ArrayCtor{base: base{loc}, Elems: elems}
}

// BuiltinOp enumerates the built-in pseudo-functions the checker and code
// generator special-case, consolidating what the original implementation
// spread across many distinct opcodes/AST node types (spec.md SUPPLEMENTED
// FEATURES; see SPEC_FULL.md).
type BuiltinOp int

const (
	BuiltinCat BuiltinOp = iota
	BuiltinReshape
	BuiltinShape
	BuiltinSize
	BuiltinToString
	BuiltinStrlen
	BuiltinBytesFromString
	BuiltinStringFromBytes
	BuiltinPrint
)

func (op BuiltinOp) String() string {
	names := [...]string{"cat", "reshape", "shape", "size", "toString", "strlen", "bytesFromString", "stringFromBytes", "print"}
	if int(op) < len(names) {
		return names[op]
	}
	return "<invalid builtin>"
}

// Builtin is an application of one of the fixed built-in operations.
type Builtin struct {
	base
	Op   BuiltinOp
	Args []Expr
}

func (n *Builtin) Kind() Kind       { return KindBuiltin }
func (n *Builtin) Accept(v Visitor) { v.VisitBuiltin(n) }

func NewBuiltin(loc diag.Location, op BuiltinOp, args []Expr) *Builtin {
	return &Builtin{base: base{loc}, Op: op, Args: args}
}

// Select projects a named field out of a struct-typed expression.
type Select struct {
	base
	Struct Expr
	Field  string
}

func (n *Select) Kind() Kind       { return KindSelect }
func (n *Select) Accept(v Visitor) { v.VisitSelect(n) }

func NewSelect(loc diag.Location, structExpr Expr, field string) *Select {
	return &Select{base: base{loc}, Struct: structExpr, Field: field}
}
