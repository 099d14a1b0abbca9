package dataflow

import (
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/types"
)

// valueTag is the constant-folding lattice's three levels (spec.md §4.6.1):
// Undef < Constant(v) < NAC.
type valueTag int

const (
	valUndef valueTag = iota
	valConst
	valNAC
)

// Value is one lattice element. Only Int and Str payloads carry enough
// information to ever be materialised back into a constant by the
// optimizer; Arr participates in the meet but, matching
// original_source's own ConstantFolding (which never emits a constant
// array literal), is never folded into an Imop.
type Value struct {
	tag   valueTag
	i     types.ConstantInt
	hasI  bool
	s     types.ConstantString
	hasS  bool
	arr   []Value
	hasArr bool
}

func undefValue() Value { return Value{tag: valUndef} }
func nacValue() Value   { return Value{tag: valNAC} }

func intValue(v types.ConstantInt) Value { return Value{tag: valConst, i: v, hasI: true} }
func strValue(v types.ConstantString) Value { return Value{tag: valConst, s: v, hasS: true} }
func arrValue(elems []Value) Value { return Value{tag: valConst, arr: elems, hasArr: true} }

func (v Value) IsUndef() bool { return v.tag == valUndef }
func (v Value) IsNAC() bool   { return v.tag == valNAC }
func (v Value) IsConst() bool { return v.tag == valConst }

func (v Value) equal(o Value) bool {
	if v.tag != o.tag {
		return false
	}
	if v.tag != valConst {
		return true
	}
	if v.hasI && o.hasI {
		return v.i.Eq(o.i)
	}
	if v.hasS && o.hasS {
		return v.s.Eq(o.s)
	}
	if v.hasArr && o.hasArr {
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// meet implements spec.md §4.6.1's lattice join: Undef absorbs into
// whichever operand is defined, NAC absorbs everything, two distinct
// constants collapse to NAC unless both are arrays of matching length (then
// meet pointwise).
func meet(x, y Value) Value {
	if x.IsUndef() {
		return y
	}
	if y.IsUndef() {
		return x
	}
	if x.IsNAC() || y.IsNAC() {
		return nacValue()
	}
	if x.equal(y) {
		return x
	}
	if x.hasArr && y.hasArr && len(x.arr) == len(y.arr) {
		out := make([]Value, len(x.arr))
		for i := range out {
			out[i] = meet(x.arr[i], y.arr[i])
		}
		return arrValue(out)
	}
	return nacValue()
}

// leq is the lattice order (Undef <= Constant <= NAC); FinishBlock applies
// it in both directions to detect whether an iteration changed a symbol's
// value.
func leq(x, y Value) bool {
	if x.IsUndef() || y.IsNAC() {
		return true
	}
	if x.IsNAC() || y.IsUndef() {
		return false
	}
	return x.equal(y)
}

type symValues map[*symtab.Symbol]Value

// ConstantFold computes, per symbol and per program point, the most precise
// value provable without running the program (spec.md §4.6.1). It is
// grounded on original_source's ConstantFolding.cpp: the same three-state
// lattice, the same "PARAM/DOMAINID/CALL-result/PUSH-of-non-trivial produces
// NAC" rules, and the same refusal to ever fold an array value into a
// constant (arrays only ever feed the meet, as in the original).
type ConstantFold struct {
	cxt *types.Context

	ins  map[*ir.Block]symValues
	outs map[*ir.Block]symValues

	// constants caches one Value per literal-wrapping symbol so repeated
	// lookups of the same %const symbol don't re-derive it.
	constants map[*symtab.Symbol]Value
}

// NewConstantFold creates an empty ConstantFold analysis; cxt is needed to
// materialise cast results at the correct bit width.
func NewConstantFold(cxt *types.Context) *ConstantFold {
	return &ConstantFold{
		cxt:       cxt,
		ins:       make(map[*ir.Block]symValues),
		outs:      make(map[*ir.Block]symValues),
		constants: make(map[*symtab.Symbol]Value),
	}
}

func (c *ConstantFold) valueOfConstSymbol(sym *symtab.Symbol) (Value, bool) {
	if v, ok := c.constants[sym]; ok {
		return v, true
	}
	if sym.Category != symtab.CatConstant || sym.Const == nil {
		return Value{}, false
	}
	var v Value
	if iv, ok := sym.ConstInt(); ok {
		v = intValue(*iv)
	} else if sv, ok := sym.ConstString(); ok {
		v = strValue(*sv)
	} else {
		// Floats participate in neither the Int nor Str payload rows of
		// spec.md §4.6.1's table; track them as NAC rather than
		// inventing a fourth payload tag the spec doesn't name.
		v = nacValue()
	}
	c.constants[sym] = v
	return v, true
}

func (c *ConstantFold) getVal(val symValues, sym *symtab.Symbol) Value {
	if sym == nil {
		return undefValue()
	}
	if v, ok := c.valueOfConstSymbol(sym); ok {
		return v
	}
	if v, ok := val[sym]; ok {
		return v
	}
	return undefValue()
}

func (c *ConstantFold) setVal(val symValues, sym *symtab.Symbol, v Value) {
	if sym == nil || v.IsUndef() {
		return
	}
	val[sym] = v
}

func isNonPublicScalar(t *types.Type) bool {
	if t == nil {
		return true
	}
	if t.Kind != types.KindBasic {
		return true
	}
	if t.Dim > 0 {
		return true
	}
	if sec := t.SecrecSecType(); sec != nil && sec.IsPrivate() {
		return true
	}
	if dt := t.SecrecDataType(); dt != nil && dt.IsPrimitive() && dt.Builtin == types.StringK {
		return true
	}
	return false
}

// transfer runs imop's abstract effect over val in place, following
// original_source's ConstantFolding::transfer opcode by opcode.
func (c *ConstantFold) transfer(val symValues, imop *ir.Imop) {
	switch imop.Op {
	case ir.PARAM, ir.DOMAINID:
		c.setVal(val, imop.Dest, nacValue())
		return
	case ir.SYSCALL:
		if imop.Dest != nil {
			c.setVal(val, imop.Dest, nacValue())
		}
		return
	case ir.PUSHREF:
		if len(imop.Args) > 0 {
			c.setVal(val, imop.Args[0], nacValue())
		}
		return
	case ir.PUSH:
		if len(imop.Args) > 0 && isNonPublicScalar(imop.Args[0].Type) {
			c.setVal(val, imop.Args[0], nacValue())
		}
		return
	case ir.CALL:
		// Our call lowering (internal/codegen's call.go) receives results
		// via a dedicated PARAM per flattened return value, already
		// handled above; CALL itself never has a Dest.
		return
	case ir.CAST:
		if len(imop.Args) == 0 {
			return
		}
		x := c.getVal(val, imop.Args[0])
		c.setVal(val, imop.Dest, c.castValue(imop.Dest, x))
		return
	case ir.TOSTRING:
		if len(imop.Args) == 0 {
			return
		}
		x := c.getVal(val, imop.Args[0])
		c.setVal(val, imop.Dest, toStringValue(x))
		return
	case ir.ASSIGN, ir.COPY, ir.CLASSIFY, ir.DECLASSIFY:
		if len(imop.Args) == 0 {
			return
		}
		c.setVal(val, imop.Dest, c.getVal(val, imop.Args[0]))
		return
	case ir.ALLOC, ir.LOAD, ir.STORE:
		// Arrays only ever feed the meet in this analysis, never get
		// folded back into a constant Imop (see ConstantFold's doc
		// comment) — tracking them precisely buys the optimizer nothing,
		// so conservatively mark written array symbols NAC.
		if imop.Dest != nil {
			c.setVal(val, imop.Dest, nacValue())
		}
		return
	case ir.UINV, ir.UNEG, ir.UMINUS:
		if len(imop.Args) == 0 {
			return
		}
		c.setVal(val, imop.Dest, unaryArith(imop.Op, c.getVal(val, imop.Args[0])))
		return
	case ir.ADD, ir.SUB, ir.MUL, ir.DIV, ir.MOD,
		ir.EQ, ir.NE, ir.LE, ir.LT, ir.GE, ir.GT,
		ir.LAND, ir.LOR, ir.BAND, ir.BOR, ir.XOR, ir.SHL, ir.SHR:
		if len(imop.Args) < 2 {
			return
		}
		x := c.getVal(val, imop.Args[0])
		y := c.getVal(val, imop.Args[1])
		if imop.Args[0].Type != nil && imop.Args[0].Type.SecrecDataType() != nil &&
			imop.Args[0].Type.SecrecDataType().Builtin == types.StringK {
			c.setVal(val, imop.Dest, stringBinary(imop.Op, x, y))
		} else {
			c.setVal(val, imop.Dest, binaryArith(imop.Op, x, y))
		}
		return
	default:
		// COMMENT, END, ERROR, JF, JT, JUMP, PRINT, PUSHCREF, RELEASE,
		// RETCLEAN, RETURN have no dataflow effect on symbol values.
		return
	}
}

func (c *ConstantFold) castValue(dest *symtab.Symbol, x Value) Value {
	if !x.IsConst() || dest == nil || dest.Type == nil {
		if x.IsUndef() {
			return undefValue()
		}
		return nacValue()
	}
	dt := dest.Type.SecrecDataType()
	if dt == nil || !dt.IsPrimitive() {
		return nacValue()
	}
	if x.hasI {
		destWidth := dt.Builtin.BitWidth()
		if dt.Builtin == types.Bool {
			return intValue(types.NewConstantInt(false, 1, boolToInt(x.i.Int64() != 0)))
		}
		destSigned := dt.Builtin.IsSignedNumeric()
		if destWidth == 0 {
			destWidth = x.i.Bits
		}
		v := types.NewConstantInt(destSigned, destWidth, x.i.Int64())
		return intValue(v)
	}
	if x.hasS && dt.Builtin == types.StringK {
		return x
	}
	return nacValue()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func toStringValue(x Value) Value {
	if !x.IsConst() || !x.hasI {
		if x.IsUndef() {
			return undefValue()
		}
		return nacValue()
	}
	// original_source's IntValue::toString renders signed/unsigned decimal;
	// matched here via strconv through Int64/uint64 as appropriate.
	return strValue(types.NewConstantString([]byte(formatConstInt(x.i))))
}

func formatConstInt(v types.ConstantInt) string {
	if v.Signed {
		return itoa(v.Int64())
	}
	return uitoa(v.Value)
}

func itoa(v int64) string {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	s := uitoa(u)
	if neg {
		return "-" + s
	}
	return s
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func unaryArith(op ir.Opcode, x Value) Value {
	if !x.IsConst() || !x.hasI {
		if x.IsUndef() {
			return undefValue()
		}
		return nacValue()
	}
	switch op {
	case ir.UINV, ir.UNEG:
		return intValue(types.NewConstantInt(x.i.Signed, x.i.Bits, int64(^x.i.Value)))
	case ir.UMINUS:
		return intValue(types.NewConstantInt(x.i.Signed, x.i.Bits, int64(-x.i.Value)))
	default:
		return nacValue()
	}
}

// stringBinary implements original_source's strCmp/strAdd over Str payloads.
func stringBinary(op ir.Opcode, x, y Value) Value {
	if !x.IsConst() || !y.IsConst() || !x.hasS || !y.hasS {
		if x.IsUndef() || y.IsUndef() {
			return undefValue()
		}
		return nacValue()
	}
	a, b := x.s.Bytes, y.s.Bytes
	boolConst := func(v bool) Value { return intValue(types.NewConstantInt(false, 1, boolToInt(v))) }
	switch op {
	case ir.ADD:
		return strValue(types.NewConstantString([]byte(a + b)))
	case ir.EQ:
		return boolConst(a == b)
	case ir.NE:
		return boolConst(a != b)
	case ir.LT:
		return boolConst(a < b)
	case ir.GT:
		return boolConst(a > b)
	case ir.GE:
		return boolConst(a >= b)
	case ir.LE:
		return boolConst(a <= b)
	default:
		return nacValue()
	}
}

// binaryArith implements original_source's intBinary, rejecting (Undef, not
// NAC) anything the spec calls out as undefined behaviour: division by
// zero, signed INT_MIN / -1, and shifts by a negative or out-of-range
// amount (spec.md §4.6.1).
func binaryArith(op ir.Opcode, x, y Value) Value {
	if !x.IsConst() || !y.IsConst() || !x.hasI || !y.hasI {
		if x.IsUndef() || y.IsUndef() {
			return undefValue()
		}
		return nacValue()
	}
	a, b := x.i, y.i
	boolConst := func(v bool) Value { return intValue(types.NewConstantInt(false, 1, boolToInt(v))) }
	switch op {
	case ir.ADD:
		return intValue(a.Add(b))
	case ir.SUB:
		return intValue(a.Sub(b))
	case ir.MUL:
		return intValue(a.Mul(b))
	case ir.DIV:
		v, ok := a.DivOk(b)
		if !ok {
			return undefValue()
		}
		return intValue(v)
	case ir.MOD:
		v, ok := a.ModOk(b)
		if !ok {
			return undefValue()
		}
		return intValue(v)
	case ir.SHL:
		v, ok := a.ShlOk(b.Int64())
		if !ok {
			return undefValue()
		}
		return intValue(v)
	case ir.SHR:
		v, ok := a.ShrOk(b.Int64())
		if !ok {
			return undefValue()
		}
		return intValue(v)
	case ir.BAND, ir.LAND:
		return intValue(types.NewConstantInt(a.Signed, a.Bits, int64(a.Value&b.Value)))
	case ir.BOR, ir.LOR:
		return intValue(types.NewConstantInt(a.Signed, a.Bits, int64(a.Value|b.Value)))
	case ir.XOR:
		return intValue(types.NewConstantInt(a.Signed, a.Bits, int64(a.Value^b.Value)))
	case ir.EQ:
		return boolConst(a.Value == b.Value)
	case ir.NE:
		return boolConst(a.Value != b.Value)
	case ir.LT:
		return boolConst(signedCmp(a, b) < 0)
	case ir.LE:
		return boolConst(signedCmp(a, b) <= 0)
	case ir.GT:
		return boolConst(signedCmp(a, b) > 0)
	case ir.GE:
		return boolConst(signedCmp(a, b) >= 0)
	default:
		return nacValue()
	}
}

func signedCmp(a, b types.ConstantInt) int {
	if a.Signed {
		ai, bi := a.Int64(), b.Int64()
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	default:
		return 0
	}
}

// Start implements Analysis: no global seeding is needed since every
// symbol starts Undef by omission from the map.
func (c *ConstantFold) Start(prog *ir.Program) {}

func (c *ConstantFold) StartBlock(b *ir.Block) {
	c.ins[b] = make(symValues)
}

func (c *ConstantFold) InFrom(pred *ir.Block, kind ir.EdgeKind, b *ir.Block) {
	if kind == ir.EdgeGlobal {
		return
	}
	in := c.ins[b]
	for sym, v := range c.outs[pred] {
		if cur, ok := in[sym]; ok {
			in[sym] = meet(cur, v)
		} else {
			in[sym] = meet(undefValue(), v)
		}
	}
}

func (c *ConstantFold) FinishBlock(b *ir.Block) bool {
	old := c.outs[b]
	out := make(symValues, len(c.ins[b]))
	for sym, v := range c.ins[b] {
		out[sym] = v
	}
	for _, imop := range b.Instructions() {
		c.transfer(out, imop)
	}
	c.outs[b] = out

	for sym, x := range old {
		if y := getOr(out, sym); !leq(x, y) || !leq(y, x) {
			return true
		}
	}
	for sym, y := range out {
		if x := getOr(old, sym); !leq(x, y) || !leq(y, x) {
			return true
		}
	}
	return false
}

func getOr(m symValues, sym *symtab.Symbol) Value {
	if v, ok := m[sym]; ok {
		return v
	}
	return undefValue()
}

func (c *ConstantFold) Finish() {}

// ValueAt returns the analysis's computed value for sym at block entry, for
// callers (tests, the optimizer) that want to inspect results directly.
func (c *ConstantFold) ValueAt(b *ir.Block, sym *symtab.Symbol) (Value, bool) {
	v, ok := c.ins[b][sym]
	return v, ok
}

// Optimize walks every block of prog, replacing writing instructions whose
// destination has become a concrete Int or Str constant with an ASSIGN (or
// CLASSIFY, for a private destination) of that constant, per spec.md
// §4.6.1/§4.6.2. It must run after a Driver has already carried c to a
// fixpoint. Returns the number of instructions replaced.
func (c *ConstantFold) Optimize(prog *ir.Program) int {
	replaced := 0
	for _, proc := range prog.Procedures {
		for _, b := range proc.Blocks {
			replaced += c.optimizeBlock(b)
		}
	}
	return replaced
}

func (c *ConstantFold) optimizeBlock(b *ir.Block) int {
	val := make(symValues, len(c.ins[b]))
	for sym, v := range c.ins[b] {
		val[sym] = v
	}

	n := 0
	for _, imop := range b.Instructions() {
		c.transfer(val, imop)

		switch imop.Op {
		case ir.SYSCALL, ir.CALL, ir.PARAM:
			continue
		}
		if imop.Dest == nil {
			continue
		}
		if imop.Op == ir.ASSIGN || imop.Op == ir.DECLASSIFY || imop.Op == ir.CLASSIFY || imop.Op == ir.ALLOC {
			if len(imop.Args) > 0 && imop.Args[0].Category == symtab.CatConstant {
				continue // already folded
			}
		}

		v, ok := val[imop.Dest]
		if !ok || !v.IsConst() || v.hasArr {
			continue
		}

		constSym := symbolForValue(v, imop.Dest)
		if constSym == nil {
			continue
		}

		op := ir.ASSIGN
		if sec := imop.Dest.Type.SecrecSecType(); sec != nil && sec.IsPrivate() {
			op = ir.CLASSIFY
		}
		repl := ir.NewImop(op, imop.Dest, constSym)
		repl.Loc = imop.Loc
		imop.ReplaceWith(repl)
		n++
	}
	return n
}

func symbolForValue(v Value, dest *symtab.Symbol) *symtab.Symbol {
	switch {
	case v.hasI:
		c := v.i
		return &symtab.Symbol{Name: "%const", Category: symtab.CatConstant, Type: dest.Type, Const: &c}
	case v.hasS:
		c := v.s
		return &symtab.Symbol{Name: "%const", Category: symtab.CatConstant, Type: dest.Type, Const: &c}
	default:
		return nil
	}
}
