package codegen

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// binaryOpcode maps a surface binary operator to its Imop opcode.
func binaryOpcode(op ast.BinaryOp) ir.Opcode {
	switch op {
	case ast.OpAdd:
		return ir.ADD
	case ast.OpSub:
		return ir.SUB
	case ast.OpMul:
		return ir.MUL
	case ast.OpDiv:
		return ir.DIV
	case ast.OpMod:
		return ir.MOD
	case ast.OpEq:
		return ir.EQ
	case ast.OpNe:
		return ir.NE
	case ast.OpLt:
		return ir.LT
	case ast.OpLe:
		return ir.LE
	case ast.OpGt:
		return ir.GT
	case ast.OpGe:
		return ir.GE
	case ast.OpLAnd:
		return ir.LAND
	case ast.OpLOr:
		return ir.LOR
	case ast.OpBAnd:
		return ir.BAND
	case ast.OpBOr:
		return ir.BOR
	case ast.OpXor:
		return ir.XOR
	case ast.OpShl:
		return ir.SHL
	case ast.OpShr:
		return ir.SHR
	default:
		return ir.ADD
	}
}

// GenExpr lowers e, whose elaborated type is resultType, into IR against
// scope, returning the symbol holding the result (spec.md §4.5.1).
func (g *Generator) GenExpr(scope *symtab.Scope, e ast.Expr, resultType *types.Type) CGResult {
	switch n := e.(type) {
	case *ast.IntLit:
		if resultType == nil {
			resultType = g.Cxt.BasicType(g.Cxt.PublicSecType(), g.Cxt.BuiltinType(types.Int64), 0)
		}
		c := g.Cxt.ConstInt(resultType.Data.Builtin.IsSignedNumeric(), resultType.Data.Builtin.BitWidth(), n.Value)
		dst := g.newTemp(resultType)
		g.emit(ir.ASSIGN, dst, constIntSym(g.Cxt, c, resultType))
		return CGResult{Value: dst}
	case *ast.FloatLit:
		c := g.Cxt.ConstFloat(resultType.Data.Builtin.BitWidth(), n.Value)
		dst := g.newTemp(resultType)
		g.emit(ir.ASSIGN, dst, constFloatSym(c, resultType))
		return CGResult{Value: dst}
	case *ast.BoolLit:
		dst := g.newTemp(resultType)
		var v int64
		if n.Value {
			v = 1
		}
		c := g.Cxt.ConstInt(false, 1, v)
		g.emit(ir.ASSIGN, dst, constIntSym(g.Cxt, c, resultType))
		return CGResult{Value: dst}
	case *ast.StringLit:
		dst := g.newTemp(resultType)
		sc := g.Cxt.ConstString([]byte(n.Value))
		g.emit(ir.ASSIGN, dst, constStringSym(sc, resultType))
		return CGResult{Value: dst}
	case *ast.Ident:
		sym, err := scope.LookupOne(n.Name, symtab.CatVariable, n.Loc())
		if err != nil {
			return CGResult{Err: err}
		}
		return CGResult{Value: sym}
	case *ast.Binary:
		return g.genBinary(scope, n, resultType)
	case *ast.Unary:
		return g.genUnary(scope, n, resultType)
	case *ast.Classify:
		return g.genClassify(scope, n, resultType)
	case *ast.Declassify:
		return g.genDeclassify(scope, n, resultType)
	case *ast.Cast:
		return g.genCast(scope, n, resultType)
	case *ast.Call:
		return g.genCall(scope, n, resultType)
	case *ast.Index:
		return g.genIndex(scope, n, resultType)
	case *ast.Select:
		return g.genSelect(scope, n, resultType)
	case *ast.Ternary:
		return g.genTernary(scope, n, resultType)
	case *ast.ArrayCtor:
		return g.genArrayCtor(scope, n, resultType)
	case *ast.Builtin:
		return g.genBuiltin(scope, n, resultType)
	default:
		dst := g.newTemp(resultType)
		return CGResult{Value: dst}
	}
}

// constIntSym/constStringSym wrap an interned constant in a throwaway
// read-only symbol so it can appear as an Imop operand; the constant
//-folding analysis (internal/dataflow) recognizes these by their
// CatConstant category rather than by a distinct IR operand kind,
// matching the original's uniform "every operand is a Symbol" design.
func constIntSym(cxt *types.Context, c *types.ConstantInt, t *types.Type) *symtab.Symbol {
	return &symtab.Symbol{Name: "%const", Category: symtab.CatConstant, Type: t, Const: c}
}

func constStringSym(c *types.ConstantString, t *types.Type) *symtab.Symbol {
	return &symtab.Symbol{Name: "%const", Category: symtab.CatConstant, Type: t, Const: c}
}

func constFloatSym(c *types.ConstantFloat, t *types.Type) *symtab.Symbol {
	return &symtab.Symbol{Name: "%const", Category: symtab.CatConstant, Type: t, Const: c}
}

// isComposite reports whether t is a struct-typed value, the condition
// under which a binary/unary/cast expression dispatches to a
// user-declared operator/cast overload instead of emitting a builtin
// opcode (spec.md §4.4).
func isComposite(t *types.Type) bool {
	return t != nil && t.Kind == types.KindBasic && t.Data.IsComposite()
}

func (g *Generator) genBinary(scope *symtab.Scope, n *ast.Binary, resultType *types.Type) CGResult {
	lhs := g.GenExpr(scope, n.Left, resultType)
	if lhs.Err != nil {
		return lhs
	}
	rhs := g.GenExpr(scope, n.Right, resultType)
	if rhs.Err != nil {
		return rhs
	}
	if isComposite(lhs.Value.Type) || isComposite(rhs.Value.Type) {
		return g.genOperatorCall(scope, binaryOperatorName(n.Op), []*symtab.Symbol{lhs.Value, rhs.Value}, n.Loc())
	}
	dst := g.newTemp(resultType)
	g.emit(binaryOpcode(n.Op), dst, lhs.Value, rhs.Value)
	return CGResult{Value: dst}
}

func (g *Generator) genUnary(scope *symtab.Scope, n *ast.Unary, resultType *types.Type) CGResult {
	operand := g.GenExpr(scope, n.Operand, resultType)
	if operand.Err != nil {
		return operand
	}
	if isComposite(operand.Value.Type) {
		return g.genOperatorCall(scope, unaryOperatorName(n.Op), []*symtab.Symbol{operand.Value}, n.Loc())
	}
	dst := g.newTemp(resultType)
	op := ir.UMINUS
	if n.Op == ast.OpNot {
		op = ir.UINV
	}
	g.emit(op, dst, operand.Value)
	return CGResult{Value: dst}
}

// genClassify lowers public->private classification (spec.md §4.5.5).
func (g *Generator) genClassify(scope *symtab.Scope, n *ast.Classify, resultType *types.Type) CGResult {
	// The operand's elaborated type is public; reuse resultType's data/dim
	// to build it since classify only changes security.
	operandType := g.Cxt.BasicType(g.Cxt.PublicSecType(), resultType.Data, resultType.Dim)
	src := g.GenExpr(scope, n.Operand, operandType)
	if src.Err != nil {
		return src
	}
	dst := g.newTemp(resultType)
	g.emit(ir.CLASSIFY, dst, src.Value)
	return CGResult{Value: dst}
}

// genDeclassify lowers private->public declassification.
func (g *Generator) genDeclassify(scope *symtab.Scope, n *ast.Declassify, resultType *types.Type) CGResult {
	src := g.GenExpr(scope, n.Operand, nil)
	if src.Err != nil {
		return src
	}
	dst := g.newTemp(resultType)
	g.emit(ir.DECLASSIFY, dst, src.Value)
	return CGResult{Value: dst}
}

// genCast lowers an explicit data-type conversion (spec.md §4.5.5). A
// struct-typed operand or cast target has no builtin CAST opcode and is
// dispatched to a user-declared cast overload instead.
func (g *Generator) genCast(scope *symtab.Scope, n *ast.Cast, resultType *types.Type) CGResult {
	src := g.GenExpr(scope, n.Operand, nil)
	if src.Err != nil {
		return src
	}
	if n.To.Builtin == "" || isComposite(src.Value.Type) {
		toData, ok := g.resolveDataExpr(n.To)
		if !ok {
			return CGResult{Err: diag.New(diag.KindName, n.Loc(), "unknown cast target %q", n.To.Builtin)}
		}
		name := castOperatorName(src.Value.Type.Data, toData)
		return g.genOperatorCall(scope, name, []*symtab.Symbol{src.Value}, n.Loc())
	}
	dst := g.newTemp(resultType)
	g.emit(ir.CAST, dst, src.Value)
	return CGResult{Value: dst}
}

// elementType returns the scalar type (dimensionality 0, same security and
// data type) of one element of an array of type t (spec.md §4.5.4).
func (g *Generator) elementType(t *types.Type) *types.Type {
	return g.Cxt.BasicType(t.Sec, t.Data, 0)
}

// genBoundsCheck emits a guarded ERROR jump when idx is out of range for
// the dimension sized by dimSym (spec.md §4.5.4 "bounds checks").
func (g *Generator) genBoundsCheck(idx, dimSym *symtab.Symbol, loc ast.Node) {
	if dimSym == nil {
		return
	}
	cmp := g.newTemp(g.Cxt.PublicBoolType())
	g.emit(ir.GE, cmp, idx, dimSym)
	g.genGuardedError(cmp, "index out of bounds", loc.Loc())
}

// genGuardedError branches to a fresh block that raises ERROR whenever cond
// holds, otherwise falling through to a fresh continuation block which
// becomes the current block on return (spec.md §4.5.3, §4.5.4).
func (g *Generator) genGuardedError(cond *symtab.Symbol, msg string, loc diag.Location) {
	errBlock := g.proc.NewBlock()
	okBlock := g.proc.NewBlock()

	jt := g.emit(ir.JT, nil, cond)
	ir.AddEdge(g.cur, errBlock, ir.EdgeNormal)
	ir.AddEdge(g.cur, okBlock, ir.EdgeNormal)
	jt.Target = ensureEntry(errBlock)

	g.cur = errBlock
	errInstr := g.emit(ir.ERROR, nil)
	errInstr.Comment = msg
	errInstr.Loc = loc

	g.cur = okBlock
	ensureEntry(okBlock)
}

// genIndexOffset evaluates n's subscripts against base into a single
// row-major element offset, emitting a bounds check per scalar subscript
// (spec.md §4.5.4). Range subscripts (slices) contribute their lower bound,
// defaulting to 0.
func (g *Generator) genIndexOffset(scope *symtab.Scope, base *symtab.Symbol, n *ast.Index) CGResult {
	idxType := g.Cxt.IndexType()
	var offset *symtab.Symbol
	for i, a := range n.Args {
		var pos *symtab.Symbol
		if a.IsRange {
			if a.Lo != nil {
				r := g.GenExpr(scope, a.Lo, idxType)
				if r.Err != nil {
					return r
				}
				pos = r.Value
			} else {
				pos = constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, 0), idxType)
			}
		} else {
			r := g.GenExpr(scope, a.Single, idxType)
			if r.Err != nil {
				return r
			}
			pos = r.Value
			if i < len(base.DimSyms) {
				g.genBoundsCheck(pos, base.DimSyms[i], n)
			}
		}
		if offset == nil {
			offset = pos
			continue
		}
		scaled := offset
		if i < len(base.DimSyms) {
			m := g.newTemp(idxType)
			g.emit(ir.MUL, m, offset, base.DimSyms[i])
			scaled = m
		}
		next := g.newTemp(idxType)
		g.emit(ir.ADD, next, scaled, pos)
		offset = next
	}
	if offset == nil {
		offset = constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, 0), idxType)
	}
	return CGResult{Value: offset}
}

// genIndex lowers array subscripting/slicing to a bounds-checked LOAD
// (spec.md §4.5.4).
func (g *Generator) genIndex(scope *symtab.Scope, n *ast.Index, resultType *types.Type) CGResult {
	arr := g.GenExpr(scope, n.Array, nil)
	if arr.Err != nil {
		return arr
	}
	off := g.genIndexOffset(scope, arr.Value, n)
	if off.Err != nil {
		return off
	}
	dst := g.newTemp(resultType)
	g.emit(ir.LOAD, dst, arr.Value, off.Value)
	return CGResult{Value: dst}
}

// fieldSym returns (lazily materializing) the child symbol backing s's
// named field, following the struct-typed composite shape recorded by the
// checker (spec.md §4.1, SUPPLEMENTED FEATURES "struct declarations").
func (g *Generator) fieldSym(s *symtab.Symbol, name string) *symtab.Symbol {
	if f, ok := s.Fields[name]; ok {
		return f
	}
	if s.Type == nil || s.Type.Kind != types.KindBasic || !s.Type.Data.IsComposite() {
		return nil
	}
	field, ok := s.Type.Data.FieldByName(name)
	if !ok {
		return nil
	}
	child := symtab.NewVariable(g.Cxt, s.Name+"."+name, field.Type)
	if s.Fields == nil {
		s.Fields = make(map[string]*symtab.Symbol)
	}
	s.Fields[name] = child
	return child
}

// genSelect lowers struct field projection (spec.md §4.5.1).
func (g *Generator) genSelect(scope *symtab.Scope, n *ast.Select, resultType *types.Type) CGResult {
	base := g.GenExpr(scope, n.Struct, nil)
	if base.Err != nil {
		return base
	}
	field := g.fieldSym(base.Value, n.Field)
	if field == nil {
		return CGResult{Err: diag.New(diag.KindName, n.Loc(), "struct %s has no field %q", base.Value.Type, n.Field)}
	}
	return CGResult{Value: field}
}

// genTernary lowers cond ? then : else into the test/then/else/join CFG
// pattern genIf uses, merging both branches' values into one result
// temporary (spec.md §4.5.1).
func (g *Generator) genTernary(scope *symtab.Scope, n *ast.Ternary, resultType *types.Type) CGResult {
	boolT := g.Cxt.PublicBoolType()
	cond := g.GenExpr(scope, n.Cond, boolT)
	if cond.Err != nil {
		return cond
	}

	thenBlock := g.proc.NewBlock()
	elseBlock := g.proc.NewBlock()
	joinBlock := g.proc.NewBlock()
	result := g.newTemp(resultType)

	jt := g.emit(ir.JT, nil, cond.Value)
	ir.AddEdge(g.cur, thenBlock, ir.EdgeNormal)
	ir.AddEdge(g.cur, elseBlock, ir.EdgeNormal)
	jt.Target = ensureEntry(thenBlock)

	g.cur = thenBlock
	thenVal := g.GenExpr(scope, n.Then, resultType)
	if thenVal.Err != nil {
		return thenVal
	}
	g.emit(ir.ASSIGN, result, thenVal.Value)
	toJoin1 := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, joinBlock, ir.EdgeNormal)

	g.cur = elseBlock
	elseVal := g.GenExpr(scope, n.Else, resultType)
	if elseVal.Err != nil {
		return elseVal
	}
	g.emit(ir.ASSIGN, result, elseVal.Value)
	toJoin2 := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, joinBlock, ir.EdgeNormal)

	toJoin1.Target = ensureEntry(joinBlock)
	toJoin2.Target = ensureEntry(joinBlock)
	g.cur = joinBlock
	return CGResult{Value: result}
}

// genArrayCtor lowers a brace array constructor to an ALLOC of the right
// size followed by one STORE per element (spec.md §4.5.1).
func (g *Generator) genArrayCtor(scope *symtab.Scope, n *ast.ArrayCtor, resultType *types.Type) CGResult {
	dst := g.newTemp(resultType)
	idxType := g.Cxt.IndexType()
	sizeConst := constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, int64(len(n.Elems))), idxType)
	if len(dst.DimSyms) > 0 {
		g.emit(ir.ASSIGN, dst.DimSyms[0], sizeConst)
	}
	if dst.SizeSym != nil {
		g.emit(ir.ASSIGN, dst.SizeSym, sizeConst)
	}
	g.emit(ir.ALLOC, dst, sizeConst)

	elemType := g.elementType(resultType)
	for i, el := range n.Elems {
		val := g.GenExpr(scope, el, elemType)
		if val.Err != nil {
			return val
		}
		idx := constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, int64(i)), idxType)
		g.emit(ir.STORE, dst, dst, idx, val.Value)
	}
	return CGResult{Value: dst}
}

// genBuiltin lowers the fixed built-in pseudo-functions as thin wrappers
// around existing opcodes (spec.md §4.1, SUPPLEMENTED FEATURES): toString
// and print reuse their dedicated opcodes; shape/size read the operand's
// auxiliary dimension symbols directly; reshape sets the new dimension and
// size symbols, then ALLOCs and COPYs; cat/strlen/bytesFromString/
// stringFromBytes are runtime helper calls lowered through SYSCALL.
func (g *Generator) genBuiltin(scope *symtab.Scope, n *ast.Builtin, resultType *types.Type) CGResult {
	switch n.Op {
	case ast.BuiltinToString:
		operand := g.GenExpr(scope, n.Args[0], nil)
		if operand.Err != nil {
			return operand
		}
		dst := g.newTemp(resultType)
		g.emit(ir.TOSTRING, dst, operand.Value)
		return CGResult{Value: dst}
	case ast.BuiltinPrint:
		operand := g.GenExpr(scope, n.Args[0], nil)
		if operand.Err != nil {
			return operand
		}
		g.emit(ir.PRINT, nil, operand.Value)
		return CGResult{}
	case ast.BuiltinShape:
		base := g.GenExpr(scope, n.Args[0], nil)
		if base.Err != nil {
			return base
		}
		idxType := g.Cxt.IndexType()
		dst := g.newTemp(resultType)
		sizeConst := constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, int64(len(base.Value.DimSyms))), idxType)
		if len(dst.DimSyms) > 0 {
			g.emit(ir.ASSIGN, dst.DimSyms[0], sizeConst)
		}
		if dst.SizeSym != nil {
			g.emit(ir.ASSIGN, dst.SizeSym, sizeConst)
		}
		g.emit(ir.ALLOC, dst, sizeConst)
		for i, d := range base.Value.DimSyms {
			idx := constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, int64(i)), idxType)
			g.emit(ir.STORE, dst, dst, idx, d)
		}
		return CGResult{Value: dst}
	case ast.BuiltinSize:
		base := g.GenExpr(scope, n.Args[0], nil)
		if base.Err != nil {
			return base
		}
		dst := g.newTemp(resultType)
		if base.Value.SizeSym != nil {
			g.emit(ir.ASSIGN, dst, base.Value.SizeSym)
		} else {
			one := constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, 1), resultType)
			g.emit(ir.ASSIGN, dst, one)
		}
		return CGResult{Value: dst}
	case ast.BuiltinReshape:
		base := g.GenExpr(scope, n.Args[0], nil)
		if base.Err != nil {
			return base
		}
		idxType := g.Cxt.IndexType()
		var dimVals []*symtab.Symbol
		for _, a := range n.Args[1:] {
			r := g.GenExpr(scope, a, idxType)
			if r.Err != nil {
				return r
			}
			dimVals = append(dimVals, r.Value)
		}
		dst := g.newTemp(resultType)
		for i, d := range dimVals {
			if i < len(dst.DimSyms) {
				g.emit(ir.ASSIGN, dst.DimSyms[i], d)
			}
		}
		if dst.SizeSym != nil {
			var size *symtab.Symbol
			for _, d := range dimVals {
				if size == nil {
					size = d
					continue
				}
				next := g.newTemp(idxType)
				g.emit(ir.MUL, next, size, d)
				size = next
			}
			if size != nil {
				g.emit(ir.ASSIGN, dst.SizeSym, size)
			}
		}
		g.emit(ir.ALLOC, dst, dst.SizeSym)
		g.emit(ir.COPY, dst, base.Value)
		return CGResult{Value: dst}
	case ast.BuiltinCat:
		lhs := g.GenExpr(scope, n.Args[0], nil)
		if lhs.Err != nil {
			return lhs
		}
		rhs := g.GenExpr(scope, n.Args[1], nil)
		if rhs.Err != nil {
			return rhs
		}
		args := []*symtab.Symbol{lhs.Value, rhs.Value}
		if len(n.Args) == 3 {
			axis := g.GenExpr(scope, n.Args[2], g.Cxt.IndexType())
			if axis.Err != nil {
				return axis
			}
			args = append(args, axis.Value)
		}
		dst := g.newTemp(resultType)
		call := g.emit(ir.SYSCALL, dst, args...)
		call.Comment = "cat"
		return CGResult{Value: dst}
	default: // BuiltinStrlen, BuiltinBytesFromString, BuiltinStringFromBytes
		operand := g.GenExpr(scope, n.Args[0], nil)
		if operand.Err != nil {
			return operand
		}
		dst := g.newTemp(resultType)
		call := g.emit(ir.SYSCALL, dst, operand.Value)
		call.Comment = n.Op.String()
		return CGResult{Value: dst}
	}
}
