package codegen

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// GenStmt lowers one statement into the current block, possibly creating
// and switching to new blocks for control flow (spec.md §4.5.1, §4.5.6).
func (g *Generator) GenStmt(scope *symtab.Scope, s ast.Stmt) CGStmtResult {
	switch n := s.(type) {
	case *ast.BlockStmt:
		return g.genBlock(scope, n)
	case *ast.VarDeclStmt:
		return g.genVarDecl(scope, n)
	case *ast.AssignStmt:
		return g.genAssign(scope, n)
	case *ast.IfStmt:
		return g.genIf(scope, n)
	case *ast.WhileStmt:
		return g.genWhile(scope, n)
	case *ast.DoWhileStmt:
		return g.genDoWhile(scope, n)
	case *ast.ForStmt:
		return g.genFor(scope, n)
	case *ast.BreakStmt:
		return g.genBreak(n)
	case *ast.ContinueStmt:
		return g.genContinue(n)
	case *ast.ReturnStmt:
		return g.genReturn(scope, n)
	case *ast.ExprStmt:
		r := g.GenExpr(scope, n.X, nil)
		return CGStmtResult{Err: r.Err}
	default:
		return CGStmtResult{}
	}
}

func (g *Generator) genBlock(scope *symtab.Scope, b *ast.BlockStmt) CGStmtResult {
	inner := symtab.NewScope(scope)
	g.pushScope()
	var out CGStmtResult
	for _, stmt := range b.Stmts {
		r := g.GenStmt(inner, stmt)
		out.Breaks = append(out.Breaks, r.Breaks...)
		out.Continues = append(out.Continues, r.Continues...)
		out.Returns = append(out.Returns, r.Returns...)
		if r.Err != nil {
			out.Err = r.Err
			break
		}
	}
	g.releaseScope()
	return out
}

// resolveTypeExpr mirrors internal/typecheck's declared-type resolution so
// codegen can materialize a symbol for a VarDeclStmt without re-running the
// checker; the checker has already validated t by the time codegen sees it
// (spec.md §4.5.3).
func (g *Generator) resolveTypeExpr(t *ast.TypeExpr) (*types.Type, bool) {
	sec := g.Cxt.PublicSecType()
	if t.Sec != nil && !t.Sec.IsVar() {
		dom, ok := g.Cxt.LookupPrivateSecType(t.Sec.Domain)
		if !ok {
			return nil, false
		}
		sec = dom
	}
	data, ok := g.resolveDataExpr(t.Data)
	if !ok {
		return nil, false
	}
	dim := types.DimType(0)
	if t.Dim != nil && !t.Dim.IsVar() {
		dim = types.DimType(t.Dim.Value)
	}
	return g.Cxt.BasicType(sec, data, dim), true
}

// resolveDataExpr mirrors typecheck.Checker.resolveDataExpr: a builtin by
// name, or — via the driver-wired StructType hook — a user-declared
// struct, possibly generic.
func (g *Generator) resolveDataExpr(d *ast.DataExpr) (*types.DataType, bool) {
	if d.Builtin != "" {
		bk, ok := builtinKindByName(d.Builtin)
		if !ok {
			return nil, false
		}
		return g.Cxt.BuiltinType(bk), true
	}
	if g.StructType == nil {
		return nil, false
	}
	dt, err := g.StructType(d.Name, d.Args)
	if err != nil {
		return nil, false
	}
	return dt, true
}

// builtinKindByName maps a surface builtin type name to its BuiltinKind;
// kept in sync with internal/typecheck's resolver (spec.md §2.2).
func builtinKindByName(name string) (types.BuiltinKind, bool) {
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

// genDefaultScalar materializes the language-defined default value for a
// scalar builtin type: 0, false, 0.0 or the empty string (spec.md §4.5.3
// "initialize to a language-defined default").
func (g *Generator) genDefaultScalar(t *types.Type) *symtab.Symbol {
	switch {
	case t.Data.Builtin == types.StringK:
		return constStringSym(g.Cxt.ConstString(nil), t)
	case t.Data.Builtin.IsFloating():
		return constFloatSym(g.Cxt.ConstFloat(t.Data.Builtin.BitWidth(), 0), t)
	default:
		return constIntSym(g.Cxt, g.Cxt.ConstInt(t.Data.Builtin.IsSignedNumeric(), t.Data.Builtin.BitWidth(), 0), t)
	}
}

// genDefaultInit fills sym with its declared type's default value: a
// scalar default for non-arrays, or an ALLOC of an empty (zero-sized)
// array for every other dimensionality (spec.md §4.5.3).
func (g *Generator) genDefaultInit(sym *symtab.Symbol) {
	t := sym.Type
	if t.Dim == 0 {
		g.emit(ir.ASSIGN, sym, g.genDefaultScalar(t))
		return
	}
	zero := constIntSym(g.Cxt, g.Cxt.ConstInt(false, 64, 0), g.Cxt.IndexType())
	for _, d := range sym.DimSyms {
		g.emit(ir.ASSIGN, d, zero)
	}
	if sym.SizeSym != nil {
		g.emit(ir.ASSIGN, sym.SizeSym, zero)
	}
	g.emit(ir.ALLOC, sym, sym.SizeSym)
}

// copyShape threads src's runtime per-dimension sizes into dst's own
// auxiliary dimension symbols (spec.md §4.5.3, §3 "Symbols").
func (g *Generator) copyShape(dst, src *symtab.Symbol) {
	for i, d := range dst.DimSyms {
		if i < len(src.DimSyms) {
			g.emit(ir.ASSIGN, d, src.DimSyms[i])
		}
	}
	if dst.SizeSym != nil && src.SizeSym != nil {
		g.emit(ir.ASSIGN, dst.SizeSym, src.SizeSym)
	}
}

// genArrayAssign rebinds dst to src's contents after checking at runtime
// that every dimension's size agrees, raising a guarded ERROR jump on
// mismatch (spec.md §4.5.3, §4.5.4 "checking shape equality at runtime
// with a guarded ERROR jump").
func (g *Generator) genArrayAssign(dst, src *symtab.Symbol, loc diag.Location) {
	var mismatch *symtab.Symbol
	boolT := g.Cxt.PublicBoolType()
	for i := range dst.DimSyms {
		if i >= len(src.DimSyms) {
			break
		}
		cmp := g.newTemp(boolT)
		g.emit(ir.NE, cmp, dst.DimSyms[i], src.DimSyms[i])
		if mismatch == nil {
			mismatch = cmp
			continue
		}
		next := g.newTemp(boolT)
		g.emit(ir.LOR, next, mismatch, cmp)
		mismatch = next
	}
	if mismatch != nil {
		g.genGuardedError(mismatch, "assigned array does not match declared shape", loc)
	}
	g.copyShape(dst, src)
	g.emit(ir.COPY, dst, src)
}

// genVarDecl emits the initializer (if any) into a freshly declared
// variable symbol, mirroring typecheck.elaborateVarDecl's defaulting
// (spec.md §4.5.3).
func (g *Generator) genVarDecl(scope *symtab.Scope, n *ast.VarDeclStmt) CGStmtResult {
	var declared *types.Type
	if n.Type != nil {
		t, ok := g.resolveTypeExpr(n.Type)
		if !ok {
			return CGStmtResult{}
		}
		declared = t
	}

	sym := symtab.NewVariable(g.Cxt, n.Name, declared)
	if n.Init != nil {
		rhs := g.GenExpr(scope, n.Init, declared)
		if rhs.Err != nil {
			return CGStmtResult{Err: rhs.Err}
		}
		switch {
		case declared == nil:
			sym = rhs.Value
			sym.Name = n.Name
		case declared.Dim > 0:
			g.copyShape(sym, rhs.Value)
			g.emit(ir.COPY, sym, rhs.Value)
		default:
			g.emit(ir.ASSIGN, sym, rhs.Value)
		}
	} else if declared != nil {
		g.genDefaultInit(sym)
	}
	scope.Declare(sym)
	g.pushDecl(sym)
	return CGStmtResult{}
}

// genAssign lowers assignment to an Ident, Index or Select lvalue (spec.md
// §4.5.1, §4.5.4).
func (g *Generator) genAssign(scope *symtab.Scope, n *ast.AssignStmt) CGStmtResult {
	switch target := n.Target.(type) {
	case *ast.Ident:
		sym, err := scope.LookupOne(target.Name, symtab.CatVariable, n.Loc())
		if err != nil {
			return CGStmtResult{Err: err}
		}
		rhs := g.GenExpr(scope, n.Value, sym.Type)
		if rhs.Err != nil {
			return CGStmtResult{Err: rhs.Err}
		}
		if sym.Type != nil && sym.Type.Dim > 0 {
			g.genArrayAssign(sym, rhs.Value, n.Loc())
		} else {
			g.emit(ir.ASSIGN, sym, rhs.Value)
		}
		return CGStmtResult{}
	case *ast.Index:
		base := g.GenExpr(scope, target.Array, nil)
		if base.Err != nil {
			return CGStmtResult{Err: base.Err}
		}
		off := g.genIndexOffset(scope, base.Value, target)
		if off.Err != nil {
			return CGStmtResult{Err: off.Err}
		}
		var elemType *types.Type
		if base.Value.Type != nil {
			elemType = g.elementType(base.Value.Type)
		}
		val := g.GenExpr(scope, n.Value, elemType)
		if val.Err != nil {
			return CGStmtResult{Err: val.Err}
		}
		g.emit(ir.STORE, base.Value, base.Value, off.Value, val.Value)
		return CGStmtResult{}
	case *ast.Select:
		base := g.GenExpr(scope, target.Struct, nil)
		if base.Err != nil {
			return CGStmtResult{Err: base.Err}
		}
		field := g.fieldSym(base.Value, target.Field)
		if field == nil {
			return CGStmtResult{Err: diag.New(diag.KindName, n.Loc(), "struct %s has no field %q", base.Value.Type, target.Field)}
		}
		val := g.GenExpr(scope, n.Value, field.Type)
		if val.Err != nil {
			return CGStmtResult{Err: val.Err}
		}
		if field.Type != nil && field.Type.Dim > 0 {
			g.genArrayAssign(field, val.Value, n.Loc())
		} else {
			g.emit(ir.ASSIGN, field, val.Value)
		}
		return CGStmtResult{}
	default:
		return CGStmtResult{}
	}
}

// ensureEntry guarantees b has at least one instruction, so a jump may
// legally target b.First() (spec.md §4.6 "jump targets address the first
// instruction of a block").
func ensureEntry(b *ir.Block) *ir.Imop {
	if first := b.First(); first != nil {
		return first
	}
	marker := ir.NewImop(ir.COMMENT, nil)
	b.Append(marker)
	return marker
}

// genIf lowers a conditional into the conventional test/then/else/join
// CFG pattern (spec.md §4.5.6).
func (g *Generator) genIf(scope *symtab.Scope, n *ast.IfStmt) CGStmtResult {
	boolT := g.Cxt.PublicBoolType()
	cond := g.GenExpr(scope, n.Cond, boolT)
	if cond.Err != nil {
		return CGStmtResult{Err: cond.Err}
	}

	thenBlock := g.proc.NewBlock()
	joinBlock := g.proc.NewBlock()
	elseBlock := joinBlock
	if n.Else != nil {
		elseBlock = g.proc.NewBlock()
	}

	jt := g.emit(ir.JT, nil, cond.Value)
	ir.AddEdge(g.cur, thenBlock, ir.EdgeNormal)
	ir.AddEdge(g.cur, elseBlock, ir.EdgeNormal)

	g.cur = thenBlock
	out := g.GenStmt(scope, n.Then)
	jt.Target = ensureEntry(thenBlock)
	jump := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, joinBlock, ir.EdgeNormal)

	if n.Else != nil {
		g.cur = elseBlock
		elseOut := g.GenStmt(scope, n.Else)
		out.Breaks = append(out.Breaks, elseOut.Breaks...)
		out.Continues = append(out.Continues, elseOut.Continues...)
		out.Returns = append(out.Returns, elseOut.Returns...)
		jump2 := g.emit(ir.JUMP, nil)
		ir.AddEdge(g.cur, joinBlock, ir.EdgeNormal)
		jump2.Target = ensureEntry(joinBlock)
	}
	jump.Target = ensureEntry(joinBlock)

	g.cur = joinBlock
	return out
}

// genWhile lowers a pre-tested loop into test/body CFG blocks, tracking
// the loop context so nested break/continue statements can target them
// (spec.md §4.5.6).
func (g *Generator) genWhile(scope *symtab.Scope, n *ast.WhileStmt) CGStmtResult {
	testBlock := g.proc.NewBlock()
	bodyBlock := g.proc.NewBlock()
	exitBlock := g.proc.NewBlock()

	entryJump := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, testBlock, ir.EdgeNormal)

	g.cur = testBlock
	boolT := g.Cxt.PublicBoolType()
	cond := g.GenExpr(scope, n.Cond, boolT)
	entryJump.Target = ensureEntry(testBlock)
	if cond.Err != nil {
		return CGStmtResult{Err: cond.Err}
	}
	jt := g.emit(ir.JT, nil, cond.Value)
	ir.AddEdge(g.cur, bodyBlock, ir.EdgeNormal)
	ir.AddEdge(g.cur, exitBlock, ir.EdgeNormal)

	g.loops = append(g.loops, &loopContext{breakTarget: exitBlock, continueTarget: testBlock, scopesAtEntry: len(g.scopeStack)})
	g.cur = bodyBlock
	out := g.GenStmt(scope, n.Body)
	jt.Target = ensureEntry(bodyBlock)
	backJump := g.emit(ir.JUMP, nil)
	backJump.Target = ensureEntry(testBlock)
	ir.AddEdge(g.cur, testBlock, ir.EdgeNormal)
	g.loops = g.loops[:len(g.loops)-1]

	g.cur = exitBlock
	ensureEntry(exitBlock)
	out.Breaks, out.Continues = nil, nil
	return out
}

// genDoWhile lowers a post-tested loop: the body runs once unconditionally
// before the test decides whether to repeat.
func (g *Generator) genDoWhile(scope *symtab.Scope, n *ast.DoWhileStmt) CGStmtResult {
	bodyBlock := g.proc.NewBlock()
	testBlock := g.proc.NewBlock()
	exitBlock := g.proc.NewBlock()

	entryJump := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, bodyBlock, ir.EdgeNormal)

	g.loops = append(g.loops, &loopContext{breakTarget: exitBlock, continueTarget: testBlock, scopesAtEntry: len(g.scopeStack)})
	g.cur = bodyBlock
	out := g.GenStmt(scope, n.Body)
	entryJump.Target = ensureEntry(bodyBlock)
	toTest := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, testBlock, ir.EdgeNormal)
	toTest.Target = ensureEntry(testBlock)
	g.loops = g.loops[:len(g.loops)-1]

	g.cur = testBlock
	boolT := g.Cxt.PublicBoolType()
	cond := g.GenExpr(scope, n.Cond, boolT)
	if cond.Err != nil {
		return CGStmtResult{Err: cond.Err}
	}
	jt := g.emit(ir.JT, nil, cond.Value)
	jt.Target = ensureEntry(bodyBlock)
	ir.AddEdge(g.cur, bodyBlock, ir.EdgeNormal)
	ir.AddEdge(g.cur, exitBlock, ir.EdgeNormal)

	g.cur = exitBlock
	ensureEntry(exitBlock)
	out.Breaks, out.Continues = nil, nil
	return out
}

func (g *Generator) genFor(scope *symtab.Scope, n *ast.ForStmt) CGStmtResult {
	inner := symtab.NewScope(scope)
	g.pushScope()
	if n.Init != nil {
		if r := g.GenStmt(inner, n.Init); r.Err != nil {
			g.releaseScope()
			return r
		}
	}

	testBlock := g.proc.NewBlock()
	bodyBlock := g.proc.NewBlock()
	exitBlock := g.proc.NewBlock()

	entryJump := g.emit(ir.JUMP, nil)
	ir.AddEdge(g.cur, testBlock, ir.EdgeNormal)

	g.cur = testBlock
	var bodyJump *ir.Imop
	if n.Cond != nil {
		boolT := g.Cxt.PublicBoolType()
		cond := g.GenExpr(inner, n.Cond, boolT)
		if cond.Err != nil {
			g.releaseScope()
			return CGStmtResult{Err: cond.Err}
		}
		bodyJump = g.emit(ir.JT, nil, cond.Value)
		ir.AddEdge(g.cur, bodyBlock, ir.EdgeNormal)
		ir.AddEdge(g.cur, exitBlock, ir.EdgeNormal)
	} else {
		bodyJump = g.emit(ir.JUMP, nil)
		ir.AddEdge(g.cur, bodyBlock, ir.EdgeNormal)
	}
	entryJump.Target = ensureEntry(testBlock)

	g.loops = append(g.loops, &loopContext{breakTarget: exitBlock, continueTarget: testBlock, scopesAtEntry: len(g.scopeStack)})
	g.cur = bodyBlock
	out := g.GenStmt(inner, n.Body)
	if n.Post != nil {
		if r := g.GenStmt(inner, n.Post); r.Err != nil {
			out.Err = r.Err
		}
	}
	bodyJump.Target = ensureEntry(bodyBlock)
	backJump := g.emit(ir.JUMP, nil)
	backJump.Target = ensureEntry(testBlock)
	ir.AddEdge(g.cur, testBlock, ir.EdgeNormal)
	g.loops = g.loops[:len(g.loops)-1]

	g.cur = exitBlock
	ensureEntry(exitBlock)
	g.releaseScope()
	out.Breaks, out.Continues = nil, nil
	return out
}

// genBreak emits the cumulative release for every scope between the
// current point and the loop boundary, then jumps to the loop's exit
// block (spec.md §4.5.6, §4.5.8).
func (g *Generator) genBreak(n *ast.BreakStmt) CGStmtResult {
	if len(g.loops) == 0 {
		return CGStmtResult{}
	}
	lc := g.loops[len(g.loops)-1]
	g.releaseScopesAbove(lc.scopesAtEntry)
	jump := g.emit(ir.JUMP, nil)
	jump.Target = ensureEntry(lc.breakTarget)
	ir.AddEdge(g.cur, lc.breakTarget, ir.EdgeNormal)
	return CGStmtResult{Breaks: []*ir.Block{lc.breakTarget}}
}

func (g *Generator) genContinue(n *ast.ContinueStmt) CGStmtResult {
	if len(g.loops) == 0 {
		return CGStmtResult{}
	}
	lc := g.loops[len(g.loops)-1]
	g.releaseScopesAbove(lc.scopesAtEntry)
	jump := g.emit(ir.JUMP, nil)
	jump.Target = ensureEntry(lc.continueTarget)
	ir.AddEdge(g.cur, lc.continueTarget, ir.EdgeNormal)
	return CGStmtResult{Continues: []*ir.Block{lc.continueTarget}}
}

// genReturn releases every non-escaping local before jumping to the
// procedure's epilogue (spec.md §4.5.7).
func (g *Generator) genReturn(scope *symtab.Scope, n *ast.ReturnStmt) CGStmtResult {
	if n.Value != nil {
		r := g.GenExpr(scope, n.Value, nil)
		if r.Err != nil {
			return CGStmtResult{Err: r.Err}
		}
		g.emit(ir.PUSH, nil, r.Value)
	}
	g.releaseScopesAbove(0)
	if g.proc.Exit != nil {
		ret := g.emit(ir.RETURN, nil)
		ret.Target = ensureEntry(g.proc.Exit)
		ir.AddEdge(g.cur, g.proc.Exit, ir.EdgeReturn)
	}
	return CGStmtResult{Returns: []*ir.Block{g.proc.Exit}}
}
