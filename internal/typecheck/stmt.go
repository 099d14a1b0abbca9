package typecheck

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
	"github.com/andaur/scc/pkg/types"
)

// ElaborateStmt type-checks one statement against scope, declaring any
// names it introduces. Per spec.md §7's propagation policy, a failure at
// one statement is recorded and returned, but the caller (ElaborateBlock)
// continues with sibling statements so a single run surfaces as many
// independent errors as possible.
func (c *Checker) ElaborateStmt(scope *symtab.Scope, s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.BlockStmt:
		return c.ElaborateBlock(symtab.NewScope(scope), n)
	case *ast.VarDeclStmt:
		return c.elaborateVarDecl(scope, n)
	case *ast.AssignStmt:
		return c.elaborateAssign(scope, n)
	case *ast.IfStmt:
		return c.elaborateIf(scope, n)
	case *ast.WhileStmt:
		return c.elaborateWhile(scope, n)
	case *ast.DoWhileStmt:
		return c.elaborateDoWhile(scope, n)
	case *ast.ForStmt:
		return c.elaborateFor(scope, n)
	case *ast.BreakStmt, *ast.ContinueStmt:
		return nil
	case *ast.ReturnStmt:
		return c.elaborateReturn(scope, n)
	case *ast.ExprStmt:
		_, err := c.Elaborate(scope, n.X)
		return err
	default:
		_, err := c.fail(s.Loc(), "unsupported statement kind %v", s.Kind())
		return err
	}
}

// ElaborateBlock type-checks every statement in b against scope in order,
// collecting (not short-circuiting on) the first error so independent
// siblings still get checked; it returns the first error encountered, if
// any.
func (c *Checker) ElaborateBlock(scope *symtab.Scope, b *ast.BlockStmt) error {
	var firstErr error
	for _, stmt := range b.Stmts {
		if err := c.ElaborateStmt(scope, stmt); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Checker) elaborateVarDecl(scope *symtab.Scope, n *ast.VarDeclStmt) error {
	var declared *types.Type
	if n.Type != nil {
		var err error
		declared, err = c.resolveTypeExpr(n.Type)
		if err != nil {
			return err
		}
	}

	if n.Init != nil {
		initType, err := c.Elaborate(scope, n.Init)
		if err != nil {
			return err
		}
		initType = c.InstantiateDataType(initType, declared)
		if declared == nil {
			declared = initType
		} else if !initType.LatticeLEQ(declared) && initType != declared {
			_, err := c.fail(n.Loc(), "cannot initialize %s with %s", declared, initType)
			return err
		}
	}
	if declared == nil {
		_, err := c.fail(n.Loc(), "variable %q has no declared type and no initializer to infer one from", n.Name)
		return err
	}

	scope.Declare(symtab.NewVariable(c.Cxt, n.Name, declared))
	return nil
}

// ResolveTypeExpr resolves a declared type expression (a procedure
// parameter or return type, a variable declaration's type) to a concrete
// *types.Type. Exported for callers that build a symbol table entry
// ahead of elaborating any statement that references it, such as a
// compiler driver declaring every procedure's signature before
// elaborating any body so forward and recursive calls resolve.
func (c *Checker) ResolveTypeExpr(t *ast.TypeExpr) (*types.Type, error) {
	return c.resolveTypeExpr(t)
}

func (c *Checker) resolveTypeExpr(t *ast.TypeExpr) (*types.Type, error) {
	sec := c.Cxt.PublicSecType()
	if t.Sec != nil && !t.Sec.IsVar() {
		dom, ok := c.Cxt.LookupPrivateSecType(t.Sec.Domain)
		if !ok {
			return c.fail(t.Loc(), "undeclared domain %q", t.Sec.Domain)
		}
		sec = dom
	}
	data, err := c.resolveDataExpr(t.Data)
	if err != nil {
		return c.fail(t.Loc(), "%s", err)
	}
	dim := types.DimType(0)
	if t.Dim != nil && !t.Dim.IsVar() {
		dim = types.DimType(t.Dim.Value)
	}
	return c.Cxt.BasicType(sec, data, dim), nil
}

// resolveDataExpr resolves a DataExpr in declared-type position (never a
// quantifier variable, which only occurs inside a template) to its
// DataType: a builtin by name, or — via the driver-wired StructType hook —
// a user-declared struct, possibly generic.
func (c *Checker) resolveDataExpr(d *ast.DataExpr) (*types.DataType, error) {
	if d.Builtin != "" {
		bk, ok := builtinKindByName(d.Builtin)
		if !ok {
			return nil, diag.New(diag.KindType, d.Loc(), "unknown type %q", d.Builtin)
		}
		return c.Cxt.BuiltinType(bk), nil
	}
	if c.StructType != nil {
		return c.StructType(d.Name, d.Args)
	}
	return nil, diag.New(diag.KindType, d.Loc(), "unknown type %q", d.Name)
}

func (c *Checker) elaborateAssign(scope *symtab.Scope, n *ast.AssignStmt) error {
	targetType, err := c.Elaborate(scope, n.Target)
	if err != nil {
		return err
	}
	valueType, err := c.Elaborate(scope, n.Value)
	if err != nil {
		return err
	}
	valueType = c.InstantiateDataType(valueType, targetType)
	if !valueType.LatticeLEQ(targetType) && valueType != targetType {
		_, err := c.fail(n.Loc(), "cannot assign %s to %s", valueType, targetType)
		return err
	}
	return nil
}

func (c *Checker) elaborateIf(scope *symtab.Scope, n *ast.IfStmt) error {
	if _, err := c.elaborateCondition(scope, n.Cond); err != nil {
		return err
	}
	if err := c.ElaborateStmt(scope, n.Then); err != nil {
		return err
	}
	if n.Else != nil {
		return c.ElaborateStmt(scope, n.Else)
	}
	return nil
}

func (c *Checker) elaborateWhile(scope *symtab.Scope, n *ast.WhileStmt) error {
	if _, err := c.elaborateCondition(scope, n.Cond); err != nil {
		return err
	}
	return c.ElaborateStmt(scope, n.Body)
}

func (c *Checker) elaborateDoWhile(scope *symtab.Scope, n *ast.DoWhileStmt) error {
	if err := c.ElaborateStmt(scope, n.Body); err != nil {
		return err
	}
	_, err := c.elaborateCondition(scope, n.Cond)
	return err
}

func (c *Checker) elaborateFor(scope *symtab.Scope, n *ast.ForStmt) error {
	inner := symtab.NewScope(scope)
	if n.Init != nil {
		if err := c.ElaborateStmt(inner, n.Init); err != nil {
			return err
		}
	}
	if n.Cond != nil {
		if _, err := c.elaborateCondition(inner, n.Cond); err != nil {
			return err
		}
	}
	if n.Post != nil {
		if err := c.ElaborateStmt(inner, n.Post); err != nil {
			return err
		}
	}
	return c.ElaborateStmt(inner, n.Body)
}

func (c *Checker) elaborateCondition(scope *symtab.Scope, cond ast.Expr) (*types.Type, error) {
	t, err := c.Elaborate(scope, cond)
	if err != nil {
		return nil, err
	}
	if t.Data.Tag != types.TagBuiltin || t.Data.Builtin != types.Bool {
		return c.fail(cond.Loc(), "condition must be bool, got %s", t.Data)
	}
	return t, nil
}

func (c *Checker) elaborateReturn(scope *symtab.Scope, n *ast.ReturnStmt) error {
	if n.Value == nil {
		return nil
	}
	_, err := c.Elaborate(scope, n.Value)
	return err
}
