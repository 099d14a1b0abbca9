// Package frontend declares the lexer/parser boundary cmd/sccc depends
// on (spec.md §1 keeps lexing/parsing an explicit external collaborator
// of this core). No real parser ships here; Stub satisfies the interface
// for a source file cmd/sccc cannot yet parse, and FromBuilder lets
// callers (tests, the --eval-less smoke path) supply an *ast.Module built
// directly with pkg/ast's builder API instead.
package frontend

import (
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/pkg/ast"
)

// Frontend turns source bytes into an elaborated-ready *ast.Module, plus
// any diagnostics the parser itself raised (spec.md §7 "parse-upstream
// error... returned verbatim from the parser").
type Frontend interface {
	ParseModule(path string, src []byte) (*ast.Module, []diag.Diagnostic, error)
}

// Stub is a Frontend that rejects every input with a Feature-not-implemented
// diagnostic. It exists so cmd/sccc has a concrete, always-present Frontend
// to wire even before a real lexer/parser is available.
type Stub struct{}

func (Stub) ParseModule(path string, src []byte) (*ast.Module, []diag.Diagnostic, error) {
	err := diag.ErrUnimplemented("parser")
	return nil, []diag.Diagnostic{err.ToDiagnostic()}, err
}

// FromBuilder adapts a pre-built *ast.Module (constructed with
// pkg/ast.Builder, e.g. by a test or by an embedding tool that builds
// trees programmatically) into a Frontend that ignores its path/src
// arguments and returns the fixed module.
type FromBuilder struct {
	Module *ast.Module
}

func (f FromBuilder) ParseModule(path string, src []byte) (*ast.Module, []diag.Diagnostic, error) {
	return f.Module, nil, nil
}
