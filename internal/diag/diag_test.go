package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormattingIncludesLocationAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindShape, Location{File: "m.sc", Line: 3, Col: 1, EndLine: 3, EndCol: 1}, cause, "bad shape")
	require.Equal(t, "m.sc:3:1: shape mismatch: bad shape: boom", err.Error())
	require.Same(t, cause, err.Unwrap())
}

func TestErrorFormattingOmitsLocationWhenUnset(t *testing.T) {
	err := New(KindName, Location{}, "undeclared %q", "x")
	require.Equal(t, `name resolution error: undeclared "x"`, err.Error())
}

func TestMemoryLogHasErrorsIgnoresWarnings(t *testing.T) {
	log := NewMemoryLog()
	log.Append(Diagnostic{Severity: SevWarning, Message: "heads up"})
	require.False(t, log.HasErrors())

	log.Append(Diagnostic{Severity: SevError, Message: "broken"})
	require.True(t, log.HasErrors())
	require.Len(t, log.All(), 2)
}

func TestErrUnimplementedCarriesKindAndFeature(t *testing.T) {
	err := ErrUnimplemented("debug interpreter")
	require.Equal(t, KindUnimplemented, err.Kind)
	require.Contains(t, err.Error(), "debug interpreter")
}
