package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andaur/scc/pkg/ast"
)

func TestStubReturnsUnimplemented(t *testing.T) {
	var f Frontend = Stub{}
	mod, diags, err := f.ParseModule("x.sc", []byte("module x;"))
	require.Nil(t, mod)
	require.Error(t, err)
	require.Len(t, diags, 1)
}

func TestFromBuilderReturnsFixedModule(t *testing.T) {
	b := ast.NewBuilder()
	want := b.Module("m", nil)

	var f Frontend = FromBuilder{Module: want}
	mod, diags, err := f.ParseModule("ignored.sc", nil)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Same(t, want, mod)
}
