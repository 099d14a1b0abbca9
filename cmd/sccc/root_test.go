package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRunReportsUnimplementedParser exercises the CLI's actual wiring end
// to end: since no real lexer/parser ships with this module (spec.md §1
// keeps it an external collaborator), any real source file on disk must
// be reported as not implemented rather than silently accepted.
func TestRunReportsUnimplementedParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.sc")
	require.NoError(t, os.WriteFile(path, []byte("module m;"), 0o644))

	rootCmd.SetArgs([]string{path})
	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "parser")
}
