package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadParsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	contents := "include_paths:\n  - ./stdlib\n  - ./vendor\nno_stdlib: true\ndefault_optimize:\n  - cf\n  - dom\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"./stdlib", "./vendor"}, cfg.IncludePaths)
	require.True(t, cfg.NoStdlib)
	require.Equal(t, []string{"cf", "dom"}, cfg.DefaultOptimize)
}

func TestMergeAppendsCLIIncludesFirstAndOrsNoStdlib(t *testing.T) {
	cfg := &Config{IncludePaths: []string{"./project-include"}, NoStdlib: false}
	merged := cfg.Merge([]string{"./cli-include"}, true)
	require.Equal(t, []string{"./cli-include", "./project-include"}, merged.IncludePaths)
	require.True(t, merged.NoStdlib)
}
