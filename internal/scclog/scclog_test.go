package scclog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: false, Writer: &buf})
	Info("should not appear")
	require.Empty(t, buf.String())
}

func TestInitEnabledWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug})
	Debug("phase started", "name", "elaborate")
	out := buf.String()
	require.Contains(t, out, "phase started")
	require.Contains(t, out, "elaborate")
	require.True(t, strings.Contains(out, "level=DEBUG"))
}
