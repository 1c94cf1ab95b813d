package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// hasRecord reports whether one line of out holds both the level tag and msg.
func hasRecord(out, tag, msg string) bool {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, tag) && strings.Contains(line, msg) {
			return true
		}
	}
	return false
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kernel.log")

	l, err := New(path, LevelDebug)
	require.NoError(t, err)
	l.Debug("booting %s", "kernel")
	l.Info("shell %d opened", 1)
	l.Warn("addon skipped")
	l.Error("handler failed: %v", os.ErrClosed)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.True(t, hasRecord(out, "DEBU", "booting kernel"))
	require.True(t, hasRecord(out, "INFO", "shell 1 opened"))
	require.True(t, hasRecord(out, "WARN", "addon skipped"))
	require.True(t, hasRecord(out, "ERRO", "handler failed: file already closed"))
	require.Contains(t, out, "nitrocid")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNew_AppendsAndTightens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier run\n"), 0o644))

	l, err := New(path, LevelInfo)
	require.NoError(t, err)
	l.Info("later run")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "earlier run\n"))
	require.Contains(t, string(data), "later run")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, LevelWarn)

	l.Debug("quiet debug")
	l.Info("quiet info")
	l.Warn("loud warn")
	require.NotContains(t, buf.String(), "quiet")
	require.Contains(t, buf.String(), "loud warn")

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	require.Contains(t, buf.String(), "now visible")
}

func TestLogger_DropsAfterClose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, LevelDebug)

	require.NoError(t, l.Close())
	l.Error("late")
	require.Empty(t, buf.String())
	require.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warn":    LevelWarn,
		"Warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelWarn,
		"verbose": LevelWarn,
		"":        LevelWarn,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestDefault(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	var nilLogger *Logger
	require.NotPanics(t, func() {
		nilLogger.Info("nothing")
		nilLogger.SetLevel(LevelDebug)
		require.NoError(t, nilLogger.Close())
	})

	SetDefault(nil)
	require.NotPanics(t, func() { Warn("no default installed") })

	var buf bytes.Buffer
	SetDefault(NewWriter(&buf, LevelInfo))
	require.NotNil(t, Default())
	Debug("filtered")
	Info("routed %s", "here")
	Error("and %s", "there")
	require.NotContains(t, buf.String(), "filtered")
	require.True(t, hasRecord(buf.String(), "INFO", "routed here"))
	require.True(t, hasRecord(buf.String(), "ERRO", "and there"))
}
