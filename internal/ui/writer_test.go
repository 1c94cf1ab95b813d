package ui

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter_PrintAndQuiet(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)
	_, _ = w.Printf("a=%d\n", 1)
	_, _ = w.Println("b")
	require.Equal(t, "a=1\nb\n", buf.String())

	buf.Reset()
	q := NewWriterTo(&buf, WithQuiet(true))
	_, _ = q.Printf("hidden")
	_, _ = q.Println("hidden")
	_, _ = q.Write([]byte("raw"))
	require.Equal(t, "raw", buf.String())
}

func TestWriter_PagerArgv(t *testing.T) {
	env := func(vars map[string]string) WriterOption {
		return WithEnv(func(k string) string { return vars[k] })
	}
	setting := func(v string) WriterOption {
		return WithConfigGetter(func(string) (string, bool) { return v, v != "" })
	}

	tests := []struct {
		name string
		opts []WriterOption
		want []string
	}{
		{"default", []WriterOption{env(nil)}, []string{"less", "-FRSX"}},
		{"setting beats env", []WriterOption{setting("most -s"), env(map[string]string{"PAGER": "pg"})}, []string{"most", "-s"}},
		{"env", []WriterOption{env(map[string]string{"PAGER": "pg"})}, []string{"pg"}},
		{"quoted", []WriterOption{setting(`less --prompt="page %d"`), env(nil)}, []string{"less", "--prompt=page %d"}},
		{"expands vars", []WriterOption{setting("$HOME/bin/pg -n"), env(map[string]string{"HOME": "/u"})}, []string{"/u/bin/pg", "-n"}},
		{"cat disables", []WriterOption{setting("cat")}, nil},
		{"none disables", []WriterOption{env(map[string]string{"PAGER": "none"})}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := NewWriterTo(io.Discard, tt.opts...).PagerArgv()
			require.NoError(t, err)
			require.Equal(t, tt.want, argv)
		})
	}
}

func TestWriter_PagerArgvBadQuoting(t *testing.T) {
	w := NewWriterTo(io.Discard, WithConfigGetter(func(string) (string, bool) { return `less "open`, true }))
	_, err := w.PagerArgv()
	require.Error(t, err)
}

func TestWriter_Pager(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)
	w.Pager("long output\n")
	require.Equal(t, "long output\n", buf.String(), "not a terminal")

	buf.Reset()
	w.terminal = func(io.Writer) bool { return true }
	w.setting = func(string) (string, bool) { return "cat", true }
	w.Pager("direct\n")
	require.Equal(t, "direct\n", buf.String())
}
