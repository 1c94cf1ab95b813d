// Package ui is the kernel console: buffered-free printing plus a pager for
// long command output.
package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
	"mvdan.cc/sh/v3/shell"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
)

// DefaultPager is used when neither the pager setting nor $PAGER is set.
const DefaultPager = "less -FRSX"

// Writer is the console domain.OutputWriter.
type Writer struct {
	out      io.Writer
	quiet    bool
	setting  func(string) (string, bool)
	getenv   func(string) string
	terminal func(io.Writer) bool
}

var _ domain.OutputWriter = (*Writer)(nil)

// WriterOption customizes a Writer.
type WriterOption func(*Writer)

// WithConfigGetter reads the pager setting through get.
func WithConfigGetter(get func(string) (string, bool)) WriterOption {
	return func(w *Writer) { w.setting = get }
}

// WithEnv replaces os.Getenv for $PAGER lookup and pager expansion.
func WithEnv(getenv func(string) string) WriterOption {
	return func(w *Writer) { w.getenv = getenv }
}

// WithQuiet drops Printf and Println output. Write is unaffected.
func WithQuiet(quiet bool) WriterOption {
	return func(w *Writer) { w.quiet = quiet }
}

// NewWriterTo returns a console writer on out.
func NewWriterTo(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{out: out, getenv: os.Getenv, terminal: isTerminal}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (w *Writer) Write(p []byte) (int, error) { return w.out.Write(p) }

func (w *Writer) Printf(format string, args ...any) (int, error) {
	if w.quiet {
		return 0, nil
	}
	return fmt.Fprintf(w.out, format, args...)
}

func (w *Writer) Println(args ...any) (int, error) {
	if w.quiet {
		return 0, nil
	}
	return fmt.Fprintln(w.out, args...)
}

// PagerArgv returns the pager command split into words, with quotes and
// $VARS handled like a POSIX shell would. The pager setting wins over
// $PAGER. "cat" or "none" turns paging off and yields nil.
func (w *Writer) PagerArgv() ([]string, error) {
	cmd := DefaultPager
	if v, _ := w.lookupSetting("pager"); v != "" {
		cmd = v
	} else if v := w.getenv("PAGER"); v != "" {
		cmd = v
	}

	switch strings.TrimSpace(cmd) {
	case "cat", "none":
		return nil, nil
	}
	argv, err := shell.Fields(cmd, w.getenv)
	if err != nil {
		return nil, fmt.Errorf("pager %q: %w", cmd, err)
	}
	return argv, nil
}

func (w *Writer) lookupSetting(key string) (string, bool) {
	if w.setting == nil {
		return "", false
	}
	return w.setting(key)
}

// Pager shows content through the pager when the console is a terminal and
// prints it directly otherwise or when the pager cannot run.
func (w *Writer) Pager(content string) {
	if !w.terminal(w.out) {
		_, _ = io.WriteString(w.out, content)
		return
	}

	argv, err := w.PagerArgv()
	if err != nil {
		log.Warn("ui: %v", err)
	}
	if len(argv) == 0 {
		_, _ = io.WriteString(w.out, content)
		return
	}

	pager := exec.Command(argv[0], argv[1:]...)
	pager.Stdin = strings.NewReader(content)
	pager.Stdout = w.out
	pager.Stderr = os.Stderr
	if err := pager.Run(); err != nil {
		log.Warn("ui: pager %s: %v", argv[0], err)
		_, _ = io.WriteString(w.out, content)
	}
}
