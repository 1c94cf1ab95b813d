// Package shell implements the stack of nested shell contexts and the
// read-eval loop that serves the top of it.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// MainMode is the mode of the bottom shell.
const MainMode = "Shell"

// Type describes a shell mode.
type Type struct {
	Mode    string
	Summary string
	// Sub marks modes that can only be pushed from another shell.
	Sub bool
	// Preset is the prompt preset of new contexts. Empty uses the stack default.
	Preset string
	// Init prepares the context, e.g. by opening a connection. An error
	// prevents the context from being served.
	Init func(ctx context.Context, sc *Context) error
	// Teardown releases what Init acquired.
	Teardown func(sc *Context) error
	// Commands are registered as built-ins of the mode.
	Commands []*dispatchers.CommandDescriptor
}

// Stack owns the shell contexts and serves the one on top.
type Stack struct {
	executor *dispatchers.Executor
	presets  *Presets
	styler   domain.Styler

	in          *bufio.Reader
	ttyIn       io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool

	history      domain.HistoryStore
	historyLimit int

	defaultPreset func() string
	promptInfo    func(mode string, depth int) PromptInfo

	typesMu sync.RWMutex
	types   map[string]Type

	mu       sync.Mutex
	contexts []*Context
	cancel   context.CancelFunc

	// promptLock serializes console writes between the loop and background
	// notifiers.
	promptLock sync.Mutex
	waiting    *Context
}

// Option configures a Stack.
type Option func(*Stack)

// WithIO sets input and output streams. interactive selects rich output.
func WithIO(in io.Reader, out, errOut io.Writer, interactive bool) Option {
	return func(s *Stack) {
		s.in = bufio.NewReader(in)
		s.out = out
		s.errOut = errOut
		s.interactive = interactive
	}
}

// WithTerminalInput sets the raw input used by full-screen views.
func WithTerminalInput(r io.Reader) Option {
	return func(s *Stack) {
		s.ttyIn = r
	}
}

// WithHistory records interactive lines in store, keeping at most limit entries.
func WithHistory(store domain.HistoryStore, limit int) Option {
	return func(s *Stack) {
		s.history = store
		s.historyLimit = limit
	}
}

// WithPresets sets the prompt presets.
func WithPresets(p *Presets) Option {
	return func(s *Stack) {
		s.presets = p
	}
}

// WithDefaultPreset sets how the preset of the main shell is chosen.
func WithDefaultPreset(fn func() string) Option {
	return func(s *Stack) {
		s.defaultPreset = fn
	}
}

// WithPromptInfo overrides how user, host and directory are gathered.
func WithPromptInfo(fn func(mode string, depth int) PromptInfo) Option {
	return func(s *Stack) {
		s.promptInfo = fn
	}
}

// WithStyler sets the styler used for help and errors.
func WithStyler(st domain.Styler) Option {
	return func(s *Stack) {
		s.styler = st
	}
}

// NewStack creates an empty stack dispatching through executor.
func NewStack(executor *dispatchers.Executor, opts ...Option) *Stack {
	s := &Stack{
		executor:      executor,
		presets:       NewPresets(),
		styler:        style.NopStyler{},
		in:            bufio.NewReader(os.Stdin),
		ttyIn:         os.Stdin,
		out:           os.Stdout,
		errOut:        os.Stderr,
		defaultPreset: func() string { return DefaultPreset },
		promptInfo:    CurrentPromptInfo,
		types:         make(map[string]Type),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Executor returns the executor of the stack.
func (s *Stack) Executor() *dispatchers.Executor { return s.executor }

// Presets returns the prompt presets.
func (s *Stack) Presets() *Presets { return s.presets }

// Streams returns the console streams.
func (s *Stack) Streams() dispatchers.Streams {
	return dispatchers.Streams{Stdout: s.out, Stderr: s.errOut, Interactive: s.interactive}
}

// RegisterType adds a shell mode and registers its commands plus the common
// exit and help commands as built-ins of the mode.
func (s *Stack) RegisterType(t Type) error {
	if t.Mode == "" {
		return errors.New("shell: empty mode")
	}

	s.typesMu.Lock()
	if _, exists := s.types[t.Mode]; exists {
		s.typesMu.Unlock()
		return fmt.Errorf("shell: mode %s already registered", t.Mode)
	}
	s.types[t.Mode] = t
	s.typesMu.Unlock()

	reg := s.executor.Registry()
	for _, d := range append(s.commonCommands(), t.Commands...) {
		if err := reg.RegisterBuiltin(t.Mode, d); err != nil {
			return err
		}
	}

	log.Debug("shell: registered mode %s with %d commands", t.Mode, len(t.Commands))
	return nil
}

// LookupType returns the shell type of mode.
func (s *Stack) LookupType(mode string) (Type, error) {
	s.typesMu.RLock()
	defer s.typesMu.RUnlock()
	t, ok := s.types[mode]
	if !ok {
		return Type{}, usage.UnknownShell(mode)
	}
	return t, nil
}

// Types returns the registered shell types sorted by mode, main modes first.
func (s *Stack) Types() []Type {
	s.typesMu.RLock()
	defer s.typesMu.RUnlock()
	out := make([]Type, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sub != out[j].Sub {
			return !out[i].Sub
		}
		return out[i].Mode < out[j].Mode
	})
	return out
}

// Current returns the context on top of the stack, or nil.
func (s *Stack) Current() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contexts) == 0 {
		return nil
	}
	return s.contexts[len(s.contexts)-1]
}

// Depth returns the number of open contexts.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contexts)
}

// Push opens a context of mode, serves it until it closes, and pops it.
// Only the main mode may be pushed onto an empty stack.
func (s *Stack) Push(ctx context.Context, mode string, args []string) error {
	sc, err := s.Open(ctx, mode, args)
	if err != nil {
		return err
	}
	defer s.Close(sc)
	return s.Serve(ctx, sc)
}

func (s *Stack) pushFrom(ctx context.Context, parent *Context, mode string, args []string) error {
	if top := s.Current(); top != parent {
		return fmt.Errorf("shell: %s is not the active shell", parent.Mode())
	}
	return s.Push(ctx, mode, args)
}

// Open creates a context of mode on top of the stack and runs its Init.
func (s *Stack) Open(ctx context.Context, mode string, args []string) (*Context, error) {
	t, err := s.LookupType(mode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if len(s.contexts) == 0 && t.Sub {
		s.mu.Unlock()
		return nil, fmt.Errorf("shell: %s can only be opened from another shell", mode)
	}
	preset := t.Preset
	if preset == "" {
		preset = s.defaultPreset()
	}
	sc := newContext(s, mode, len(s.contexts)+1, args, preset)
	s.contexts = append(s.contexts, sc)
	s.mu.Unlock()

	log.Info("shell: opened %s context %s at depth %d", mode, sc.ID(), sc.Depth())

	if t.Init != nil {
		if err := t.Init(ctx, sc); err != nil {
			s.pop(sc)
			log.Error("shell: %s init failed: %v", mode, err)
			return nil, err
		}
	}
	return sc, nil
}

// Close tears sc down and pops it. sc must be on top of the stack.
func (s *Stack) Close(sc *Context) {
	sc.Bail()

	if t, err := s.LookupType(sc.Mode()); err == nil && t.Teardown != nil {
		if err := t.Teardown(sc); err != nil {
			log.Warn("shell: %s teardown failed: %v", sc.Mode(), err)
		}
	}

	s.pop(sc)
	log.Info("shell: closed %s context %s", sc.Mode(), sc.ID())
}

func (s *Stack) pop(sc *Context) {
	sc.close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.contexts) - 1; i >= 0; i-- {
		if s.contexts[i] == sc {
			s.contexts = append(s.contexts[:i], s.contexts[i+1:]...)
			return
		}
	}
}

// Interrupt cancels the command currently executing, if any.
func (s *Stack) Interrupt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// Notify prints a message from a background task without tearing the
// prompt, then redraws the prompt if the loop is waiting for input.
func (s *Stack) Notify(format string, args ...any) {
	s.promptLock.Lock()
	defer s.promptLock.Unlock()

	if s.waiting != nil {
		fmt.Fprint(s.out, "\n")
	}
	fmt.Fprintf(s.out, format+"\n", args...)
	if s.waiting != nil {
		fmt.Fprint(s.out, s.prompt(s.waiting))
	}
}
