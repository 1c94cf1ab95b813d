package shell

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
)

// State is the lifecycle state of a shell context.
type State int32

const (
	StateRunning State = iota
	StateBailing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateBailing:
		return "bailing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Context is one entry of the shell stack.
type Context struct {
	id    string
	mode  string
	depth int
	args  []string
	stack *Stack
	state atomic.Int32

	mu      sync.RWMutex
	preset  string
	session any
}

func newContext(stack *Stack, mode string, depth int, args []string, preset string) *Context {
	return &Context{
		id:     uuid.NewString(),
		mode:   mode,
		depth:  depth,
		args:   append([]string(nil), args...),
		stack:  stack,
		preset: preset,
	}
}

// ID returns the unique identifier of the context.
func (c *Context) ID() string { return c.id }

// Mode returns the shell mode of the context.
func (c *Context) Mode() string { return c.mode }

// Depth returns the stack position, 1 being the main shell.
func (c *Context) Depth() int { return c.depth }

// Args returns the arguments the context was opened with.
func (c *Context) Args() []string { return c.args }

// State returns the current lifecycle state.
func (c *Context) State() State { return State(c.state.Load()) }

// Bail moves a running context to Bailing. The owning loop closes it at the
// top of its next iteration.
func (c *Context) Bail() {
	c.state.CompareAndSwap(int32(StateRunning), int32(StateBailing))
}

// Bailing reports whether the context is no longer running.
func (c *Context) Bailing() bool {
	return c.State() != StateRunning
}

func (c *Context) close() {
	c.state.Store(int32(StateClosed))
}

// Preset returns the prompt preset of the context.
func (c *Context) Preset() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preset
}

// SetPreset changes the prompt preset of the context.
func (c *Context) SetPreset(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preset = name
}

// Session returns the mode-specific state stored by the shell type's Init.
func (c *Context) Session() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSession stores mode-specific state, such as an open connection.
func (c *Context) SetSession(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = v
}

// Push opens a nested shell on top of this context and blocks until it closes.
func (c *Context) Push(ctx context.Context, mode string, args []string) error {
	return c.stack.pushFrom(ctx, c, mode, args)
}

var _ dispatchers.Shell = (*Context)(nil)
