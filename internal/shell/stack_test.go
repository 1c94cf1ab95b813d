package shell

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

type memHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	trims   int
}

func (m *memHistory) Record(_ context.Context, e domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistory) List(context.Context, domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryEntry(nil), m.entries...), nil
}

func (m *memHistory) Trim(context.Context, int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trims++
	return 0, nil
}

func (m *memHistory) Clear(context.Context) error { return nil }
func (m *memHistory) Close() error                { return nil }

type fixture struct {
	stack   *Stack
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	history *memHistory
}

func fixedInfo(mode string, depth int) PromptInfo {
	return PromptInfo{User: "tester", Host: "box", Mode: mode, Depth: depth, Dir: "~"}
}

func newFixture(t *testing.T, input string, types ...Type) *fixture {
	t.Helper()
	f := &fixture{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}, history: &memHistory{}}
	exec := dispatchers.NewExecutor(dispatchers.NewRegistry())
	f.stack = NewStack(exec,
		WithIO(strings.NewReader(input), f.out, f.errOut, false),
		WithHistory(f.history, 100),
		WithPromptInfo(fixedInfo),
	)

	echo := dispatchers.Command(dispatchers.CommandSpec{
		Name: "echo",
		Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
			fmt.Fprintln(inv.Stdout, strings.Join(inv.Args(), " "))
			return dispatchers.CodeSuccess, nil
		},
	})
	require.NoError(t, f.stack.RegisterType(Type{Mode: MainMode, Commands: []*dispatchers.CommandDescriptor{echo}}))
	for _, typ := range types {
		require.NoError(t, f.stack.RegisterType(typ))
	}
	return f
}

func TestStack_ServeRunsLinesUntilExit(t *testing.T) {
	f := newFixture(t, "echo hello world\n\nexit\necho never\n")

	require.NoError(t, f.stack.Push(context.Background(), MainMode, nil))

	require.Contains(t, f.out.String(), "hello world")
	require.NotContains(t, f.out.String(), "never")
	require.Zero(t, f.stack.Depth())

	lines := make([]string, 0, len(f.history.entries))
	for _, e := range f.history.entries {
		lines = append(lines, e.Line)
		require.Equal(t, MainMode, e.Mode)
	}
	require.Equal(t, []string{"echo hello world", "exit"}, lines)
	require.Equal(t, 2, f.history.trims)
}

func TestStack_EOFClosesShell(t *testing.T) {
	f := newFixture(t, "echo last")

	require.NoError(t, f.stack.Push(context.Background(), MainMode, nil))
	require.Contains(t, f.out.String(), "last")
	require.Zero(t, f.stack.Depth())
}

func TestStack_ErrorsGoToErrorStream(t *testing.T) {
	f := newFixture(t, "ecko hi\n")

	require.NoError(t, f.stack.Push(context.Background(), MainMode, nil))
	require.Contains(t, f.errOut.String(), "ecko")
	require.Contains(t, f.errOut.String(), "echo")
	require.Equal(t, dispatchers.CodeNotFound, f.history.entries[0].Code)
}

func TestStack_NestedPushSuspendsParent(t *testing.T) {
	var (
		events     []string
		innerDepth int
	)

	sub := Type{
		Mode: "Sub",
		Sub:  true,
		Init: func(_ context.Context, sc *Context) error {
			events = append(events, "init")
			sc.SetSession("conn")
			return nil
		},
		Teardown: func(sc *Context) error {
			events = append(events, "teardown:"+sc.Session().(string))
			return nil
		},
		Commands: []*dispatchers.CommandDescriptor{
			dispatchers.Command(dispatchers.CommandSpec{
				Name: "where",
				Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
					innerDepth = inv.Shell.Depth()
					events = append(events, "where:"+inv.Shell.Mode())
					return dispatchers.CodeSuccess, nil
				},
			}),
		},
	}

	f := newFixture(t, "enter\nwhere\nexit\necho back\nexit\n", sub)
	require.NoError(t, f.stack.executor.Registry().RegisterBuiltin(MainMode, dispatchers.Command(dispatchers.CommandSpec{
		Name: "enter",
		Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
			err := inv.Shell.Push(ctx, "Sub", nil)
			events = append(events, "returned")
			return dispatchers.CodeSuccess, err
		},
	})))

	require.NoError(t, f.stack.Push(context.Background(), MainMode, nil))

	require.Equal(t, []string{"init", "where:Sub", "teardown:conn", "returned"}, events)
	require.Equal(t, 2, innerDepth)
	require.Contains(t, f.out.String(), "back")
	require.Zero(t, f.stack.Depth())
}

func TestStack_SubModeNeedsParent(t *testing.T) {
	f := newFixture(t, "", Type{Mode: "Sub", Sub: true})

	err := f.stack.Push(context.Background(), "Sub", nil)
	require.Error(t, err)
	require.Zero(t, f.stack.Depth())
}

func TestStack_UnknownMode(t *testing.T) {
	f := newFixture(t, "")

	err := f.stack.Push(context.Background(), "FTP", nil)
	require.ErrorIs(t, err, usage.Kind(usage.ErrUnknownShell))
}

func TestStack_InitFailurePops(t *testing.T) {
	boom := fmt.Errorf("connect refused")
	f := newFixture(t, "", Type{
		Mode: "Broken",
		Init: func(context.Context, *Context) error { return boom },
	})

	_, err := f.stack.Open(context.Background(), "Broken", nil)
	require.ErrorIs(t, err, boom)
	require.Zero(t, f.stack.Depth())
}

func TestStack_DuplicateModeRejected(t *testing.T) {
	f := newFixture(t, "")
	require.Error(t, f.stack.RegisterType(Type{Mode: MainMode}))
}

func TestStack_CancelledContextStopsLoop(t *testing.T) {
	f := newFixture(t, "echo a\necho b\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.stack.Push(ctx, MainMode, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.NotContains(t, f.out.String(), "a\n")
}

func TestStack_InterruptCancelsRunningCommand(t *testing.T) {
	f := newFixture(t, "")
	started := make(chan struct{})
	require.NoError(t, f.stack.executor.Registry().RegisterBuiltin(MainMode, dispatchers.Command(dispatchers.CommandSpec{
		Name: "block",
		Action: func(ctx context.Context, _ *dispatchers.Invocation) (int, error) {
			close(started)
			<-ctx.Done()
			return dispatchers.CodeFailure, ctx.Err()
		},
	})))

	sc, err := f.stack.Open(context.Background(), MainMode, nil)
	require.NoError(t, err)
	defer f.stack.Close(sc)

	require.False(t, f.stack.Interrupt())

	go func() {
		<-started
		f.stack.Interrupt()
	}()

	res := f.stack.RunLine(context.Background(), sc, "block")
	require.Equal(t, dispatchers.CodeInterrupted, res.Code)
}

func TestContext_StateTransitions(t *testing.T) {
	f := newFixture(t, "")

	sc, err := f.stack.Open(context.Background(), MainMode, []string{"a"})
	require.NoError(t, err)
	require.Equal(t, StateRunning, sc.State())
	require.NotEmpty(t, sc.ID())
	require.Equal(t, []string{"a"}, sc.Args())
	require.Same(t, sc, f.stack.Current())

	sc.Bail()
	require.Equal(t, StateBailing, sc.State())

	f.stack.Close(sc)
	require.Equal(t, StateClosed, sc.State())
	require.Nil(t, f.stack.Current())

	sc.Bail()
	require.Equal(t, StateClosed, sc.State(), "bail never reopens a closed context")
}

func TestStack_NotifyRedrawsPrompt(t *testing.T) {
	f := newFixture(t, "")
	sc, err := f.stack.Open(context.Background(), MainMode, nil)
	require.NoError(t, err)
	defer f.stack.Close(sc)

	f.stack.Notify("addon %s loaded", "demo")
	require.Equal(t, "addon demo loaded\n", f.out.String())

	f.out.Reset()
	f.stack.waiting = sc
	f.stack.Notify("again")
	f.stack.waiting = nil
	require.Equal(t, "\nagain\n[tester@box] ~ (Shell)> ", f.out.String())
}

func TestStack_HelpListsCommonCommands(t *testing.T) {
	f := newFixture(t, "help\nhelp echo\nhelp nosuch\n")

	done := make(chan error, 1)
	go func() { done <- f.stack.Push(context.Background(), MainMode, nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not stop at end of input")
	}

	require.Contains(t, f.out.String(), "Available commands in Shell")
	require.Contains(t, f.out.String(), "exit")
	require.Contains(t, f.out.String(), "USAGE")
	require.Contains(t, f.errOut.String(), "nosuch")
}
