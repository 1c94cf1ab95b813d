package builtins

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/addon"
	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/uesh"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

type memConfig struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemConfig() *memConfig {
	return &memConfig{values: map[string]string{"theme": "default"}}
}

func (c *memConfig) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *memConfig) GetAll() (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out, nil
}

func (c *memConfig) Set(key, value string) error {
	if !domain.IsValidConfigKey(key) {
		return usage.InvalidConfigKey(key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memConfig) Unset(key string) error {
	if !domain.IsValidConfigKey(key) {
		return usage.InvalidConfigKey(key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

type memHistory struct {
	entries []domain.HistoryEntry
	cleared bool
}

func (m *memHistory) Record(_ context.Context, e domain.HistoryEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistory) List(_ context.Context, f domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	for _, e := range m.entries {
		if f.Mode == "" || e.Mode == f.Mode {
			out = append(out, e)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out, nil
}

func (m *memHistory) Trim(context.Context, int) (int64, error) { return 0, nil }

func (m *memHistory) Clear(context.Context) error {
	m.entries = nil
	m.cleared = true
	return nil
}

func (m *memHistory) Close() error { return nil }

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	stack  *shell.Stack
	sc     *shell.Context
	out    *bytes.Buffer
	errOut *bytes.Buffer
	config *memConfig
	slept  []time.Duration
}

func newFixture(t *testing.T, mutate func(*Deps)) *fixture {
	t.Helper()
	f := &fixture{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}, config: newMemConfig()}

	exec := dispatchers.NewExecutor(dispatchers.NewRegistry())
	f.stack = shell.NewStack(exec, shell.WithIO(strings.NewReader(""), f.out, f.errOut, false))

	d := Deps{
		Stack:   f.stack,
		Interp:  uesh.New(uesh.NewConditions()),
		Config:  f.config,
		Version: "1.2.3",
		Now:     func() time.Time { return fixedNow },
		Sleep: func(_ context.Context, dur time.Duration) error {
			f.slept = append(f.slept, dur)
			return nil
		},
	}
	if mutate != nil {
		mutate(&d)
	}

	require.NoError(t, f.stack.RegisterType(shell.Type{Mode: shell.MainMode, Summary: "Main shell", Commands: Commands(d)}))
	require.NoError(t, f.stack.RegisterType(shell.Type{Mode: "SQL", Summary: "SQL client", Sub: true}))

	sc, err := f.stack.Open(context.Background(), shell.MainMode, nil)
	require.NoError(t, err)
	f.sc = sc
	t.Cleanup(func() { f.stack.Close(sc) })
	return f
}

func (f *fixture) run(line string) dispatchers.Result {
	return f.stack.RunLine(context.Background(), f.sc, line)
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.uesh")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestGeneral(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "echo joins words", line: `echo hello "big world"`, want: "hello big world\n"},
		{name: "echo keeps switch-like words", line: "echo -n text", want: "-n text\n"},
		{name: "echo without words", line: "echo", want: "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			res := f.run(tt.line)
			require.True(t, res.OK(), "%v", res.Err)
			require.Equal(t, tt.want, f.out.String())
		})
	}
}

func TestVersion(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.run("version").OK())
	require.Contains(t, f.out.String(), "Nitrocid KS 1.2.3")
}

func TestSleep(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.run("sleep 250").OK())
	require.Equal(t, []time.Duration{250 * time.Millisecond}, f.slept)

	require.Equal(t, dispatchers.CodeUsage, f.run("sleep soon").Code)
}

func TestSleep_RejectsDurationsOutOfRange(t *testing.T) {
	for _, arg := range []string{"1e18", "-5", "NaN", "Inf"} {
		t.Run(arg, func(t *testing.T) {
			f := newFixture(t, nil)
			res := f.run("sleep " + arg)
			require.Equal(t, dispatchers.CodeUsage, res.Code)
			require.ErrorIs(t, res.Err, usage.Kind(usage.ErrArgumentMismatch))
			require.Empty(t, f.slept)
		})
	}
}

func TestSleep_Interrupted(t *testing.T) {
	f := newFixture(t, func(d *Deps) {
		d.Sleep = func(context.Context, time.Duration) error { return context.Canceled }
	})
	require.Equal(t, dispatchers.CodeInterrupted, f.run("sleep 10").Code)
}

func TestRun_Script(t *testing.T) {
	f := newFixture(t, nil)
	path := writeScript(t, "greeting=hi\necho $greeting $1\n")

	res := f.run("run " + path + " there")
	require.True(t, res.OK(), "%v", res.Err)
	require.Equal(t, "hi there\n", f.out.String())
}

func TestRun_FailingScript(t *testing.T) {
	f := newFixture(t, nil)
	path := writeScript(t, "echo before\nnosuch\necho after\n")

	res := f.run("run " + path)
	require.Equal(t, dispatchers.CodeScriptFailure, res.Code)
	require.ErrorIs(t, res.Err, usage.Kind(usage.ErrScriptFailed))
	require.Equal(t, "before\n", f.out.String())
}

func TestRun_MissingScript(t *testing.T) {
	f := newFixture(t, nil)
	res := f.run("run " + filepath.Join(t.TempDir(), "missing.uesh"))
	require.Equal(t, dispatchers.CodeFailure, res.Code)
}

func TestLint(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode int
	}{
		{name: "valid", src: "x=1\nif $x eq 1\n  echo one\nendif\n", wantCode: dispatchers.CodeSuccess},
		{name: "unclosed if", src: "if a eq b\necho x\n", wantCode: dispatchers.CodeScriptFailure},
		{name: "unknown command", src: "nosuch arg\n", wantCode: dispatchers.CodeScriptFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			path := writeScript(t, tt.src)

			res := f.run("lint " + path)
			require.Equal(t, tt.wantCode, res.Code, "%v", res.Err)
			if tt.wantCode == dispatchers.CodeSuccess {
				require.Equal(t, path+": OK\n", f.out.String())
			}
		})
	}
}

func TestConditions(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.run("conditions").OK())

	out := f.out.String()
	require.Contains(t, out, "NAME")
	require.Contains(t, out, "eq")
	require.Contains(t, out, "fileex")
	require.Contains(t, out, uesh.OriginBuiltin)
}

func TestSh(t *testing.T) {
	f := newFixture(t, nil)

	res := f.run("sh ks echo from kernel; echo from sh")
	require.True(t, res.OK(), "%v", res.Err)
	require.Equal(t, "from kernel\nfrom sh\n", f.out.String())
}

func TestSh_ExitStatus(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantCode int
	}{
		{name: "exit code", line: "sh exit 3", wantCode: 3},
		{name: "unknown kernel command", line: "sh ks nosuch", wantCode: dispatchers.CodeNotFound},
		{name: "bare ks", line: "sh ks", wantCode: dispatchers.CodeUsage},
		{name: "syntax error", line: `sh if then`, wantCode: dispatchers.CodeUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			require.Equal(t, tt.wantCode, f.run(tt.line).Code)
		})
	}
}

func TestSh_KernelCodesAboveByteRangeStillFail(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.stack.Executor().Registry().Register(shell.MainMode, dispatchers.Command(dispatchers.CommandSpec{
		Name: "wide",
		Action: func(context.Context, *dispatchers.Invocation) (int, error) {
			return 256, nil
		},
	})))

	require.Equal(t, dispatchers.CodeFailure, f.run("sh ks wide").Code)
	require.Equal(t, uint8(7), exitStatus(7))
	require.Equal(t, uint8(dispatchers.CodeFailure), exitStatus(-1))
}

func TestPresets(t *testing.T) {
	f := newFixture(t, nil)
	require.True(t, f.run("presets").OK())
	require.Contains(t, f.out.String(), "* default")
	require.Contains(t, f.out.String(), "  minimal")
}

func TestSetPreset(t *testing.T) {
	f := newFixture(t, nil)

	require.True(t, f.run("setpreset minimal").OK())
	require.Equal(t, "minimal", f.sc.Preset())
	_, saved := f.config.Get("prompt_preset")
	require.False(t, saved)

	require.True(t, f.run("setpreset classic -save").OK())
	require.Equal(t, "classic", f.sc.Preset())
	v, _ := f.config.Get("prompt_preset")
	require.Equal(t, "classic", v)

	res := f.run("setpreset fancy")
	require.Equal(t, dispatchers.CodeFailure, res.Code)
	require.Equal(t, "classic", f.sc.Preset())
}

func TestLsModes(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		notWant []string
	}{
		{name: "all", line: "lsmodes", want: []string{"Shell", "SQL"}},
		{name: "main", line: "lsmodes main", want: []string{"Shell"}, notWant: []string{"SQL"}},
		{name: "sub", line: "lsmodes sub", want: []string{"SQL"}, notWant: []string{"Main shell"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			require.True(t, f.run(tt.line).OK())
			for _, w := range tt.want {
				require.Contains(t, f.out.String(), w)
			}
			for _, w := range tt.notWant {
				require.NotContains(t, f.out.String(), w)
			}
		})
	}

	f := newFixture(t, nil)
	require.Equal(t, dispatchers.CodeUsage, f.run("lsmodes other").Code)
}

func TestHistory(t *testing.T) {
	hist := &memHistory{entries: []domain.HistoryEntry{
		{ID: 1, Mode: "Shell", Line: "echo a", CreatedAt: fixedNow.Add(-2 * time.Minute)},
		{ID: 2, Mode: "SQL", Line: "tables", Code: 1, CreatedAt: fixedNow.Add(-time.Minute)},
		{ID: 3, Mode: "Shell", Line: "echo b", CreatedAt: fixedNow.Add(-3 * time.Hour)},
	}}
	f := newFixture(t, func(d *Deps) { d.History = hist })

	require.True(t, f.run("history").OK())
	out := f.out.String()
	require.Contains(t, out, "2 minutes ago")
	require.Contains(t, out, "tables [1]")
	require.Contains(t, out, "3 entries")

	f.out.Reset()
	require.True(t, f.run("history -mode Shell -limit 1").OK())
	require.Contains(t, f.out.String(), "echo b")
	require.NotContains(t, f.out.String(), "echo a")

	require.Equal(t, dispatchers.CodeUsage, f.run("history -clear -limit 1").Code)
	require.False(t, hist.cleared)

	require.True(t, f.run("history -clear").OK())
	require.True(t, hist.cleared)
}

func TestHistory_Disabled(t *testing.T) {
	f := newFixture(t, nil)
	res := f.run("history")
	require.Equal(t, dispatchers.CodeFailure, res.Code)
	require.ErrorIs(t, res.Err, ErrHistoryDisabled)
}

func TestConfig(t *testing.T) {
	f := newFixture(t, nil)

	require.True(t, f.run("config get theme").OK())
	require.Equal(t, "default\n", f.out.String())

	f.out.Reset()
	require.True(t, f.run("config set theme ocean").OK())
	v, _ := f.config.Get("theme")
	require.Equal(t, "ocean", v)

	f.out.Reset()
	require.True(t, f.run("config get log_level").OK())
	require.Contains(t, f.out.String(), "log_level is not set")

	require.True(t, f.run("config unset theme").OK())
	_, ok := f.config.Get("theme")
	require.False(t, ok)

	f.out.Reset()
	require.NoError(t, f.config.Set("pager", "more"))
	require.True(t, f.run("config list").OK())
	require.Contains(t, f.out.String(), "Display")
	require.Contains(t, f.out.String(), "pager=more")
}

func TestConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantCode int
		wantKind usage.ErrorKind
	}{
		{name: "unknown key", line: "config get nope", wantCode: dispatchers.CodeFailure, wantKind: usage.ErrInvalidConfigKey},
		{name: "set unknown key", line: "config set nope 1", wantCode: dispatchers.CodeFailure, wantKind: usage.ErrInvalidConfigKey},
		{name: "unknown action", line: "config drop theme", wantCode: dispatchers.CodeUsage, wantKind: usage.ErrArgumentMismatch},
		{name: "set without value", line: "config set theme", wantCode: dispatchers.CodeUsage, wantKind: usage.ErrArgumentMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			res := f.run(tt.line)
			require.Equal(t, tt.wantCode, res.Code)
			require.ErrorIs(t, res.Err, usage.Kind(tt.wantKind))
		})
	}
}

func TestAddons_SafeMode(t *testing.T) {
	f := newFixture(t, nil)
	res := f.run("addons")
	require.Equal(t, dispatchers.CodeFailure, res.Code)
	require.ErrorIs(t, res.Err, ErrSafeMode)
}

func TestAddons_ReloadAndList(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, func(d *Deps) {
		d.Loader = addon.NewLoader(d.Stack.Executor(), d.Interp)
		d.AddonDir = func() string { return dir }
	})

	require.True(t, f.run("addons").OK())
	require.Contains(t, f.out.String(), "no addons loaded")

	manifest := "name: counter\nversion: \"0.1\"\ndescription: Counts\ncommands:\n  - name: count\n    target: echo one two\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.addon.yaml"), []byte(manifest), 0o644))

	f.out.Reset()
	require.True(t, f.run("addons -reload").OK())
	require.Contains(t, f.out.String(), "1 addon(s) loaded")

	f.out.Reset()
	require.True(t, f.run("addons").OK())
	out := f.out.String()
	require.Contains(t, out, "counter 0.1")
	require.Contains(t, out, "Counts")
	require.Contains(t, out, "Shell/count")

	f.out.Reset()
	require.True(t, f.run("count").OK())
	require.Equal(t, "one two\n", f.out.String())
}
