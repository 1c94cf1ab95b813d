package uesh

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// recorder is a Target that records lines and fails on demand.
type recorder struct {
	lines   []string
	checked []string
	codes   map[string]int
	known   map[string]bool
}

func newRecorder(known ...string) *recorder {
	r := &recorder{codes: map[string]int{}, known: map[string]bool{}}
	for _, k := range known {
		r.known[k] = true
	}
	return r
}

func (r *recorder) Run(_ context.Context, line string) dispatchers.Result {
	r.lines = append(r.lines, line)
	name, _ := dispatchers.CommandName(line)
	return dispatchers.Result{Command: name, Code: r.codes[name]}
}

func (r *recorder) Check(line string) error {
	r.checked = append(r.checked, line)
	name, _ := dispatchers.CommandName(line)
	if !r.known[name] {
		return usage.CommandNotFound("Shell", name)
	}
	return nil
}

func runScript(t *testing.T, src string, target Target, args ...string) error {
	t.Helper()
	s, err := ParseString("test.uesh", src)
	require.NoError(t, err)
	return New(NewConditions()).Run(context.Background(), s, target, args)
}

func TestRun_SubstitutesAssignments(t *testing.T) {
	rec := newRecorder()

	err := runScript(t, "varname=5\necho $varname\n", rec)
	require.NoError(t, err)
	require.Equal(t, []string{"echo 5"}, rec.lines)
}

func TestRun_Branches(t *testing.T) {
	src := `
mode=$1
if $mode eq fast
  echo going fast
else
  echo going slow
endif
echo done
`
	rec := newRecorder()
	require.NoError(t, runScript(t, src, rec, "fast"))
	require.Equal(t, []string{"echo going fast", "echo done"}, rec.lines)

	rec = newRecorder()
	require.NoError(t, runScript(t, src, rec, "slow"))
	require.Equal(t, []string{"echo going slow", "echo done"}, rec.lines)
}

func TestRun_SaneChecksVariableNotValue(t *testing.T) {
	src := `
x=5
if sane $x
  echo x defined
else
  echo x undefined
endif
if insane ${y}
  echo y undefined
endif
if sane y
  echo y defined
endif
`
	rec := newRecorder()
	require.NoError(t, runScript(t, src, rec))
	require.Equal(t, []string{"echo x defined", "echo y undefined"}, rec.lines)
}

func TestRun_WhileLoop(t *testing.T) {
	src := `
i=0
while $i les 3
  echo $i
  if $i eq 0
    i=1
  else
    if $i eq 1
      i=2
    else
      i=3
    endif
  endif
endwhile
`
	rec := newRecorder()
	require.NoError(t, runScript(t, src, rec))
	require.Equal(t, []string{"echo 0", "echo 1", "echo 2"}, rec.lines)
}

func TestRun_IterationLimit(t *testing.T) {
	s, err := ParseString("loop.uesh", "while none\necho spin\nendwhile\n")
	require.NoError(t, err)

	rec := newRecorder()
	err = New(NewConditions(), WithMaxIterations(5)).Run(context.Background(), s, rec, nil)
	require.ErrorIs(t, err, usage.Kind(usage.ErrScriptFailed))
	require.ErrorContains(t, err, "exceeded 5 iterations")
	require.Len(t, rec.lines, 5)

	var ue *usage.Error
	require.True(t, usage.As(err, &ue))
	require.Equal(t, 1, ue.Line)
}

func TestRun_AbortsOnFailure(t *testing.T) {
	rec := newRecorder()
	rec.codes["fail"] = 9

	err := runScript(t, "echo one\nfail now\necho never\n", rec)
	require.ErrorIs(t, err, usage.Kind(usage.ErrScriptFailed))
	require.ErrorContains(t, err, "test.uesh:2: fail returned code 9")
	require.Equal(t, []string{"echo one", "fail now"}, rec.lines)
	require.Equal(t, usage.ExitScriptFailure, usage.ExitCodeOf(err))
}

func TestRun_ConditionErrorsAreSyntaxErrors(t *testing.T) {
	rec := newRecorder()

	err := runScript(t, "echo first\nif a like b\necho x\nendif\n", rec)
	require.ErrorIs(t, err, usage.Kind(usage.ErrScriptSyntax))
	require.Equal(t, []string{"echo first"}, rec.lines)
}

func TestRun_CancelledContext(t *testing.T) {
	s, err := ParseString("s", "echo a\n")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newRecorder()
	err = New(NewConditions()).Run(ctx, s, rec, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, rec.lines)
}

func TestRun_UnresolvedVariableStaysLiteral(t *testing.T) {
	rec := newRecorder()
	require.NoError(t, runScript(t, "echo $nobody\n", rec))
	require.Equal(t, []string{"echo $nobody"}, rec.lines)
}

func TestLint_MissingEndifReportsIfLine(t *testing.T) {
	rec := newRecorder("echo")

	_, err := ParseString("bad.uesh", "echo a\necho b\nif none\necho c\n")
	require.ErrorIs(t, err, usage.Kind(usage.ErrScriptSyntax))

	var ue *usage.Error
	require.True(t, usage.As(err, &ue))
	require.Equal(t, 3, ue.Line)
	require.Empty(t, rec.lines)
}

func TestLint_NeverRunsHandlers(t *testing.T) {
	src := `
x=1
if $x eq 1
  echo yes
else
  echo no
endif
while $x les 0
  echo loop
endwhile
`
	s, err := ParseString("ok.uesh", src)
	require.NoError(t, err)

	rec := newRecorder("echo")
	require.NoError(t, New(NewConditions()).Lint(s, rec, nil))
	require.Empty(t, rec.lines)
	require.Equal(t, []string{"echo yes", "echo no", "echo loop"}, rec.checked)
}

func TestLint_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{name: "unknown command", src: "echo a\nnosuch b\n", wantLine: 2},
		{name: "unknown condition", src: "if a like b\nendif\n", wantLine: 1},
		{name: "condition arity", src: "echo a\nwhile 1 les\nendwhile\n", wantLine: 2},
		{name: "unknown command with variables", src: "nosuch $later\n", wantLine: 1},
		{name: "in else branch", src: "if none\necho a\nelse\nnosuch\nendif\n", wantLine: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseString("lint.uesh", tt.src)
			require.NoError(t, err)

			rec := newRecorder("echo")
			err = New(NewConditions()).Lint(s, rec, nil)
			require.ErrorIs(t, err, usage.Kind(usage.ErrScriptSyntax))

			var ue *usage.Error
			require.True(t, usage.As(err, &ue))
			require.Equal(t, tt.wantLine, ue.Line)
			require.Empty(t, rec.lines)
		})
	}
}

func TestLint_UnresolvedArgumentsOnlyCheckName(t *testing.T) {
	s, err := ParseString("s", "echo $later\n$cmd arg\n")
	require.NoError(t, err)

	rec := newRecorder("echo")
	require.NoError(t, New(NewConditions()).Lint(s, rec, nil))
	require.Equal(t, []string{"echo"}, rec.checked)
}

func TestExecutorTarget(t *testing.T) {
	reg := dispatchers.NewRegistry()
	var out strings.Builder
	require.NoError(t, reg.RegisterBuiltin("Shell", dispatchers.Command(dispatchers.CommandSpec{
		Name: "sleep",
		Args: []dispatchers.ArgumentPart{dispatchers.Numeric("ms", "")},
		Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
			out.WriteString("slept " + inv.Arg(0) + "\n")
			return dispatchers.CodeSuccess, nil
		},
	})))
	require.NoError(t, reg.RegisterBuiltin("Shell", dispatchers.Command(dispatchers.CommandSpec{
		Name: "broken",
		Action: func(context.Context, *dispatchers.Invocation) (int, error) {
			return dispatchers.CodeFailure, errors.New("nope")
		},
	})))

	target := ExecutorTarget{Executor: dispatchers.NewExecutor(reg), Shell: shellStub{}}
	in := New(NewConditions())

	s, err := ParseString("t.uesh", "ms=10\nsleep $ms\n")
	require.NoError(t, err)
	require.NoError(t, in.Lint(s, target, nil))
	require.Empty(t, out.String())
	require.NoError(t, in.Run(context.Background(), s, target, nil))
	require.Equal(t, "slept 10\n", out.String())

	s, err = ParseString("t.uesh", "sleep soon\n")
	require.NoError(t, err)
	err = in.Lint(s, target, nil)
	require.ErrorIs(t, err, usage.Kind(usage.ErrScriptSyntax))
	require.ErrorContains(t, err, "must be numeric")

	s, err = ParseString("t.uesh", "broken\nsleep 1\n")
	require.NoError(t, err)
	err = in.Run(context.Background(), s, target, nil)
	require.ErrorIs(t, err, usage.Kind(usage.ErrHandlerFailure))
	require.ErrorIs(t, err, usage.Kind(usage.ErrScriptFailed))
}

type shellStub struct{}

func (shellStub) ID() string   { return "stub" }
func (shellStub) Mode() string { return "Shell" }
func (shellStub) Depth() int   { return 1 }
func (shellStub) Bail()        {}
func (shellStub) Push(context.Context, string, []string) error {
	return errors.New("not supported")
}
