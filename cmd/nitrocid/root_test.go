package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	kboot "github.com/Aptivi/NitrocidKS-sub040/internal/boot"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

func execute(t *testing.T, args ...string) (kboot.Options, string, error) {
	t.Helper()
	var got kboot.Options
	cmd := newRootCmd(func(_ context.Context, opts kboot.Options) error {
		got = opts
		return nil
	})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, out.String(), err
}

func TestRootCmd_BootArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want kboot.Options
	}{
		{name: "none", args: nil, want: kboot.Options{}},
		{name: "comma joined", args: []string{"debug,safe"}, want: kboot.Options{Debug: true, Safe: true}},
		{
			name: "script with arguments",
			args: []string{"script=boot.uesh", "--", "one", "-two"},
			want: kboot.Options{Script: "boot.uesh", ScriptArgs: []string{"one", "-two"}},
		},
		{
			name: "inject",
			args: []string{"cmdinject", "echo a;version"},
			want: kboot.Options{Inject: []string{"echo a", "version"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRootCmd_UnknownBootArgument(t *testing.T) {
	_, _, err := execute(t, "debgu")
	require.ErrorIs(t, err, usage.Kind(usage.ErrBootArgument))
	require.Contains(t, err.Error(), "debug")
	require.Equal(t, usage.ExitUsage, usage.ExitCodeOf(err))
}

func TestRootCmd_ListsBootArguments(t *testing.T) {
	_, out, err := execute(t, "--boot-args")
	require.NoError(t, err)
	require.Contains(t, out, "cmdinject")
	require.Contains(t, out, "safe")
}

func TestBootArgv(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, bootArgv([]string{"a", "b"}, -1))
	require.Equal(t, []string{"a", "--", "b"}, bootArgv([]string{"a", "b"}, 1))
	require.Equal(t, []string{"--"}, bootArgv([]string{}, 0))
}
