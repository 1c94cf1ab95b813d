package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
)

func TestDefaults_CoverEveryKey(t *testing.T) {
	for _, key := range domain.ConfigKeys {
		_, ok := Defaults[key.Name]
		require.True(t, ok, "missing default for %s", key.Name)
	}
	require.Len(t, Defaults, len(domain.ConfigKeys))
}

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		content   []string
		key       string
		wantValue string
		wantFound bool
	}{
		{
			name:      "user override",
			content:   []string{"switch_prefix=--"},
			key:       "switch_prefix",
			wantValue: "--",
			wantFound: true,
		},
		{
			name:      "falls back to default",
			content:   []string{"theme=hacker"},
			key:       "script_max_iterations",
			wantValue: "10000",
			wantFound: true,
		},
		{
			name:      "unknown key in file",
			content:   []string{"custom=1"},
			key:       "custom",
			wantValue: "1",
			wantFound: true,
		},
		{
			name:      "unknown key not in file",
			content:   []string{"theme=hacker"},
			key:       "missing",
			wantFound: false,
		},
		{
			name:      "malformed file uses defaults",
			content:   []string{"garbage"},
			key:       "log_level",
			wantValue: "info",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTempHome(t)
			require.NoError(t, WriteLines(tt.content))

			value, found := Get(tt.key)
			require.Equal(t, tt.wantFound, found)
			require.Equal(t, tt.wantValue, value)
		})
	}
}

func TestGetAll_MergesCorrectly(t *testing.T) {
	setupTempHome(t)
	require.NoError(t, WriteLines([]string{"theme=ocean", "extra=1"}))

	all, err := GetAll()
	require.NoError(t, err)
	require.Equal(t, "ocean", all["theme"])
	require.Equal(t, "1", all["extra"])
	require.Equal(t, "-", all["switch_prefix"])
}

func TestBoolInt(t *testing.T) {
	require.True(t, Bool("on", false))
	require.False(t, Bool("No", true))
	require.True(t, Bool("maybe", true))

	require.Equal(t, 12, Int(" 12 ", 0))
	require.Equal(t, 7, Int("x", 7))
}
