package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    map[string]string
		wantErr string
	}{
		{name: "nothing", lines: nil, want: map[string]string{}},
		{
			name: "seeded file",
			lines: []string{
				"﻿# Nitrocid kernel configuration",
				"",
				"# Shell",
				"prompt_preset=classic",
				"  switch_prefix = -  ",
				"# color_error=",
				"",
				"# Scripting",
				"script_max_iterations=500",
			},
			want: map[string]string{
				"prompt_preset":         "classic",
				"switch_prefix":         "-",
				"script_max_iterations": "500",
			},
		},
		{
			name:  "value keeps later equals signs",
			lines: []string{"addon_dir=/srv/a=b", "dsn=root:pw@tcp(db:3306)/ks?parseTime=true"},
			want:  map[string]string{"addon_dir": "/srv/a=b", "dsn": "root:pw@tcp(db:3306)/ks?parseTime=true"},
		},
		{
			name:  "quotes protect spaces and hashes",
			lines: []string{`pager="less -FRSX"`, `prompt="# > "`, `theme="unterminated`},
			want:  map[string]string{"pager": "less -FRSX", "prompt": "# > ", "theme": `"unterminated`},
		},
		{
			name:  "inline comment needs whitespace",
			lines: []string{"theme=hacker   # no colors", "tag=v1#2"},
			want:  map[string]string{"theme": "hacker", "tag": "v1#2"},
		},
		{
			name:  "last assignment wins",
			lines: []string{"log_level=info", "log_level=debug", "color_error="},
			want:  map[string]string{"log_level": "debug", "color_error": ""},
		},
		{name: "missing equals", lines: []string{"debug=true", "debug"}, wantErr: "line 2"},
		{name: "missing key", lines: []string{" =value"}, wantErr: "empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.lines)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteValue_SurvivesParse(t *testing.T) {
	for _, value := range []string{"plain", "less -FRSX", " padded ", "a # b", "", "x=y"} {
		got, err := Parse([]string{"k=" + quoteValue(value)})
		require.NoError(t, err)
		require.Equal(t, value, got["k"], "value %q", value)
	}
}
