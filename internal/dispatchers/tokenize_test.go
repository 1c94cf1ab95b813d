package dispatchers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "echo hello world", want: []string{"echo", "hello", "world"}},
		{name: "extra spaces", line: "  echo   a\tb  ", want: []string{"echo", "a", "b"}},
		{name: "quoted word", line: `echo "hello world"`, want: []string{"echo", "hello world"}},
		{name: "quote inside word", line: `set name="a b"`, want: []string{"set", "name=a b"}},
		{name: "escaped quote", line: `echo "say \"hi\""`, want: []string{"echo", `say "hi"`}},
		{name: "empty quotes", line: `echo ""`, want: []string{"echo", ""}},
		{name: "blank", line: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_UnbalancedQuotes(t *testing.T) {
	_, err := Split(`echo "never closed`)
	require.ErrorIs(t, err, usage.Kind(usage.ErrUnbalancedQuotes))
}

func TestJoin_RoundTrip(t *testing.T) {
	words := []string{"echo", "two words", `with "quotes"`, `back\slash`, "", "tab\there"}

	got, err := Split(Join(words))
	require.NoError(t, err)
	require.Equal(t, words, got)
}

func TestQuote_LeavesSimpleWords(t *testing.T) {
	require.Equal(t, "simple", Quote("simple"))
	require.Equal(t, `""`, Quote(""))
	require.Equal(t, `"a b"`, Quote("a b"))
}
