package dispatchers

import (
	"strings"
	"unicode"

	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// token is one word of a command line. start and end are byte offsets of the
// word as typed, quotes included. quoted is set when any part of the word was
// quoted, leadQuoted only when the word opens with a quote.
type token struct {
	text       string
	quoted     bool
	leadQuoted bool
	start      int
	end        int
}

// tokenize splits a line on whitespace. Text between double quotes is part of
// the current word and is de-quoted; inside quotes \" and \\ are escapes.
func tokenize(line string) ([]token, error) {
	var (
		tokens  []token
		cur     strings.Builder
		inWord  bool
		inQuote bool
		quoted  bool
		lead    bool
		start   int
	)

	flush := func(end int) {
		tokens = append(tokens, token{text: cur.String(), quoted: quoted, leadQuoted: lead, start: start, end: end})
		cur.Reset()
		inWord = false
		quoted = false
		lead = false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]

		if inQuote {
			switch {
			case c == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\'):
				cur.WriteByte(line[i+1])
				i++
			case c == '"':
				inQuote = false
			default:
				cur.WriteByte(c)
			}
			continue
		}

		if c < 0x80 && unicode.IsSpace(rune(c)) {
			if inWord {
				flush(i)
			}
			continue
		}

		if !inWord {
			inWord = true
			start = i
		}
		if c == '"' {
			inQuote = true
			quoted = true
			lead = lead || i == start
			continue
		}
		cur.WriteByte(c)
	}

	if inQuote {
		return nil, usage.UnbalancedQuotes(line)
	}
	if inWord {
		flush(len(line))
	}
	return tokens, nil
}

// Split splits a command line into de-quoted words.
func Split(line string) ([]string, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.text
	}
	return out, nil
}

// Quote returns word in a form Split reads back as the same single word.
func Quote(word string) string {
	if word != "" && !strings.ContainsAny(word, "\" \t\r\n\v\f") {
		return word
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(word); i++ {
		if word[i] == '"' || word[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(word[i])
	}
	b.WriteByte('"')
	return b.String()
}

// Join quotes each word as needed and joins them with single spaces.
func Join(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, " ")
}
