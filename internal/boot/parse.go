package boot

import (
	"fmt"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// Options is the parsed boot argument list.
type Options struct {
	Debug   bool
	Safe    bool
	Quiet   bool
	NoColor bool

	// Inject holds command lines to run before the prompt.
	Inject []string
	// Script is run instead of the interactive shell.
	Script string
	// ScriptArgs are the tokens after "--", passed to Script as $1..$n.
	ScriptArgs []string
	// Lint is linted instead of starting the interactive shell.
	Lint string
}

// Interactive reports whether the options leave the interactive shell running.
func (o Options) Interactive() bool {
	return o.Script == "" && o.Lint == ""
}

// Parse reads argv. Tokens containing commas carry several arguments, so
// "debug,safe" equals "debug safe". A value is taken from "name=value" or
// from the next token.
func Parse(argv []string) (Options, error) {
	var opts Options

	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if tok == "--" {
			opts.ScriptArgs = append([]string(nil), argv[i+1:]...)
			break
		}

		words := splitCommas(tok)
		for j, word := range words {
			name, value, hasValue := strings.Cut(word, "=")

			arg, ok := Lookup(name)
			if !ok {
				return Options{}, usage.BootArgument(name, "unknown boot argument",
					dispatchers.FindSimilarCommands(name, Names(), 3)...)
			}

			if !arg.TakesValue() {
				if hasValue {
					return Options{}, usage.BootArgument(name, "does not take a value")
				}
				opts.set(name, "")
				continue
			}

			if !hasValue {
				if j != len(words)-1 || i+1 >= len(argv) {
					return Options{}, usage.BootArgument(name, "requires a value "+arg.ValueHint)
				}
				i++
				value = argv[i]
			}
			if strings.TrimSpace(value) == "" {
				return Options{}, usage.BootArgument(name, "requires a value "+arg.ValueHint)
			}
			opts.set(name, value)
		}
	}

	if opts.Script != "" && opts.Lint != "" {
		return Options{}, usage.BootArgument("lint", "conflicts with 'script'")
	}
	return opts, nil
}

func (o *Options) set(name, value string) {
	switch name {
	case "debug":
		o.Debug = true
	case "safe":
		o.Safe = true
	case "quiet":
		o.Quiet = true
	case "nocolor":
		o.NoColor = true
	case "cmdinject":
		o.Inject = append(o.Inject, SplitInject(value)...)
	case "script":
		o.Script = value
	case "lint":
		o.Lint = value
	}
}

func splitCommas(tok string) []string {
	var out []string
	for _, w := range strings.Split(tok, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// SplitInject splits a cmdinject value into command lines on semicolons
// outside double quotes.
func SplitInject(value string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if line := strings.TrimSpace(cur.String()); line != "" {
			out = append(out, line)
		}
		cur.Reset()
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ';' && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// Usage renders the boot argument table.
func Usage() string {
	var b strings.Builder
	for _, stage := range []Stage{PreBoot, PostBoot} {
		fmt.Fprintf(&b, "%s arguments:\n", stage)
		for _, a := range Arguments {
			if a.Stage != stage {
				continue
			}
			fmt.Fprintf(&b, "  %-24s %s\n", strings.TrimSpace(a.Name+" "+a.ValueHint), a.Description)
		}
	}
	return b.String()
}
