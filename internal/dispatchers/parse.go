package dispatchers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// DefaultSwitchPrefix starts a switch token.
const DefaultSwitchPrefix = "-"

// ParsedCommand is the result of parsing one command line.
type ParsedCommand struct {
	Name     string
	Args     []string
	Switches Switches
	// Raw is the argument text after the command name as typed, without redirection.
	Raw string
	// Line is the full input line.
	Line string
	// SetIndex is the index of the argument set that matched, or -1 when the
	// command declares none.
	SetIndex int
	Redirect *Redirect
}

// Redirect describes a trailing "> path" or ">> path".
type Redirect struct {
	Path   string
	Append bool
}

// Parser turns command lines into ParsedCommands.
type Parser struct {
	SwitchPrefix string
}

// NewParser creates a Parser using prefix for switches; empty selects DefaultSwitchPrefix.
func NewParser(prefix string) *Parser {
	if prefix == "" {
		prefix = DefaultSwitchPrefix
	}
	return &Parser{SwitchPrefix: prefix}
}

// CommandName returns the first word of a line, or "" for a blank line.
func CommandName(line string) (string, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0].text, nil
}

// Parse validates line against the argument sets of d.
func (p *Parser) Parse(d *CommandDescriptor, line string) (*ParsedCommand, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, usage.ArgumentMismatch(d.Name, "empty command line")
	}

	pc := &ParsedCommand{
		Name:     tokens[0].text,
		Line:     line,
		SetIndex: -1,
	}

	rest := tokens[1:]
	if d.SupportsRedirection {
		rest, pc.Redirect = splitRedirect(rest)
	}
	if len(rest) > 0 {
		pc.Raw = line[rest[0].start:rest[len(rest)-1].end]
	}

	if len(d.ArgumentSets) == 0 {
		pc.Args, pc.Switches = p.splitLoose(rest)
		return pc, nil
	}

	var (
		failures   []*setFailure
		allSwitch  = true
		usageLines = make([]string, len(d.ArgumentSets))
	)
	for i, set := range d.ArgumentSets {
		usageLines[i] = UsageLine(d.Name, set, p.SwitchPrefix)

		args, switches, failure := p.match(d, set, rest)
		if failure == nil {
			pc.Args = args
			pc.Switches = switches
			pc.SetIndex = i
			return pc, nil
		}
		failures = append(failures, failure)
		if failure.badSwitch == "" {
			allSwitch = false
		}
	}

	if allSwitch {
		return nil, usage.InvalidSwitch(d.Name, failures[0].badSwitch, usageLines...)
	}
	reason := failures[0].reason
	if len(failures) > 1 {
		reason = "arguments do not match any usage"
	}
	return nil, usage.ArgumentMismatch(d.Name, reason, usageLines...)
}

type setFailure struct {
	reason    string
	badSwitch string
}

// isSwitch reports whether t starts with an unquoted switch prefix. Quotes
// later in the word, as in -mode="a b", do not matter.
func (p *Parser) isSwitch(t token) bool {
	if t.leadQuoted || !strings.HasPrefix(t.text, p.SwitchPrefix) || len(t.text) == len(p.SwitchPrefix) {
		return false
	}
	// Negative numbers are positional.
	return !isNumber(t.text)
}

func (p *Parser) splitSwitch(t token) SwitchValue {
	body := strings.TrimPrefix(t.text, p.SwitchPrefix)
	if name, value, ok := strings.Cut(body, "="); ok {
		return SwitchValue{Name: name, Value: value, HasValue: true}
	}
	return SwitchValue{Name: body}
}

// splitLoose separates switches from positionals without any descriptor.
func (p *Parser) splitLoose(tokens []token) ([]string, Switches) {
	args := []string{}
	var switches Switches
	for _, t := range tokens {
		if p.isSwitch(t) {
			switches = append(switches, p.splitSwitch(t))
			continue
		}
		args = append(args, t.text)
	}
	return args, switches
}

func (p *Parser) match(d *CommandDescriptor, set ArgumentSet, tokens []token) ([]string, Switches, *setFailure) {
	known := make(map[string]SwitchDescriptor, len(set.Switches))
	for _, sw := range set.Switches {
		known[sw.Name] = sw
	}

	args := []string{}
	var switches Switches

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !p.isSwitch(t) {
			args = append(args, t.text)
			continue
		}

		sv := p.splitSwitch(t)
		desc, ok := known[sv.Name]
		if !ok {
			if d.StrictArguments {
				return nil, nil, &setFailure{
					reason:    fmt.Sprintf("unknown switch '%s'", t.text),
					badSwitch: t.text,
				}
			}
			switches = append(switches, sv)
			continue
		}

		if sv.HasValue && !desc.AcceptsValue {
			return nil, nil, &setFailure{reason: fmt.Sprintf("switch '%s' does not accept a value", sv.Name)}
		}
		if !sv.HasValue && desc.AcceptsValue && i+1 < len(tokens) && !p.isSwitch(tokens[i+1]) {
			sv.Value = tokens[i+1].text
			sv.HasValue = true
			i++
		}
		if desc.ValueRequired && !sv.HasValue {
			return nil, nil, &setFailure{reason: fmt.Sprintf("switch '%s' requires a value", sv.Name)}
		}
		if desc.Numeric && sv.HasValue && !isNumber(sv.Value) {
			return nil, nil, &setFailure{reason: fmt.Sprintf("switch '%s' requires a numeric value", sv.Name)}
		}
		switches = append(switches, sv)
	}

	for _, sv := range switches {
		desc, ok := known[sv.Name]
		if !ok {
			continue
		}
		for _, other := range desc.ConflictsWith {
			if switches.Has(other) {
				return nil, nil, &setFailure{reason: fmt.Sprintf("switch '%s' conflicts with '%s'", sv.Name, other)}
			}
		}
	}

	required := 0
	for _, part := range set.Parts {
		if part.Required {
			required++
		}
	}
	for _, sv := range switches {
		if desc, ok := known[sv.Name]; ok && desc.OptionalizeLastRequired > 0 {
			required -= desc.OptionalizeLastRequired
		}
	}
	if required < 0 {
		required = 0
	}

	if len(args) < required {
		missing := "argument"
		if len(args) < len(set.Parts) {
			missing = set.Parts[len(args)].Name
		}
		return nil, nil, &setFailure{reason: fmt.Sprintf("missing required argument '%s'", missing)}
	}
	if d.StrictArguments && len(args) > len(set.Parts) {
		return nil, nil, &setFailure{reason: fmt.Sprintf("too many arguments (at most %d)", len(set.Parts))}
	}

	for i, arg := range args {
		if i >= len(set.Parts) {
			break
		}
		part := set.Parts[i]
		if part.Numeric && !isNumber(arg) {
			return nil, nil, &setFailure{reason: fmt.Sprintf("argument '%s' must be numeric, got '%s'", part.Name, arg)}
		}
		if len(part.Choices) > 0 && !contains(part.Choices, arg) {
			return nil, nil, &setFailure{reason: fmt.Sprintf("argument '%s' must be one of %s, got '%s'",
				part.Name, strings.Join(part.Choices, ", "), arg)}
		}
	}

	return args, switches, nil
}

// splitRedirect removes a trailing unquoted "> path" or ">> path".
func splitRedirect(tokens []token) ([]token, *Redirect) {
	n := len(tokens)
	if n < 2 {
		return tokens, nil
	}
	op := tokens[n-2]
	if op.quoted || (op.text != ">" && op.text != ">>") {
		return tokens, nil
	}
	return tokens[:n-2], &Redirect{Path: tokens[n-1].text, Append: op.text == ">>"}
}

// UsageLine renders one argument set, e.g. "history [limit] [-clear] [-limit=<n>]".
func UsageLine(name string, set ArgumentSet, prefix string) string {
	if prefix == "" {
		prefix = DefaultSwitchPrefix
	}
	parts := []string{name}
	for _, a := range set.Parts {
		label := a.Name
		if len(a.Choices) > 0 {
			label = strings.Join(a.Choices, "|")
		}
		if a.Required {
			parts = append(parts, "<"+label+">")
		} else {
			parts = append(parts, "["+label+"]")
		}
	}
	for _, sw := range set.Switches {
		s := prefix + sw.Name
		if sw.AcceptsValue {
			hint := "value"
			if sw.Numeric {
				hint = "n"
			}
			if sw.ValueRequired {
				s += "=<" + hint + ">"
			} else {
				s += "[=" + hint + "]"
			}
		}
		parts = append(parts, "["+s+"]")
	}
	return strings.Join(parts, " ")
}

func isNumber(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
