// Package uesh parses and runs UESH scripts: one statement per line with
// variables, conditional blocks and loops driven by condition plugins.
package uesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// Kind is the kind of a statement.
type Kind int

const (
	KindCommand Kind = iota
	KindAssign
	KindIf
	KindWhile
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindAssign:
		return "assign"
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	default:
		return "unknown"
	}
}

// Stmt is one statement of a script. Blocks keep their nested statements.
type Stmt struct {
	Kind Kind
	// Line is the 1-based source line.
	Line int
	// Text is the command line, or the condition expression of if/while.
	Text string

	// Name and Value are set for assignments.
	Name  string
	Value string

	// Body is the then-branch of if or the body of while.
	Body []Stmt
	Else []Stmt
	// ElseLine is the line of the else keyword, or zero.
	ElseLine int
}

// Script is a parsed script.
type Script struct {
	Name string
	Body []Stmt
}

var assignPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// ValidName reports whether name can be used as a variable name.
func ValidName(name string) bool {
	return assignPattern.MatchString(name + "=")
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("uesh: open script: %w", err)
	}
	defer f.Close()
	return Parse(path, f)
}

// ParseString parses src as a script called name.
func ParseString(name, src string) (*Script, error) {
	return Parse(name, strings.NewReader(src))
}

type frame struct {
	stmt   Stmt
	inElse bool
}

// Parse reads a script from r. Block structure errors report the line of the
// keyword that could not be matched.
func Parse(name string, r io.Reader) (*Script, error) {
	var (
		root  []Stmt
		stack []*frame
	)

	appendStmt := func(s Stmt) {
		if len(stack) == 0 {
			root = append(root, s)
			return
		}
		top := stack[len(stack)-1]
		if top.inElse {
			top.stmt.Else = append(top.stmt.Else, s)
		} else {
			top.stmt.Body = append(top.stmt.Body, s)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\uFEFF")
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		keyword, rest, _ := strings.Cut(text, " ")
		rest = strings.TrimSpace(rest)

		switch keyword {
		case "if", "while":
			if rest == "" {
				return nil, usage.ScriptSyntax(name, lineNo, keyword+" requires a condition")
			}
			kind := KindIf
			if keyword == "while" {
				kind = KindWhile
			}
			stack = append(stack, &frame{stmt: Stmt{Kind: kind, Line: lineNo, Text: rest}})

		case "else":
			if rest != "" {
				return nil, usage.ScriptSyntax(name, lineNo, "else takes no arguments")
			}
			if len(stack) == 0 || stack[len(stack)-1].stmt.Kind != KindIf {
				return nil, usage.ScriptSyntax(name, lineNo, "else without matching if")
			}
			top := stack[len(stack)-1]
			if top.inElse {
				return nil, usage.ScriptSyntax(name, lineNo, fmt.Sprintf("duplicate else for if on line %d", top.stmt.Line))
			}
			top.inElse = true
			top.stmt.ElseLine = lineNo

		case "endif", "endwhile":
			want := KindIf
			if keyword == "endwhile" {
				want = KindWhile
			}
			if rest != "" {
				return nil, usage.ScriptSyntax(name, lineNo, keyword+" takes no arguments")
			}
			if len(stack) == 0 || stack[len(stack)-1].stmt.Kind != want {
				return nil, usage.ScriptSyntax(name, lineNo, keyword+" without matching "+want.String())
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			appendStmt(top.stmt)

		default:
			if m := assignPattern.FindStringSubmatch(text); m != nil {
				appendStmt(Stmt{Kind: KindAssign, Line: lineNo, Text: text, Name: m[1], Value: m[2]})
				continue
			}
			appendStmt(Stmt{Kind: KindCommand, Line: lineNo, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("uesh: read %s: %w", name, err)
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		closer := "endif"
		if top.stmt.Kind == KindWhile {
			closer = "endwhile"
		}
		return nil, usage.ScriptSyntax(name, top.stmt.Line,
			fmt.Sprintf("%s without matching %s", top.stmt.Kind, closer))
	}

	return &Script{Name: name, Body: root}, nil
}
