package httpshell

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/format"
)

func (t shellType) commands() []*dispatchers.CommandDescriptor {
	path := dispatchers.Optional("path", "Path relative to the base URL")
	return []*dispatchers.CommandDescriptor{
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "get",
			Summary:  "Fetches a page and keeps it for select",
			Category: dispatchers.CategoryNetwork,
			Args:     []dispatchers.ArgumentPart{path},
			Switches: []dispatchers.SwitchDescriptor{
				dispatchers.Flag("body", "Print the response body"),
			},
			Strict:       true,
			Redirectable: true,
			Wrappable:    true,
			Action:       t.get,
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "head",
			Summary:      "Shows the response headers of a path",
			Category:     dispatchers.CategoryNetwork,
			Args:         []dispatchers.ArgumentPart{path},
			Strict:       true,
			Redirectable: true,
			Action:       t.head,
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "select",
			Summary:  "Prints the elements of the last page matching a CSS selector",
			Category: dispatchers.CategoryNetwork,
			Args:     []dispatchers.ArgumentPart{dispatchers.Required("selector", "CSS selector")},
			Switches: []dispatchers.SwitchDescriptor{
				dispatchers.ValueSwitch("attr", "Print this attribute instead of the text", false),
				dispatchers.Flag("count", "Print only the number of matches"),
			},
			// No redirection: ">" is the CSS child combinator.
			Wrappable: true,
			Action:    t.selectNodes,
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "base",
			Summary:  "Shows the base URL of the session",
			Category: dispatchers.CategoryNetwork,
			Strict:   true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				s, err := sessionOf(inv)
				if err != nil {
					return dispatchers.CodeFailure, err
				}
				fmt.Fprintln(inv.Stdout, s.Base.Redacted())
				return dispatchers.CodeSuccess, nil
			},
		}),
	}
}

func (t shellType) get(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	s, err := sessionOf(inv)
	if err != nil {
		return dispatchers.CodeFailure, err
	}

	p, err := s.Get(ctx, inv.Arg(0))
	if err != nil {
		return dispatchers.CodeFailure, fmt.Errorf("get: %w", err)
	}

	if inv.Switches().Has("body") {
		fmt.Fprintln(inv.Stdout, strings.TrimRight(string(p.Body), "\n"))
	} else {
		fmt.Fprintf(inv.Stdout, "%s  %s  %s\n", t.status(p.Status), p.ContentType, t.styler.Muted(format.Bytes(p.Size)))
	}

	if !strings.HasPrefix(p.Status, "2") {
		return dispatchers.CodeFailure, nil
	}
	return dispatchers.CodeSuccess, nil
}

func (t shellType) head(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	s, err := sessionOf(inv)
	if err != nil {
		return dispatchers.CodeFailure, err
	}

	resp, err := s.Head(ctx, inv.Arg(0))
	if err != nil {
		return dispatchers.CodeFailure, fmt.Errorf("head: %w", err)
	}

	fmt.Fprintln(inv.Stdout, t.status(resp.Status))
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(inv.Stdout, "%s: %s\n", t.styler.Muted(name), strings.Join(resp.Header.Values(name), ", "))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return dispatchers.CodeFailure, nil
	}
	return dispatchers.CodeSuccess, nil
}

func (t shellType) selectNodes(_ context.Context, inv *dispatchers.Invocation) (int, error) {
	s, err := sessionOf(inv)
	if err != nil {
		return dispatchers.CodeFailure, err
	}
	if s.Last == nil {
		return dispatchers.CodeFailure, ErrNoPage
	}

	doc, err := s.Last.Document()
	if err != nil {
		return dispatchers.CodeFailure, fmt.Errorf("select: parse %s: %w", s.Last.URL, err)
	}

	sel := doc.Find(strings.Join(inv.Args(), " "))
	if inv.Switches().Has("count") {
		fmt.Fprintln(inv.Stdout, sel.Length())
		return dispatchers.CodeSuccess, nil
	}

	attr := inv.Switches().String("attr", "")
	sel.Each(func(_ int, node *goquery.Selection) {
		if attr != "" {
			if v, ok := node.Attr(attr); ok {
				fmt.Fprintln(inv.Stdout, v)
			}
			return
		}
		fmt.Fprintln(inv.Stdout, strings.Join(strings.Fields(node.Text()), " "))
	})
	return dispatchers.CodeSuccess, nil
}

func (t shellType) status(status string) string {
	if strings.HasPrefix(status, "2") || strings.HasPrefix(status, "3") {
		return t.styler.Success(status)
	}
	return t.styler.Error(status)
}
