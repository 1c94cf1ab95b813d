// Package httpshell implements the HTTP sub-shell opened by "http <baseurl>".
package httpshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

// Mode is the shell mode of the HTTP sub-shell.
const Mode = "HTTP"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a response body is kept for select.
const maxBody = 8 << 20

var (
	// ErrNoSession is returned when an HTTP command runs outside an HTTP context.
	ErrNoSession = errors.New("http: no open session")
	// ErrNoPage is returned by select before any page was fetched.
	ErrNoPage = errors.New("http: no page fetched yet, use get first")
)

// Session is the state of one HTTP context.
type Session struct {
	Base   *url.URL
	Client *http.Client
	Last   *Page
}

// Page is the last response fetched with get.
type Page struct {
	URL         string
	Status      string
	ContentType string
	Size        int64
	Body        []byte
}

// Document parses the page as HTML.
func (p *Page) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
}

type shellType struct {
	client *http.Client
	styler domain.Styler
}

// Type returns the HTTP shell type. A nil client uses one with DefaultTimeout.
func Type(st domain.Styler, client *http.Client) shell.Type {
	if st == nil {
		st = style.NopStyler{}
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	t := shellType{client: client, styler: st}
	return shell.Type{
		Mode:     Mode,
		Summary:  "Sends requests to a web server",
		Sub:      true,
		Init:     t.open,
		Commands: t.commands(),
	}
}

// Command returns the main-shell command that opens the HTTP sub-shell.
func Command() *dispatchers.CommandDescriptor {
	return dispatchers.Command(dispatchers.CommandSpec{
		Name:     "http",
		Summary:  "Opens the HTTP shell on a base URL",
		Category: dispatchers.CategoryNetwork,
		Args:     []dispatchers.ArgumentPart{dispatchers.Required("baseurl", "Base URL, e.g. https://example.com/")},
		Strict:   true,
		Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
			if err := inv.Shell.Push(ctx, Mode, inv.Args()); err != nil {
				return dispatchers.CodeFailure, err
			}
			return dispatchers.CodeSuccess, nil
		},
	})
}

func (t shellType) open(_ context.Context, sc *shell.Context) error {
	args := sc.Args()
	if len(args) != 1 {
		return fmt.Errorf("http: expected a base URL, got %d arguments", len(args))
	}

	base, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("http: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return fmt.Errorf("http: unsupported scheme %q", base.Scheme)
	}
	if base.Host == "" {
		return fmt.Errorf("http: base URL %q has no host", args[0])
	}

	sc.SetSession(&Session{Base: base, Client: t.client})
	log.Info("http: session on %s in context %s", base.Redacted(), sc.ID())
	return nil
}

// Resolve returns ref relative to the base URL of the session.
func (s *Session) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("http: invalid path %q: %w", ref, err)
	}
	return s.Base.ResolveReference(u), nil
}

func (s *Session) do(ctx context.Context, method, ref string) (*http.Response, error) {
	u, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Nitrocid-KS")
	log.Debug("http: %s %s", method, u.Redacted())
	return s.Client.Do(req)
}

// Get fetches ref and keeps it as the last page.
func (s *Session) Get(ctx context.Context, ref string) (*Page, error) {
	resp, err := s.do(ctx, http.MethodGet, ref)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	p := &Page{
		URL:         resp.Request.URL.String(),
		Status:      resp.Status,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        int64(len(body)),
		Body:        body,
	}
	s.Last = p
	return p, nil
}

// Head sends a HEAD request for ref.
func (s *Session) Head(ctx context.Context, ref string) (*http.Response, error) {
	resp, err := s.do(ctx, http.MethodHead, ref)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	return resp, nil
}

type sessionHolder interface {
	Session() any
}

func sessionOf(inv *dispatchers.Invocation) (*Session, error) {
	h, ok := inv.Shell.(sessionHolder)
	if !ok {
		return nil, ErrNoSession
	}
	s, ok := h.Session().(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}
