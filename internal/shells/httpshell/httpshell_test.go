package httpshell

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
)

const page = `<html><head><title>Kernel</title></head><body>
<ul class="nav">
  <li><a href="/docs">Docs</a></li>
  <li><a href="/about">About
    us</a></li>
</ul>
</body></html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "/site/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Kernel", "nitrocid")
		fmt.Fprint(w, page)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	stack *shell.Stack
	main  *shell.Context
	out   *bytes.Buffer
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	f := &fixture{out: &bytes.Buffer{}}
	f.stack = shell.NewStack(dispatchers.NewExecutor(dispatchers.NewRegistry()),
		shell.WithIO(strings.NewReader(input), f.out, &bytes.Buffer{}, false))

	require.NoError(t, f.stack.RegisterType(shell.Type{
		Mode:     shell.MainMode,
		Commands: []*dispatchers.CommandDescriptor{Command()},
	}))
	require.NoError(t, f.stack.RegisterType(Type(nil, nil)))

	sc, err := f.stack.Open(context.Background(), shell.MainMode, nil)
	require.NoError(t, err)
	f.main = sc
	t.Cleanup(func() { f.stack.Close(sc) })
	return f
}

func (f *fixture) open(t *testing.T, base string) *shell.Context {
	t.Helper()
	sc, err := f.stack.Open(context.Background(), Mode, []string{base})
	require.NoError(t, err)
	t.Cleanup(func() {
		if f.stack.Current() == sc {
			f.stack.Close(sc)
		}
	})
	return sc
}

func (f *fixture) run(sc *shell.Context, line string) dispatchers.Result {
	return f.stack.RunLine(context.Background(), sc, line)
}

func TestGetAndSelect(t *testing.T) {
	srv := newServer(t)
	f := newFixture(t, "")
	sc := f.open(t, srv.URL+"/site/")

	res := f.run(sc, "get")
	require.True(t, res.OK(), "%v", res.Err)
	require.Contains(t, f.out.String(), "200 OK")
	require.Contains(t, f.out.String(), "text/html")

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "text", line: "select ul.nav a", want: "Docs\nAbout us\n"},
		{name: "attribute", line: "select ul.nav a -attr href", want: "/docs\n/about\n"},
		{name: "count", line: "select li -count", want: "2\n"},
		{name: "descendant selector", line: "select head title", want: "Kernel\n"},
		{name: "no match", line: "select table", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.out.Reset()
			res := f.run(sc, tt.line)
			require.True(t, res.OK(), "%v", res.Err)
			require.Equal(t, tt.want, f.out.String())
		})
	}
}

func TestGet_Body(t *testing.T) {
	srv := newServer(t)
	f := newFixture(t, "")
	sc := f.open(t, srv.URL)

	require.True(t, f.run(sc, "get / -body").OK())
	require.Contains(t, f.out.String(), `<ul class="nav">`)
}

func TestGet_NotFound(t *testing.T) {
	srv := newServer(t)
	f := newFixture(t, "")
	sc := f.open(t, srv.URL)

	res := f.run(sc, "get /nowhere")
	require.Equal(t, dispatchers.CodeFailure, res.Code)
	require.Contains(t, f.out.String(), "404")
}

func TestSelect_BeforeGet(t *testing.T) {
	srv := newServer(t)
	f := newFixture(t, "")
	sc := f.open(t, srv.URL)

	res := f.run(sc, "select a")
	require.Equal(t, dispatchers.CodeFailure, res.Code)
	require.ErrorIs(t, res.Err, ErrNoPage)
}

func TestHead(t *testing.T) {
	srv := newServer(t)
	f := newFixture(t, "")
	sc := f.open(t, srv.URL)

	require.True(t, f.run(sc, "head /").OK())
	require.Contains(t, f.out.String(), "X-Kernel: nitrocid")
}

func TestBase(t *testing.T) {
	f := newFixture(t, "")
	sc := f.open(t, "https://example.com/api/")

	require.True(t, f.run(sc, "base").OK())
	require.Equal(t, "https://example.com/api/\n", f.out.String())
}

func TestOpen_InvalidBase(t *testing.T) {
	tests := []struct {
		name string
		base string
	}{
		{name: "no scheme", base: "example.com"},
		{name: "ftp scheme", base: "ftp://example.com"},
		{name: "no host", base: "http://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			_, err := f.stack.Open(context.Background(), Mode, []string{tt.base})
			require.Error(t, err)
			require.Equal(t, 1, f.stack.Depth())
		})
	}
}

func TestHTTPCommand_PushesAndServes(t *testing.T) {
	srv := newServer(t)
	f := newFixture(t, "get\nselect title\nexit\n")

	res := f.run(f.main, "http "+srv.URL)
	require.True(t, res.OK(), "%v", res.Err)
	require.Contains(t, f.out.String(), "Kernel\n")
	require.Equal(t, 1, f.stack.Depth())
}
