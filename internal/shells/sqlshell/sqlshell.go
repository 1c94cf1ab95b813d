// Package sqlshell implements the SQL sub-shell: a database/sql connection
// opened by "sql <driver> <dsn>" and the commands that query it.
package sqlshell

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

// Mode is the shell mode of the SQL sub-shell.
const Mode = "SQL"

// Drivers are the database/sql drivers the sub-shell accepts.
var Drivers = []string{"sqlite3", "mysql"}

// Session is the connection owned by one SQL context.
type Session struct {
	Driver string
	DB     *sql.DB
}

// ErrNoSession is returned when a SQL command runs outside a SQL context.
var ErrNoSession = errors.New("sql: no open connection")

// Type returns the SQL shell type.
func Type(st domain.Styler) shell.Type {
	if st == nil {
		st = style.NopStyler{}
	}
	return shell.Type{
		Mode:     Mode,
		Summary:  "Runs statements against a database",
		Sub:      true,
		Init:     open,
		Teardown: closeSession,
		Commands: commands(st),
	}
}

// Command returns the main-shell command that opens the SQL sub-shell.
func Command() *dispatchers.CommandDescriptor {
	return dispatchers.Command(dispatchers.CommandSpec{
		Name:     "sql",
		Summary:  "Opens the SQL shell on a database",
		Category: dispatchers.CategoryDatabase,
		Args: []dispatchers.ArgumentPart{
			dispatchers.Choice("driver", "Database driver", true, Drivers...),
			dispatchers.Required("dsn", "Data source name, e.g. a SQLite file path"),
		},
		Strict: true,
		Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
			if err := inv.Shell.Push(ctx, Mode, inv.Args()); err != nil {
				return dispatchers.CodeFailure, err
			}
			return dispatchers.CodeSuccess, nil
		},
	})
}

func open(ctx context.Context, sc *shell.Context) error {
	args := sc.Args()
	if len(args) != 2 {
		return fmt.Errorf("sql: expected driver and dsn, got %d arguments", len(args))
	}
	driver, dsn := args[0], args[1]

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("sql: open %s: %w", driver, err)
	}
	if driver == "sqlite3" && dsn == ":memory:" {
		// Each pooled connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("sql: connect %s: %w", driver, err)
	}

	sc.SetSession(&Session{Driver: driver, DB: db})
	log.Info("sql: connected with %s in context %s", driver, sc.ID())
	return nil
}

func closeSession(sc *shell.Context) error {
	s, ok := sc.Session().(*Session)
	if !ok || s == nil {
		return nil
	}
	sc.SetSession(nil)
	return s.DB.Close()
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
