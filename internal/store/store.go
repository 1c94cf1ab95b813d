// Package store keeps the command history in a SQLite file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/store/migrations"
)

const memoryPath = ":memory:"

// Store is the SQLite-backed domain.HistoryStore.
type Store struct {
	db *sql.DB
}

var _ domain.HistoryStore = (*Store)(nil)

// New opens (creating if needed) the history database at path and brings
// its schema up to date.
func New(path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if path == memoryPath {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	fail := func(step string, err error) (*Store, error) {
		return nil, errors.Join(fmt.Errorf("store: %s %s: %w", step, path, err), db.Close())
	}
	if err := db.Ping(); err != nil {
		return fail("ping", err)
	}
	if err := migrations.Run(db); err != nil {
		return fail("migrate", err)
	}
	restrict(path)

	log.Debug("store: history database ready at %s", path)
	return &Store{db: db}, nil
}

// NewWithDB wraps a connection whose schema is already migrated.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// dsn turns a file path into a go-sqlite3 URI carrying the connection
// pragmas, so pooled connections all get them.
func dsn(path string) string {
	if path == memoryPath {
		return path
	}
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "5000")
	q.Set("_foreign_keys", "on")
	return "file:" + path + "?" + q.Encode()
}

// restrict makes the database and its WAL side files owner-only.
func restrict(path string) {
	if path == memoryPath {
		return
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Chmod(path+suffix, 0o600); err != nil && !os.IsNotExist(err) {
			log.Warn("store: chmod %s: %v", path+suffix, err)
		}
	}
}
