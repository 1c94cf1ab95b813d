// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/Aptivi/NitrocidKS-sub040/internal/store/migrations"
)

// NewTestDB returns a migrated history database in the test's temp dir.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "history.db") + "?_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Run(db), "migrate %s", dsn)
	return db
}
