package migrations

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAll_Ordered(t *testing.T) {
	all, err := All()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)
	require.Equal(t, "command_history", all[0].Name)
	for i := 1; i < len(all); i++ {
		require.Greater(t, all[i].Version, all[i-1].Version)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "bad name",
			files: fstest.MapFS{"sql/history.sql": {Data: []byte("SELECT 1;")}},
			want:  "want NN_name.sql",
		},
		{
			name:  "version zero",
			files: fstest.MapFS{"sql/00_init.sql": {Data: []byte("SELECT 1;")}},
			want:  "versions start at 1",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"sql/01_a.sql": {Data: []byte("SELECT 1;")},
				"sql/1_b.sql":  {Data: []byte("SELECT 1;")},
			},
			want: "version 1 used by",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.files, "sql")
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemory(t)
	all, err := All()
	require.NoError(t, err)

	pending, err := Pending(db)
	require.NoError(t, err)
	require.Len(t, pending, len(all))

	require.NoError(t, Run(db))
	v, err := Version(db)
	require.NoError(t, err)
	require.Equal(t, all[len(all)-1].Version, v)

	require.NoError(t, Run(db))
	pending, err = Pending(db)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestRun_CreatesSchema(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Run(db))

	for _, obj := range []struct{ kind, name string }{
		{"table", "command_history"},
		{"index", "idx_command_history_mode"},
	} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = ? AND name = ?", obj.kind, obj.name).Scan(&name)
		require.NoError(t, err, "%s %s", obj.kind, obj.name)
	}
}

func TestStep_RollsBackFailure(t *testing.T) {
	db := openMemory(t)

	err := step(db, Migration{Version: 7, Name: "broken", SQL: "CREATE TABLE t (a int); NOT SQL"})
	require.Error(t, err)

	v, err := Version(db)
	require.NoError(t, err)
	require.Zero(t, v)

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM sqlite_master WHERE name = 't'").Scan(&n))
	require.Zero(t, n)
}
