// Package migrations applies the embedded history schema. The applied
// version is kept in SQLite's user_version pragma.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migration is one numbered schema change.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

var filePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.sql$`)

// All returns the embedded migrations in version order.
func All() ([]Migration, error) {
	return load(sqlFiles, "sql")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}

	byVersion := make(map[int]Migration, len(names))
	for _, name := range names {
		m := filePattern.FindStringSubmatch(path.Base(name))
		if m == nil {
			return nil, fmt.Errorf("migrations: %s: want NN_name.sql", name)
		}
		version, _ := strconv.Atoi(m[1])
		if version == 0 {
			return nil, fmt.Errorf("migrations: %s: versions start at 1", name)
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migrations: version %d used by %s and %s", version, prev.Name, m[2])
		}

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		byVersion[version] = Migration{Version: version, Name: m[2], SQL: string(body)}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Version returns the last applied migration, 0 for a fresh database.
func Version(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("migrations: read version: %w", err)
	}
	return v, nil
}

// Pending returns the migrations newer than the database.
func Pending(db *sql.DB) ([]Migration, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}
	current, err := Version(db)
	if err != nil {
		return nil, err
	}

	i := sort.Search(len(all), func(i int) bool { return all[i].Version > current })
	return all[i:], nil
}

// Run applies every pending migration, each in its own transaction.
func Run(db *sql.DB) error {
	pending, err := Pending(db)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := step(db, m); err != nil {
			return fmt.Errorf("migrations: %02d_%s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

func step(db *sql.DB, m Migration) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return err
	}
	return tx.Commit()
}
