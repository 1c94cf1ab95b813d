package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
)

const historyColumns = "id, shell_id, mode, line, code, created_at"

// Record appends entry. A zero CreatedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, entry domain.HistoryEntry) error {
	at := entry.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	const q = `INSERT INTO command_history (shell_id, mode, line, code, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, entry.ShellID, entry.Mode, entry.Line, entry.Code, at.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("store: record: %w", err)
	}
	return nil
}

// List returns the entries matching filter, oldest first. A limit keeps the
// newest entries.
func (s *Store) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	var (
		q    strings.Builder
		args []any
	)
	q.WriteString("SELECT " + historyColumns + " FROM command_history")
	if filter.Mode != "" {
		q.WriteString(" WHERE mode = ?")
		args = append(args, filter.Mode)
	}
	q.WriteString(" ORDER BY id DESC")
	if filter.Limit > 0 {
		q.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var newestFirst []domain.HistoryEntry
	for rows.Next() {
		var (
			e       domain.HistoryEntry
			stamped string
		)
		if err := rows.Scan(&e.ID, &e.ShellID, &e.Mode, &e.Line, &e.Code, &stamped); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, stamped); err != nil {
			return nil, fmt.Errorf("store: entry %d: %w", e.ID, err)
		}
		newestFirst = append(newestFirst, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}
	return newestFirst, nil
}

// Trim deletes all but the newest keep entries. keep <= 0 disables trimming.
func (s *Store) Trim(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	const q = `DELETE FROM command_history WHERE id <= (
		SELECT id FROM command_history ORDER BY id DESC LIMIT 1 OFFSET ?)`
	n, err := affected(s.db.ExecContext(ctx, q, keep))
	if err != nil {
		return 0, fmt.Errorf("store: trim: %w", err)
	}
	if n > 0 {
		log.Debug("store: trimmed %d history entries", n)
	}
	return n, nil
}

// Clear empties the history.
func (s *Store) Clear(ctx context.Context) error {
	n, err := affected(s.db.ExecContext(ctx, "DELETE FROM command_history"))
	if err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	log.Info("store: cleared %d history entries", n)
	return nil
}

// Count reports how many entries are stored.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM command_history").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
