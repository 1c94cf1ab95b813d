package sqlshell

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/format"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

const nullText = "NULL"

func commands(st domain.Styler) []*dispatchers.CommandDescriptor {
	stmt := []dispatchers.ArgumentPart{dispatchers.Required("statement", "SQL statement")}
	return []*dispatchers.CommandDescriptor{
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "query",
			Summary:      "Runs a statement and prints the rows it returns",
			Category:     dispatchers.CategoryDatabase,
			Args:         stmt,
			Redirectable: true,
			Wrappable:    true,
			Handler:      queryHandler{styler: st},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "exec",
			Summary:  "Runs a statement that returns no rows",
			Category: dispatchers.CategoryDatabase,
			Args:     stmt,
			Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
				return execStatement(ctx, inv, st)
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "tables",
			Summary:      "Lists the tables of the database",
			Category:     dispatchers.CategoryDatabase,
			Strict:       true,
			Redirectable: true,
			Action:       listTables,
		}),
	}
}

// result is a fully read row set.
type result struct {
	columns []string
	rows    [][]string
}

func query(ctx context.Context, db *sql.DB, stmt string, args ...any) (*result, error) {
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &result{columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = cell(v)
		}
		res.rows = append(res.rows, row)
	}
	return res, rows.Err()
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return nullText
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

type queryHandler struct {
	styler domain.Styler
}

func (h queryHandler) Execute(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	res, code, err := h.run(ctx, inv)
	if err != nil {
		return code, err
	}

	fmt.Fprintln(inv.Stdout, style.Table(res.columns, res.rows))
	fmt.Fprintln(inv.Stdout, h.styler.Muted(rowCount(len(res.rows))))
	return dispatchers.CodeSuccess, nil
}

// ExecuteDumb prints tab-separated rows under a header line.
func (h queryHandler) ExecuteDumb(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	res, code, err := h.run(ctx, inv)
	if err != nil {
		return code, err
	}

	fmt.Fprintln(inv.Stdout, strings.Join(res.columns, "\t"))
	for _, row := range res.rows {
		fmt.Fprintln(inv.Stdout, strings.Join(row, "\t"))
	}
	return dispatchers.CodeSuccess, nil
}

func (h queryHandler) run(ctx context.Context, inv *dispatchers.Invocation) (*result, int, error) {
	s, err := sessionOf(inv)
	if err != nil {
		return nil, dispatchers.CodeFailure, err
	}
	res, err := query(ctx, s.DB, inv.Parsed.Raw)
	if err != nil {
		return nil, dispatchers.CodeFailure, fmt.Errorf("query: %w", err)
	}
	return res, dispatchers.CodeSuccess, nil
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return format.Count(int64(n)) + " rows"
}

func execStatement(ctx context.Context, inv *dispatchers.Invocation, st domain.Styler) (int, error) {
	s, err := sessionOf(inv)
	if err != nil {
		return dispatchers.CodeFailure, err
	}

	r, err := s.DB.ExecContext(ctx, inv.Parsed.Raw)
	if err != nil {
		return dispatchers.CodeFailure, fmt.Errorf("exec: %w", err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		fmt.Fprintln(inv.Stdout, st.Success("OK"))
		return dispatchers.CodeSuccess, nil
	}
	fmt.Fprintf(inv.Stdout, "%s, %s affected\n", st.Success("OK"), rowCount(int(n)))
	return dispatchers.CodeSuccess, nil
}

func listTables(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
	s, err := sessionOf(inv)
	if err != nil {
		return dispatchers.CodeFailure, err
	}

	stmt := "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	if s.Driver == "mysql" {
		stmt = "SHOW TABLES"
	}
	res, err := query(ctx, s.DB, stmt)
	if err != nil {
		return dispatchers.CodeFailure, fmt.Errorf("tables: %w", err)
	}
	for _, row := range res.rows {
		fmt.Fprintln(inv.Stdout, row[0])
	}
	return dispatchers.CodeSuccess, nil
}
