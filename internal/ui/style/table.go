package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under headers with a rounded border. Headers use the
// header role when styling is enabled.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)

	mu.RLock()
	if enabled {
		header := styles[roleHeader]
		muted := styles[roleMuted]
		t = t.BorderStyle(muted).StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		})
	}
	mu.RUnlock()

	return t.Render()
}
