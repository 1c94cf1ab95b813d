package browser

import "github.com/charmbracelet/lipgloss"

// thumb locates the scrollbar handle for a window of rows over total
// entries starting at offset. ok is false when everything fits.
func thumb(rows, total, offset int) (start, size int, ok bool) {
	if rows <= 0 || total <= rows {
		return 0, 0, false
	}
	size = max(rows*rows/total, 1)
	size = min(size, max(rows-2, 1))

	travel := rows - size
	start = offset * travel / (total - rows)
	return min(max(start, 0), travel), size, true
}

// buildScrollbar renders one cell per visible row. The handle takes the
// active color only while the pane has focus.
func buildScrollbar(rows, total, offset int, active, dim lipgloss.Color, focused bool) []string {
	cells := make([]string, rows)
	start, size, ok := thumb(rows, total, offset)
	if !ok {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}

	handle := lipgloss.NewStyle().Foreground(dim)
	if focused {
		handle = handle.Foreground(active)
	}
	track := lipgloss.NewStyle().Foreground(dim).Render("│")
	bar := handle.Render("█")

	for i := range cells {
		if i >= start && i < start+size {
			cells[i] = bar
			continue
		}
		cells[i] = track
	}
	return cells
}
