package browser

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// panel is the visible slice of one side of the split.
type panel struct {
	lines      []string
	scrollPos  int
	totalItems int
}

// layout splits the screen into a command list and a help pane.
type layout struct {
	width        int
	height       int
	sidebarWidth int
	contentWidth int
	focusSidebar bool
	active       lipgloss.Color
	dim          lipgloss.Color
}

const (
	sidebarPercent  = 0.28
	sidebarMinWidth = 18
	sidebarMaxWidth = 36
	// border(2) + padding(2) + scrollbar(2)
	panelChrome = 6
)

func newLayout(width, height int, active, dim string) layout {
	sidebar := min(max(int(float64(width)*sidebarPercent), sidebarMinWidth), sidebarMaxWidth)
	return layout{
		width:        width,
		height:       height,
		sidebarWidth: sidebar,
		contentWidth: max(width-sidebar, panelChrome+1),
		focusSidebar: true,
		active:       lipgloss.Color(active),
		dim:          lipgloss.Color(dim),
	}
}

func (l layout) visibleHeight() int {
	return max(l.height-2, 1)
}

func (l layout) render(sidebar, content panel) string {
	left := l.buildPanel(sidebar, l.sidebarWidth, l.focusSidebar)
	right := l.buildPanel(content, l.contentWidth, !l.focusSidebar)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (l layout) buildPanel(p panel, width int, focused bool) string {
	contentWidth := max(width-panelChrome, 1)
	visible := l.visibleHeight()

	lines := p.lines
	if len(lines) > visible {
		lines = lines[:visible]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}

	total := p.totalItems
	if total == 0 {
		total = len(p.lines)
	}
	scrollbar := buildScrollbar(visible, total, p.scrollPos, l.active, l.dim, focused)

	rows := make([]string, 0, len(lines))
	for i, line := range lines {
		if w := lipgloss.Width(line); w > contentWidth {
			line = truncate(line, contentWidth)
		} else if w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		rows = append(rows, line+" "+scrollbar[i])
	}

	border := l.dim
	if focused {
		border = l.active
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

func truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for i := len(runes); i > 0; i-- {
		if candidate := string(runes[:i]); lipgloss.Width(candidate) <= maxWidth-3 {
			return candidate + "..."
		}
	}
	return "..."
}
