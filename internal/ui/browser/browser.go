// Package browser implements the full-screen command help browser.
package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

// Entry is one browsable command.
type Entry struct {
	Name    string
	Summary string
	Help    string
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Focus    key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
	Focus:    key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "switch pane")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model of the browser.
type Model struct {
	title    string
	entries  []Entry
	selected int
	listTop  int
	helpTop  int
	layout   layout
	ready    bool
}

// New creates a browser over entries.
func New(title string, entries []Entry) Model {
	return Model{title: title, entries: entries}
}

// Selected returns the highlighted entry index.
func (m Model) Selected() int {
	return m.selected
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		colors := style.Colors()
		active, dim := colors.Accent, colors.Muted
		if active == "" {
			active, dim = "12", "245"
		}
		focus := m.layout.focusSidebar || !m.ready
		m.layout = newLayout(msg.Width, msg.Height-2, active, dim)
		m.layout.focusSidebar = focus
		m.ready = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Focus):
			m.layout.focusSidebar = !m.layout.focusSidebar
		case key.Matches(msg, keys.Up):
			m.move(-1)
		case key.Matches(msg, keys.Down):
			m.move(1)
		case key.Matches(msg, keys.PageUp):
			m.move(-m.layout.visibleHeight())
		case key.Matches(msg, keys.PageDown):
			m.move(m.layout.visibleHeight())
		}
	}
	return m, nil
}

func (m *Model) move(delta int) {
	if m.layout.focusSidebar {
		if len(m.entries) == 0 {
			return
		}
		m.selected = min(max(m.selected+delta, 0), len(m.entries)-1)
		m.helpTop = 0

		visible := m.layout.visibleHeight()
		if m.selected < m.listTop {
			m.listTop = m.selected
		} else if m.selected >= m.listTop+visible {
			m.listTop = m.selected - visible + 1
		}
		return
	}

	lines := m.helpLines()
	maxTop := max(len(lines)-m.layout.visibleHeight(), 0)
	m.helpTop = min(max(m.helpTop+delta, 0), maxTop)
}

func (m Model) helpLines() []string {
	if len(m.entries) == 0 {
		return []string{"No commands."}
	}
	return strings.Split(strings.TrimRight(m.entries[m.selected].Help, "\n"), "\n")
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}

	visible := m.layout.visibleHeight()

	var names []string
	for i := m.listTop; i < len(m.entries) && i < m.listTop+visible; i++ {
		name := "  " + m.entries[i].Name
		if i == m.selected {
			name = style.Accent("> " + m.entries[i].Name)
		}
		names = append(names, name)
	}

	help := m.helpLines()
	end := min(m.helpTop+visible, len(help))

	header := style.Header(m.title)
	if len(m.entries) > 0 {
		header += "  " + style.Muted(m.entries[m.selected].Summary)
	}

	footer := style.Muted(fmt.Sprintf("%s  %s  %s  %s",
		keys.Up.Help().Key+"/"+keys.Down.Help().Key+" move",
		keys.Focus.Help().Key+" "+keys.Focus.Help().Desc,
		keys.PageDown.Help().Key+" scroll",
		keys.Quit.Help().Key+" "+keys.Quit.Help().Desc,
	))

	body := m.layout.render(
		panel{lines: names, scrollPos: m.listTop, totalItems: len(m.entries)},
		panel{lines: help[m.helpTop:end], scrollPos: m.helpTop, totalItems: len(help)},
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Run shows the browser full-screen until the user quits.
func Run(title string, entries []Entry, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(title, entries), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
