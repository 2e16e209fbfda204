package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tarefas/internal/keys"
	"github.com/nhle/tarefas/internal/theme"
)

// Model is the help overlay: key bindings followed by the command
// palette entries.
type Model struct {
	keys     *keys.KeyMap
	commands []string
	help     help.Model
	width    int
	height   int
}

// New creates a help view listing the given palette commands.
func New(keys *keys.KeyMap, commands []string, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{
		keys:     keys,
		commands: commands,
		help:     h,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections := []string{
		sectionStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
	}

	if len(m.commands) > 0 {
		sections = append(sections, "", sectionStyle.Render("Commands (press :)"))
		sections = append(sections, m.renderCommands())
	}

	sections = append(sections, "",
		theme.DimmedStyle.Render("Changes are saved as soon as they are made."))

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 10)).
		Height(max(m.height-4, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderCommands() string {
	lines := make([]string, 0, len(m.commands)+1)
	lines = append(lines, theme.HelpStyle.Render("new <title>"))
	for _, c := range m.commands {
		if c == "new" {
			continue
		}
		lines = append(lines, theme.HelpStyle.Render(c))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-4, 0)
}
