package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tarefas/internal/keys"
	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/persistence"
	"github.com/nhle/tarefas/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Action names carried by ActionMsg.
const (
	ActionToggle = "toggle"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// ActionMsg signals the parent to execute an action on the current task.
type ActionMsg struct {
	Action string
	TaskID int64
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	position int
	total    int
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(max(width-8, 1), max(height-4, 1))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Toggle):
			return m, m.action(ActionToggle)

		case key.Matches(msg, m.keys.Edit):
			return m, m.action(ActionEdit)

		case key.Matches(msg, m.keys.Delete):
			return m, m.action(ActionDelete)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	if m.task == nil {
		return nil
	}
	id := m.task.ID
	return func() tea.Msg { return ActionMsg{Action: name, TaskID: id} }
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 10)).
		Render(m.viewport.View())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))
	sections = append(sections, theme.StatusStyle(task.Completed).Render(task.Status()))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-10s", label+":")), valStyle.Render(value))
	}

	sections = append(sections, row("ID", fmt.Sprint(task.ID)))
	if !task.CreatedAt.IsZero() {
		sections = append(sections, row("Created", task.CreatedAt.Local().Format("2006-01-02 15:04")))
		sections = append(sections, row("Stored", persistence.FormatTime(task.CreatedAt)))
	}
	if m.total > 0 {
		sections = append(sections, row("Position", fmt.Sprintf("%d of %d", m.position+1, m.total)))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	sections = append(sections, "")
	sections = append(sections, sepStyle.Render(strings.Repeat("─", max(min(m.width-8, 80), 1))))
	sections = append(sections, theme.HelpStyle.Render("x toggle · e edit · d delete · esc back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed. position is its index in the
// full list of total tasks.
func (m *Model) SetTask(task model.Task, position, total int) {
	m.task = &task
	m.position = position
	m.total = total
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Clear drops the displayed task.
func (m *Model) Clear() {
	m.task = nil
	m.viewport.SetContent("")
}

// TaskID returns the displayed task's id, or zero.
func (m Model) TaskID() int64 {
	if m.task == nil {
		return 0
	}
	return m.task.ID
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-8, 1)
	m.viewport.Height = max(height-4, 1)
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
