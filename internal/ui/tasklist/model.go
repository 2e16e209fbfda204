package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tarefas/internal/keys"
	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/theme"
)

// SelectedTaskMsg is sent when a user opens a task's detail view.
type SelectedTaskMsg struct {
	TaskID int64
}

// NewTaskMsg asks the parent to open the new-task form.
type NewTaskMsg struct{}

// EditTaskMsg asks the parent to open the edit form for a task.
type EditTaskMsg struct {
	TaskID int64
}

// ToggleTaskMsg asks the parent to flip a task's completion.
type ToggleTaskMsg struct {
	TaskID int64
}

// DeleteTaskMsg asks the parent to delete a task.
type DeleteTaskMsg struct {
	TaskID int64
}

// MoveTaskMsg asks the parent to move a task within the visible list.
type MoveTaskMsg struct {
	TaskID int64
	Delta  int
}

// FilterChangedMsg is sent when the user picks another filter.
type FilterChangedMsg struct {
	Mode model.FilterMode
}

// Model is the main task list view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	filter model.FilterMode
	counts model.Counts
	width  int
	height int
}

// chromeHeight is the space taken by the filter tabs and counters.
const chromeHeight = 2

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TaskDelegate{}, width, max(height-chromeHeight, 1))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		keys:   k,
		filter: model.FilterAll,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetTasks replaces the rows with view (already filtered by mode) and
// keeps the cursor on the task it was on when that task is still shown.
func (m *Model) SetTasks(view []model.Task, mode model.FilterMode, counts model.Counts) tea.Cmd {
	var selected int64
	if cur, ok := m.SelectedTask(); ok {
		selected = cur.ID
	}

	items := make([]list.Item, len(view))
	for i, task := range view {
		items[i] = TaskItem{Task: task}
	}
	m.filter = mode
	m.counts = counts
	cmd := m.list.SetItems(items)
	if selected != 0 {
		m.SelectTask(selected)
	}
	return cmd
}

// SelectTask moves the cursor to the task with id when it is shown.
func (m *Model) SelectTask(id int64) {
	for i, it := range m.list.Items() {
		if ti, ok := it.(TaskItem); ok && ti.Task.ID == id {
			m.list.Select(i)
			return
		}
	}
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	ti, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return ti.Task, true
}

// Filter returns the filter currently shown.
func (m Model) Filter() model.FilterMode { return m.filter }

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := m.handleKeys(msg); handled {
			return m, cmd
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.New):
		return emit(NewTaskMsg{}), true
	case key.Matches(msg, m.keys.FilterAll):
		return emit(FilterChangedMsg{Mode: model.FilterAll}), true
	case key.Matches(msg, m.keys.FilterCompleted):
		return emit(FilterChangedMsg{Mode: model.FilterCompleted}), true
	case key.Matches(msg, m.keys.FilterPending):
		return emit(FilterChangedMsg{Mode: model.FilterPending}), true
	case key.Matches(msg, m.keys.CycleFilter):
		return emit(FilterChangedMsg{Mode: m.filter.Next()}), true
	}

	task, ok := m.SelectedTask()
	if !ok {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		return emit(SelectedTaskMsg{TaskID: task.ID}), true
	case key.Matches(msg, m.keys.Edit):
		return emit(EditTaskMsg{TaskID: task.ID}), true
	case key.Matches(msg, m.keys.Toggle):
		return emit(ToggleTaskMsg{TaskID: task.ID}), true
	case key.Matches(msg, m.keys.Delete):
		return emit(DeleteTaskMsg{TaskID: task.ID}), true
	case key.Matches(msg, m.keys.MoveUp):
		return emit(MoveTaskMsg{TaskID: task.ID, Delta: -1}), true
	case key.Matches(msg, m.keys.MoveDown):
		return emit(MoveTaskMsg{TaskID: task.ID, Delta: 1}), true
	}
	return nil, false
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the filter tabs, counters and the list.
func (m Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTabs(),
		"  ",
		RenderCounts(m.counts),
	)

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(model.FilterModes))
	for i, mode := range model.FilterModes {
		label := fmt.Sprintf("%d %s", i+1, mode.Label())
		if mode == m.filter {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderCounts renders the total/completed/pending summary line.
func RenderCounts(c model.Counts) string {
	parts := []string{
		theme.CounterStyle.Render(fmt.Sprint(c.Total)) + " total",
		theme.StatusStyle(true).Render(fmt.Sprint(c.Completed)) + " completed",
		theme.StatusStyle(false).Render(fmt.Sprint(c.Pending)) + " pending",
	}
	return strings.Join(parts, theme.DimmedStyle.Render(" · "))
}

// renderEmptyState shows guidance text when no tasks are shown.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-chromeHeight, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter != model.FilterAll && m.counts.Total > 0 {
		return style.Render(fmt.Sprintf("No %s tasks.\nPress 1 to show all.", strings.ToLower(m.filter.Label())))
	}
	return style.Render("No tasks yet.\n\nPress n to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-chromeHeight, 1))
}
