package taskform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/theme"
)

// TaskCreatedMsg is dispatched when the new-task form is submitted.
type TaskCreatedMsg struct {
	Title string
}

// TaskUpdatedMsg is dispatched when the edit form is submitted.
type TaskUpdatedMsg struct {
	TaskID int64
	Title  string
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   int64
	minLen   int
	width    int
	height   int
}

// New creates a new task form. minLen is the shortest title accepted
// when creating a task.
func New(minLen, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		minLen: max(minLen, 1),
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.fb.title = ""
	m.form = m.buildForm("What needs to be done?", m.minLen)
	return m.form.Init()
}

// StartEdit initializes the form for renaming task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.form = m.buildForm("New title", 1)
	return m.form.Init()
}

// MinLength returns the shortest title accepted for a new task.
func (m Model) MinLength() int { return m.minLen }

// Active reports whether a form is open.
func (m Model) Active() bool { return m.form != nil }

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return FormCancelMsg{} }
	}
	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm(placeholder string, minLen int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Placeholder(placeholder).
				CharLimit(200).
				Value(&m.fb.title).
				Validate(validateTitle(minLen)),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

func (m Model) handleSubmit() tea.Cmd {
	title, err := model.ValidateTitle(m.fb.title, 1)
	if err != nil {
		return func() tea.Msg { return FormCancelMsg{} }
	}
	if m.editMode {
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{TaskID: id, Title: title} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Title: title} }
}

func (m Model) formWidth() int {
	return max(40, min(m.width-4, 100))
}

// validateTitle returns the huh validator shown under the input.
func validateTitle(minLen int) func(string) error {
	return func(s string) error {
		_, err := model.ValidateTitle(s, minLen)
		return err
	}
}
