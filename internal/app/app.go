package app

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/tarefas/internal/keys"
	"github.com/nhle/tarefas/internal/taskstore"
	"github.com/nhle/tarefas/internal/theme"
	"github.com/nhle/tarefas/internal/toast"
	"github.com/nhle/tarefas/internal/ui"
	"github.com/nhle/tarefas/internal/ui/command"
	"github.com/nhle/tarefas/internal/ui/detail"
	helpview "github.com/nhle/tarefas/internal/ui/help"
	"github.com/nhle/tarefas/internal/ui/taskform"
	"github.com/nhle/tarefas/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewTaskCreate
	ViewTaskEdit
)

// Options carries the collaborators the root model drives.
type Options struct {
	Store  *taskstore.Store
	Toasts *toast.Queue
	Theme  *theme.Manager
	Logger *log.Logger

	// MinTitleLength is enforced by the new-task form.
	MinTitleLength int
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and the task store.
type Model struct {
	ctx          context.Context
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *taskstore.Store
	toasts       *toast.Queue
	theme        *theme.Manager
	logger       *log.Logger
	keys         *keys.KeyMap
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	form         taskform.Model
	ready        bool
}

// New creates the root application model. The store must already be
// loaded.
func New(ctx context.Context, opts Options) Model {
	km := keys.DefaultKeyMap()
	if opts.Toasts == nil {
		opts.Toasts = toast.NewQueue(toast.DefaultDuration)
	}
	if opts.Theme == nil {
		opts.Theme = theme.NewManager(nil, theme.ModeSystem, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}

	m := Model{
		ctx:         ctx,
		currentView: ViewList,
		store:       opts.Store,
		toasts:      opts.Toasts,
		theme:       opts.Theme,
		logger:      opts.Logger,
		keys:        km,
		taskList:    tasklist.New(km, 80, 24),
		detail:      detail.New(km, 80, 24),
		helpView:    helpview.New(km, command.Commands, 80, 24),
		commandView: command.New(80, 24),
		form:        taskform.New(opts.MinTitleLength, 80, 24),
	}
	m.taskList.SetTasks(m.store.View(), m.store.Filter(), m.store.Counts())
	return m
}

// Init applies the theme and schedules expiry for toasts raised while
// loading.
func (m Model) Init() tea.Cmd {
	m.theme.Apply()
	return m.scheduleToasts()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.form.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case toastExpiredMsg:
		// Sweep anything else that is due, then drop the toast itself
		// in case its timer fired early.
		m.toasts.Expire(msg.at)
		m.toasts.Remove(msg.id)
		return m, nil

	case tasklist.NewTaskMsg:
		return m, m.openCreateForm()

	case tasklist.EditTaskMsg:
		return m, m.openEditForm(msg.TaskID)

	case tasklist.ToggleTaskMsg:
		return m, m.toggleTask(msg.TaskID)

	case tasklist.DeleteTaskMsg:
		return m, m.deleteTask(msg.TaskID)

	case tasklist.MoveTaskMsg:
		return m, m.moveTask(msg.TaskID, msg.Delta)

	case tasklist.FilterChangedMsg:
		return m, m.setFilter(msg.Mode)

	case tasklist.SelectedTaskMsg:
		if m.showDetail(msg.TaskID) {
			m.previousView = m.currentView
			m.currentView = ViewDetail
		}
		return m, nil

	case taskform.TaskCreatedMsg:
		m.currentView = ViewList
		return m, m.addTask(msg.Title)

	case taskform.TaskUpdatedMsg:
		m.currentView = m.previousView
		cmd := m.editTask(msg.TaskID, msg.Title)
		if m.currentView == ViewDetail {
			m.showDetail(msg.TaskID)
		}
		return m, cmd

	case taskform.FormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		return m, m.handleDetailAction(msg)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Forms and the palette own the keyboard while open.
		if m.currentView == ViewTaskCreate || m.currentView == ViewTaskEdit {
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
			break
		}
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work outside forms.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Command):
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		m.commandView.Reset()
		return m.commandView.Focus(), true

	case m.currentView == ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false

	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewList {
			return tea.Quit, true
		}

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}

	case key.Matches(msg, m.keys.Theme):
		if m.currentView == ViewList || m.currentView == ViewDetail {
			return m.toggleTheme(), true
		}

	case key.Matches(msg, m.keys.Dismiss):
		if active := m.toasts.Active(); len(active) > 0 {
			m.toasts.Remove(active[len(active)-1].ID)
		}
		return nil, true
	}
	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.form, cmd = m.form.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Tarefas", "theme: "+m.theme.Mode().Label())
	content := m.layout.Overlay(m.renderContent(), ui.RenderToasts(m.toasts.Active()))
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.form.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewDetail:
		return "esc back | x toggle | e edit | d delete | t theme"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	default:
		return "q quit | ? help | n new | x toggle | e edit | d delete | J/K move | tab filter | t theme"
	}
}

// CurrentView reports which view is active.
func (m Model) CurrentView() ViewState { return m.currentView }
