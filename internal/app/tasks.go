package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/theme"
	"github.com/nhle/tarefas/internal/ui/detail"
)

// toastExpiredMsg fires when a toast's timer runs out at at.
type toastExpiredMsg struct {
	id string
	at time.Time
}

// refresh re-renders the list from the store and schedules timers for
// any toasts raised by the last mutation.
func (m *Model) refresh() tea.Cmd {
	cmd := m.taskList.SetTasks(m.store.View(), m.store.Filter(), m.store.Counts())
	return tea.Batch(cmd, m.scheduleToasts())
}

// scheduleToasts starts one timer per new toast with a duration.
func (m *Model) scheduleToasts() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.toasts.Drain() {
		if n.Duration <= 0 {
			continue
		}
		id := n.ID
		cmds = append(cmds, tea.Tick(n.Duration, func(at time.Time) tea.Msg {
			return toastExpiredMsg{id: id, at: at}
		}))
	}
	return tea.Batch(cmds...)
}

// notify shows a toast that is not tied to a task event.
func (m *Model) notify(msg string, kind model.ToastKind) tea.Cmd {
	m.toasts.Push(msg, kind, m.toasts.Duration())
	return m.scheduleToasts()
}

func (m *Model) addTask(title string) tea.Cmd {
	if _, ok := m.store.Add(m.ctx, title); !ok {
		return m.notify(model.ErrTitleEmpty.Error(), model.ToastError)
	}
	return m.refresh()
}

func (m *Model) toggleTask(id int64) tea.Cmd {
	if !m.store.ToggleStatus(m.ctx, id) {
		return nil
	}
	return m.refresh()
}

func (m *Model) editTask(id int64, title string) tea.Cmd {
	if !m.store.EditTitle(m.ctx, id, title) {
		return m.notify("Task was not changed", model.ToastError)
	}
	return m.refresh()
}

func (m *Model) deleteTask(id int64) tea.Cmd {
	if !m.store.Delete(m.ctx, id) {
		return nil
	}
	if m.currentView == ViewDetail && m.detail.TaskID() == id {
		m.detail.Clear()
		m.currentView = ViewList
	}
	return m.refresh()
}

func (m *Model) moveTask(id int64, delta int) tea.Cmd {
	if !m.store.MoveVisible(m.ctx, id, delta) {
		return nil
	}
	cmd := m.refresh()
	m.taskList.SelectTask(id)
	return cmd
}

func (m *Model) setFilter(mode model.FilterMode) tea.Cmd {
	m.store.SetFilter(mode)
	return m.refresh()
}

func (m *Model) openCreateForm() tea.Cmd {
	m.previousView = ViewList
	m.currentView = ViewTaskCreate
	return m.form.StartCreate()
}

func (m *Model) openEditForm(id int64) tea.Cmd {
	task, ok := m.store.Get(id)
	if !ok {
		return nil
	}
	m.previousView = m.currentView
	m.currentView = ViewTaskEdit
	return m.form.StartEdit(task)
}

// showDetail loads the task with id into the detail view.
func (m *Model) showDetail(id int64) bool {
	tasks := m.store.Tasks()
	i := model.IndexOf(tasks, id)
	if i < 0 {
		return false
	}
	m.detail.SetTask(tasks[i], i, len(tasks))
	return true
}

func (m *Model) handleDetailAction(msg detail.ActionMsg) tea.Cmd {
	switch msg.Action {
	case detail.ActionToggle:
		cmd := m.toggleTask(msg.TaskID)
		m.showDetail(msg.TaskID)
		return cmd
	case detail.ActionEdit:
		return m.openEditForm(msg.TaskID)
	case detail.ActionDelete:
		return m.deleteTask(msg.TaskID)
	}
	return nil
}

func (m *Model) toggleTheme() tea.Cmd {
	mode, err := m.theme.Toggle(m.ctx)
	if err != nil {
		m.logger.Error("saving theme", "err", err)
		return m.notify("Could not save theme", model.ToastError)
	}
	return m.notify("Theme: "+string(mode), model.ToastInfo)
}

func (m *Model) setTheme(mode theme.Mode) tea.Cmd {
	if err := m.theme.SetMode(m.ctx, mode); err != nil {
		m.logger.Error("saving theme", "err", err)
		return m.notify("Could not save theme", model.ToastError)
	}
	return m.notify("Theme: "+string(mode), model.ToastInfo)
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(input string) tea.Cmd {
	input = strings.TrimSpace(input)
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	verb := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
	arg := strings.ToLower(rest)

	switch verb {
	case "new", "add":
		if rest == "" {
			return m.openCreateForm()
		}
		title, err := model.ValidateTitle(rest, m.form.MinLength())
		if err != nil {
			return m.notify(err.Error(), model.ToastError)
		}
		return m.addTask(title)
	case "filter":
		mode, err := model.ParseFilterMode(arg)
		if err != nil {
			return m.notify(err.Error(), model.ToastError)
		}
		return m.setFilter(mode)
	case "theme":
		if arg == "toggle" || arg == "" {
			return m.toggleTheme()
		}
		mode, err := theme.ParseMode(arg)
		if err != nil {
			return m.notify(err.Error(), model.ToastError)
		}
		return m.setTheme(mode)
	case "clear":
		m.store.Clear(m.ctx)
		cmd := m.refresh()
		return tea.Batch(cmd, m.notify("All tasks cleared", model.ToastWarning))
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return tea.Quit
	default:
		return m.notify("Unknown command: "+input, model.ToastError)
	}
}
