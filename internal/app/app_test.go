package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/persistence"
	"github.com/nhle/tarefas/internal/store"
	"github.com/nhle/tarefas/internal/taskstore"
	"github.com/nhle/tarefas/internal/theme"
	"github.com/nhle/tarefas/internal/toast"
	"github.com/nhle/tarefas/internal/ui/command"
	"github.com/nhle/tarefas/internal/ui/taskform"
	"github.com/nhle/tarefas/internal/ui/tasklist"
	"github.com/nhle/tarefas/tests/testutil"
)

type harness struct {
	model  Model
	store  *taskstore.Store
	toasts *toast.Queue
	blobs  store.BlobStore
}

func newHarness(t *testing.T, seed ...model.Task) *harness {
	t.Helper()
	ctx := context.Background()

	blobs := testutil.NewMemStore(t)
	queue := toast.NewQueue(toast.DefaultDuration)
	ts := taskstore.New(persistence.New(blobs, nil), toast.Notifier{Queue: queue})
	ts.Load(ctx, seed)

	mgr := theme.NewManager(blobs, theme.ModeSystem, nil, theme.WithDetector(func() bool { return false }))

	m := New(ctx, Options{Store: ts, Toasts: queue, Theme: mgr, MinTitleLength: 3})
	h := &harness{model: m, store: ts, toasts: queue, blobs: blobs}
	h.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	h.model = m
	return cmd
}

func seed() []model.Task {
	base := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: 1, Title: "Write report", CreatedAt: base},
		{ID: 2, Title: "Call the bank", Completed: true, CreatedAt: base},
	}
}

func TestCreateFlow(t *testing.T) {
	h := newHarness(t)

	h.send(t, tasklist.NewTaskMsg{})
	if h.model.CurrentView() != ViewTaskCreate {
		t.Fatalf("expected create form, got view %d", h.model.CurrentView())
	}

	h.send(t, taskform.TaskCreatedMsg{Title: "Buy milk"})
	if h.model.CurrentView() != ViewList {
		t.Errorf("expected list view after submit, got %d", h.model.CurrentView())
	}

	tasks := h.store.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	active := h.toasts.Active()
	if len(active) != 1 || active[0].Kind != model.ToastSuccess {
		t.Errorf("expected one success toast, got %+v", active)
	}

	data, err := h.blobs.Get(context.Background(), persistence.DefaultKey)
	if err != nil || !strings.Contains(string(data), `"titulo":"Buy milk"`) {
		t.Errorf("expected task persisted, got %s (%v)", data, err)
	}
}

func TestEscCancelsForm(t *testing.T) {
	h := newHarness(t)

	h.send(t, tasklist.NewTaskMsg{})
	h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if h.model.CurrentView() != ViewList {
		t.Errorf("esc should close the form, got view %d", h.model.CurrentView())
	}
	if len(h.store.Tasks()) != 0 {
		t.Error("cancel must not add a task")
	}
}

func TestToggleDeleteAndFilter(t *testing.T) {
	h := newHarness(t, seed()...)

	h.send(t, tasklist.ToggleTaskMsg{TaskID: 1})
	if task, _ := h.store.Get(1); !task.Completed {
		t.Error("task 1 should be completed")
	}

	h.send(t, tasklist.FilterChangedMsg{Mode: model.FilterPending})
	if h.store.Filter() != model.FilterPending || len(h.store.View()) != 0 {
		t.Errorf("expected empty pending view, got %+v", h.store.View())
	}

	h.send(t, tasklist.DeleteTaskMsg{TaskID: 2})
	if _, ok := h.store.Get(2); ok {
		t.Error("task 2 should be deleted")
	}
	if c := h.store.Counts(); c.Total != 1 || c.Completed != 1 {
		t.Errorf("counts = %+v", c)
	}
}

func TestCommandPalette(t *testing.T) {
	h := newHarness(t, seed()...)

	h.send(t, command.CommandMsg("filter completed"))
	if h.store.Filter() != model.FilterCompleted {
		t.Errorf("filter = %q", h.store.Filter())
	}

	h.send(t, command.CommandMsg("add Plan the trip"))
	if tasks := h.store.Tasks(); tasks[0].Title != "Plan the trip" {
		t.Errorf("expected new task at head, got %+v", tasks[0])
	}

	before := len(h.store.Tasks())
	h.send(t, command.CommandMsg("add ab"))
	if len(h.store.Tasks()) != before {
		t.Error("short title should be rejected")
	}

	h.send(t, command.CommandMsg("clear"))
	if len(h.store.Tasks()) != 0 {
		t.Error("clear should empty the list")
	}
	if _, err := h.blobs.Get(context.Background(), persistence.DefaultKey); err == nil {
		t.Error("clear should remove the stored list")
	}
}

func TestThemeToggleKey(t *testing.T) {
	h := newHarness(t)

	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})

	data, err := h.blobs.Get(context.Background(), theme.StorageKey)
	if err != nil {
		t.Fatalf("theme not saved: %v", err)
	}
	if string(data) != "dark" {
		t.Errorf("stored theme = %q, want dark", data)
	}
}

func TestToastExpiry(t *testing.T) {
	h := newHarness(t)
	h.send(t, taskform.TaskCreatedMsg{Title: "Buy milk"})

	active := h.toasts.Active()
	if len(active) != 1 {
		t.Fatalf("expected one toast, got %d", len(active))
	}
	h.send(t, toastExpiredMsg{id: active[0].ID, at: time.Now()})
	if len(h.toasts.Active()) != 0 {
		t.Error("expired toast should be removed")
	}
}

func TestToastTimerSweepsOverdueToasts(t *testing.T) {
	h := newHarness(t)
	h.toasts.Push("first", model.ToastInfo, time.Millisecond)
	h.toasts.Push("second", model.ToastInfo, time.Millisecond)
	sticky := h.toasts.Push("sticky", model.ToastError, 0)

	active := h.toasts.Active()
	h.send(t, toastExpiredMsg{id: active[0].ID, at: time.Now().Add(time.Second)})

	left := h.toasts.Active()
	if len(left) != 1 || left[0].ID != sticky {
		t.Errorf("expected only the sticky toast to remain, got %+v", left)
	}
}

func TestMoveKeepsSelection(t *testing.T) {
	h := newHarness(t, seed()...)

	h.send(t, tasklist.MoveTaskMsg{TaskID: 2, Delta: -1})
	tasks := h.store.Tasks()
	if tasks[0].ID != 2 || tasks[1].ID != 1 {
		t.Errorf("order = %d,%d", tasks[0].ID, tasks[1].ID)
	}
	if sel, ok := h.model.taskList.SelectedTask(); !ok || sel.ID != 2 {
		t.Errorf("moved task should stay selected, got %+v", sel)
	}
}

func TestViewRendersFrame(t *testing.T) {
	h := newHarness(t, seed()...)
	out := h.model.View()
	for _, want := range []string{"Tarefas", "Write report", "2 total"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
