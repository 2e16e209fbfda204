package taskstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/tarefas/internal/model"
)

// memPersister records saves in memory.
type memPersister struct {
	stored  []model.Task
	saves   int
	cleared bool
}

func (p *memPersister) Load(_ context.Context, fallback []model.Task) []model.Task {
	if p.stored == nil {
		return fallback
	}
	return p.stored
}

func (p *memPersister) Save(_ context.Context, tasks []model.Task) {
	p.stored = append([]model.Task{}, tasks...)
	p.saves++
}

func (p *memPersister) Clear(context.Context) {
	p.stored = nil
	p.cleared = true
}

// recorder collects emitted events.
type recorder struct {
	events []model.Event
}

func (r *recorder) Notify(ev model.Event) { r.events = append(r.events, ev) }

func (r *recorder) types() []model.EventType {
	out := make([]model.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

var fixedNow = time.Date(2024, 11, 22, 9, 0, 0, 456_789_000, time.UTC)

func newTestStore(t *testing.T, tasks ...model.Task) (*Store, *memPersister, *recorder) {
	t.Helper()
	p := &memPersister{}
	r := &recorder{}
	s := New(p, r, WithClock(func() time.Time { return fixedNow }))
	s.Load(context.Background(), tasks)
	return s, p, r
}

func seedTasks() []model.Task {
	base := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: 1, Title: "one", CreatedAt: base},
		{ID: 2, Title: "two", Completed: true, CreatedAt: base},
		{ID: 3, Title: "three", CreatedAt: base},
	}
}

func taskIDs(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddIntoEmptyList(t *testing.T) {
	s, p, r := newTestStore(t)

	task, ok := s.Add(context.Background(), "  Buy milk  ")
	if !ok {
		t.Fatal("expected Add to succeed")
	}
	if task.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Completed {
		t.Error("new task should be pending")
	}
	if task.ID != fixedNow.UnixMilli() {
		t.Errorf("expected id from clock, got %d", task.ID)
	}
	if !task.CreatedAt.Equal(fixedNow.Truncate(time.Millisecond)) {
		t.Errorf("createdAt = %v", task.CreatedAt)
	}

	got := s.Tasks()
	if len(got) != 1 || got[0] != task {
		t.Fatalf("expected list [task], got %+v", got)
	}
	if s.Counts() != (model.Counts{Total: 1, Pending: 1}) {
		t.Errorf("unexpected counts %+v", s.Counts())
	}
	if p.saves != 1 || len(p.stored) != 1 {
		t.Errorf("expected one save of one task, got saves=%d stored=%d", p.saves, len(p.stored))
	}
	if len(r.events) != 1 || r.events[0].Type != model.EventAdded || r.events[0].Title != "Buy milk" {
		t.Errorf("expected one added event, got %+v", r.events)
	}
}

func TestAddInsertsAtHeadWithUniqueIDs(t *testing.T) {
	s, _, _ := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	a, _ := s.Add(ctx, "first")
	b, _ := s.Add(ctx, "second")

	if a.ID == b.ID {
		t.Fatalf("ids collide: %d", a.ID)
	}
	got := taskIDs(s.Tasks())
	want := []int64{b.ID, a.ID, 1, 2, 3}
	if !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAddIDBumpsPastExisting(t *testing.T) {
	future := model.Task{ID: fixedNow.UnixMilli() + 10, Title: "from the future"}
	s, _, _ := newTestStore(t, future)

	task, _ := s.Add(context.Background(), "now")
	if task.ID <= future.ID {
		t.Errorf("expected id above %d, got %d", future.ID, task.ID)
	}
}

func TestAddRejectsBlank(t *testing.T) {
	s, p, r := newTestStore(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, ok := s.Add(context.Background(), title); ok {
			t.Errorf("Add(%q) should be rejected", title)
		}
	}
	if len(s.Tasks()) != 0 || p.saves != 0 || len(r.events) != 0 {
		t.Errorf("rejection must not mutate, save or notify")
	}
}

func TestToggleStatus(t *testing.T) {
	s, p, r := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	if !s.ToggleStatus(ctx, 1) {
		t.Fatal("expected toggle of present id")
	}
	task, _ := s.Get(1)
	if !task.Completed {
		t.Error("task 1 should be completed")
	}
	if r.events[0].Type != model.EventStatusToggled || !r.events[0].Completed {
		t.Errorf("unexpected event %+v", r.events[0])
	}

	s.ToggleStatus(ctx, 1)
	task, _ = s.Get(1)
	if task.Completed {
		t.Error("second toggle should restore pending")
	}

	if s.ToggleStatus(ctx, 99) {
		t.Error("toggle of unknown id should be a no-op")
	}
	if p.saves != 2 || len(r.events) != 2 {
		t.Errorf("expected 2 saves and 2 events, got %d and %d", p.saves, len(r.events))
	}
}

func TestEditTitle(t *testing.T) {
	s, _, r := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	if !s.EditTitle(ctx, 2, "  renamed ") {
		t.Fatal("expected edit to succeed")
	}
	task, _ := s.Get(2)
	if task.Title != "renamed" {
		t.Errorf("title = %q", task.Title)
	}
	if !task.Completed {
		t.Error("edit must not change completion")
	}
	if len(r.events) != 1 || r.events[0].Type != model.EventEdited {
		t.Errorf("expected edited event, got %+v", r.events)
	}
}

func TestEditTitleRejection(t *testing.T) {
	s, p, r := newTestStore(t, seedTasks()...)
	before := s.Tasks()

	if s.EditTitle(context.Background(), 1, "   ") {
		t.Error("blank edit should be rejected")
	}
	if s.EditTitle(context.Background(), 42, "valid") {
		t.Error("edit of unknown id should be a no-op")
	}

	after := s.Tasks()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if p.saves != 0 || len(r.events) != 0 {
		t.Errorf("rejection must not save or notify (saves=%d events=%d)", p.saves, len(r.events))
	}
}

func TestDelete(t *testing.T) {
	s, p, r := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	if !s.Delete(ctx, 2) {
		t.Fatal("expected delete to succeed")
	}
	if got := taskIDs(s.Tasks()); !equalIDs(got, []int64{1, 3}) {
		t.Errorf("remaining ids = %v", got)
	}
	if r.events[0].Type != model.EventDeleted || r.events[0].Title != "two" {
		t.Errorf("expected deleted event with original title, got %+v", r.events[0])
	}
	if !equalIDs(taskIDs(p.stored), []int64{1, 3}) {
		t.Errorf("saved ids = %v", taskIDs(p.stored))
	}

	if s.Delete(ctx, 2) {
		t.Error("second delete should be a no-op")
	}
	if len(r.events) != 1 {
		t.Errorf("expected exactly one event, got %d", len(r.events))
	}
}

func TestViewAfterMutation(t *testing.T) {
	s, _, _ := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	s.SetFilter(model.FilterCompleted)
	if got := taskIDs(s.View()); !equalIDs(got, []int64{2}) {
		t.Fatalf("completed view = %v", got)
	}

	s.ToggleStatus(ctx, 3)
	if got := taskIDs(s.View()); !equalIDs(got, []int64{2, 3}) {
		t.Errorf("completed view after toggle = %v", got)
	}

	s.SetFilter(model.FilterPending)
	if got := taskIDs(s.View()); !equalIDs(got, []int64{1}) {
		t.Errorf("pending view = %v", got)
	}
	if s.Filter() != model.FilterPending {
		t.Errorf("active filter = %q", s.Filter())
	}
	if got := taskIDs(s.ViewMode(model.FilterAll)); !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("ViewMode(all) = %v", got)
	}
	if s.Counts() != (model.Counts{Total: 3, Completed: 2, Pending: 1}) {
		t.Errorf("counts = %+v", s.Counts())
	}
}

func TestReorder(t *testing.T) {
	s, p, r := newTestStore(t, seedTasks()...)

	proposed := s.Tasks()
	proposed[0], proposed[2] = proposed[2], proposed[0]
	proposed[1].Title = "ignored"

	if err := s.Reorder(context.Background(), proposed); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got := s.Tasks()
	if !equalIDs(taskIDs(got), []int64{3, 2, 1}) {
		t.Errorf("order = %v", taskIDs(got))
	}
	if got[1].Title != "two" {
		t.Errorf("reorder must not change task fields, got title %q", got[1].Title)
	}
	if p.saves != 1 || len(r.events) != 1 || r.events[0].Type != model.EventReordered {
		t.Errorf("expected one save and one reordered event")
	}
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	base := seedTasks()
	tests := []struct {
		name     string
		proposed []model.Task
	}{
		{"shorter", base[:2]},
		{"longer", append(seedTasks(), model.Task{ID: 4, Title: "four"})},
		{"duplicate", []model.Task{base[0], base[0], base[2]}},
		{"foreign id", []model.Task{base[0], base[1], {ID: 9, Title: "nine"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p, r := newTestStore(t, seedTasks()...)

			err := s.Reorder(context.Background(), tt.proposed)
			if !errors.Is(err, ErrNotPermutation) {
				t.Fatalf("expected ErrNotPermutation, got %v", err)
			}
			if !equalIDs(taskIDs(s.Tasks()), []int64{1, 2, 3}) {
				t.Errorf("list mutated: %v", taskIDs(s.Tasks()))
			}
			if p.saves != 0 || len(r.events) != 0 {
				t.Error("rejected reorder must not save or notify")
			}
		})
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		delta   int
		want    []int64
		changed bool
	}{
		{"down one", 1, 1, []int64{2, 1, 3}, true},
		{"up one", 3, -1, []int64{1, 3, 2}, true},
		{"clamped to top", 3, -10, []int64{3, 1, 2}, true},
		{"already last", 3, 1, []int64{1, 2, 3}, false},
		{"unknown id", 7, 1, []int64{1, 2, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, r := newTestStore(t, seedTasks()...)

			if got := s.Move(context.Background(), tt.id, tt.delta); got != tt.changed {
				t.Errorf("Move returned %v, want %v", got, tt.changed)
			}
			if got := taskIDs(s.Tasks()); !equalIDs(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			wantEvents := 0
			if tt.changed {
				wantEvents = 1
			}
			if len(r.events) != wantEvents {
				t.Errorf("events = %v", r.types())
			}
		})
	}
}

func TestMoveTo(t *testing.T) {
	s, _, _ := newTestStore(t, seedTasks()...)

	if !s.MoveTo(context.Background(), 1, 2) {
		t.Fatal("expected MoveTo to change order")
	}
	if got := taskIDs(s.Tasks()); !equalIDs(got, []int64{2, 3, 1}) {
		t.Errorf("order = %v", got)
	}
}

func TestMoveVisible(t *testing.T) {
	s, _, _ := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	// Pending view is [1, 3]; moving 3 up passes hidden task 2.
	s.SetFilter(model.FilterPending)
	if !s.MoveVisible(ctx, 3, -1) {
		t.Fatal("expected MoveVisible to change order")
	}
	if got := taskIDs(s.Tasks()); !equalIDs(got, []int64{3, 1, 2}) {
		t.Errorf("order = %v", got)
	}
	if got := taskIDs(s.View()); !equalIDs(got, []int64{3, 1}) {
		t.Errorf("view = %v", got)
	}

	if s.MoveVisible(ctx, 3, -1) {
		t.Error("moving the first visible task up should be a no-op")
	}
	if s.MoveVisible(ctx, 2, 1) {
		t.Error("a hidden task cannot be moved in the view")
	}
}

func TestClear(t *testing.T) {
	s, p, r := newTestStore(t, seedTasks()...)

	s.Clear(context.Background())

	if len(s.Tasks()) != 0 {
		t.Errorf("expected empty list, got %d", len(s.Tasks()))
	}
	if !p.cleared {
		t.Error("expected persister to be cleared")
	}
	if len(r.events) != 0 {
		t.Errorf("clear should not emit events, got %v", r.types())
	}
}

func TestEventCarriesSnapshot(t *testing.T) {
	s, _, r := newTestStore(t, seedTasks()...)
	ctx := context.Background()

	s.ToggleStatus(ctx, 1)
	s.Delete(ctx, 1)

	first := r.events[0].Tasks
	if len(first) != 3 || !first[0].Completed {
		t.Errorf("first snapshot should reflect the toggle, got %+v", first)
	}
	if len(r.events[1].Tasks) != 2 {
		t.Errorf("second snapshot should reflect the delete, got %+v", r.events[1].Tasks)
	}
}

func TestNilNotifier(t *testing.T) {
	s := New(&memPersister{}, nil)
	if _, ok := s.Add(context.Background(), "works without notifier"); !ok {
		t.Error("expected Add to succeed")
	}
}
