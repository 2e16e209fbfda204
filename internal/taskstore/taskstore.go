// Package taskstore owns the canonical task list and the active filter.
// Every committed mutation is saved through a Persister and announced
// through a Notifier.
package taskstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nhle/tarefas/internal/model"
)

// ErrNotPermutation is returned by Reorder when the proposed list is not
// a rearrangement of the current one.
var ErrNotPermutation = errors.New("reordered list is not a permutation of the current list")

// Persister is the storage side of the store. persistence.Adapter
// satisfies it.
type Persister interface {
	Load(ctx context.Context, fallback []model.Task) []model.Task
	Save(ctx context.Context, tasks []model.Task)
	Clear(ctx context.Context)
}

// Notifier receives one event per committed mutation.
type Notifier interface {
	Notify(ev model.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev model.Event)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev model.Event) { f(ev) }

// Store holds the ordered task list.
type Store struct {
	mu     sync.Mutex
	tasks  []model.Task
	filter model.FilterMode

	persister Persister
	notifier  Notifier
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids and creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store. A nil notifier drops events.
func New(persister Persister, notifier Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = NotifierFunc(func(model.Event) {})
	}
	s := &Store{
		filter:    model.FilterAll,
		persister: persister,
		notifier:  notifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the list with what the persister returns for fallback.
func (s *Store) Load(ctx context.Context, fallback []model.Task) {
	loaded := s.persister.Load(ctx, fallback)
	s.mu.Lock()
	s.tasks = append([]model.Task(nil), loaded...)
	s.mu.Unlock()
}

// Add creates a pending task at the head of the list. A title that is
// empty after trimming is ignored.
func (s *Store) Add(ctx context.Context, title string) (model.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, false
	}

	s.mu.Lock()
	now := s.now().UTC().Truncate(time.Millisecond)
	task := model.Task{
		ID:        s.nextID(now),
		Title:     title,
		CreatedAt: now,
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	snap := s.snapshot()
	s.mu.Unlock()

	s.commit(ctx, snap, model.Event{Type: model.EventAdded, TaskID: task.ID, Title: task.Title})
	return task, true
}

// nextID returns the creation time in milliseconds, bumped past the
// largest id in the list. Caller holds mu.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// ToggleStatus flips the completion flag of the task with id.
func (s *Store) ToggleStatus(ctx context.Context, id int64) bool {
	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	task := s.tasks[i]
	snap := s.snapshot()
	s.mu.Unlock()

	s.commit(ctx, snap, model.Event{
		Type:      model.EventStatusToggled,
		TaskID:    task.ID,
		Title:     task.Title,
		Completed: task.Completed,
	})
	return true
}

// EditTitle replaces the title of the task with id. Titles that are empty
// after trimming are rejected.
func (s *Store) EditTitle(ctx context.Context, id int64, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Title = title
	task := s.tasks[i]
	snap := s.snapshot()
	s.mu.Unlock()

	s.commit(ctx, snap, model.Event{
		Type:      model.EventEdited,
		TaskID:    task.ID,
		Title:     task.Title,
		Completed: task.Completed,
	})
	return true
}

// Delete removes the task with id.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	task := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	snap := s.snapshot()
	s.mu.Unlock()

	s.commit(ctx, snap, model.Event{
		Type:      model.EventDeleted,
		TaskID:    task.ID,
		Title:     task.Title,
		Completed: task.Completed,
	})
	return true
}

// Reorder replaces the list with ordered, which must hold exactly the
// current tasks in any order. Task fields are taken from the current
// list; only the order comes from ordered.
func (s *Store) Reorder(ctx context.Context, ordered []model.Task) error {
	s.mu.Lock()
	next, ok := permute(s.tasks, ordered)
	if !ok {
		s.mu.Unlock()
		return ErrNotPermutation
	}
	s.tasks = next
	snap := s.snapshot()
	s.mu.Unlock()

	s.commit(ctx, snap, model.Event{Type: model.EventReordered})
	return nil
}

func permute(current, ordered []model.Task) ([]model.Task, bool) {
	if len(current) != len(ordered) {
		return nil, false
	}
	byID := make(map[int64]model.Task, len(current))
	for _, t := range current {
		byID[t.ID] = t
	}
	next := make([]model.Task, 0, len(ordered))
	for _, t := range ordered {
		cur, ok := byID[t.ID]
		if !ok {
			return nil, false
		}
		delete(byID, t.ID)
		next = append(next, cur)
	}
	return next, true
}

// Move shifts the task with id by delta positions in the full list,
// clamped to its bounds. It reports whether the order changed.
func (s *Store) Move(ctx context.Context, id int64, delta int) bool {
	s.mu.Lock()
	i := model.IndexOf(s.tasks, id)
	s.mu.Unlock()
	if i < 0 {
		return false
	}
	return s.MoveTo(ctx, id, i+delta)
}

// MoveTo places the task with id at position pos of the full list,
// clamped to its bounds.
func (s *Store) MoveTo(ctx context.Context, id int64, pos int) bool {
	s.mu.Lock()
	from := model.IndexOf(s.tasks, id)
	if from < 0 {
		s.mu.Unlock()
		return false
	}
	pos = max(0, min(pos, len(s.tasks)-1))
	if pos == from {
		s.mu.Unlock()
		return false
	}
	ordered := s.snapshot()
	s.mu.Unlock()

	task := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:pos], append([]model.Task{task}, ordered[pos:]...)...)
	return s.Reorder(ctx, ordered) == nil
}

// MoveVisible shifts the task with id by delta positions within the
// active view, taking the place of the visible neighbour it passes. Hidden
// tasks keep their relative order.
func (s *Store) MoveVisible(ctx context.Context, id int64, delta int) bool {
	s.mu.Lock()
	view := model.Filter(s.snapshot(), s.filter)
	i := model.IndexOf(view, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	j := max(0, min(i+delta, len(view)-1))
	pos := model.IndexOf(s.tasks, view[j].ID)
	s.mu.Unlock()
	if j == i {
		return false
	}
	return s.MoveTo(ctx, id, pos)
}

// Clear empties the list and removes it from storage. No event is emitted.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.tasks = nil
	s.mu.Unlock()
	s.persister.Clear(ctx)
}

// SetFilter changes the active filter mode.
func (s *Store) SetFilter(mode model.FilterMode) {
	s.mu.Lock()
	s.filter = mode
	s.mu.Unlock()
}

// Filter returns the active filter mode.
func (s *Store) Filter() model.FilterMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Tasks returns a copy of the full list in order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// View returns the list filtered by the active mode.
func (s *Store) View() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Filter(s.snapshot(), s.filter)
}

// ViewMode returns the list filtered by mode, ignoring the active filter.
func (s *Store) ViewMode(mode model.FilterMode) []model.Task {
	return model.Filter(s.Tasks(), mode)
}

// Counts summarizes the full list.
func (s *Store) Counts() model.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Count(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := model.IndexOf(s.tasks, id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// snapshot copies the list. Caller holds mu.
func (s *Store) snapshot() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) commit(ctx context.Context, snap []model.Task, ev model.Event) {
	s.persister.Save(ctx, snap)
	ev.Tasks = snap
	s.notifier.Notify(ev)
}
