// Package toast keeps the transient notifications shown after an action.
package toast

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/tarefas/internal/model"
)

// DefaultDuration is how long a toast stays up unless told otherwise.
const DefaultDuration = 3 * time.Second

// Queue holds active notifications in the order they were pushed.
type Queue struct {
	mu       sync.Mutex
	items    []model.Notification
	pending  []model.Notification
	duration time.Duration
	now      func() time.Time
}

// NewQueue returns an empty queue whose Notifier uses duration for
// generated toasts. Zero makes them sticky.
func NewQueue(duration time.Duration) *Queue {
	return &Queue{duration: duration, now: time.Now}
}

// setClock overrides the time source.
func (q *Queue) setClock(now func() time.Time) {
	q.mu.Lock()
	q.now = now
	q.mu.Unlock()
}

// SetDuration changes the duration used for generated toasts.
func (q *Queue) SetDuration(d time.Duration) {
	q.mu.Lock()
	q.duration = max(d, 0)
	q.mu.Unlock()
}

// Duration returns the default duration for generated toasts.
func (q *Queue) Duration() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.duration
}

// Push adds a toast and returns its id. A zero duration keeps it until
// Remove is called.
func (q *Queue) Push(message string, kind model.ToastKind, duration time.Duration) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := model.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Duration:  max(duration, 0),
		CreatedAt: q.now(),
	}
	q.items = append(q.items, n)
	q.pending = append(q.pending, n)
	return n.ID
}

// Remove dismisses the toast with id. Unknown ids are ignored.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Expire drops every toast whose time is up at now and returns their ids.
func (q *Queue) Expire(now time.Time) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	var removed []string
	kept := q.items[:0]
	for _, n := range q.items {
		if at, ok := n.ExpiresAt(); ok && !now.Before(at) {
			removed = append(removed, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	q.items = kept
	return removed
}

// Active returns the toasts currently on screen, oldest first.
func (q *Queue) Active() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.Notification(nil), q.items...)
}

// Drain returns the toasts pushed since the previous Drain, so the caller
// can schedule their removal.
func (q *Queue) Drain() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Notifier turns task events into toasts.
type Notifier struct {
	Queue *Queue
}

// Notify pushes the message for ev.
func (n Notifier) Notify(ev model.Event) {
	msg, kind := Message(ev)
	n.Queue.Push(msg, kind, n.Queue.Duration())
}

// Message returns the user-facing text and kind for ev.
func Message(ev model.Event) (string, model.ToastKind) {
	switch ev.Type {
	case model.EventAdded:
		return fmt.Sprintf("Task %q added", ev.Title), model.ToastSuccess
	case model.EventStatusToggled:
		if ev.Completed {
			return "Task marked as completed", model.ToastInfo
		}
		return "Task marked as pending", model.ToastInfo
	case model.EventEdited:
		return "Task updated", model.ToastSuccess
	case model.EventDeleted:
		return fmt.Sprintf("Task %q deleted", ev.Title), model.ToastWarning
	case model.EventReordered:
		return "Order updated", model.ToastInfo
	default:
		return string(ev.Type), model.ToastInfo
	}
}

// Icon returns the glyph shown next to a toast of kind.
func Icon(kind model.ToastKind) string {
	switch kind {
	case model.ToastSuccess:
		return "✓"
	case model.ToastError:
		return "✕"
	case model.ToastWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}
