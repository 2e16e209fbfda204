package model

import (
	"fmt"
	"strings"
)

// FilterMode selects which tasks a view shows. It is never stored with a task.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterCompleted FilterMode = "completed"
	FilterPending   FilterMode = "pending"
)

// FilterModes lists the modes in the order the UI cycles through them.
var FilterModes = []FilterMode{FilterAll, FilterCompleted, FilterPending}

// ParseFilterMode accepts the English selectors and the Portuguese ones
// used by the original storage format (todas, completas, pendentes).
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todas":
		return FilterAll, nil
	case "completed", "done", "completas":
		return FilterCompleted, nil
	case "pending", "open", "pendentes":
		return FilterPending, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (want all, completed or pending)", s)
	}
}

// Label returns the display label for the mode.
func (f FilterMode) Label() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterPending:
		return "Pending"
	default:
		return "All"
	}
}

// Next returns the mode after f in FilterModes, wrapping around.
func (f FilterMode) Next() FilterMode {
	for i, m := range FilterModes {
		if m == f {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

// Filter returns the subsequence of tasks selected by mode, preserving order.
// FilterAll (and any unknown mode) returns tasks unchanged.
func Filter(tasks []Task, mode FilterMode) []Task {
	var keep func(Task) bool
	switch mode {
	case FilterCompleted:
		keep = func(t Task) bool { return t.Completed }
	case FilterPending:
		keep = func(t Task) bool { return !t.Completed }
	default:
		return tasks
	}

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
