package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinTitleLength is the shortest title the input layer accepts for a new task.
const MinTitleLength = 3

// Title validation errors reported by ValidateTitle.
var (
	ErrTitleEmpty    = errors.New("task title cannot be empty")
	ErrTitleTooShort = errors.New("task title is too short")
)

// Task is a single to-do item.
type Task struct {
	// ID is unique within the list and assigned once at creation.
	ID int64 `json:"id"`

	// Title is always stored trimmed.
	Title string `json:"title"`

	// Completed reports whether the task is done.
	Completed bool `json:"completed"`

	// CreatedAt is set at creation and never changes.
	CreatedAt time.Time `json:"created_at"`
}

// Status returns a short human-readable status label.
func (t Task) Status() string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}

// ValidateTitle checks a raw title the way the add-task input does: the
// trimmed value must be non-empty and at least minLen characters long.
// It returns the trimmed title on success.
func ValidateTitle(raw string, minLen int) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) < minLen {
		return "", fmt.Errorf("%w: need at least %d characters", ErrTitleTooShort, minLen)
	}
	return title, nil
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
