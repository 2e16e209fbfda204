// Package persistence loads and saves the task list as one JSON document
// under a single key of a store.BlobStore.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/store"
)

// DefaultKey is the slot the task list lives under.
const DefaultKey = model.DefaultStorageKey

// timeLayout matches the ISO-8601 form with millisecond precision in UTC,
// e.g. 2024-11-20T10:00:00.000Z.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

const recordSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "titulo", "completa", "criadaEm"],
		"properties": {
			"id":       {"type": "integer"},
			"titulo":   {"type": "string"},
			"completa": {"type": "boolean"},
			"criadaEm": {"type": "string", "minLength": 1}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("tarefas.schema.json", recordSchema)

// record is the stored representation of a task.
type record struct {
	ID        int64  `json:"id"`
	Title     string `json:"titulo"`
	Completed bool   `json:"completa"`
	CreatedAt string `json:"criadaEm"`
}

// Adapter reads and writes the task list. It never returns errors to its
// callers; failures are logged and the in-memory state stays authoritative.
type Adapter struct {
	blobs  store.BlobStore
	key    string
	logger *log.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if strings.TrimSpace(key) != "" {
			a.key = key
		}
	}
}

// New creates an Adapter over blobs. A nil logger discards output.
func New(blobs store.BlobStore, logger *log.Logger, opts ...Option) *Adapter {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	a := &Adapter{blobs: blobs, key: DefaultKey, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the storage key in use.
func (a *Adapter) Key() string { return a.key }

// Load returns the persisted list. When nothing is stored it returns
// fallback, writing it first if it is non-empty. Any read or decode
// failure is logged and yields fallback.
func (a *Adapter) Load(ctx context.Context, fallback []model.Task) []model.Task {
	data, err := a.blobs.Get(ctx, a.key)
	switch {
	case errors.Is(err, store.ErrNotFound) || (err == nil && len(strings.TrimSpace(string(data))) == 0):
		if len(fallback) > 0 {
			a.Save(ctx, fallback)
		}
		return fallback
	case err != nil:
		a.logger.Error("reading task list", "key", a.key, "err", err)
		return fallback
	}

	tasks, err := Decode(data)
	if err != nil {
		a.logger.Error("decoding task list", "key", a.key, "err", err)
		return fallback
	}
	a.logger.Debug("loaded task list", "key", a.key, "count", len(tasks))
	return tasks
}

// Save overwrites the stored list. Failures are logged and not retried.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) {
	data, err := Encode(tasks)
	if err != nil {
		a.logger.Error("encoding task list", "err", err)
		return
	}
	if err := a.blobs.Set(ctx, a.key, data); err != nil {
		a.logger.Error("saving task list", "key", a.key, "err", err)
		return
	}
	a.logger.Debug("saved task list", "key", a.key, "count", len(tasks))
}

// Clear removes the stored list.
func (a *Adapter) Clear(ctx context.Context) {
	if err := a.blobs.Delete(ctx, a.key); err != nil {
		a.logger.Error("clearing task list", "key", a.key, "err", err)
	}
}

// Encode renders tasks in the stored JSON format.
func Encode(tasks []model.Task) ([]byte, error) {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			CreatedAt: FormatTime(t.CreatedAt),
		}
	}
	return json.Marshal(records)
}

// Decode parses and validates a stored JSON document.
func Decode(data []byte) ([]model.Task, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate task id %d", r.ID)
		}
		seen[r.ID] = true

		created, err := ParseTime(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", r.ID, err)
		}
		tasks = append(tasks, model.Task{
			ID:        r.ID,
			Title:     r.Title,
			Completed: r.Completed,
			CreatedAt: created,
		})
	}
	return tasks, nil
}

// FormatTime renders t as an ISO-8601 UTC timestamp with milliseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// localLayouts are accepted without a zone offset and read as local time.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateTime,
}

// ParseTime accepts RFC 3339 timestamps (any fractional precision),
// timestamps without an offset (local time) and bare dates (UTC).
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
