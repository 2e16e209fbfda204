// Package seed provides the task list used when nothing has been
// persisted yet.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/nhle/tarefas/internal/model"
)

// ErrInvalidSeed is returned when a seed file contains an unusable entry.
var ErrInvalidSeed = errors.New("invalid seed")

// Provider returns the initial task list.
type Provider interface {
	Tasks(ctx context.Context) ([]model.Task, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) ([]model.Task, error)

// Tasks calls f(ctx).
func (f ProviderFunc) Tasks(ctx context.Context) ([]model.Task, error) { return f(ctx) }

// Empty provides no tasks.
var Empty Provider = ProviderFunc(func(context.Context) ([]model.Task, error) { return nil, nil })

// Builtin returns the demo list shown on first run.
func Builtin() Provider {
	return ProviderFunc(func(context.Context) ([]model.Task, error) {
		return []model.Task{
			{ID: 1, Title: "Study Next.js 15", CreatedAt: date(2024, 11, 20)},
			{ID: 2, Title: "Write unit tests", CreatedAt: date(2024, 11, 21)},
			{ID: 3, Title: "Build reusable components", Completed: true, CreatedAt: date(2024, 11, 19)},
		}, nil
	})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedFile is the TOML layout:
//
//	[[tarefa]]
//	id = 1
//	titulo = "Write the report"
//	completa = false
//	criadaEm = 2024-11-20T09:00:00Z
type seedFile struct {
	Tarefas []seedTask `toml:"tarefa"`
}

type seedTask struct {
	ID        int64     `toml:"id"`
	Title     string    `toml:"titulo"`
	Completed bool      `toml:"completa"`
	CreatedAt time.Time `toml:"criadaEm"`
}

// FromFile returns a provider reading tasks from a TOML file. Entries
// without an id are numbered after the largest explicit id; entries
// without a date get the load time.
func FromFile(path string) Provider {
	return ProviderFunc(func(context.Context) ([]model.Task, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
		return Parse(data, time.Now())
	})
}

// Parse decodes a TOML seed document.
func Parse(data []byte, now time.Time) ([]model.Task, error) {
	var f seedFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing TOML: %s", ErrInvalidSeed, err)
	}

	var maxID int64
	for _, st := range f.Tarefas {
		maxID = max(maxID, st.ID)
	}

	tasks := make([]model.Task, 0, len(f.Tarefas))
	seen := make(map[int64]bool, len(f.Tarefas))
	for i, st := range f.Tarefas {
		title := strings.TrimSpace(st.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: entry %d has no titulo", ErrInvalidSeed, i+1)
		}
		id := st.ID
		if id == 0 {
			maxID++
			id = maxID
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidSeed, id)
		}
		seen[id] = true

		created := st.CreatedAt
		if created.IsZero() {
			created = now
		}
		tasks = append(tasks, model.Task{
			ID:        id,
			Title:     title,
			Completed: st.Completed,
			CreatedAt: created.UTC().Truncate(time.Millisecond),
		})
	}
	return tasks, nil
}

// Select picks the provider described by cfg: a file wins over the
// built-in list; with neither, the seed is empty.
func Select(cfg model.SeedConfig) Provider {
	switch {
	case cfg.File != "":
		return FromFile(cfg.File)
	case cfg.Builtin:
		return Builtin()
	default:
		return Empty
	}
}

// Load runs p and logs any error, returning an empty seed in that case.
func Load(ctx context.Context, p Provider, logger *log.Logger) []model.Task {
	tasks, err := p.Tasks(ctx)
	if err != nil {
		if logger != nil {
			logger.Error("loading seed", "err", err)
		}
		return nil
	}
	return tasks
}
