package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nhle/tarefas/internal/store"
)

// StorageKey is the blob key the chosen mode is saved under.
const StorageKey = "theme"

// Mode is the user's theme preference.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLight, ModeDark, ModeSystem:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
	}
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeLight:
		return "☀ light"
	case ModeDark:
		return "☾ dark"
	default:
		return "◐ system"
	}
}

// Manager holds the current mode and persists changes.
type Manager struct {
	mu     sync.Mutex
	blobs  store.BlobStore
	mode   Mode
	logger *log.Logger

	detect     func() bool
	systemDark *bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDetector overrides how the terminal background is detected for
// ModeSystem. The default asks lipgloss.
func WithDetector(detect func() bool) ManagerOption {
	return func(m *Manager) { m.detect = detect }
}

// NewManager creates a Manager starting at fallback. A nil blobs keeps the
// mode in memory only.
func NewManager(blobs store.BlobStore, fallback Mode, logger *log.Logger, opts ...ManagerOption) *Manager {
	if _, err := ParseMode(string(fallback)); err != nil {
		fallback = ModeSystem
	}
	m := &Manager{
		blobs:  blobs,
		mode:   fallback,
		logger: logger,
		detect: lipgloss.HasDarkBackground,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the saved mode. A missing or unreadable value keeps the
// current one.
func (m *Manager) Load(ctx context.Context) Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs == nil {
		return m.mode
	}

	data, err := m.blobs.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logf("reading theme", err)
		}
		return m.mode
	}
	mode, err := ParseMode(string(data))
	if err != nil {
		m.logf("parsing theme", err)
		return m.mode
	}
	m.mode = mode
	return mode
}

// Mode returns the current preference.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode changes and saves the preference, then applies it.
func (m *Manager) SetMode(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()

	if m.blobs != nil {
		if err := m.blobs.Set(ctx, StorageKey, []byte(mode)); err != nil {
			return fmt.Errorf("saving theme: %w", err)
		}
	}
	m.Apply()
	return nil
}

// IsDark resolves the preference to a concrete background.
func (m *Manager) IsDark() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDark()
}

func (m *Manager) isDark() bool {
	switch m.mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	if m.systemDark == nil {
		dark := m.detect()
		m.systemDark = &dark
	}
	return *m.systemDark
}

// Toggle switches to the opposite of what is currently shown and saves it.
func (m *Manager) Toggle(ctx context.Context) (Mode, error) {
	next := ModeDark
	if m.IsDark() {
		next = ModeLight
	}
	return next, m.SetMode(ctx, next)
}

// Apply pushes the resolved background to lipgloss so adaptive colors
// pick the matching variant.
func (m *Manager) Apply() {
	lipgloss.SetHasDarkBackground(m.IsDark())
}

func (m *Manager) logf(msg string, err error) {
	if m.logger != nil {
		m.logger.Warn(msg, "err", err)
	}
}
