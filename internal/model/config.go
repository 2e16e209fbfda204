package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backend names accepted in StorageConfig.Backend.
const (
	BackendSQLite  = "sqlite"
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// DefaultStorageKey is the slot the task list is written under.
const DefaultStorageKey = "tarefas-app:tarefas"

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	// Backend is one of "sqlite", "file" or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the database file for sqlite, the data directory for file,
	// and the fallback file-keyring directory for keyring.
	Path string `mapstructure:"path" yaml:"path"`

	// Key is the slot the task list is stored under.
	Key string `mapstructure:"key" yaml:"key"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is the initial theme mode: "light", "dark" or "system".
	// A mode saved from the UI takes precedence.
	Theme           string `mapstructure:"theme" yaml:"theme"`
	ToastDurationMS int    `mapstructure:"toast_duration_ms" yaml:"toast_duration_ms"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`

	// File receives log output while the TUI owns the terminal.
	File string `mapstructure:"file" yaml:"file"`
}

// SeedConfig controls the list used when nothing has been persisted yet.
type SeedConfig struct {
	Builtin bool   `mapstructure:"builtin" yaml:"builtin"`
	File    string `mapstructure:"file" yaml:"file"`
}

// ValidationConfig holds input-layer rules.
type ValidationConfig struct {
	MinTitleLength int `mapstructure:"min_title_length" yaml:"min_title_length"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Display    DisplayConfig    `mapstructure:"display" yaml:"display"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Seed       SeedConfig       `mapstructure:"seed" yaml:"seed"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
}

// ConfigDir returns ~/.config/tarefas, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tarefas")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tarefas/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(ConfigDir(), "tarefas.db"),
			Key:     DefaultStorageKey,
		},
		Display: DisplayConfig{
			Theme:           "system",
			ToastDurationMS: 3000,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			File:   filepath.Join(ConfigDir(), "tarefas.log"),
		},
		Seed: SeedConfig{
			Builtin: true,
		},
		Validation: ValidationConfig{
			MinTitleLength: MinTitleLength,
		},
	}
}

func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("display.theme", cfg.Display.Theme)
	v.SetDefault("display.toast_duration_ms", cfg.Display.ToastDurationMS)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("seed.builtin", cfg.Seed.Builtin)
	v.SetDefault("seed.file", cfg.Seed.File)
	v.SetDefault("validation.min_title_length", cfg.Validation.MinTitleLength)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TAREFAS_ (e.g. TAREFAS_STORAGE_BACKEND)
// override file values. If the file does not exist, defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tarefas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	setDefaults(v, DefaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports configuration values the application cannot work with.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendKeyring:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage key must not be empty")
	}
	if c.Validation.MinTitleLength < 1 {
		c.Validation.MinTitleLength = 1
	}
	if c.Display.ToastDurationMS < 0 {
		c.Display.ToastDurationMS = 0
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", map[string]any{
		"backend": cfg.Storage.Backend,
		"path":    cfg.Storage.Path,
		"key":     cfg.Storage.Key,
	})
	v.Set("display", map[string]any{
		"theme":             cfg.Display.Theme,
		"toast_duration_ms": cfg.Display.ToastDurationMS,
	})
	v.Set("log", map[string]any{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"file":   cfg.Log.File,
	})
	v.Set("seed", map[string]any{
		"builtin": cfg.Seed.Builtin,
		"file":    cfg.Seed.File,
	})
	v.Set("validation", map[string]any{
		"min_title_length": cfg.Validation.MinTitleLength,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
