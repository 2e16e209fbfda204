package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultAppConfig()
	if cfg.Storage.Backend != def.Storage.Backend {
		t.Errorf("backend = %q, want %q", cfg.Storage.Backend, def.Storage.Backend)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Errorf("key = %q, want %q", cfg.Storage.Key, DefaultStorageKey)
	}
	if cfg.Validation.MinTitleLength != MinTitleLength {
		t.Errorf("min title length = %d, want %d", cfg.Validation.MinTitleLength, MinTitleLength)
	}
	if !cfg.Seed.Builtin {
		t.Error("expected builtin seed to be enabled by default")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Storage.Backend = BackendFile
	cfg.Storage.Path = "/tmp/tarefas-data"
	cfg.Display.Theme = "dark"
	cfg.Display.ToastDurationMS = 1500
	cfg.Seed.Builtin = false

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Storage.Backend != BackendFile {
		t.Errorf("backend = %q, want %q", got.Storage.Backend, BackendFile)
	}
	if got.Storage.Path != "/tmp/tarefas-data" {
		t.Errorf("path = %q", got.Storage.Path)
	}
	if got.Display.Theme != "dark" {
		t.Errorf("theme = %q, want dark", got.Display.Theme)
	}
	if got.Display.ToastDurationMS != 1500 {
		t.Errorf("toast duration = %d, want 1500", got.Display.ToastDurationMS)
	}
	if got.Seed.Builtin {
		t.Error("expected builtin seed to stay disabled")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TAREFAS_STORAGE_BACKEND", "keyring")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Backend != BackendKeyring {
		t.Errorf("backend = %q, want keyring", cfg.Storage.Backend)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Storage.Backend = "localStorage"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}
