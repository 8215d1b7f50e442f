package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Timer.FocusDuration != 25*time.Minute || cfg.Timer.BreakDuration != 5*time.Minute {
		t.Fatalf("unexpected default durations: %+v", cfg.Timer)
	}
	if cfg.StoreBackend != BackendSQLite || cfg.DBPath != filepath.Join(dir, "studyloop.db") {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := "log_level: DEBUG\nstore:\n  backend: vault\ntimer:\n  focus_minutes: 50\n  break_minutes: 10\n  tick_millis: 250\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.StoreBackend != BackendVault {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.Timer.FocusDuration != 50*time.Minute || cfg.Timer.BreakDuration != 10*time.Minute || cfg.Timer.TickInterval != 250*time.Millisecond {
		t.Fatalf("timer overlay not applied: %+v", cfg.Timer)
	}
	if cfg.Timer.PersistTimeout != 10*time.Second {
		t.Fatalf("unset keys should keep defaults, got %v", cfg.Timer.PersistTimeout)
	}
}

func TestLoadRejectsUnknownBackendAndMissingExplicitFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: mongo\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir, path); err == nil {
		t.Fatalf("unknown backend must fail validation")
	}
	if _, err := Load(dir, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("explicit missing config file must fail")
	}
	if _, err := New(""); err == nil {
		t.Fatalf("empty data dir must fail")
	}
}
