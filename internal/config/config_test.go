package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kidtodo/internal/persist"
	"kidtodo/internal/reminder"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend != "file" {
		t.Errorf("Expected file backend, got %q", cfg.Backend)
	}
	if cfg.StorageKey != persist.StorageKey {
		t.Errorf("Expected storage key %q, got %q", persist.StorageKey, cfg.StorageKey)
	}
	if cfg.Reminders.Interval != reminder.DefaultInterval || cfg.Reminders.Grace != reminder.DefaultGrace {
		t.Errorf("Unexpected reminder defaults %+v", cfg.Reminders)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "file" || cfg.Reminders.Interval != reminder.DefaultInterval {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `data_dir: /tmp/kids
backend: sqlite
reminders:
  interval: 45s
  grace: 2h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/tmp/kids" || cfg.Backend != "sqlite" {
		t.Errorf("Expected overrides, got %+v", cfg)
	}
	if cfg.Reminders.Interval != 45*time.Second || cfg.Reminders.Grace != 2*time.Hour {
		t.Errorf("Expected parsed durations, got %+v", cfg.Reminders)
	}
	if cfg.Reminders.StartupDelay != reminder.DefaultStartupDelay {
		t.Errorf("Expected untouched startup delay, got %s", cfg.Reminders.StartupDelay)
	}
	if cfg.StorageKey != persist.StorageKey {
		t.Errorf("Expected default storage key, got %q", cfg.StorageKey)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("backend: [unterminated"), 0o600)
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "redis" }, "backend must be"},
		{"file without dir", func(c *Config) { c.DataDir = "" }, "data_dir is required"},
		{"memory without dir", func(c *Config) { c.Backend = "memory"; c.DataDir = "" }, ""},
		{"zero interval", func(c *Config) { c.Reminders.Interval = 0 }, "interval must be positive"},
		{"negative grace", func(c *Config) { c.Reminders.Grace = -time.Minute }, "grace must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultConfig()
	want.DataDir = "/srv/kidtodo"
	want.Backend = "memory"
	want.Reminders.Interval = time.Minute
	want.Reminders.StartupDelay = 0

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "interval: 1m0s") {
		t.Errorf("Expected readable durations, got:\n%s", data)
	}
}

func TestReminderConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reminders.Grace = time.Hour
	rc := cfg.ReminderConfig()
	if rc.Grace != time.Hour || rc.Interval != reminder.DefaultInterval {
		t.Errorf("Unexpected reminder config %+v", rc)
	}
}
