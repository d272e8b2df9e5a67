package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"kidtodo/internal/persist"
	"kidtodo/internal/reminder"
)

const (
	xdgAppName = "kidtodo"
	configFile = "config.yaml"
)

// Config is the on-disk configuration.
type Config struct {
	DataDir    string          `mapstructure:"data_dir"`
	Backend    string          `mapstructure:"backend"`
	StorageKey string          `mapstructure:"storage_key"`
	Reminders  RemindersConfig `mapstructure:"reminders"`
}

type RemindersConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	Grace        time.Duration `mapstructure:"grace"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    DefaultDataDir(),
		Backend:    "file",
		StorageKey: persist.StorageKey,
		Reminders: RemindersConfig{
			Interval:     reminder.DefaultInterval,
			Grace:        reminder.DefaultGrace,
			StartupDelay: reminder.DefaultStartupDelay,
		},
	}
}

// ReminderConfig converts the reminder section for the engine.
func (c *Config) ReminderConfig() reminder.Config {
	return reminder.Config{
		Interval:     c.Reminders.Interval,
		Grace:        c.Reminders.Grace,
		StartupDelay: c.Reminders.StartupDelay,
	}
}

// Validate reports settings the app cannot run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("backend must be file, sqlite or memory, got %q", c.Backend)
	}
	if c.Backend != "memory" && c.DataDir == "" {
		return fmt.Errorf("data_dir is required for the %s backend", c.Backend)
	}
	if c.Reminders.Interval <= 0 {
		return fmt.Errorf("reminders.interval must be positive, got %s", c.Reminders.Interval)
	}
	if c.Reminders.Grace <= 0 {
		return fmt.Errorf("reminders.grace must be positive, got %s", c.Reminders.Grace)
	}
	return nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", xdgAppName)
	}
	return filepath.Join(dir, xdgAppName)
}

// DefaultPath is where the config file lives unless --config says otherwise.
func DefaultPath() string {
	return filepath.Join(configDir(), configFile)
}

// DefaultDataDir holds the task record and the debug log.
func DefaultDataDir() string {
	return configDir()
}

// Load reads path (DefaultPath when empty) over the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, nil
}

// document is the YAML form written to disk; durations are kept readable.
type document struct {
	DataDir    string `yaml:"data_dir"`
	Backend    string `yaml:"backend"`
	StorageKey string `yaml:"storage_key"`
	Reminders  struct {
		Interval     string `yaml:"interval"`
		Grace        string `yaml:"grace"`
		StartupDelay string `yaml:"startup_delay"`
	} `yaml:"reminders"`
}

// Marshal renders cfg as the YAML document Save writes.
func Marshal(cfg *Config) ([]byte, error) {
	var doc document
	doc.DataDir = cfg.DataDir
	doc.Backend = cfg.Backend
	doc.StorageKey = cfg.StorageKey
	doc.Reminders.Interval = cfg.Reminders.Interval.String()
	doc.Reminders.Grace = cfg.Reminders.Grace.String()
	doc.Reminders.StartupDelay = cfg.Reminders.StartupDelay.String()

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
