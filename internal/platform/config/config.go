package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendVault  = "vault"

	fileName = "config.yaml"
)

type Timer struct {
	FocusDuration  time.Duration
	BreakDuration  time.Duration
	TickInterval   time.Duration
	PersistTimeout time.Duration
}

type Config struct {
	DataDir      string
	DBPath       string
	LogLevel     string
	StoreBackend string
	Timer        Timer
}

type yamlConfig struct {
	LogLevel string `yaml:"log_level"`
	Store    struct {
		Backend string `yaml:"backend"`
	} `yaml:"store"`
	Timer struct {
		FocusMinutes          int `yaml:"focus_minutes"`
		BreakMinutes          int `yaml:"break_minutes"`
		TickMillis            int `yaml:"tick_millis"`
		PersistTimeoutSeconds int `yaml:"persist_timeout_seconds"`
	} `yaml:"timer"`
}

func DefaultTimer() Timer {
	return Timer{
		FocusDuration:  25 * time.Minute,
		BreakDuration:  5 * time.Minute,
		TickInterval:   time.Second,
		PersistTimeout: 10 * time.Second,
	}
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "studyloop.db"),
		LogLevel:     "info",
		StoreBackend: BackendSQLite,
		Timer:        DefaultTimer(),
	}, nil
}

// Load builds the default config for dataDir and overlays the YAML file at
// path, or <dataDir>/config.yaml when path is empty. A missing file is not
// an error.
func Load(dataDir, path string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, fileName)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var fileData yamlConfig
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	applyYAML(&cfg, fileData)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendVault:
	default:
		return fmt.Errorf("store.backend must be one of: %s, %s", BackendSQLite, BackendVault)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
	if c.Timer.FocusDuration <= 0 || c.Timer.BreakDuration <= 0 {
		return fmt.Errorf("timer durations must be positive")
	}
	if c.Timer.TickInterval <= 0 || c.Timer.TickInterval > c.Timer.BreakDuration || c.Timer.TickInterval > c.Timer.FocusDuration {
		return fmt.Errorf("timer tick must be positive and no longer than a phase")
	}
	return nil
}

func applyYAML(cfg *Config, fileData yamlConfig) {
	if level := strings.ToLower(strings.TrimSpace(fileData.LogLevel)); level != "" {
		cfg.LogLevel = level
	}
	if backend := strings.ToLower(strings.TrimSpace(fileData.Store.Backend)); backend != "" {
		cfg.StoreBackend = backend
	}
	if fileData.Timer.FocusMinutes > 0 {
		cfg.Timer.FocusDuration = time.Duration(fileData.Timer.FocusMinutes) * time.Minute
	}
	if fileData.Timer.BreakMinutes > 0 {
		cfg.Timer.BreakDuration = time.Duration(fileData.Timer.BreakMinutes) * time.Minute
	}
	if fileData.Timer.TickMillis > 0 {
		cfg.Timer.TickInterval = time.Duration(fileData.Timer.TickMillis) * time.Millisecond
	}
	if fileData.Timer.PersistTimeoutSeconds > 0 {
		cfg.Timer.PersistTimeout = time.Duration(fileData.Timer.PersistTimeoutSeconds) * time.Second
	}
}
