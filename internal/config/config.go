package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/taskwatch/internal/filelock"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// ErrInvalid marks a configuration that fails validation.
var ErrInvalid = errors.New("invalid config")

// Config is the persisted application configuration.
type Config struct {
	// Directory is the watched task directory; nil until one is chosen.
	Directory *string `json:"directory" yaml:"directory"`
	// PollingInterval is in milliseconds.
	PollingInterval int `json:"pollingInterval" yaml:"pollingInterval"`
}

// Dir returns the configured directory, or "" when none is set.
func (c Config) Dir() string {
	if c.Directory == nil {
		return ""
	}
	return *c.Directory
}

// SetDir sets the directory. An empty dir clears it.
func (c *Config) SetDir(dir string) {
	if dir == "" {
		c.Directory = nil
		return
	}
	c.Directory = &dir
}

// Validate checks the config for errors.
func (c Config) Validate() error {
	if c.PollingInterval < MinPollingInterval {
		return fmt.Errorf("%w: pollingInterval must be >= %d ms, got %d",
			ErrInvalid, MinPollingInterval, c.PollingInterval)
	}
	return nil
}

// Store reads and writes the config file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the per-user config file location,
// e.g. ~/.config/taskwatch/config.json on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, AppDir, FileName), nil
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// stored mirrors Config with optional fields so absent keys fall back to
// defaults individually.
type stored struct {
	Directory       *string `json:"directory"`
	PollingInterval *int    `json:"pollingInterval"`
}

// Load reads the config. A missing, unreadable or corrupt file yields
// Default(); a missing or out-of-range field yields that field's default.
func (s *Store) Load() Config {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return cfg
	}
	var raw stored
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	if raw.Directory != nil {
		cfg.SetDir(*raw.Directory)
	}
	if raw.PollingInterval != nil && *raw.PollingInterval >= MinPollingInterval {
		cfg.PollingInterval = *raw.PollingInterval
	}
	return cfg
}

// Save validates cfg and writes it, creating the parent directory if needed.
func (s *Store) Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.locked(func() error { return s.write(cfg) })
}

// Update applies fn to the stored config and saves the result while holding
// the config lock, so concurrent updates from the CLI and the server do not
// lose writes. The saved config is returned.
func (s *Store) Update(fn func(*Config) error) (Config, error) {
	var cfg Config
	err := s.locked(func() error {
		cfg = s.Load()
		if err := fn(&cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return s.write(cfg)
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Store) locked(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return filelock.With(s.path+".lock", fn)
}

func (s *Store) write(cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), fileMode); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
