package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure
type Config struct {
	// Port is matched case-insensitively against MIDI port names
	Port         string `yaml:"port"`
	Template     uint8  `yaml:"template"`
	Fader8Master bool   `yaml:"fader8master"`
	LongPressMs  int    `yaml:"longPressMs"`
	DemoTracks   int    `yaml:"demoTracks"`
	Debug        bool   `yaml:"debug"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Port:        "Launch Control XL",
		Template:    8, // Factory template 1
		LongPressMs: 500,
		DemoTracks:  16,
	}
}

// LongPress returns the long-press delay as a duration
func (c *Config) LongPress() time.Duration {
	return time.Duration(c.LongPressMs) * time.Millisecond
}

// Validate checks ranges the device and surface depend on
func (c *Config) Validate() error {
	if c.Template > 15 {
		return errors.Errorf("template %d out of range 0-15", c.Template)
	}
	if c.LongPressMs <= 0 {
		return errors.Errorf("longPressMs must be positive, got %d", c.LongPressMs)
	}
	if c.DemoTracks < 0 {
		return errors.Errorf("demoTracks must not be negative, got %d", c.DemoTracks)
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "home directory")
	}
	return filepath.Join(home, ".config", "go-lcxl"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not
// found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Fields missing from the file keep
// their defaults; a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}
