// Package config loads the process-level settings shared by the pihome
// binaries. Per-remote configuration lives in the database; this file
// only carries what must be known before the database is open.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process-level settings.
type Config struct {
	// Listen is the HTTP API listen address.
	Listen string `yaml:"listen"`
	// DBPath is the sqlite database file. Empty means the default
	// location under the user config directory.
	DBPath string `yaml:"db_path"`
	// PollInterval is the cadence of the control cycle.
	PollInterval time.Duration `yaml:"poll_interval"`
	// GPIO selects the hardware backend: "rpi" or "memory".
	GPIO string `yaml:"gpio"`
	// SMTP configures alert mail. Leaving the server empty disables
	// delivery; alerts are then only logged.
	SMTP SMTP `yaml:"smtp"`
	// Camera configures snapshot capture. Leaving the directory empty
	// disables the camera.
	Camera Camera `yaml:"camera"`
}

// SMTP holds mail delivery settings.
type SMTP struct {
	Server string `yaml:"server"`
	From   string `yaml:"from"`
}

// Camera holds snapshot capture settings.
type Camera struct {
	Dir     string   `yaml:"dir"`
	Command []string `yaml:"command"`
}

const (
	// DefaultListen is the default API listen address.
	DefaultListen = "0.0.0.0:8080"

	// DefaultPollInterval is the default control cycle cadence.
	DefaultPollInterval = time.Second

	// DefaultGPIO is the default hardware backend.
	DefaultGPIO = "rpi"
)

var (
	// errBadGPIOBackend is returned for an unrecognized gpio backend.
	errBadGPIOBackend = errors.New(`gpio backend must be "rpi" or "memory"`)
	// errSMTPFromRequired is returned when a server is set without a
	// sender address.
	errSMTPFromRequired = errors.New("smtp from address must be set when a server is configured")
)

// Load reads configuration from path, applying defaults. An empty path
// returns the defaults without touching the filesystem.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		contents, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and fills in defaults.
func Validate(cfg *Config) error {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if _, err := net.ResolveTCPAddr("tcp", cfg.Listen); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	switch cfg.GPIO {
	case "":
		cfg.GPIO = DefaultGPIO
	case "rpi", "memory":
	default:
		return fmt.Errorf("%w: %q", errBadGPIOBackend, cfg.GPIO)
	}

	if cfg.SMTP.Server != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.SMTP.Server); err != nil {
			return fmt.Errorf("invalid smtp server: %w", err)
		}
		if cfg.SMTP.From == "" {
			return errSMTPFromRequired
		}
	}

	return nil
}
