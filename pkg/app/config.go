package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/gridflow/pkg/scheduler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // .hcl, .yaml or .yml file, or a directory of them

	LogFormat string
	LogLevel  string
	// WorkerCount is the pool size per graph run. Zero means runtime.NumCPU()
	// unless the definition files set one.
	WorkerCount int
	// Scheduler names the scheduling strategy. Empty defers to the
	// definition files.
	Scheduler string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("worker count cannot be negative, got %d", cfg.WorkerCount)
	}

	if cfg.Scheduler != "" {
		if _, err := scheduler.Lookup(cfg.Scheduler); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
