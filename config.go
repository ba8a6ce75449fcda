package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"merge3/logger"
	"merge3/merge"
	"merge3/text"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// configEnv holds the configuration as JSON, the way editor plugins pass it
const configEnv = "MERGE3_CONFIG"

type Config struct {
	LogLevel        string  `json:"log_level" yaml:"log_level"` // trace, debug, info, warn, error
	LogFile         string  `json:"log_file" yaml:"log_file"`   // empty logs to stderr
	Mode            string  `json:"mode" yaml:"mode"`           // lines, words, runes
	Diff            string  `json:"diff" yaml:"diff"`           // optimal, dmp
	DiffTimeoutMs   int     `json:"diff_timeout_ms" yaml:"diff_timeout_ms"`
	MaxMoveDistance float64 `json:"max_move_distance" yaml:"max_move_distance"`
	MinMoveLength   int     `json:"min_move_length" yaml:"min_move_length"`
	NoMoves         bool    `json:"no_moves" yaml:"no_moves"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:        "warn",
		Mode:            text.ModeLines.String(),
		Diff:            text.DiffOptimal,
		MaxMoveDistance: merge.DefaultMaxMoveDistance,
		MinMoveLength:   merge.DefaultMinMoveLength,
	}
}

// loadConfig starts from the defaults, applies MERGE3_CONFIG and then the
// YAML file at path, if any. Fields missing from a source keep their value.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()

	if raw := os.Getenv(configEnv); raw != "" {
		if err := json.Unmarshal([]byte(raw), &config); err != nil {
			return config, fmt.Errorf("invalid %s: %w", configEnv, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}
	return config, nil
}

// validate reports every invalid field at once
func (c Config) validate() error {
	var result *multierror.Error

	if _, ok := logger.LookupLogLevel(c.LogLevel); !ok {
		result = multierror.Append(result, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if _, err := text.ParseMode(c.Mode); err != nil {
		result = multierror.Append(result, fmt.Errorf("mode: %w", err))
	}
	if c.Diff != text.DiffOptimal && c.Diff != text.DiffDMP {
		result = multierror.Append(result, fmt.Errorf("diff: unknown strategy %q (want %s or %s)", c.Diff, text.DiffOptimal, text.DiffDMP))
	}
	if c.DiffTimeoutMs < 0 {
		result = multierror.Append(result, fmt.Errorf("diff_timeout_ms: %d must not be negative", c.DiffTimeoutMs))
	}
	if c.MaxMoveDistance < 0 || c.MaxMoveDistance > 1 {
		result = multierror.Append(result, fmt.Errorf("max_move_distance: %v must be within [0, 1]", c.MaxMoveDistance))
	}
	if c.MinMoveLength < 0 {
		result = multierror.Append(result, fmt.Errorf("min_move_length: %d must not be negative", c.MinMoveLength))
	}
	return result.ErrorOrNil()
}

// options converts a validated config into text merge options
func (c Config) options() text.Options {
	mode, _ := text.ParseMode(c.Mode)
	return text.Options{
		Mode:            mode,
		Diff:            c.Diff,
		DiffTimeout:     time.Duration(c.DiffTimeoutMs) * time.Millisecond,
		MaxMoveDistance: c.MaxMoveDistance,
		MinMoveLength:   c.MinMoveLength,
		NoMoves:         c.NoMoves,
	}
}
