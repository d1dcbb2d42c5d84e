package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable for a corpus build.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.ValidateBuild(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CleanRoot) == "" {
		return errors.New("paths.clean_root must be set")
	}
	if strings.TrimSpace(c.Paths.RIRRoot) == "" {
		return errors.New("paths.rir_root must be set")
	}
	if strings.TrimSpace(c.Paths.OutRoot) == "" {
		return errors.New("paths.out_root must be set")
	}
	return nil
}

// ValidateBuild checks the [build] and [metrics] sections only; commands
// that never touch the input roots use it instead of Validate.
func (c *Config) ValidateBuild() error {
	if c.Build.SampleRate < 8000 {
		return fmt.Errorf("build.sample_rate must be >= 8000, got %d", c.Build.SampleRate)
	}
	if c.Build.TotalOutputs < 0 {
		return errors.New("build.total_outputs must be >= 0")
	}
	if c.Build.MaxVariantsPerClean < 0 {
		return errors.New("build.max_variants_per_clean must be >= 0")
	}
	if c.Build.ShardSize < 1 {
		return errors.New("build.shard_size must be >= 1")
	}
	if _, err := ParseWorkers(c.Build.Workers); err != nil {
		return fmt.Errorf("build.workers: %w", err)
	}
	if !(c.Metrics.DRRWindowMS > 0) {
		return errors.New("metrics.drr_window_ms must be > 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
