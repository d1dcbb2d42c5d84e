package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ProjectConfigName is picked up from the working directory when no
// explicit --config is given.
const ProjectConfigName = "rir-speech.toml"

// Paths holds the input and output roots.
type Paths struct {
	CleanRoot string `toml:"clean_root"`
	RIRRoot   string `toml:"rir_root"`
	OutRoot   string `toml:"out_root"`
}

// Build controls corpus production.
type Build struct {
	TotalOutputs        int    `toml:"total_outputs"`
	MaxVariantsPerClean int    `toml:"max_variants_per_clean"`
	Seed                int64  `toml:"seed"`
	SampleRate          int    `toml:"sample_rate"`
	ShardSize           int    `toml:"shard_size"`
	DryRun              bool   `toml:"dry_run"`
	Workers             string `toml:"workers"`
	SQLiteIndex         bool   `toml:"sqlite_index"`
	RIRMetricsCSV       bool   `toml:"rir_metrics_csv"`
}

// Metrics tunes the acoustic metric engine.
type Metrics struct {
	DRRWindowMS float64 `toml:"drr_window_ms"`
}

// Logging selects log verbosity and handler.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full application configuration.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Build   Build   `toml:"build"`
	Metrics Metrics `toml:"metrics"`
	Logging Logging `toml:"logging"`
}

// Load starts from Default, decodes the TOML file at path (or
// ./rir-speech.toml when path is empty and the file exists) and normalizes
// the result. It returns the resolved path and whether a file was read.
// Validation is left to the caller so flag overrides can be applied first.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if path != "" && !exists {
		return nil, "", false, fmt.Errorf("config file %s: %w", resolvedPath, fs.ErrNotExist)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = ProjectConfigName
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// Normalize expands user paths and canonicalizes enum-like strings.
func (c *Config) Normalize() error {
	var err error
	if c.Paths.CleanRoot, err = expandPath(c.Paths.CleanRoot); err != nil {
		return fmt.Errorf("paths.clean_root: %w", err)
	}
	if c.Paths.RIRRoot, err = expandPath(c.Paths.RIRRoot); err != nil {
		return fmt.Errorf("paths.rir_root: %w", err)
	}
	if c.Paths.OutRoot, err = expandPath(c.Paths.OutRoot); err != nil {
		return fmt.Errorf("paths.out_root: %w", err)
	}
	c.Build.Workers = strings.ToLower(strings.TrimSpace(c.Build.Workers))
	if c.Build.Workers == "" {
		c.Build.Workers = defaultWorkers
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if strings.TrimSpace(pathValue) == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules to the CLI.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
