package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/rir-speech/internal/config"
	"github.com/cwbudde/rir-speech/internal/logging"
)

// commandContext carries persistent flag values and the lazily loaded
// configuration shared by subcommands.
type commandContext struct {
	configFlag string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(c.configFlag)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(c.logLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(c.logFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
}
