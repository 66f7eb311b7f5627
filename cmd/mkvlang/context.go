package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mkvlang/internal/config"
	"mkvlang/internal/history"
	"mkvlang/internal/logging"
	"mkvlang/internal/retag"
	"mkvlang/internal/toolexec"
)

type commandContext struct {
	configFlag   string
	logLevelFlag string
	verbose      bool

	// runner and fs replace the exec runner and OS filesystem in tests.
	runner toolexec.Runner
	fs     afero.Fs

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.verbose {
		return "debug"
	}
	if level := strings.TrimSpace(c.logLevelFlag); level != "" {
		return level
	}
	return cfg.Logging.Level
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	tuned := *cfg
	tuned.Logging.Level = c.resolvedLogLevel(cfg)
	logger, err := logging.NewFromConfig(&tuned)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

func (c *commandContext) toolRunner(cfg *config.Config) toolexec.Runner {
	if c.runner != nil {
		return c.runner
	}
	return toolexec.NewExecRunner(cfg.ToolTimeout())
}

// openService wires a retag.Service for cfg. The returned cleanup closes the
// history store. A history database that cannot be opened only disables
// recording.
func (c *commandContext) openService(cfg *config.Config) (*retag.Service, *slog.Logger, func(), error) {
	logger, err := c.newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []retag.Option{
		retag.WithCommandRunner(c.toolRunner(cfg)),
		retag.WithLogger(logger),
	}
	if c.fs != nil {
		opts = append(opts, retag.WithFs(c.fs))
	}

	cleanup := func() {}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "edit history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db"),
			logging.String(logging.FieldImpact, "edits are not recorded and skip_processed is ignored"),
		)
	} else {
		opts = append(opts, retag.WithHistory(store))
		cleanup = func() { _ = store.Close() }
	}

	return retag.NewService(cfg, opts...), logger, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
