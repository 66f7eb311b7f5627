package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateEdit(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateEdit() error {
	switch c.Edit.SuccessDetection {
	case DetectExitAndMarker, DetectMarker:
	default:
		return fmt.Errorf("edit.success_detection: unsupported value %q (use %q or %q)", c.Edit.SuccessDetection, DetectExitAndMarker, DetectMarker)
	}
	switch c.Edit.TrackSelector {
	case SelectorTypeID, SelectorNumber:
	default:
		return fmt.Errorf("edit.track_selector: unsupported value %q (use %q or %q)", c.Edit.TrackSelector, SelectorTypeID, SelectorNumber)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 1 {
		return errors.New("batch.workers must be positive")
	}
	if c.Batch.Workers > maxBatchWorkers {
		return fmt.Errorf("batch.workers must not exceed %d", maxBatchWorkers)
	}
	if strings.ContainsAny(c.Batch.Extension, `/\`) {
		return fmt.Errorf("batch.extension %q must not contain path separators", c.Batch.Extension)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.File {
		if c.Logging.MaxSizeMB <= 0 {
			return errors.New("logging.max_size_mb must be positive when logging.file is true")
		}
		if c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
			return errors.New("logging.max_backups and logging.max_age_days must not be negative")
		}
	}
	return nil
}
