package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeEdit()
	c.normalizeBatch()
	if err := c.normalizeDebug(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(strings.TrimSpace(c.Paths.HistoryDB)); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(strings.TrimSpace(c.Paths.LockDir)); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Mkvmerge = strings.TrimSpace(c.Tools.Mkvmerge)
	if c.Tools.Mkvmerge == "" {
		c.Tools.Mkvmerge = defaultMkvmerge
	}
	c.Tools.Mkvpropedit = strings.TrimSpace(c.Tools.Mkvpropedit)
	if c.Tools.Mkvpropedit == "" {
		c.Tools.Mkvpropedit = defaultMkvpropedit
	}
}

func (c *Config) normalizeEdit() {
	if strings.TrimSpace(c.Edit.SuccessMarker) == "" {
		c.Edit.SuccessMarker = defaultSuccessMarker
	}
	c.Edit.SuccessDetection = strings.ToLower(strings.TrimSpace(c.Edit.SuccessDetection))
	if c.Edit.SuccessDetection == "" {
		c.Edit.SuccessDetection = defaultSuccessDetection
	}
	c.Edit.TrackSelector = strings.ToLower(strings.TrimSpace(c.Edit.TrackSelector))
	if c.Edit.TrackSelector == "" {
		c.Edit.TrackSelector = defaultTrackSelectorMode
	}
}

func (c *Config) normalizeBatch() {
	ext := strings.ToLower(strings.TrimSpace(c.Batch.Extension))
	if ext == "" {
		ext = defaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Batch.Extension = ext
	if c.Batch.Workers == 0 {
		c.Batch.Workers = defaultBatchWorkers
	}
}

func (c *Config) normalizeDebug() error {
	c.Debug.DumpPath = strings.TrimSpace(c.Debug.DumpPath)
	if c.Debug.DumpPath == "" {
		c.Debug.DumpPath = defaultDumpPath
	}
	if !c.Debug.DumpIdentifyJSON {
		return nil
	}
	expanded, err := expandPath(c.Debug.DumpPath)
	if err != nil {
		return fmt.Errorf("debug.dump_path: %w", err)
	}
	c.Debug.DumpPath = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
