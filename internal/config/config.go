package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
	// LockDir holds the per-file edit locks. Lock files are never created
	// next to the media.
	LockDir string `toml:"lock_dir"`
}

// Tools locates the two mkvtoolnix executables mkvlang shells out to.
type Tools struct {
	Mkvmerge       string `toml:"mkvmerge"`
	Mkvpropedit    string `toml:"mkvpropedit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Edit controls how default/forced flags are rewritten.
type Edit struct {
	// Force also sets flag-forced on the promoted track.
	Force bool `toml:"force"`
	// ClearOtherDefaults demotes every default audio track, not only the first.
	ClearOtherDefaults bool `toml:"clear_other_defaults"`
	// SuccessMarker is the text mkvpropedit prints when it finished writing.
	SuccessMarker string `toml:"success_marker"`
	// SuccessDetection is "exit_and_marker" or "marker".
	SuccessDetection string `toml:"success_detection"`
	// TrackSelector is "type_id" (track:a<id>) or "number" (track:@<number>).
	TrackSelector string `toml:"track_selector"`
}

// Batch contains directory processing settings.
type Batch struct {
	Extension     string `toml:"extension"`
	Workers       int    `toml:"workers"`
	SkipProcessed bool   `toml:"skip_processed"`
	LockFiles     bool   `toml:"lock_files"`
}

// Debug contains opt-in diagnostic artifacts.
type Debug struct {
	DumpIdentifyJSON bool   `toml:"dump_identify_json"`
	DumpPath         string `toml:"dump_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       bool   `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for mkvlang.
//
// Configuration sections by subsystem:
//   - Paths: log directory and edit history database
//   - Tools: mkvmerge/mkvpropedit executables and per-call timeout
//   - Edit: flag rewrite policy and success detection
//   - Batch: directory walk extension, worker count, skip and lock behaviour
//   - Debug: identification JSON dump
//   - Logging: log format, level, and file rotation
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Edit    Edit    `toml:"edit"`
	Batch   Batch   `toml:"batch"`
	Debug   Debug   `toml:"debug"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
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

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mkvlang.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the history store, lock files and log file need.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.HistoryDB) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	if c.Batch.LockFiles {
		dirs = append(dirs, c.Paths.LockDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MkvmergeBinary returns the identification executable name or path.
func (c *Config) MkvmergeBinary() string {
	if strings.TrimSpace(c.Tools.Mkvmerge) == "" {
		return defaultMkvmerge
	}
	return c.Tools.Mkvmerge
}

// MkvpropeditBinary returns the flag editing executable name or path.
func (c *Config) MkvpropeditBinary() string {
	if strings.TrimSpace(c.Tools.Mkvpropedit) == "" {
		return defaultMkvpropedit
	}
	return c.Tools.Mkvpropedit
}

// ToolTimeout returns the per-invocation timeout for external tools.
func (c *Config) ToolTimeout() time.Duration {
	if c.Tools.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// LogFilePath returns the rotating log file location, or "" when file logging is off.
func (c *Config) LogFilePath() string {
	if !c.Logging.File || strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "mkvlang.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
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

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
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
