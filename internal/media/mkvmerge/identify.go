package mkvmerge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"mkvlang/internal/logging"
	"mkvlang/internal/services"
	"mkvlang/internal/toolexec"
)

const defaultBinary = "mkvmerge"

// Identifier runs `mkvmerge -J` and turns its output into metadata.
type Identifier struct {
	binary   string
	runner   toolexec.Runner
	logger   *slog.Logger
	dumpFS   afero.Fs
	dumpPath string
}

// Option configures an Identifier.
type Option func(*Identifier)

// WithLogger attaches a logger for identification diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Identifier) {
		if logger != nil {
			i.logger = logging.NewComponentLogger(logger, "mkvmerge")
		}
	}
}

// WithDump writes every extracted JSON object to path on fs. The file is
// overwritten per identification and write failures only log a warning.
func WithDump(fs afero.Fs, path string) Option {
	return func(i *Identifier) {
		i.dumpFS = fs
		i.dumpPath = strings.TrimSpace(path)
	}
}

// NewIdentifier builds an Identifier. An empty binary falls back to "mkvmerge"
// on PATH and a nil runner to an unbounded exec runner.
func NewIdentifier(binary string, runner toolexec.Runner, opts ...Option) *Identifier {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	if runner == nil {
		runner = toolexec.NewExecRunner(0)
	}
	id := &Identifier{binary: binary, runner: runner, logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(id)
		}
	}
	return id
}

// Identify runs the identification tool against path and returns the decoded
// JSON document. A non-zero exit alone is not a failure: unrecognized files
// still produce a document with an errors list.
func (i *Identifier) Identify(ctx context.Context, path string) (map[string]any, error) {
	result, err := i.runner.Run(ctx, i.binary, "-J", path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "identify", path, "run "+i.binary, err)
	}
	if !result.Succeeded() {
		i.logger.Debug("mkvmerge exited non-zero",
			logging.String(logging.FieldFile, path),
			logging.Int("exit_code", result.ExitCode),
		)
	}

	blob, err := locateObject(result.Output)
	if err != nil {
		return nil, fmt.Errorf("identify %s: %w", path, err)
	}
	i.dump(path, blob)
	doc, err := decodeObject(blob)
	if err != nil {
		return nil, fmt.Errorf("identify %s: %w", path, err)
	}
	return doc, nil
}

// Inspect identifies path and parses the result into a MediaFile.
func (i *Identifier) Inspect(ctx context.Context, path string) (MediaFile, error) {
	doc, err := i.Identify(ctx, path)
	if err != nil {
		return MediaFile{}, err
	}
	file, err := Parse(doc)
	if err != nil {
		return MediaFile{}, fmt.Errorf("identify %s: %w", path, err)
	}
	return file, nil
}

func (i *Identifier) dump(path, blob string) {
	if i.dumpFS == nil || i.dumpPath == "" {
		return
	}
	if err := afero.WriteFile(i.dumpFS, i.dumpPath, []byte(blob), 0o644); err != nil {
		logging.WarnWithContext(i.logger, "identification dump failed", "identify_dump",
			logging.String(logging.FieldFile, path),
			logging.String("dump_path", i.dumpPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check debug.dump_path is writable"),
			logging.String(logging.FieldImpact, "debug output missing; processing continues"),
		)
		return
	}
	i.logger.Debug("identification dumped", logging.String("dump_path", i.dumpPath))
}
