package mkvpropedit

import (
	"context"
	"log/slog"
	"strings"

	"mkvlang/internal/logging"
	"mkvlang/internal/services"
	"mkvlang/internal/toolexec"
)

const (
	defaultBinary = "mkvpropedit"
	// DefaultSuccessMarker is the substring mkvpropedit prints on completion.
	DefaultSuccessMarker = "Done"
	maxLoggedOutput      = 512
)

// Detection selects how Apply judges success.
type Detection string

const (
	// DetectExitAndMarker requires a zero exit status and the success marker.
	DetectExitAndMarker Detection = "exit_and_marker"
	// DetectMarker looks at the marker only and ignores the exit status.
	DetectMarker Detection = "marker"
)

// Editor applies plans with mkvpropedit.
type Editor struct {
	binary    string
	runner    toolexec.Runner
	marker    string
	detection Detection
	selector  Selector
	logger    *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithSuccessMarker overrides the success marker substring.
func WithSuccessMarker(marker string) Option {
	return func(e *Editor) {
		if marker != "" {
			e.marker = marker
		}
	}
}

// WithDetection sets the success detection mode.
func WithDetection(mode Detection) Option {
	return func(e *Editor) {
		if mode != "" {
			e.detection = mode
		}
	}
}

// WithSelector sets the track addressing style.
func WithSelector(selector Selector) Option {
	return func(e *Editor) {
		if selector != "" {
			e.selector = selector
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logging.NewComponentLogger(logger, "mkvpropedit")
		}
	}
}

// NewEditor constructs an Editor. An empty binary falls back to "mkvpropedit"
// on PATH and a nil runner to an unbounded exec runner.
func NewEditor(binary string, runner toolexec.Runner, opts ...Option) *Editor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	if runner == nil {
		runner = toolexec.NewExecRunner(0)
	}
	e := &Editor{
		binary:    binary,
		runner:    runner,
		marker:    DefaultSuccessMarker,
		detection: DetectExitAndMarker,
		selector:  SelectorTypeID,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Apply runs mkvpropedit once for plan and reports whether it succeeded. A
// tool that cannot run, exits non-zero (in exit_and_marker mode), or omits
// the marker yields false with a nil error; the error return is reserved for
// invalid requests.
func (e *Editor) Apply(ctx context.Context, path string, plan Plan) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, services.Wrap(services.ErrEditFailed, "edit flags", "", "empty path", nil)
	}
	args := BuildArgs(path, plan, e.selector)
	e.logger.Info("applying track flags",
		logging.String(logging.FieldFile, path),
		logging.String("command", e.binary+" "+strings.Join(args, " ")),
	)

	result, err := e.runner.Run(ctx, e.binary, args...)
	if err != nil {
		logging.WarnWithContext(e.logger, "mkvpropedit could not run", "edit_tool_error",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check tools.mkvpropedit and run `mkvlang check`"),
			logging.String(logging.FieldImpact, "track flags unchanged"),
		)
		return false, nil
	}

	ok := e.succeeded(result)
	if !ok {
		logging.WarnWithContext(e.logger, "mkvpropedit did not report success", "edit_not_confirmed",
			logging.String(logging.FieldFile, path),
			logging.Int("exit_code", result.ExitCode),
			logging.String("output", tail(result.Output)),
			logging.String(logging.FieldErrorHint, "inspect the tool output; the file may be read-only or not Matroska"),
			logging.String(logging.FieldImpact, "track flags may be unchanged"),
		)
	}
	return ok, nil
}

func (e *Editor) succeeded(result toolexec.Result) bool {
	if e.detection != DetectMarker && !result.Succeeded() {
		return false
	}
	return result.Output != "" && strings.Contains(result.Output, e.marker)
}

func tail(output string) string {
	output = strings.TrimSpace(output)
	if len(output) <= maxLoggedOutput {
		return output
	}
	return "..." + output[len(output)-maxLoggedOutput:]
}
