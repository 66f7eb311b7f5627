package retag

import (
	"log/slog"

	"github.com/spf13/afero"

	"mkvlang/internal/config"
	"mkvlang/internal/history"
	"mkvlang/internal/library"
	"mkvlang/internal/logging"
	"mkvlang/internal/media/mkvmerge"
	"mkvlang/internal/media/mkvpropedit"
	"mkvlang/internal/toolexec"
)

// Service runs default-language changes.
type Service struct {
	cfg        *config.Config
	runner     toolexec.Runner
	fs         afero.Fs
	history    *history.Store
	logger     *slog.Logger
	identifier *mkvmerge.Identifier
	editor     *mkvpropedit.Editor
	scanner    *library.Scanner
}

// Option configures a Service.
type Option func(*Service)

// WithCommandRunner overrides how mkvmerge and mkvpropedit are executed.
func WithCommandRunner(runner toolexec.Runner) Option {
	return func(s *Service) {
		if runner != nil {
			s.runner = runner
		}
	}
}

// WithFs overrides the filesystem used for discovery, stat calls, and the
// debug dump.
func WithFs(fsys afero.Fs) Option {
	return func(s *Service) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithHistory attaches the edit ledger. Without it nothing is recorded and
// skip_processed has no effect.
func WithHistory(store *history.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a Service from cfg. A nil cfg uses config.Default().
func NewService(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	s := &Service{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.runner == nil {
		s.runner = toolexec.NewExecRunner(cfg.ToolTimeout())
	}
	s.logger = logging.NewComponentLogger(s.logger, "retag")

	identifyOpts := []mkvmerge.Option{mkvmerge.WithLogger(s.logger)}
	if cfg.Debug.DumpIdentifyJSON {
		identifyOpts = append(identifyOpts, mkvmerge.WithDump(s.fs, cfg.Debug.DumpPath))
	}
	s.identifier = mkvmerge.NewIdentifier(cfg.MkvmergeBinary(), s.runner, identifyOpts...)
	s.editor = mkvpropedit.NewEditor(cfg.MkvpropeditBinary(), s.runner,
		mkvpropedit.WithSuccessMarker(cfg.Edit.SuccessMarker),
		mkvpropedit.WithDetection(mkvpropedit.Detection(cfg.Edit.SuccessDetection)),
		mkvpropedit.WithSelector(mkvpropedit.Selector(cfg.Edit.TrackSelector)),
		mkvpropedit.WithLogger(s.logger),
	)
	s.scanner = library.NewScanner(s.fs, cfg.Batch.Extension, s.logger)
	return s
}

// Identifier exposes the identification helper used by the service.
func (s *Service) Identifier() *mkvmerge.Identifier {
	return s.identifier
}
