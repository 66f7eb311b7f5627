package retag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mkvlang/internal/history"
	"mkvlang/internal/logging"
	"mkvlang/internal/services"
)

// FileResult is the outcome for one discovered container.
type FileResult struct {
	Path     string
	Outcome  history.Outcome
	Err      error
	Duration time.Duration
}

// Report summarizes a batch run. Files and Failed follow walk order.
type Report struct {
	RunID     string
	Root      string
	Language  string
	Files     []FileResult
	Failed    []string
	Succeeded int
	Skipped   int
	Duration  time.Duration
}

// OK reports whether every file succeeded or was skipped.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// ChangeDefaultTrackLanguageBatch runs the single-file change with forced
// flags on every container below root. Per-file failures never abort the run;
// the returned error is reserved for an unreadable root.
func (s *Service) ChangeDefaultTrackLanguageBatch(ctx context.Context, root, lang string) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger := logging.WithContext(ctx, s.logger)
	report := Report{RunID: runID, Root: root, Language: lang}

	paths, err := s.scanner.Scan(root)
	if err != nil {
		return report, fmt.Errorf("discover containers: %w", err)
	}
	logger.Info("batch started",
		logging.String("root", root),
		logging.String("language", lang),
		logging.Int("files", len(paths)),
		logging.Int("workers", s.workers()),
	)

	results := make([]FileResult, len(paths))
	var group errgroup.Group
	group.SetLimit(s.workers())
	for i, path := range paths {
		group.Go(func() error {
			results[i] = s.processBatchFile(ctx, path, lang)
			return nil
		})
	}
	_ = group.Wait()

	report.Files = results
	for _, result := range results {
		switch result.Outcome {
		case history.OutcomeSucceeded:
			report.Succeeded++
		case history.OutcomeSkipped:
			report.Skipped++
		default:
			report.Failed = append(report.Failed, result.Path)
		}
	}
	report.Duration = time.Since(started)

	summary := []logging.Attr{
		logging.Int("files", len(paths)),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", len(report.Failed)),
		logging.Duration("duration", report.Duration),
	}
	if report.OK() {
		logger.Info("batch complete", logging.Args(summary...)...)
	} else {
		summary = append(summary,
			logging.Strings("failed_files", report.Failed),
			logging.String(logging.FieldErrorHint, "rerun the failed files individually with `mkvlang set`"),
			logging.String(logging.FieldImpact, "listed files keep their previous default audio track"),
		)
		logging.WarnWithContext(logger, "batch complete with failures", "batch_failures", summary...)
	}
	return report, nil
}

func (s *Service) workers() int {
	if s.cfg.Batch.Workers < 1 {
		return 1
	}
	return s.cfg.Batch.Workers
}

func (s *Service) processBatchFile(ctx context.Context, path, lang string) (result FileResult) {
	started := time.Now()
	result = FileResult{Path: path}
	fileCtx := services.WithFile(ctx, path)
	logger := logging.WithContext(fileCtx, s.logger)

	defer func() {
		if recovered := recover(); recovered != nil {
			result.Outcome = history.OutcomeFailed
			result.Err = fmt.Errorf("panic while processing %s: %v", path, recovered)
		}
		result.Duration = time.Since(started)
		if result.Err != nil {
			logging.WarnWithContext(logger, "file failed", "batch_file_failed",
				logging.Error(result.Err),
				logging.String("error_kind", services.Kind(result.Err)),
				logging.String(logging.FieldErrorHint, errorHint(result.Err, lang, availableLanguages(result.Err))),
				logging.String(logging.FieldImpact, "file left unchanged; batch continues"),
			)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Outcome = history.OutcomeFailed
		result.Err = err
		return result
	}

	if skip, err := s.alreadyProcessed(fileCtx, path, lang); err != nil {
		logger.Debug("history lookup failed", logging.Error(err))
	} else if skip {
		logger.Info("already processed, skipping", logging.String("language", lang))
		result.Outcome = history.OutcomeSkipped
		return result
	}

	if _, err := s.ChangeDefaultTrackLanguage(fileCtx, path, lang, true); err != nil {
		result.Outcome = history.OutcomeFailed
		result.Err = err
		return result
	}
	result.Outcome = history.OutcomeSucceeded
	return result
}

func (s *Service) alreadyProcessed(ctx context.Context, path, lang string) (bool, error) {
	if !s.cfg.Batch.SkipProcessed || s.history == nil {
		return false, nil
	}
	info, err := s.fs.Stat(path)
	if err != nil {
		return false, err
	}
	return s.history.Processed(ctx, path, lang, true, info.Size(), info.ModTime())
}
