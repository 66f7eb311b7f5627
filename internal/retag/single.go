package retag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mkvlang/internal/history"
	"mkvlang/internal/language"
	"mkvlang/internal/logging"
	"mkvlang/internal/media/audio"
	"mkvlang/internal/media/mkvpropedit"
	"mkvlang/internal/services"
)

// ChangeDefaultTrackLanguage makes the first audio track in lang the default
// track of the file at path, also flagging it forced when force is set. It
// returns true when mkvpropedit confirmed the edit. An unconfirmed edit
// returns false with an error wrapping services.ErrEditFailed.
func (s *Service) ChangeDefaultTrackLanguage(ctx context.Context, path, lang string, force bool) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithFile(ctx, path)
	sel, err := s.change(ctx, path, lang, force)
	s.record(ctx, path, lang, force, sel, err)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) change(ctx context.Context, path, lang string, force bool) (*audio.Selection, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrEditFailed, "change default track", "", "empty path", nil)
	}
	if strings.TrimSpace(lang) == "" {
		return nil, services.Wrap(services.ErrLanguageNotFound, "change default track", path, "empty language", nil)
	}
	logger := logging.WithContext(ctx, s.logger)

	if s.cfg.Batch.LockFiles {
		lock, err := acquireLock(s.cfg.Paths.LockDir, path)
		if err != nil {
			return nil, err
		}
		defer lock.release()
	}

	file, err := s.identifier.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}

	sel, err := audio.Select(file, lang)
	if err != nil {
		return nil, fmt.Errorf("select track in %s: %w", path, err)
	}
	logger.Info("audio tracks selected",
		logging.String("language", lang),
		logging.String("current_default", sel.CurrentLabel()),
		logging.String("target", sel.TargetLabel()),
		logging.Int("other_defaults", len(sel.OtherDefaults)),
	)

	plan := mkvpropedit.PlanFor(sel, force, s.cfg.Edit.ClearOtherDefaults)
	ok, err := s.editor.Apply(ctx, path, plan)
	if err != nil {
		return &sel, err
	}
	if !ok {
		return &sel, services.Wrap(services.ErrEditFailed, "edit flags", path, "mkvpropedit did not report success", nil)
	}
	logger.Info("default audio track changed",
		logging.String("language", lang),
		logging.Int64("track_id", sel.Target.ID),
		logging.Bool("forced", force),
	)
	return &sel, nil
}

func (s *Service) record(ctx context.Context, path, lang string, force bool, sel *audio.Selection, changeErr error) {
	if s.history == nil {
		return
	}
	entry := history.Entry{
		Path:     path,
		Language: lang,
		Outcome:  history.OutcomeSucceeded,
		Forced:   force,
	}
	entry.RunID, _ = services.RunIDFromContext(ctx)
	if sel != nil {
		target := sel.Target.ID
		entry.TargetTrackID = &target
		if sel.Current != nil {
			previous := sel.Current.ID
			entry.PreviousTrackID = &previous
		}
	}
	if changeErr != nil {
		entry.Outcome = history.OutcomeFailed
		entry.ErrorKind = services.Kind(changeErr)
		entry.ErrorMessage = changeErr.Error()
	} else if info, err := s.fs.Stat(path); err == nil {
		entry.SizeBytes = info.Size()
		entry.ModTime = info.ModTime()
	}
	if _, err := s.history.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "history entry not recorded", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db is writable"),
			logging.String(logging.FieldImpact, "skip_processed may reprocess this file"),
		)
	}
}

// errorHint suggests a next step for a failed file.
func errorHint(err error, lang string, available []string) string {
	switch {
	case errors.Is(err, services.ErrLanguageNotFound):
		if suggestion := language.Suggest(lang, available); suggestion != "" {
			return "file tags this language as \"" + suggestion + "\"; matching is exact"
		}
		return "run `mkvlang identify` to list the audio languages present"
	case errors.Is(err, services.ErrExtraction):
		return "mkvmerge produced no JSON; the file may be unreadable or not a container"
	case errors.Is(err, services.ErrParse):
		return "mkvmerge JSON lacked required track fields; enable debug.dump_identify_json to inspect it"
	case errors.Is(err, services.ErrEditFailed):
		return "mkvpropedit did not confirm the edit; check file permissions"
	case errors.Is(err, services.ErrLocked):
		return "another mkvlang run holds the file lock; retry when it finishes"
	case errors.Is(err, services.ErrExternalTool):
		return "run `mkvlang check` to verify MKVToolNix is installed"
	default:
		return "check logs for details"
	}
}

func availableLanguages(err error) []string {
	var notFound *audio.LanguageNotFoundError
	if errors.As(err, &notFound) {
		return notFound.Available
	}
	return nil
}
