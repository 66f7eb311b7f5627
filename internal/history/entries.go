package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Outcome is the result recorded for one file.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Entry is one ledger row.
type Entry struct {
	ID              int64
	RunID           string
	Path            string
	Language        string
	Outcome         Outcome
	ErrorKind       string
	ErrorMessage    string
	PreviousTrackID *int64
	TargetTrackID   *int64
	Forced          bool
	SizeBytes       int64
	ModTime         time.Time
	CreatedAt       time.Time
}

// Record inserts e and returns its row id. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(e.Path) == "" {
		return 0, errors.New("history entry requires a path")
	}
	if e.Outcome == "" {
		return 0, errors.New("history entry requires an outcome")
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var mtime int64
	if !e.ModTime.IsZero() {
		mtime = e.ModTime.UnixNano()
	}

	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `INSERT INTO edits (
			run_id, path, language, outcome, error_kind, error_message,
			previous_track_id, target_track_id, forced, size_bytes, mtime_unix_nano, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.RunID, e.Path, e.Language, string(e.Outcome), e.ErrorKind, e.ErrorMessage,
			nullableInt(e.PreviousTrackID), nullableInt(e.TargetTrackID), boolToInt(e.Forced),
			e.SizeBytes, mtime, created.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("record history entry: %w", err)
	}
	return id, nil
}

// Processed reports whether path was last successfully edited to language
// while having exactly the given size and modification time. When forced is
// set the last success must also have set flag-forced.
func (s *Store) Processed(ctx context.Context, path, language string, forced bool, size int64, modTime time.Time) (bool, error) {
	ctx = ensureContext(ctx)
	var (
		gotSize   int64
		gotMtime  int64
		gotForced int
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, `SELECT size_bytes, mtime_unix_nano, forced FROM edits
			WHERE path = ? AND language = ? AND outcome = ?
			ORDER BY id DESC LIMIT 1`,
			path, language, string(OutcomeSucceeded),
		).Scan(&gotSize, &gotMtime, &gotForced)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query history: %w", err)
	}
	if forced && gotForced == 0 {
		return false, nil
	}
	return gotSize == size && gotMtime == modTime.UnixNano(), nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, run_id, path, language, outcome, error_kind, error_message,
		previous_track_id, target_track_id, forced, size_bytes, mtime_unix_nano, created_at
		FROM edits ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var entries []Entry
	err := retryOnBusy(ctx, func() error {
		entries = entries[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry    Entry
		outcome  string
		previous sql.NullInt64
		target   sql.NullInt64
		forced   int
		mtime    int64
		created  string
	)
	if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Path, &entry.Language, &outcome,
		&entry.ErrorKind, &entry.ErrorMessage, &previous, &target, &forced,
		&entry.SizeBytes, &mtime, &created); err != nil {
		return Entry{}, err
	}
	entry.Outcome = Outcome(outcome)
	entry.PreviousTrackID = intPointer(previous)
	entry.TargetTrackID = intPointer(target)
	entry.Forced = forced != 0
	if mtime != 0 {
		entry.ModTime = time.Unix(0, mtime)
	}
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func nullableInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPointer(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
