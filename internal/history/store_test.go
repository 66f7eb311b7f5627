package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mkvlang/internal/history"
	"mkvlang/internal/testsupport"
)

func TestRecordAndRecent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	prev, target := int64(1), int64(2)
	modTime := time.Unix(1_700_000_000, 123456789)
	first, err := store.Record(ctx, history.Entry{
		RunID:           "run-1",
		Path:            "/media/a.mkv",
		Language:        "jpn",
		Outcome:         history.OutcomeSucceeded,
		PreviousTrackID: &prev,
		TargetTrackID:   &target,
		Forced:          true,
		SizeBytes:       42,
		ModTime:         modTime,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	second, err := store.Record(ctx, history.Entry{
		RunID:        "run-1",
		Path:         "/media/b.mkv",
		Language:     "jpn",
		Outcome:      history.OutcomeFailed,
		ErrorKind:    "language_not_found",
		ErrorMessage: "requested language not found",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if second <= first {
		t.Fatalf("expected increasing ids, got %d then %d", first, second)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "/media/b.mkv" || entries[0].TargetTrackID != nil {
		t.Fatalf("expected newest failed entry first, got %#v", entries[0])
	}
	got := entries[1]
	if got.Outcome != history.OutcomeSucceeded || !got.Forced || got.SizeBytes != 42 {
		t.Fatalf("unexpected entry %#v", got)
	}
	if got.PreviousTrackID == nil || *got.PreviousTrackID != 1 || got.TargetTrackID == nil || *got.TargetTrackID != 2 {
		t.Fatalf("track ids not round-tripped: %#v", got)
	}
	if !got.ModTime.Equal(modTime) {
		t.Fatalf("mod time = %v, want %v", got.ModTime, modTime)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected 1 entry with limit, got %d (%v)", len(limited), err)
	}
}

func TestProcessed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	modTime := time.Unix(1_700_000_000, 0)

	if ok, err := store.Processed(ctx, "/media/a.mkv", "eng", true, 10, modTime); err != nil || ok {
		t.Fatalf("empty history should not report processed: %v %v", ok, err)
	}

	if _, err := store.Record(ctx, history.Entry{Path: "/media/a.mkv", Language: "eng", Outcome: history.OutcomeSucceeded, Forced: true, SizeBytes: 10, ModTime: modTime}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	cases := []struct {
		name     string
		language string
		forced   bool
		size     int64
		modTime  time.Time
		want     bool
	}{
		{name: "unchanged", language: "eng", forced: true, size: 10, modTime: modTime, want: true},
		{name: "unforced request", language: "eng", size: 10, modTime: modTime, want: true},
		{name: "other language", language: "jpn", forced: true, size: 10, modTime: modTime, want: false},
		{name: "size changed", language: "eng", forced: true, size: 11, modTime: modTime, want: false},
		{name: "mtime changed", language: "eng", forced: true, size: 10, modTime: modTime.Add(time.Second), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.Processed(ctx, "/media/a.mkv", tc.language, tc.forced, tc.size, tc.modTime)
			if err != nil {
				t.Fatalf("Processed failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Processed() = %v, want %v", got, tc.want)
			}
		})
	}

	if _, err := store.Record(ctx, history.Entry{Path: "/media/a.mkv", Language: "eng", Outcome: history.OutcomeFailed}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if ok, _ := store.Processed(ctx, "/media/a.mkv", "eng", true, 10, modTime); !ok {
		t.Fatal("a later failure must not hide the last success")
	}
}

func TestProcessedRequiresForcedEdit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	modTime := time.Unix(1_700_000_000, 0)

	if _, err := store.Record(ctx, history.Entry{Path: "/media/b.mkv", Language: "jpn", Outcome: history.OutcomeSucceeded, SizeBytes: 10, ModTime: modTime}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if ok, err := store.Processed(ctx, "/media/b.mkv", "jpn", true, 10, modTime); err != nil || ok {
		t.Fatalf("an unforced edit must not satisfy a forced request: %v %v", ok, err)
	}
	if ok, err := store.Processed(ctx, "/media/b.mkv", "jpn", false, 10, modTime); err != nil || !ok {
		t.Fatalf("an unforced edit should satisfy an unforced request: %v %v", ok, err)
	}
}

func TestRecordValidation(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if _, err := store.Record(context.Background(), history.Entry{Outcome: history.OutcomeSucceeded}); err == nil {
		t.Fatal("expected error for missing path")
	}
	if _, err := store.Record(context.Background(), history.Entry{Path: "/a.mkv"}); err == nil {
		t.Fatal("expected error for missing outcome")
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Entry{Path: "/a.mkv", Language: "eng", Outcome: history.OutcomeSkipped}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	entries, err := reopened.Recent(context.Background(), 0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected persisted entry, got %d (%v)", len(entries), err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.HistoryDB = ""
	if _, err := history.Open(cfg); err == nil {
		t.Fatal("expected error for empty history path")
	}
	if _, err := history.Open(nil); err == nil || errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
