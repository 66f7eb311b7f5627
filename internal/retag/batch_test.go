package retag_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"mkvlang/internal/history"
	"mkvlang/internal/retag"
	"mkvlang/internal/testsupport"
	"mkvlang/internal/toolexec"
)

func TestBatchRecordsFailuresAndContinues(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			runner := testsupport.NewFakeRunner()
			svc, fsys := newMemService(t, runner, testsupport.WithWorkers(workers))

			files := []string{
				"/lib/a/ep1.mkv",
				"/lib/a/ep2.mkv",
				"/lib/a/ep10.MKV",
				"/lib/b/broken.mkv",
				"/lib/b/missing-id.mkv",
				"/lib/b/no-jpn.mkv",
				"/lib/b/panics.mkv",
				"/lib/b/readme.txt",
			}
			for _, path := range files {
				testsupport.WriteFile(t, fsys, path, 8)
			}
			runner.Identify["/lib/a/ep1.mkv"] = engJpnOutput(t, "ep1.mkv")
			runner.Identify["/lib/a/ep2.mkv"] = engJpnOutput(t, "ep2.mkv")
			runner.Identify["/lib/a/ep10.MKV"] = engJpnOutput(t, "ep10.MKV")
			runner.Identify["/lib/b/broken.mkv"] = toolexec.Result{Output: "Error: truncated", ExitCode: 2}
			runner.Identify["/lib/b/missing-id.mkv"] = toolexec.Result{Output: `{"tracks":[{"type":"audio","codec":"AAC","properties":{"language":"jpn"}}]}`}
			runner.Identify["/lib/b/no-jpn.mkv"] = testsupport.IdentifyOutput(t, "no-jpn.mkv", testsupport.AudioTrack(1, "eng", true))
			runner.Panic["/lib/b/panics.mkv"] = "boom"

			report, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/lib", "jpn")
			if err != nil {
				t.Fatalf("batch returned error: %v", err)
			}

			wantFailed := []string{
				"/lib/b/broken.mkv",
				"/lib/b/missing-id.mkv",
				"/lib/b/no-jpn.mkv",
				"/lib/b/panics.mkv",
			}
			if !reflect.DeepEqual(report.Failed, wantFailed) {
				t.Fatalf("Failed = %v, want %v", report.Failed, wantFailed)
			}
			if report.Succeeded != 3 || report.OK() {
				t.Fatalf("unexpected report %+v", report)
			}
			if len(report.Files) != 7 || report.Files[0].Path != "/lib/a/ep1.mkv" || report.Files[2].Path != "/lib/a/ep10.MKV" {
				t.Fatalf("unexpected walk order %+v", report.Files)
			}
			if report.RunID == "" {
				t.Fatal("expected a run id")
			}
			if edits := runner.EditCalls(); len(edits) != 3 {
				t.Fatalf("expected 3 edits, got %d", len(edits))
			}
			for _, edit := range runner.EditCalls() {
				if edit.Args[len(edit.Args)-1] != "flag-forced=1" {
					t.Fatalf("batch edits must force, got %v", edit.Args)
				}
			}
		})
	}
}

func TestBatchFailuresFollowWalkOrder(t *testing.T) {
	runner := testsupport.NewFakeRunner()
	svc, fsys := newMemService(t, runner, testsupport.WithWorkers(3))
	for _, path := range []string{"/lib/b/x.mkv", "/lib/b.mkv", "/lib/ep10.mkv", "/lib/ep2.mkv"} {
		testsupport.WriteFile(t, fsys, path, 8)
		runner.Identify[path] = toolexec.Result{Output: "Error: not a container", ExitCode: 2}
	}

	report, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/lib", "jpn")
	if err != nil {
		t.Fatalf("batch returned error: %v", err)
	}
	want := []string{"/lib/b/x.mkv", "/lib/b.mkv", "/lib/ep2.mkv", "/lib/ep10.mkv"}
	if !reflect.DeepEqual(report.Failed, want) {
		t.Fatalf("Failed = %v, want %v", report.Failed, want)
	}
}

func TestBatchEmptyAndMissingRoot(t *testing.T) {
	svc, fsys := newMemService(t, testsupport.NewFakeRunner())
	if err := fsys.MkdirAll("/empty", 0o755); err != nil {
		t.Fatal(err)
	}

	report, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/empty", "eng")
	if err != nil {
		t.Fatalf("empty root returned error: %v", err)
	}
	if !report.OK() || len(report.Files) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	if _, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/missing", "eng"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestBatchSkipsProcessedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSkipProcessed())
	store := testsupport.MustOpenHistory(t, cfg)
	runner := testsupport.NewFakeRunner()
	fsys := afero.NewMemMapFs()
	testsupport.WriteFile(t, fsys, "/lib/movie.mkv", 64)
	runner.Identify["/lib/movie.mkv"] = engJpnOutput(t, "movie.mkv")
	svc := retag.NewService(cfg, retag.WithCommandRunner(runner), retag.WithFs(fsys), retag.WithHistory(store))

	first, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/lib", "jpn")
	if err != nil || first.Succeeded != 1 {
		t.Fatalf("first run: %+v, %v", first, err)
	}
	second, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/lib", "jpn")
	if err != nil || second.Skipped != 1 || second.Succeeded != 0 {
		t.Fatalf("second run should skip: %+v, %v", second, err)
	}
	if second.Files[0].Outcome != history.OutcomeSkipped {
		t.Fatalf("unexpected outcome %q", second.Files[0].Outcome)
	}
	if edits := runner.EditCalls(); len(edits) != 1 {
		t.Fatalf("expected a single edit across both runs, got %d", len(edits))
	}

	third, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/lib", "eng")
	if err != nil || third.Succeeded != 1 {
		t.Fatalf("a different language must not be skipped: %+v, %v", third, err)
	}
}

func TestBatchReprocessesUnforcedEdits(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSkipProcessed())
	store := testsupport.MustOpenHistory(t, cfg)
	runner := testsupport.NewFakeRunner()
	fsys := afero.NewMemMapFs()
	testsupport.WriteFile(t, fsys, "/lib/movie.mkv", 64)
	runner.Identify["/lib/movie.mkv"] = engJpnOutput(t, "movie.mkv")
	svc := retag.NewService(cfg, retag.WithCommandRunner(runner), retag.WithFs(fsys), retag.WithHistory(store))

	if _, err := svc.ChangeDefaultTrackLanguage(context.Background(), "/lib/movie.mkv", "jpn", false); err != nil {
		t.Fatalf("unforced change failed: %v", err)
	}
	report, err := svc.ChangeDefaultTrackLanguageBatch(context.Background(), "/lib", "jpn")
	if err != nil || report.Succeeded != 1 || report.Skipped != 0 {
		t.Fatalf("batch must redo an unforced edit: %+v, %v", report, err)
	}
	edits := runner.EditCalls()
	if len(edits) != 2 || edits[1].Args[len(edits[1].Args)-1] != "flag-forced=1" {
		t.Fatalf("expected a second, forced edit, got %+v", edits)
	}
}

func TestBatchCancelledContext(t *testing.T) {
	runner := testsupport.NewFakeRunner()
	svc, fsys := newMemService(t, runner)
	testsupport.WriteFile(t, fsys, "/lib/movie.mkv", 8)
	runner.Identify["/lib/movie.mkv"] = engJpnOutput(t, "movie.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := svc.ChangeDefaultTrackLanguageBatch(ctx, "/lib", "jpn")
	if err != nil {
		t.Fatalf("batch returned error: %v", err)
	}
	if len(report.Failed) != 1 || len(runner.Calls()) != 0 {
		t.Fatalf("cancelled batch should fail files without running tools: %+v", report)
	}
}
