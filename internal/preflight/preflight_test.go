package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"mkvlang/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckMediaAccess(t *testing.T) {
	dir := t.TempDir()
	movie := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(movie, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckMediaAccess("file", movie); !result.Passed {
		t.Fatalf("expected pass for writable file, got: %s", result.Detail)
	}
	if result := CheckMediaAccess("root", dir); !result.Passed {
		t.Fatalf("expected pass for writable dir, got: %s", result.Detail)
	}
	if result := CheckMediaAccess("missing", filepath.Join(dir, "gone.mkv")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestRunAllGatesByFeature(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.HistoryDB = filepath.Join(dir, "history.db")
	cfg.Paths.LogDir = filepath.Join(dir, "missing-logs")
	cfg.Paths.LockDir = dir
	cfg.Batch.LockFiles = false

	if results := RunAll(&cfg); len(results) != 0 {
		t.Fatalf("expected no checks with features disabled, got %v", results)
	}

	cfg.Batch.SkipProcessed = true
	cfg.Logging.File = true
	cfg.Batch.LockFiles = true
	results := RunAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 checks, got %v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Log directory" {
		t.Fatalf("expected only the log directory to fail, got %v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}
