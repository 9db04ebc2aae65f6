package trash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeleteFilesPermanentRemovesFileAndDir(t *testing.T) {
	dir := t.TempDir()

	filePath := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(filePath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	subdir := filepath.Join(dir, "sub")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(subdir, "b.txt"), []byte("world!"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result := DeleteFiles([]string{filePath, subdir}, false)

	if len(result.Failed) != 0 {
		t.Fatalf("expected no failures, got %+v", result.Failed)
	}
	if len(result.Deleted) != 2 {
		t.Fatalf("expected 2 deleted paths, got %v", result.Deleted)
	}
	if result.BytesFreed != int64(len("hello")+len("world!")) {
		t.Fatalf("expected bytes_freed=%d, got %d", len("hello")+len("world!"), result.BytesFreed)
	}

	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed")
	}
	if _, err := os.Stat(subdir); !os.IsNotExist(err) {
		t.Fatalf("expected directory to be removed")
	}
}

func TestDeleteFilesIndependentFailures(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// blocked does not exist, which deletePermanently reports as success
	// rather than a failure, so we only assert that the existing file's
	// own deletion is unaffected by the other path.
	blocked := filepath.Join(dir, "does-not-exist", "nested.txt")

	result := DeleteFiles([]string{existing, blocked}, false)

	found := false
	for _, d := range result.Deleted {
		if d == existing {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s to be deleted despite the other path's outcome, got %+v", existing, result)
	}
}

func TestDirSizeSumsRecursively(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), []byte("123"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got := dirSize(dir); got != 8 {
		t.Fatalf("expected dirSize=8, got %d", got)
	}
}
