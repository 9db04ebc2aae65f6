package duplicates

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, content []byte, modTime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

func TestFindDuplicatesXYZW(t *testing.T) {
	dir := t.TempDir()

	contentA := make([]byte, 10*1024)
	for i := range contentA {
		contentA[i] = 'a'
	}
	contentB := make([]byte, 10*1024)
	for i := range contentB {
		contentB[i] = 'b'
	}

	now := time.Now()
	writeFile(t, filepath.Join(dir, "x"), contentA, now)
	writeFile(t, filepath.Join(dir, "y"), contentA, now.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "z"), contentB, now.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "w"), contentB, now.Add(3*time.Hour))

	det := NewDetector(dir)
	result, err := det.Find(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result.Groups))
	}
	if result.TotalDuplicates != 2 {
		t.Fatalf("expected total_duplicates=2, got %d", result.TotalDuplicates)
	}
	if result.WastedSpace != 2*10*1024 {
		t.Fatalf("expected wasted_space=%d, got %d", 2*10*1024, result.WastedSpace)
	}

	for _, g := range result.Groups {
		if len(g.Members) != 2 {
			t.Fatalf("expected group of 2, got %d", len(g.Members))
		}
		if g.Members[0].Modified.After(g.Members[1].Modified) {
			t.Fatalf("expected oldest-first ordering within group")
		}
	}
}

func TestFindDuplicatesRespectsMinSize(t *testing.T) {
	dir := t.TempDir()
	content := []byte("tiny")
	writeFile(t, filepath.Join(dir, "a"), content, time.Now())
	writeFile(t, filepath.Join(dir, "b"), content, time.Now())

	det := NewDetector(dir)
	det.Config.MinSize = 1024 // bigger than the 4-byte files above

	result, err := det.Find(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Groups) != 0 {
		t.Fatalf("expected no groups below min size, got %d", len(result.Groups))
	}
}

func TestFindDuplicatesNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), []byte("aaaaaaaaaaaaaaaaaaaa"), time.Now())
	writeFile(t, filepath.Join(dir, "b"), []byte("bbbbbbbbbbbbbbbbbbbb"), time.Now())

	det := NewDetector(dir)
	det.Config.MinSize = 1

	result, err := det.Find(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Groups) != 0 {
		t.Fatalf("expected no duplicate groups for distinct content, got %d", len(result.Groups))
	}
}

func TestPruneSingletons(t *testing.T) {
	in := map[int64][]string{
		100: {"a"},
		200: {"b", "c"},
	}
	out := pruneSingletons(in)
	if _, ok := out[100]; ok {
		t.Fatalf("expected singleton bucket to be pruned")
	}
	if len(out[200]) != 2 {
		t.Fatalf("expected 2-member bucket to survive")
	}
}
