package diskspace

import (
	"path/filepath"
	"testing"
)

func TestProbeCurrentDir(t *testing.T) {
	dir := t.TempDir()
	info, err := Probe(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Total == 0 {
		t.Fatalf("expected a nonzero total for a real mount point")
	}
	if info.Used != info.Total-info.Available {
		t.Fatalf("expected used = total - available, got used=%d total=%d available=%d", info.Used, info.Total, info.Available)
	}
}

func TestProbeNonexistentPath(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatalf("expected an error for a nonexistent path")
	}
}

func TestUsagePercent(t *testing.T) {
	info := Info{Total: 200, Used: 50}
	if got := info.UsagePercent(); got != 25 {
		t.Fatalf("expected 25%%, got %f", got)
	}
}

func TestUsagePercentZeroTotal(t *testing.T) {
	info := Info{}
	if got := info.UsagePercent(); got != 0 {
		t.Fatalf("expected 0 for zero total, got %f", got)
	}
}
