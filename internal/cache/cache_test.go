package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/diskx/diskx/internal/tree"
)

func buildThreeSiblings(root string) *tree.Tree {
	tr, r := tree.NewWithRoot(root)

	a := tree.NewFileNode(filepath.Join(root, "a"), false)
	a.Size = 100
	b := tree.NewFileNode(filepath.Join(root, "b"), false)
	b.Size = 200
	tr.AddChild(r, a)
	tr.AddChild(r, b)

	sub := tr.AddChild(r, tree.NewFileNode(filepath.Join(root, "sub"), true))
	c := tree.NewFileNode(filepath.Join(root, "sub", "c"), false)
	c.Size = 500
	tr.AddChild(sub, c)

	tr.CalculateSizes()
	return tr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "T")
	store := NewStore(filepath.Join(dir, "cache"))

	tr := buildThreeSiblings(root)
	if err := store.Save(tr, root); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	env, ok := store.LoadValid(root, MaxAge)
	if !ok {
		t.Fatalf("expected a valid cache entry")
	}
	if env.TotalSize != 800 || env.TotalFiles != 3 {
		t.Fatalf("unexpected envelope totals: %+v", env)
	}

	rebuilt, ok := env.ToTree()
	if !ok {
		t.Fatalf("expected envelope to rebuild a tree")
	}
	if rebuilt.TotalSize() != 800 || rebuilt.TotalFileCount() != 3 {
		t.Fatalf("rebuilt tree totals mismatch: size=%d files=%d", rebuilt.TotalSize(), rebuilt.TotalFileCount())
	}

	rebuiltRoot, ok := rebuilt.Root()
	if !ok {
		t.Fatalf("expected rebuilt tree to have a root")
	}
	if len(rebuilt.GetChildren(rebuiltRoot)) != 3 {
		t.Fatalf("expected 3 children on rebuilt root, got %d", len(rebuilt.GetChildren(rebuiltRoot)))
	}

	subID, ok := rebuilt.FindByPath(filepath.Join(root, "sub"))
	if !ok {
		t.Fatalf("expected to find sub by path in rebuilt tree")
	}
	subNode, _ := rebuilt.GetNode(subID)
	if subNode.Size != 500 {
		t.Fatalf("expected sub.size=500, got %d", subNode.Size)
	}
}

func TestLoadValidRejectsWrongRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "T")
	store := NewStore(filepath.Join(dir, "cache"))

	tr := buildThreeSiblings(root)
	if err := store.Save(tr, root); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, ok := store.LoadValid(filepath.Join(dir, "other"), MaxAge); ok {
		t.Fatalf("expected cache lookup for a different root to miss")
	}
}

func TestLoadValidRejectsStaleAge(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "T")
	store := NewStore(filepath.Join(dir, "cache"))

	tr := buildThreeSiblings(root)
	if err := store.Save(tr, root); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	env, ok := store.Load(root)
	if !ok {
		t.Fatalf("expected cache file to load")
	}
	env.ScanTime = time.Now().Add(-8 * 24 * time.Hour).Unix()
	if env.Valid(root, MaxAge) {
		t.Fatalf("expected an 8-day-old cache to be invalid against a 7-day window")
	}
}

func TestLoadValidRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "T")
	store := NewStore(filepath.Join(dir, "cache"))

	tr := buildThreeSiblings(root)
	if err := store.Save(tr, root); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	env, _ := store.Load(root)
	env.Version = Version + 1
	if env.Valid(root, MaxAge) {
		t.Fatalf("expected a version mismatch to invalidate the cache")
	}
}

func TestLoadMissingReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "cache"))

	if _, ok := store.Load(filepath.Join(dir, "nope")); ok {
		t.Fatalf("expected missing cache file to report not-ok")
	}
}

func TestToTreeGuardsAgainstCycles(t *testing.T) {
	rootIdx := 0
	env := &Envelope{
		Version:   Version,
		RootPath:  "/cyclic",
		RootIndex: &rootIdx,
		Nodes: []Node{
			{Path: "/cyclic", IsDir: true, ChildrenIndices: []int{1}},
			{Path: "/cyclic/a", IsDir: true, ChildrenIndices: []int{0}}, // points back at the root
		},
	}

	tr, ok := env.ToTree()
	if !ok {
		t.Fatalf("expected a tree to be rebuilt despite the cycle")
	}
	if tr.NodeCount() != 2 {
		t.Fatalf("expected exactly 2 nodes (no infinite loop), got %d", tr.NodeCount())
	}
}

func TestClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "T")
	store := NewStore(filepath.Join(dir, "cache"))

	tr := buildThreeSiblings(root)
	if err := store.Save(tr, root); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(root); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := store.Load(root); ok {
		t.Fatalf("expected cache to be gone after Clear")
	}
	if err := store.Clear(root); err != nil {
		t.Fatalf("clearing an already-absent cache should be a no-op, got: %v", err)
	}
}
