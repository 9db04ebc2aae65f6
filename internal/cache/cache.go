// Package cache implements the on-disk scan cache of spec.md §4.10: a flat,
// indexed envelope for a tree, with a validity window and a breadth-first
// rehydrator that defends against a corrupted, cyclic envelope.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/diskx/diskx/internal/tree"
)

// Version is the current envelope format version. A cache whose Version
// field does not match this is rejected, never migrated.
const Version uint32 = 1

// MaxAge is the suggested validity window (spec.md §4.10): a cache older
// than this is treated as stale and a fresh scan is performed instead.
const MaxAge = 7 * 24 * time.Hour

// Node is one flat record in the envelope: a FileNode plus the
// parent/children indices that reconstruct the tree shape.
type Node struct {
	Path            string     `msgpack:"path"`
	Name            string     `msgpack:"name"`
	Size            int64      `msgpack:"size"`
	IsDir           bool       `msgpack:"is_dir"`
	IsHidden        bool       `msgpack:"is_hidden"`
	IsSymlink       bool       `msgpack:"is_symlink"`
	FileCount       int64      `msgpack:"file_count"`
	Modified        *time.Time `msgpack:"modified,omitempty"`
	Extension       string     `msgpack:"extension,omitempty"`
	ParentIndex     *int       `msgpack:"parent_index,omitempty"`
	ChildrenIndices []int      `msgpack:"children_indices"`
}

// Envelope is the on-disk cache format (spec.md §6 "Scan cache envelope").
// EntryID is a debug-visible identifier for the cache entry; it has no
// bearing on validity or lookup.
type Envelope struct {
	EntryID    string `msgpack:"entry_id"`
	RootPath   string `msgpack:"root_path"`
	ScanTime   int64  `msgpack:"scan_time"`
	Version    uint32 `msgpack:"version"`
	Nodes      []Node `msgpack:"nodes"`
	RootIndex  *int   `msgpack:"root_index,omitempty"`
	TotalSize  int64  `msgpack:"total_size"`
	TotalFiles int64  `msgpack:"total_files"`
}

// Store reads and writes envelopes under a single directory, one file per
// scanned root, named after a hash of the root path.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created lazily
// on first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns $XDG_CACHE_HOME/diskx when XDG_CACHE_HOME is set,
// otherwise ~/.cache/diskx, falling back to diskx-cache under os.TempDir
// if the user's home can't be resolved.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "diskx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "diskx-cache")
	}
	return filepath.Join(home, ".cache", "diskx")
}

// filename derives a cache filename from the root path. The hash need not
// be cryptographic: it only picks a filename, never establishes identity
// (the envelope's own RootPath field does that on load).
func (s *Store) filename(rootPath string) string {
	sum := sha256.Sum256([]byte(rootPath))
	return filepath.Join(s.dir, fmt.Sprintf("scan_%s.msgpack", hex.EncodeToString(sum[:8])))
}

// Save serializes tr to the cache file for rootPath, assigning each node an
// index in depth-first pre-order from the root (root is index 0) and
// recording its parent-index and children-indices through a NodeID-to-index
// map built during that walk. These indices are not the arena's insertion
// order, which differs for a tree built breadth-first.
func (s *Store) Save(tr *tree.Tree, rootPath string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create dir: %w", err)
	}

	env := Envelope{
		EntryID:    uuid.NewString(),
		RootPath:   rootPath,
		ScanTime:   time.Now().Unix(),
		Version:    Version,
		TotalSize:  tr.TotalSize(),
		TotalFiles: tr.TotalFileCount(),
	}

	root, ok := tr.Root()
	if ok {
		indexOf := make(map[tree.NodeID]int)
		collect(tr, root, invalidParent, indexOf, &env.Nodes)
		rootIdx := 0
		env.RootIndex = &rootIdx
		fillChildren(tr, root, indexOf, env.Nodes)
	}

	data, err := msgpack.Marshal(&env)
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}
	return os.WriteFile(s.filename(rootPath), data, 0o644)
}

const invalidParent = -1

// collect walks the tree depth-first, appending a Node per arena node and
// recording parent indices; children_indices is left empty here and filled
// by fillChildren once every node has a known index.
func collect(tr *tree.Tree, id tree.NodeID, parentIdx int, indexOf map[tree.NodeID]int, out *[]Node) {
	data, _ := tr.GetNode(id)
	idx := len(*out)
	indexOf[id] = idx

	var parentPtr *int
	if parentIdx >= 0 {
		p := parentIdx
		parentPtr = &p
	}

	var modified *time.Time
	if !data.Modified.IsZero() {
		m := data.Modified
		modified = &m
	}

	*out = append(*out, Node{
		Path:      data.Path,
		Name:      data.Name,
		Size:      data.Size,
		IsDir:     data.IsDir,
		IsHidden:  data.IsHidden,
		IsSymlink: data.IsSymlink,
		FileCount: data.FileCount,
		Modified:  modified,
		Extension: data.Extension,
		ParentIndex: parentPtr,
	})

	for _, child := range tr.GetChildren(id) {
		collect(tr, child, idx, indexOf, out)
	}
}

func fillChildren(tr *tree.Tree, id tree.NodeID, indexOf map[tree.NodeID]int, nodes []Node) {
	idx := indexOf[id]
	children := tr.GetChildren(id)
	indices := make([]int, 0, len(children))
	for _, child := range children {
		indices = append(indices, indexOf[child])
	}
	nodes[idx].ChildrenIndices = indices

	for _, child := range children {
		fillChildren(tr, child, indexOf, nodes)
	}
}

// Valid reports whether a loaded envelope is still usable for rootPath:
// its version matches, its root path matches exactly, and it is not older
// than maxAge.
func (e *Envelope) Valid(rootPath string, maxAge time.Duration) bool {
	if e.Version != Version || e.RootPath != rootPath {
		return false
	}
	age := time.Since(time.Unix(e.ScanTime, 0))
	return age <= maxAge
}

// Load reads and unmarshals the cache file for rootPath without validating
// it; callers should check Valid before trusting the result. It returns
// (nil, false) if no cache file exists or it cannot be parsed — a
// serialization error during load invalidates the cache rather than
// propagating, per spec.md §7.
func (s *Store) Load(rootPath string) (*Envelope, bool) {
	data, err := os.ReadFile(s.filename(rootPath))
	if err != nil {
		return nil, false
	}
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	return &env, true
}

// LoadValid loads and validates the cache for rootPath in one step,
// returning (nil, false) whenever Load fails or Valid is false — the
// combined "use the cache if you can, else fall back to a fresh scan"
// helper most callers want.
func (s *Store) LoadValid(rootPath string, maxAge time.Duration) (*Envelope, bool) {
	env, ok := s.Load(rootPath)
	if !ok || !env.Valid(rootPath, maxAge) {
		return nil, false
	}
	return env, true
}

// ToTree rebuilds a *tree.Tree from the envelope by breadth-first
// reinsertion starting at RootIndex, guarding against cycles introduced by
// a corrupted envelope via a visited set over cache indices (spec.md §9
// "Cache trust").
func (e *Envelope) ToTree() (*tree.Tree, bool) {
	if len(e.Nodes) == 0 || e.RootIndex == nil {
		return nil, false
	}
	rootIdx := *e.RootIndex
	if rootIdx < 0 || rootIdx >= len(e.Nodes) {
		return nil, false
	}

	rootCached := e.Nodes[rootIdx]
	tr, rootID := tree.NewWithRoot(rootCached.Path)
	tr.Mutate(rootID, func(n *tree.FileNode) {
		applyCached(n, rootCached)
	})

	visited := map[int]bool{rootIdx: true}
	type queued struct {
		cacheIdx int
		nodeID   tree.NodeID
	}
	queue := []queued{{rootIdx, rootID}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		cached := e.Nodes[item.cacheIdx]

		for _, childIdx := range cached.ChildrenIndices {
			if childIdx < 0 || childIdx >= len(e.Nodes) || visited[childIdx] {
				continue
			}
			visited[childIdx] = true

			childCached := e.Nodes[childIdx]
			node := tree.NewFileNode(childCached.Path, childCached.IsDir)
			applyCached(&node, childCached)
			childID := tr.AddChild(item.nodeID, node)
			queue = append(queue, queued{childIdx, childID})
		}
	}

	return tr, true
}

func applyCached(n *tree.FileNode, c Node) {
	n.Size = c.Size
	n.FileCount = c.FileCount
	n.IsHidden = c.IsHidden
	n.IsSymlink = c.IsSymlink
	n.Extension = c.Extension
	if c.Modified != nil {
		n.Modified = *c.Modified
	}
}

// Clear removes the cache file for rootPath, if any.
func (s *Store) Clear(rootPath string) error {
	err := os.Remove(s.filename(rootPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
