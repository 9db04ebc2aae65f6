// Package tree implements the arena-backed file tree: typed nodes with
// stable handles, ordered children, path lookup, and bottom-up or
// incremental size aggregation.
package tree

import (
	"path/filepath"
	"strings"
	"time"
)

// NodeID is an opaque handle into a Tree's arena. It is only valid for the
// Tree that produced it.
type NodeID int

// invalidNodeID marks "no node" the way a zero-value NodeID would otherwise
// collide with a real root handle.
const invalidNodeID NodeID = -1

// FileNode is one filesystem entity (file, directory, or symlink) that was
// successfully stat'd.
type FileNode struct {
	Name          string
	NameLower     string
	Path          string
	Size          int64
	FileCount     int64
	IsDir         bool
	IsSymlink     bool
	IsHidden      bool
	SymlinkTarget string
	Extension     string
	Modified      time.Time
	Excluded      bool
}

// NewFileNode builds a node from a path and directory flag, deriving the
// basename, lowercase name, hidden flag, and extension per spec.
func NewFileNode(path string, isDir bool) FileNode {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		name = path
	}

	node := FileNode{
		Name:      name,
		NameLower: strings.ToLower(name),
		Path:      path,
		IsDir:     isDir,
		IsHidden:  strings.HasPrefix(name, "."),
	}

	if !isDir {
		node.FileCount = 1
		node.Extension = extensionOf(name)
	}

	return node
}

// extensionOf returns the lowercase tail after the last dot, or "" if the
// name has no dot-extension (including dotfiles with no further dot, e.g.
// ".config").
func extensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// WithModified sets the modified timestamp and returns the node for chaining.
func (n FileNode) WithModified(t time.Time) FileNode {
	n.Modified = t
	return n
}

// WithSymlink marks the node as a symlink with the given (unresolved) target.
func (n FileNode) WithSymlink(target string) FileNode {
	n.IsSymlink = true
	n.SymlinkTarget = target
	return n
}

// arenaNode wraps a FileNode with its arena-local parent/child links.
type arenaNode struct {
	data     FileNode
	parent   NodeID
	children []NodeID
}

// Tree is an arena-allocated file tree. The zero value is not usable; use
// New or NewWithRoot.
type Tree struct {
	nodes []arenaNode
	root  NodeID
	// byPath is a secondary path->id index kept consistent with the arena at
	// every public API boundary (spec.md §4.1 permits this).
	byPath map[string]NodeID
}

// New returns an empty tree with no root.
func New() *Tree {
	return &Tree{root: invalidNodeID, byPath: make(map[string]NodeID)}
}

// NewWithRoot creates a tree whose root is a directory node at path.
func NewWithRoot(path string) (*Tree, NodeID) {
	t := &Tree{byPath: make(map[string]NodeID)}
	root := NewFileNode(path, true)
	id := t.push(arenaNode{data: root, parent: invalidNodeID})
	t.root = id
	t.byPath[path] = id
	return t, id
}

func (t *Tree) push(n arenaNode) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

// Root returns the tree's root id, or (-1, false) if the tree is empty.
func (t *Tree) Root() (NodeID, bool) {
	if t.root == invalidNodeID {
		return invalidNodeID, false
	}
	return t.root, true
}

// AddChild appends a new child under parent and returns its handle.
func (t *Tree) AddChild(parent NodeID, node FileNode) NodeID {
	id := t.push(arenaNode{data: node, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	t.byPath[node.Path] = id
	return id
}

// GetNode returns a copy of the node's data.
func (t *Tree) GetNode(id NodeID) (FileNode, bool) {
	if !t.valid(id) {
		return FileNode{}, false
	}
	return t.nodes[id].data, true
}

// Mutate applies fn to the node's data in place.
func (t *Tree) Mutate(id NodeID, fn func(*FileNode)) bool {
	if !t.valid(id) {
		return false
	}
	fn(&t.nodes[id].data)
	return true
}

// GetParent returns the parent handle, or (-1, false) for the root or an
// invalid id.
func (t *Tree) GetParent(id NodeID) (NodeID, bool) {
	if !t.valid(id) || t.nodes[id].parent == invalidNodeID {
		return invalidNodeID, false
	}
	return t.nodes[id].parent, true
}

// GetChildren returns the ordered child handles of id.
func (t *Tree) GetChildren(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	out := make([]NodeID, len(t.nodes[id].children))
	copy(out, t.nodes[id].children)
	return out
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// FindByPath looks up a node by its exact path.
func (t *Tree) FindByPath(path string) (NodeID, bool) {
	id, ok := t.byPath[path]
	return id, ok
}

// CalculateSizes recomputes Size and FileCount for every node from the
// leaves upward. Excluded nodes contribute 0 to their parent's aggregate.
func (t *Tree) CalculateSizes() {
	if t.root == invalidNodeID {
		return
	}
	t.calculateSizes(t.root)
}

func (t *Tree) calculateSizes(id NodeID) (int64, int64) {
	children := t.nodes[id].children
	if len(children) == 0 {
		n := t.nodes[id].data
		if n.Excluded {
			return 0, 0
		}
		return n.Size, n.FileCount
	}

	var totalSize, totalCount int64
	for _, child := range children {
		s, c := t.calculateSizes(child)
		totalSize += s
		totalCount += c
	}

	n := &t.nodes[id].data
	if !n.Excluded {
		n.Size = totalSize
		n.FileCount = totalCount
	}
	if n.Excluded {
		return 0, 0
	}
	return n.Size, n.FileCount
}

// AddSizeToAncestors adds deltaSize/deltaCount to id and every ancestor up
// to the root, in O(depth). Excluded nodes are skipped but traversal
// continues past them. Used during streaming construction.
func (t *Tree) AddSizeToAncestors(id NodeID, deltaSize, deltaCount int64) {
	current := id
	for t.valid(current) {
		n := &t.nodes[current].data
		if !n.Excluded {
			n.Size += deltaSize
			n.FileCount += deltaCount
		}
		parent := t.nodes[current].parent
		if parent == invalidNodeID {
			break
		}
		current = parent
	}
}

// TotalSize returns the root's aggregated size, or 0 for an empty tree.
func (t *Tree) TotalSize() int64 {
	if t.root == invalidNodeID {
		return 0
	}
	return t.nodes[t.root].data.Size
}

// TotalFileCount returns the root's aggregated file count, or 0 for an
// empty tree.
func (t *Tree) TotalFileCount() int64 {
	if t.root == invalidNodeID {
		return 0
	}
	return t.nodes[t.root].data.FileCount
}

// NodeCount returns the number of nodes in the arena.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// Clone produces an independent deep copy: new handles, no shared state.
func (t *Tree) Clone() *Tree {
	clone := New()
	if t.root == invalidNodeID {
		return clone
	}

	root, _ := t.GetNode(t.root)
	cloneRoot := t.push2(clone, root, invalidNodeID)
	clone.root = cloneRoot
	t.cloneChildren(clone, t.root, cloneRoot)
	return clone
}

func (t *Tree) push2(dst *Tree, n FileNode, parent NodeID) NodeID {
	id := dst.push(arenaNode{data: n, parent: parent})
	dst.byPath[n.Path] = id
	return id
}

func (t *Tree) cloneChildren(dst *Tree, srcParent, dstParent NodeID) {
	for _, childID := range t.nodes[srcParent].children {
		child := t.nodes[childID].data
		newID := t.push2(dst, child, dstParent)
		dst.nodes[dstParent].children = append(dst.nodes[dstParent].children, newID)
		t.cloneChildren(dst, childID, newID)
	}
}
