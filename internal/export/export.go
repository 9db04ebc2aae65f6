// Package export implements the deterministic JSON serialization of
// spec.md §4.9: a full recursive tree shape, or a flat top-N-by-size
// projection, matching the wire shape pinned in spec.md §6.
package export

import (
	"encoding/json"
	"sort"

	"github.com/diskx/diskx/internal/tree"
)

// Node is the exported wire shape (spec.md §6 "Export JSON wire shape").
// Children is omitted from the JSON entirely when empty.
type Node struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	IsDir    bool   `json:"is_dir"`
	Children []Node `json:"children,omitempty"`
}

// Options configures Export. A nil TopN serializes the full tree; a
// non-nil TopN flattens to the N largest nodes by size.
type Options struct {
	TopN *int
}

// Full exports the full tree rooted at tr's root as JSON (spec.md §4.9).
// An empty tree serializes to the JSON literal null.
func Full(tr *tree.Tree) ([]byte, error) {
	root, ok := tr.Root()
	if !ok {
		return json.Marshal(nil)
	}
	return json.Marshal(toExportNode(tr, root))
}

// TopN flattens the tree to the n largest nodes by size, each with no
// children, sorted size-descending. An empty tree serializes to [].
func TopN(tr *tree.Tree, n int) ([]byte, error) {
	root, ok := tr.Root()
	if !ok {
		return json.Marshal([]Node{})
	}

	flat := make([]Node, 0)
	flatten(tr, root, &flat)

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Size > flat[j].Size
	})

	if n < len(flat) {
		flat = flat[:n]
	}
	return json.Marshal(flat)
}

// Export dispatches to Full or TopN per opts, matching spec.md §4.9's
// single entry point shape.
func Export(tr *tree.Tree, opts Options) ([]byte, error) {
	if opts.TopN != nil {
		return TopN(tr, *opts.TopN)
	}
	return Full(tr)
}

func toExportNode(tr *tree.Tree, id tree.NodeID) Node {
	node, _ := tr.GetNode(id)
	children := tr.GetChildren(id)

	out := Node{Path: node.Path, Name: node.Name, Size: node.Size, IsDir: node.IsDir}
	for _, child := range children {
		out.Children = append(out.Children, toExportNode(tr, child))
	}
	return out
}

// flatten visits post-order (children before the node itself) so that,
// under TopN's stable sort, a directory of equal size to one of its own
// descendants never outranks that descendant: the descendant was already
// appended first and the stable sort preserves that relative order on a
// tie (spec.md §8 scenario 2: sub and sub/c are both size 500, and
// sub/c — not sub — must be the second top-N entry).
func flatten(tr *tree.Tree, id tree.NodeID, out *[]Node) {
	for _, child := range tr.GetChildren(id) {
		flatten(tr, child, out)
	}
	node, _ := tr.GetNode(id)
	*out = append(*out, Node{Path: node.Path, Name: node.Name, Size: node.Size, IsDir: node.IsDir})
}
