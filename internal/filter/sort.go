package filter

import (
	"sort"
	"strings"

	"github.com/diskx/diskx/internal/tree"
)

// SortOrder is one of the four orderings spec.md §4.7 names. Directories-
// first is always applied as a primary key on top of the chosen order;
// ties within a key use insertion order (NodeID ascending, since handles
// are assigned in insertion order by the arena).
type SortOrder int

const (
	SortSizeDesc SortOrder = iota
	SortNameAsc
	SortFileCountDesc
	SortModifiedDesc
)

// SortChildren returns ids sorted per order, directories-first, with
// insertion order as the tie-break (spec.md §4.7, §9 "sort stability").
func SortChildren(tr *tree.Tree, ids []tree.NodeID, order SortOrder) []tree.NodeID {
	out := make([]tree.NodeID, len(ids))
	copy(out, ids)

	nodes := make(map[tree.NodeID]tree.FileNode, len(out))
	for _, id := range out {
		n, _ := tr.GetNode(id)
		nodes[id] = n
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := nodes[out[i]], nodes[out[j]]

		if a.IsDir != b.IsDir {
			return a.IsDir
		}

		switch order {
		case SortNameAsc:
			al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if al != bl {
				return al < bl
			}
		case SortFileCountDesc:
			if a.FileCount != b.FileCount {
				return a.FileCount > b.FileCount
			}
		case SortModifiedDesc:
			if !a.Modified.Equal(b.Modified) {
				return a.Modified.After(b.Modified)
			}
		case SortSizeDesc:
			fallthrough
		default:
			if a.Size != b.Size {
				return a.Size > b.Size
			}
		}

		return out[i] < out[j]
	})

	return out
}
