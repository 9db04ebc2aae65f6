package filter

import (
	"github.com/dustin/go-humanize"

	"github.com/diskx/diskx/internal/tree"
)

// FormatSize renders a byte count the way the UI shows it alongside
// filtered/sorted nodes, replacing the teacher's hand-rolled FormatSize.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.Bytes(uint64(-bytes))
	}
	return humanize.Bytes(uint64(bytes))
}

// CategorySummary is one row of the per-category breakdown: total bytes
// and file count contributed by files of that category under a node.
type CategorySummary struct {
	Category  Category
	Size      int64
	FileCount int64
}

// Summarize walks the subtree rooted at id and tallies size/file_count per
// category, for the statistics panel spec.md §4.7 says shares the category
// table with the treemap. Directories themselves do not contribute; only
// files are bucketed by CategoryForExtension(file.Extension).
func Summarize(tr *tree.Tree, id tree.NodeID) map[Category]*CategorySummary {
	totals := make(map[Category]*CategorySummary)
	summarize(tr, id, totals)
	return totals
}

func summarize(tr *tree.Tree, id tree.NodeID, totals map[Category]*CategorySummary) {
	node, ok := tr.GetNode(id)
	if !ok {
		return
	}

	if !node.IsDir && !node.Excluded {
		cat := CategoryForExtension(node.Extension)
		s, exists := totals[cat]
		if !exists {
			s = &CategorySummary{Category: cat}
			totals[cat] = s
		}
		s.Size += node.Size
		s.FileCount++
	}

	for _, child := range tr.GetChildren(id) {
		summarize(tr, child, totals)
	}
}
