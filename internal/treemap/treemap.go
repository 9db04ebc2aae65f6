// Package treemap implements the classical squarified treemap layout of
// spec.md §4.6: a single-level rectangle packing over a subtree's
// immediate children, with hit-testing and category-filter awareness.
package treemap

import (
	"sort"

	"github.com/diskx/diskx/internal/filter"
	"github.com/diskx/diskx/internal/tree"
)

// minDimension is the implementation-defined minimum rectangle size.
// A rectangle narrower or shorter than this after padding is not omitted
// from Layout's result: it is returned with W and H set to 0, so it has
// no drawable area and FindRectAt never matches it.
const minDimension = 4.0

// Rect is one laid-out, hit-testable region of the treemap.
type Rect struct {
	NodeID     tree.NodeID
	X, Y       float64
	W, H       float64
	Size       int64
	Name       string
	IsDir      bool
	Extension  string
	Percentage int
}

// Contains reports whether (px, py) falls within the rectangle.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// item is the filtered, sized candidate the squarify algorithm packs.
type item struct {
	id    tree.NodeID
	node  tree.FileNode
	order int // insertion order, used as the deterministic tie-break
}

// Layout lays out root's immediate children into the rectangle (x, y,
// w, h), applying the active category filter, per spec.md §4.6. The
// function is single-level: multi-level drilling is the caller
// re-invoking Layout with a different root.
func Layout(tr *tree.Tree, root tree.NodeID, x, y, w, h float64, category filter.Category) []Rect {
	rootNode, ok := tr.GetNode(root)
	if !ok || rootNode.Size == 0 {
		return nil
	}

	children := tr.GetChildren(root)
	if len(children) == 0 {
		return nil
	}

	items := collectItems(tr, children, category)
	if len(items) == 0 {
		return nil
	}

	// Single visible child: fill the entire rectangle (mirrors the
	// original reference's single-file special case).
	if len(items) == 1 {
		return []Rect{rectFor(items[0], x, y, w, h, rootNode.Size)}
	}

	return squarify(items, x, y, w, h, rootNode.Size)
}

// collectItems filters root's children by category, drops zero-size
// entries, and sorts by size descending with insertion order as the
// secondary key (spec.md §4.6 step 1, §8 determinism).
func collectItems(tr *tree.Tree, children []tree.NodeID, category filter.Category) []item {
	items := make([]item, 0, len(children))
	for i, id := range children {
		node, ok := tr.GetNode(id)
		if !ok || node.Size <= 0 {
			continue
		}
		if category != filter.CategoryAll {
			if node.IsDir {
				if !filter.HasDescendantInCategory(tr, id, category) {
					continue
				}
			} else if !filter.MatchesCategory(node, category) {
				continue
			}
		}
		items = append(items, item{id: id, node: node, order: i})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].node.Size != items[j].node.Size {
			return items[i].node.Size > items[j].node.Size
		}
		return items[i].order < items[j].order
	})
	return items
}

// squarify implements the classical worst-aspect-ratio-row squarified
// treemap algorithm (spec.md §4.6 steps 2-4): greedily grow a row along
// the shorter side of the remaining rectangle while doing so does not
// worsen the row's worst aspect ratio, then lay the row out and
// recurse on the remainder.
func squarify(items []item, x, y, w, h float64, totalSize int64) []Rect {
	var rects []Rect
	scale := (w * h) / float64(totalSize)

	remaining := items
	rx, ry, rw, rh := x, y, w, h

	for len(remaining) > 0 {
		side := shorterSide(rw, rh)

		row := []item{remaining[0]}
		rowArea := areaOf(remaining[0], scale)
		best := worstRatio(row, rowArea, side)

		i := 1
		for i < len(remaining) {
			candidateRow := append(append([]item{}, row...), remaining[i])
			candidateArea := rowArea + areaOf(remaining[i], scale)
			candidateWorst := worstRatio(candidateRow, candidateArea, side)
			if candidateWorst > best {
				break
			}
			row = candidateRow
			rowArea = candidateArea
			best = candidateWorst
			i++
		}

		laidOut, nx, ny, nw, nh := layoutRow(row, rowArea, rx, ry, rw, rh, scale, totalSize)
		rects = append(rects, laidOut...)

		remaining = remaining[i:]
		rx, ry, rw, rh = nx, ny, nw, nh
	}

	return rects
}

func shorterSide(w, h float64) float64 {
	if w < h {
		return w
	}
	return h
}

func areaOf(it item, scale float64) float64 {
	return float64(it.node.Size) * scale
}

// worstRatio returns the worst (max) width/height aspect ratio among the
// rectangles a row of the given total area would produce along a strip
// of the given side length.
func worstRatio(row []item, rowArea float64, side float64) float64 {
	if rowArea <= 0 || side <= 0 {
		return 1e18
	}
	length := rowArea / side // the row's extent along the long axis

	worst := 0.0
	for _, it := range row {
		area := float64(it.node.Size) * (rowArea / sumSizes(row))
		stripThickness := area / length
		ratio := ratioOf(length, stripThickness)
		if ratio > worst {
			worst = ratio
		}
	}
	return worst
}

func sumSizes(row []item) float64 {
	var total int64
	for _, it := range row {
		total += it.node.Size
	}
	return float64(total)
}

func ratioOf(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 1e18
	}
	if a > b {
		return a / b
	}
	return b / a
}

// layoutRow assigns each item in row a stripe along the long axis
// proportional to its area, shrinking by one cell of padding, and
// returns the leftover rectangle for the next row.
func layoutRow(row []item, rowArea, x, y, w, h, scale float64, totalSize int64) ([]Rect, float64, float64, float64, float64) {
	var rects []Rect

	horizontal := w <= h // the row runs along the shorter side
	if horizontal {
		rowHeight := rowArea / w
		cursor := x
		for _, it := range row {
			itemWidth := areaOf(it, scale) / rowHeight
			rects = append(rects, rectFor(it, cursor, y, itemWidth, rowHeight, totalSize))
			cursor += itemWidth
		}
		return rects, x, y + rowHeight, w, h - rowHeight
	}

	rowWidth := rowArea / h
	cursor := y
	for _, it := range row {
		itemHeight := areaOf(it, scale) / rowWidth
		rects = append(rects, rectFor(it, x, cursor, rowWidth, itemHeight, totalSize))
		cursor += itemHeight
	}
	return rects, x + rowWidth, y, w - rowWidth, h
}

const padding = 1.0

func rectFor(it item, x, y, w, h float64, totalSize int64) Rect {
	pw, ph := w, h
	px, py := x, y
	if pw > 2*padding && ph > 2*padding {
		px += padding
		py += padding
		pw -= 2 * padding
		ph -= 2 * padding
	}
	if pw < minDimension || ph < minDimension {
		pw, ph = 0, 0
	}

	pct := 0
	if totalSize > 0 {
		pct = int(float64(it.node.Size) * 100 / float64(totalSize))
	}

	return Rect{
		NodeID:     it.id,
		X:          px,
		Y:          py,
		W:          pw,
		H:          ph,
		Size:       it.node.Size,
		Name:       it.node.Name,
		IsDir:      it.node.IsDir,
		Extension:  it.node.Extension,
		Percentage: pct,
	}
}

// FindRectAt returns the last rectangle whose bounds contain (x, y); the
// last match masks earlier ones when overlap occurs due to rounding
// (spec.md §4.6 "Hit-testing").
func FindRectAt(rects []Rect, x, y float64) (Rect, bool) {
	for i := len(rects) - 1; i >= 0; i-- {
		if rects[i].Contains(x, y) {
			return rects[i], true
		}
	}
	return Rect{}, false
}
