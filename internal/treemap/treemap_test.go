package treemap

import (
	"reflect"
	"testing"

	"github.com/diskx/diskx/internal/filter"
	"github.com/diskx/diskx/internal/tree"
)

func buildSizedTree(sizes []int64) (*tree.Tree, tree.NodeID) {
	tr, root := tree.NewWithRoot("/root")
	for i, size := range sizes {
		node := tree.NewFileNode("/root/f"+string(rune('a'+i)), false)
		node.Size = size
		tr.AddChild(root, node)
	}
	tr.CalculateSizes()
	return tr, root
}

func TestLayoutIsDeterministic(t *testing.T) {
	tr, root := buildSizedTree([]int64{6, 3, 2, 1})

	first := Layout(tr, root, 0, 0, 6, 4, filter.CategoryAll)
	second := Layout(tr, root, 0, 0, 6, 4, filter.CategoryAll)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical layout across runs, got %+v vs %+v", first, second)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 rectangles, got %d", len(first))
	}
}

func TestLayoutSingleChildFillsRect(t *testing.T) {
	tr, root := buildSizedTree([]int64{42})
	rects := Layout(tr, root, 0, 0, 10, 10, filter.CategoryAll)
	if len(rects) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(rects))
	}
	// padding shrinks it, but it should still span nearly the full rect.
	if rects[0].W <= 0 || rects[0].H <= 0 {
		t.Fatalf("expected a nonzero single-child rectangle, got %+v", rects[0])
	}
}

func TestLayoutEmptyTreeYieldsNoRects(t *testing.T) {
	tr, root := tree.NewWithRoot("/root")
	rects := Layout(tr, root, 0, 0, 10, 10, filter.CategoryAll)
	if rects != nil {
		t.Fatalf("expected nil rects for an empty root, got %+v", rects)
	}
}

func TestLayoutSkipsZeroSizeChildren(t *testing.T) {
	tr, root := tree.NewWithRoot("/root")
	a := tree.NewFileNode("/root/a", false)
	a.Size = 10
	tr.AddChild(root, a)
	b := tree.NewFileNode("/root/b", false)
	b.Size = 0
	tr.AddChild(root, b)
	tr.CalculateSizes()

	rects := Layout(tr, root, 0, 0, 10, 10, filter.CategoryAll)
	if len(rects) != 1 {
		t.Fatalf("expected zero-size child to be dropped, got %d rects", len(rects))
	}
}

func TestLayoutAppliesCategoryFilter(t *testing.T) {
	tr, root := tree.NewWithRoot("/root")
	audio := tree.NewFileNode("/root/song.mp3", false)
	audio.Size = 10
	tr.AddChild(root, audio)
	doc := tree.NewFileNode("/root/report.pdf", false)
	doc.Size = 20
	tr.AddChild(root, doc)
	tr.CalculateSizes()

	rects := Layout(tr, root, 0, 0, 10, 10, filter.CategoryAudio)
	if len(rects) != 1 {
		t.Fatalf("expected only the audio file to survive the filter, got %d", len(rects))
	}
	if rects[0].Name != "song.mp3" {
		t.Fatalf("expected song.mp3, got %s", rects[0].Name)
	}
}

func TestFindRectAtLastMatchWins(t *testing.T) {
	rects := []Rect{
		{NodeID: 1, X: 0, Y: 0, W: 10, H: 10},
		{NodeID: 2, X: 5, Y: 5, W: 10, H: 10},
	}
	found, ok := FindRectAt(rects, 7, 7)
	if !ok || found.NodeID != 2 {
		t.Fatalf("expected the later overlapping rectangle to win, got %+v", found)
	}
}
