package filter

import (
	"testing"

	"github.com/diskx/diskx/internal/tree"
)

func TestFormatSize(t *testing.T) {
	if got := FormatSize(0); got != "0 B" {
		t.Fatalf("FormatSize(0) = %q, want %q", got, "0 B")
	}
	if got := FormatSize(-2048); got[0] != '-' {
		t.Fatalf("FormatSize(-2048) = %q, want a leading '-'", got)
	}
}

func TestSummarizeBucketsByCategory(t *testing.T) {
	tr, root := tree.NewWithRoot("/root")

	song := tree.NewFileNode("/root/song.mp3", false)
	song.Size = 100
	doc := tree.NewFileNode("/root/notes.txt", false)
	doc.Size = 50
	other := tree.NewFileNode("/root/song2.mp3", false)
	other.Size = 25

	tr.AddChild(root, song)
	tr.AddChild(root, doc)
	sub := tr.AddChild(root, tree.NewFileNode("/root/sub", true))
	tr.AddChild(sub, other)
	tr.CalculateSizes()

	totals := Summarize(tr, root)

	audio, ok := totals[CategoryAudio]
	if !ok {
		t.Fatalf("expected an audio bucket")
	}
	if audio.Size != 125 || audio.FileCount != 2 {
		t.Fatalf("expected audio size=125 count=2, got size=%d count=%d", audio.Size, audio.FileCount)
	}

	doc2, ok := totals[CategoryDocument]
	if !ok || doc2.Size != 50 || doc2.FileCount != 1 {
		t.Fatalf("expected document size=50 count=1, got %+v", doc2)
	}
}

func TestSummarizeExcludesFlaggedNodes(t *testing.T) {
	tr, root := tree.NewWithRoot("/root")
	f := tree.NewFileNode("/root/big.mp3", false)
	f.Size = 999
	f.Excluded = true
	tr.AddChild(root, f)
	tr.CalculateSizes()

	totals := Summarize(tr, root)
	if _, ok := totals[CategoryAudio]; ok {
		t.Fatalf("expected excluded node to not contribute to the summary")
	}
}
