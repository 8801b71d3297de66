package pipeline

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildChunksPacksUnderBudget(t *testing.T) {
	docs := []DocumentText{
		{Index: 0, Filename: "a.pdf", Text: strings.Repeat("a", 300)},
		{Index: 1, Filename: "b.pdf", Text: strings.Repeat("b", 300)},
		{Index: 2, Filename: "c.pdf", Text: strings.Repeat("c", 300)},
	}

	chunks := BuildChunks(docs, 800)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if got, want := fmt.Sprint(chunks[0].Indices), "[0 1]"; got != want {
		t.Errorf("chunk 0 indices = %s, want %s", got, want)
	}
	if got, want := fmt.Sprint(chunks[1].Indices), "[2]"; got != want {
		t.Errorf("chunk 1 indices = %s, want %s", got, want)
	}
	for i, c := range chunks {
		if len(c.Text) > 800 {
			t.Errorf("chunk %d is %d chars, over budget", i, len(c.Text))
		}
	}
}

func TestBuildChunksNeverSplitsDocument(t *testing.T) {
	docs := []DocumentText{
		{Index: 0, Filename: "big.pdf", Text: strings.Repeat("x", 20000)},
		{Index: 1, Filename: "small.pdf", Text: "hello"},
	}

	chunks := BuildChunks(docs, DefaultChunkBudget)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	// The oversized document is truncated into its own chunk, not split.
	if len(chunks[0].Indices) != 1 || chunks[0].Indices[0] != 0 {
		t.Errorf("chunk 0 indices = %v, want [0]", chunks[0].Indices)
	}
	if len(chunks[0].Text) > DefaultChunkBudget {
		t.Errorf("oversized document chunk is %d chars, over budget", len(chunks[0].Text))
	}
}

func TestBuildChunksPreservesOrder(t *testing.T) {
	var docs []DocumentText
	for i := 0; i < 10; i++ {
		docs = append(docs, DocumentText{Index: i, Filename: fmt.Sprintf("%d.pdf", i), Text: strings.Repeat("t", 500)})
	}

	chunks := BuildChunks(docs, 2000)
	var seen []int
	for _, c := range chunks {
		seen = append(seen, c.Indices...)
	}
	for i, idx := range seen {
		if idx != i {
			t.Fatalf("order broken at position %d: got %v", i, seen)
		}
	}
}

func TestBuildChunksEmbedsDelimiters(t *testing.T) {
	docs := []DocumentText{{Index: 7, Filename: "stmt.pdf", Text: "page text"}}

	chunks := BuildChunks(docs, DefaultChunkBudget)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "DOCUMENT 7") {
		t.Errorf("chunk text missing index delimiter:\n%s", chunks[0].Text)
	}
	if !strings.Contains(chunks[0].Text, "page text") {
		t.Errorf("chunk text missing document body:\n%s", chunks[0].Text)
	}
}

func TestBuildChunksEmptyInput(t *testing.T) {
	if chunks := BuildChunks(nil, DefaultChunkBudget); len(chunks) != 0 {
		t.Errorf("got %d chunks for empty input, want 0", len(chunks))
	}
}
