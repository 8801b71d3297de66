package pipeline

import (
	"fmt"
	"strings"
)

// DefaultChunkBudget is the maximum number of characters packed into one
// extraction request.
const DefaultChunkBudget = 8000

// DocumentText is one document's bounded page text, ready for chunking.
type DocumentText struct {
	Index    int
	Filename string
	Text     string
}

// Chunk is one self-describing extraction request payload. Every document
// inside it is wrapped in delimiters carrying its index so the response can
// be correlated back regardless of ordering.
type Chunk struct {
	Indices []int
	Text    string
}

// BuildChunks packs document texts into chunks bounded by the character
// budget, preserving input order and never splitting one document across two
// chunks. A document whose rendered text alone exceeds the budget is
// truncated head-first (the front of the statement carries the identifying
// fields) and still occupies its own chunk.
func BuildChunks(docs []DocumentText, budget int) []Chunk {
	if budget <= 0 {
		budget = DefaultChunkBudget
	}

	var chunks []Chunk
	var current Chunk
	var builder strings.Builder

	flush := func() {
		if len(current.Indices) == 0 {
			return
		}
		current.Text = builder.String()
		chunks = append(chunks, current)
		current = Chunk{}
		builder.Reset()
	}

	for _, doc := range docs {
		rendered := renderDocument(doc, budget)
		if builder.Len() > 0 && builder.Len()+len(rendered) > budget {
			flush()
		}
		builder.WriteString(rendered)
		current.Indices = append(current.Indices, doc.Index)
	}
	flush()

	return chunks
}

func renderDocument(doc DocumentText, budget int) string {
	header := fmt.Sprintf("=== DOCUMENT %d (file: %s) ===\n", doc.Index, doc.Filename)
	footer := fmt.Sprintf("\n=== END DOCUMENT %d ===\n", doc.Index)

	text := doc.Text
	if overhead := len(header) + len(footer); overhead+len(text) > budget {
		keep := budget - overhead
		if keep < 0 {
			keep = 0
		}
		text = text[:keep]
	}
	return header + text + footer
}
