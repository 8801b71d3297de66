package pipeline

import (
	"encoding/json"
	"strings"
)

const indexAnchor = `"document_index"`

// ParseResults recovers per-document records from a raw model response. The
// response is expected to contain one JSON object per document but the model
// is not trusted: objects may be interleaved with prose, wrapped in fences,
// or have unbalanced braces. Candidates are located by scanning for the
// document_index key; each candidate is isolated, brace-repaired and parsed
// independently so one malformed object never hides its siblings.
//
// The returned map holds every successfully parsed record keyed by document
// index. Indices absent from the map produced nothing recognizable; the
// caller synthesizes a malformed-result failure for each of them so the
// batch still accounts for every input.
func ParseResults(raw string, knownIndices []int) map[int]*ExtractionRecord {
	known := make(map[int]struct{}, len(knownIndices))
	for _, idx := range knownIndices {
		known[idx] = struct{}{}
	}

	records := make(map[int]*ExtractionRecord)

	searchFrom := 0
	for {
		rel := strings.Index(raw[searchFrom:], indexAnchor)
		if rel < 0 {
			break
		}
		anchorPos := searchFrom + rel
		searchFrom = anchorPos + len(indexAnchor)

		start := objectStart(raw, anchorPos)
		if start < 0 {
			continue
		}

		candidate := balancedCandidate(raw[start:])
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			continue
		}

		index, record, err := recordFromObject(obj)
		if err != nil {
			continue
		}
		if _, ok := known[index]; !ok {
			continue
		}
		if _, dup := records[index]; dup {
			continue
		}
		records[index] = record
	}

	return records
}

// objectStart walks backwards from the anchor to the opening brace of the
// enclosing object, skipping over any already-closed nested objects.
func objectStart(raw string, anchorPos int) int {
	depth := 0
	for i := anchorPos - 1; i >= 0; i-- {
		switch raw[i] {
		case '}':
			depth++
		case '{':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// balancedCandidate scans forward from an opening brace and returns the
// candidate object substring. String literals are honored so braces inside
// values do not affect the depth count. When the input ends before the
// object closes, one closing brace is appended per excess open brace.
func balancedCandidate(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	if depth > 0 {
		return s + strings.Repeat("}", depth)
	}
	return s
}
