package rag

import "strings"

// SplitText splits text into chunks of at most size characters with the
// given overlap between consecutive chunks. Chunk boundaries prefer the
// last whitespace inside the window so words are not cut mid-token.
func SplitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		cut := end
		// Walk back to whitespace, but not past the overlap region start.
		for cut > start+overlap+1 && !isSpace(runes[cut-1]) {
			cut--
		}
		if cut <= start+overlap+1 {
			cut = end
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
