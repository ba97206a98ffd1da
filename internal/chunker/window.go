package chunker

// Window strategy defaults.
const (
	DefaultWindowSize    = 1000
	DefaultWindowOverlap = 100
)

// SplitWindow slides a fixed-width character window across the text with the
// given trailing overlap. The final chunk is clipped to the true end of the
// text rather than padded.
func SplitWindow(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	var chunks []string
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
		start = end - overlap
	}
	return chunks
}
