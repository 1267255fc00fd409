package chunker

import "fmt"

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

// Chunker splits text into overlapping fixed-size windows. Offsets are
// measured in runes, so chunks stay valid UTF-8 but may still split words.
type Chunker struct {
	size    int
	overlap int
}

// New fails fast when overlap >= size: the window offset would never
// advance and chunking would loop forever.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunker: overlap %d must be less than chunk size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split emits windows [off, off+size) advancing by size-overlap until the
// text is consumed. The last chunk may be shorter than size; empty input
// yields no chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for off := 0; off < len(runes); off += step {
		end := off + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[off:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
