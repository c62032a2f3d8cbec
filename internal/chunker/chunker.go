// Package chunker splits document text into overlapping bounded-length
// segments, preferring sentence and paragraph boundaries.
package chunker

import (
	"fmt"
	"strings"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// boundaryLookahead is how far past the window end to scan for a
// sentence or paragraph delimiter before cutting mid-sentence.
const boundaryLookahead = 50

// boundaries are scanned in order; the first match extends the window
// through the delimiter.
var boundaries = []string{". ", "! ", "? ", "\n\n"}

// Chunker splits text into overlapping windows of at most size characters,
// extended to the nearest sentence boundary within the lookahead.
// A Chunker is stateless and safe for concurrent use.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. size must be positive and strictly greater than
// overlap; overlap must be non-negative. Violations would loop without
// progress, so they fail here rather than at split time.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d must be non-negative", domain.ErrConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", domain.ErrConfig, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split walks the text in windows of the configured size. Windows ending
// before the text's end are extended through the first sentence delimiter
// found within the lookahead, and consecutive windows overlap by the
// configured amount. Chunks are whitespace-trimmed; text shorter than the
// chunk size yields exactly one chunk, empty text yields none.
func (c *Chunker) Split(text string) []string {
	length := len(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := make([]string, 0, length/(c.size-c.overlap)+1)
	start := 0

	for start < length {
		end := start + c.size
		if end >= length {
			end = length
		} else {
			end = extendToBoundary(text, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= length {
			break
		}

		// Overlap the next window with this one, but never move
		// backwards or stall: a large overlap with no boundary near the
		// text's end must not stop progress.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// extendToBoundary scans up to boundaryLookahead characters past end for
// the first sentence or paragraph delimiter and returns the window end
// extended through it, or end unchanged when none is found.
func extendToBoundary(text string, end int) int {
	window := text[end:]
	if len(window) > boundaryLookahead {
		window = window[:boundaryLookahead]
	}

	best := -1
	bestLen := 0
	for _, b := range boundaries {
		if pos := strings.Index(window, b); pos != -1 && (best == -1 || pos < best) {
			best = pos
			bestLen = len(b)
		}
	}
	if best == -1 {
		return end
	}
	return end + best + bestLen
}
