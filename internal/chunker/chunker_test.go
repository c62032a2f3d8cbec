package chunker

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		c, err := New(512, 50)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Size() != 512 || c.Overlap() != 50 {
			t.Errorf("expected 512/50, got %d/%d", c.Size(), c.Overlap())
		}
	})

	t.Run("zero size rejected", func(t *testing.T) {
		if _, err := New(0, 0); !errors.Is(err, domain.ErrConfig) {
			t.Errorf("expected ErrConfig, got %v", err)
		}
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		if _, err := New(100, -1); !errors.Is(err, domain.ErrConfig) {
			t.Errorf("expected ErrConfig, got %v", err)
		}
	})

	t.Run("overlap equal to size rejected", func(t *testing.T) {
		if _, err := New(100, 100); !errors.Is(err, domain.ErrConfig) {
			t.Errorf("expected ErrConfig, got %v", err)
		}
	})
}

func TestChunker_Split_Empty(t *testing.T) {
	c, _ := New(512, 50)

	if chunks := c.Split(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
	if chunks := c.Split("   \n\t  "); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace text, got %d", len(chunks))
	}
}

func TestChunker_Split_ShortText(t *testing.T) {
	c, _ := New(512, 50)
	text := "  A single short paragraph.  "

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != strings.TrimSpace(text) {
		t.Errorf("expected trimmed input, got %q", chunks[0])
	}
}

func TestChunker_Split_LongText(t *testing.T) {
	// 2000 characters with no sentence boundaries: windows advance by
	// size-overlap = 462, so starts fall at 0, 462, 924, 1386 and 1848.
	c, _ := New(512, 50)
	text := strings.Repeat("X", 2000)

	chunks := c.Split(text)
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}

	for i := 0; i < len(chunks)-1; i++ {
		overlap := suffixPrefixOverlap(chunks[i], chunks[i+1])
		if overlap < 50 {
			t.Errorf("chunks %d and %d overlap by %d, want >= 50", i, i+1, overlap)
		}
	}
}

func TestChunker_Split_Coverage(t *testing.T) {
	// Every character index of a whitespace-free text must be covered by
	// at least one chunk: reassembling the windows leaves no gaps.
	c, _ := New(100, 20)
	text := strings.Repeat("abcdefghij", 53) // 530 chars, no delimiters

	chunks := c.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	start := 0
	for i, chunk := range chunks {
		if text[start:start+len(chunk)] != chunk {
			t.Fatalf("chunk %d does not match the window at offset %d", i, start)
		}
		start += len(chunk) - c.Overlap()
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("final chunk does not reach the end of the text")
	}
}

func TestChunker_Split_SentenceBoundary(t *testing.T) {
	// The first window end lands mid-sentence; the boundary ". " within
	// the lookahead extends the window through it.
	c, _ := New(40, 10)
	text := "The quick brown fox jumps over the lazy dog. Pack my box with five dozen liquor jugs."

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "dog.") {
		t.Errorf("expected first chunk to end at sentence boundary, got %q", chunks[0])
	}
}

func TestChunker_Split_ParagraphBoundary(t *testing.T) {
	c, _ := New(30, 5)
	text := "First paragraph ends right here.\n\nSecond paragraph continues with more text after the break."

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "First paragraph") {
		t.Errorf("unexpected first chunk: %q", chunks[0])
	}
}

func TestChunker_Split_NoStall(t *testing.T) {
	// A boundary extension can push the window end close to start+overlap.
	// The walk must still terminate and cover the text.
	c, _ := New(10, 9)
	text := strings.Repeat("abcde fghi ", 30)

	done := make(chan []string, 1)
	go func() { done <- c.Split(text) }()

	select {
	case chunks := <-done:
		if len(chunks) == 0 {
			t.Error("expected chunks")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Split did not terminate")
	}
}

// suffixPrefixOverlap returns the length of the longest suffix of a that
// is a prefix of b.
func suffixPrefixOverlap(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(a, b[:n]) {
			return n
		}
	}
	return 0
}
