package ingest

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunker_SmallInputSingleChunk(t *testing.T) {
	c := NewChunker(1000, 200)
	content := "def add(a, b):\n    return a + b\n"
	chunks := c.Chunk(content, "py")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != content {
		t.Errorf("single chunk should be the whole input")
	}
}

func TestChunker_EmptyInput(t *testing.T) {
	c := NewChunker(1000, 200)
	if chunks := c.Chunk("", "py"); len(chunks) != 0 {
		t.Errorf("empty input should yield no chunks, got %d", len(chunks))
	}
}

func TestChunker_NoEmptyChunks(t *testing.T) {
	c := NewChunker(50, 10)
	content := strings.Repeat("line one\nline two\n\n", 30)
	for i, chunk := range c.Chunk(content, "txt") {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestChunker_ChunksAreSubstrings(t *testing.T) {
	c := NewChunker(80, 20)
	content := "function alpha() {\n  return 1;\n}\n\nfunction beta() {\n  return 2;\n}\n\nfunction gamma() {\n  return 3;\n}\n"
	chunks := c.Chunk(content, "js")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.Contains(content, chunk) {
			t.Errorf("chunk %d is not a verbatim substring: %q", i, chunk)
		}
	}
}

// Chunks must cover the input in order: each chunk begins at or before the
// end of the previous one, and the last chunk reaches the end of the input.
func TestChunker_CoverageWithOverlap(t *testing.T) {
	c := NewChunker(100, 30)
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "source line %02d with several distinct words\n", i)
	}
	content := sb.String()
	chunks := c.Chunk(content, "txt")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	searchFrom := 0
	prevEnd := 0
	for i, chunk := range chunks {
		pos := strings.Index(content[searchFrom:], chunk)
		if pos < 0 {
			t.Fatalf("chunk %d not found in remaining content", i)
		}
		start := searchFrom + pos
		if i > 0 && start > prevEnd {
			t.Errorf("gap before chunk %d: starts at %d, previous ended at %d", i, start, prevEnd)
		}
		prevEnd = start + len(chunk)
		searchFrom = start + 1
	}
	if prevEnd != len(content) {
		t.Errorf("last chunk ends at %d, want %d", prevEnd, len(content))
	}
}

func TestChunker_SoftSizeBound(t *testing.T) {
	c := NewChunker(100, 20)
	content := strings.Repeat("word ", 200)
	for i, chunk := range c.Chunk(content, "txt") {
		if len(chunk) > 100+len("word ") {
			t.Errorf("chunk %d exceeds bound: %d chars", i, len(chunk))
		}
	}
}

func TestChunker_AtomicTokenKeptWhole(t *testing.T) {
	c := NewChunker(50, 10)
	token := strings.Repeat("x", 120)
	chunks := c.Chunk(token, "txt")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != token {
		t.Error("an indivisible token must be kept whole")
	}
}

func TestChunker_PythonFunctionBoundaries(t *testing.T) {
	c := NewChunker(60, 10)
	content := "def first():\n    return 1\n\ndef second():\n    return 2\n\ndef third():\n    return 3\n"
	chunks := c.Chunk(content, "py")
	if len(chunks) < 2 {
		t.Fatalf("expected split at def boundaries, got %d chunks", len(chunks))
	}
	// All chunks after the first should begin at a structural boundary.
	for i, chunk := range chunks[1:] {
		if !strings.HasPrefix(chunk, "\ndef ") && !strings.HasPrefix(chunk, "\n\n") && !strings.HasPrefix(chunk, "\n") {
			t.Errorf("chunk %d does not start at a boundary: %q", i+1, chunk[:20])
		}
	}
}

func TestChunker_LargeFileProducesOverlappingChunks(t *testing.T) {
	c := NewChunker(1000, 200)
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("const value" + strings.Repeat("x", i%7) + " = compute(input);\n")
	}
	content := sb.String() // well over 1000 chars
	chunks := c.Chunk(content, "js")
	if len(chunks) < 2 {
		t.Fatalf("1500+ char file should split into at least 2 chunks, got %d", len(chunks))
	}
}

func TestChunker_UnknownFileTypeFallsBack(t *testing.T) {
	c := NewChunker(40, 10)
	content := "alpha beta gamma\n\ndelta epsilon zeta\n\neta theta iota\n"
	chunks := c.Chunk(content, "unknown")
	if len(chunks) < 2 {
		t.Fatalf("generic splitting should still chunk, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.Contains(content, chunk) {
			t.Errorf("chunk %d not a substring", i)
		}
	}
}

func TestNewChunker_GuardsInvalidConfig(t *testing.T) {
	c := NewChunker(0, 0)
	if c.chunkSize != 1000 {
		t.Errorf("chunkSize default = %d", c.chunkSize)
	}
	c = NewChunker(100, 100)
	if c.chunkOverlap >= c.chunkSize {
		t.Errorf("overlap %d must be below size %d", c.chunkOverlap, c.chunkSize)
	}
}
