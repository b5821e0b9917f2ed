package ingest

import "strings"

// Separator lists ranked from most to least structurally meaningful. The
// final empty string means "no further split": an indivisible piece is kept
// whole rather than corrupted mid-token.
var (
	pythonSeparators = []string{"\nclass ", "\ndef ", "\n\tdef ", "\n\n", "\n", " ", ""}

	jsSeparators = []string{
		"\nfunction ", "\nconst ", "\nlet ", "\nvar ", "\nclass ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ", "\ncase ", "\ndefault ",
		"\n\n", "\n", " ", "",
	}

	genericSeparators = []string{"\n\n", "\n", " ", ""}
)

// separatorsFor returns the separator ranking for a file type tag.
func separatorsFor(fileType string) []string {
	switch fileType {
	case "py":
		return pythonSeparators
	case "js", "ts", "tsx", "jsx":
		return jsSeparators
	default:
		return genericSeparators
	}
}

// Chunker splits file content into overlapping chunks at language-aware
// structural boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk splits content into ordered chunks. Each chunk is a verbatim
// substring of content; consecutive chunks overlap by roughly chunkOverlap
// characters. Empty content yields no chunks.
func (c *Chunker) Chunk(content, fileType string) []string {
	if content == "" {
		return nil
	}
	return c.split(content, separatorsFor(fileType))
}

// split recursively divides text using the highest-priority separator found
// in it, descending to lower-priority separators for pieces that still
// exceed the chunk size, then merges adjacent small pieces with overlap.
func (c *Chunker) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, s := range separators {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	pieces := splitKeepingSeparator(text, sep)
	var final []string
	var pending []string
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if len(piece) < c.chunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			final = append(final, c.merge(pending)...)
			pending = nil
		}
		if len(rest) == 0 {
			// No separator left to try: keep the oversized piece whole.
			final = append(final, piece)
		} else {
			final = append(final, c.split(piece, rest)...)
		}
	}
	if len(pending) > 0 {
		final = append(final, c.merge(pending)...)
	}
	return final
}

// splitKeepingSeparator splits text on sep, re-attaching sep to the start of
// each following piece so that the concatenation of all pieces equals text.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		return []string{text}
	}
	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		pieces = append(pieces, part)
	}
	return pieces
}

// merge combines consecutive pieces into chunks bounded by chunkSize,
// retaining a trailing window of roughly chunkOverlap characters as the
// start of the next chunk.
func (c *Chunker) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0
	for _, piece := range pieces {
		if total+len(piece) > c.chunkSize && len(window) > 0 {
			chunks = append(chunks, strings.Join(window, ""))
			for total > c.chunkOverlap || (total+len(piece) > c.chunkSize && total > 0) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}
	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}
	return chunks
}
