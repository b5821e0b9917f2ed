// Package models defines core data structures for chunks, requests, and responses.
package models

// ChunkMetadata is attached 1:1 to an indexed chunk.
type ChunkMetadata struct {
	// Filename is the file path relative to the ingestion root.
	Filename string `json:"filename"`
	// StartLine is the 1-based line of the chunk's first character in the
	// original file. Defaults to 1 when the chunk text cannot be located.
	StartLine int `json:"start_line"`
	// Preview is a bounded-length prefix of the chunk text.
	Preview string `json:"preview"`
	// FileType is the file extension without the leading dot, or "unknown".
	FileType string `json:"file_type"`
}

// Source describes one retrieved chunk in a chat response.
type Source struct {
	Filename  string `json:"filename"`
	StartLine int    `json:"start_line"`
	FileType  string `json:"file_type"`
	Preview   string `json:"preview"`
}
