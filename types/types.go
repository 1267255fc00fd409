package types

import (
	"strings"
	"time"
)

type MediaType string

const (
	MediaPDF  MediaType = "pdf"
	MediaText MediaType = "text"
)

// Record is one embedded chunk as stored in the vector index.
type Record struct {
	ID        string
	Text      string
	Embedding []float32
}

// Match is a scored retrieval result from one namespace query.
type Match struct {
	ID    string
	Text  string
	Score float64
}

// Document is a row of the namespace registry: which upload owns which
// namespace. The raw file bytes are never persisted.
type Document struct {
	Namespace string    `json:"namespace"`
	FileName  string    `json:"file_name"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// FileNameFromID strips the trailing "-chunk-N" suffix from a record id.
// Splitting happens at the last occurrence so filenames containing
// "-chunk-" survive intact.
func FileNameFromID(id string) string {
	i := strings.LastIndex(id, "-chunk-")
	if i < 0 {
		return id
	}
	return id[:i]
}
