package schema

import "time"

// Metadata carries the knowledge-base fields attached to each chunk.
type Metadata struct {
	Title       string `json:"title"`
	Section     string `json:"section"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
}

// Document is a knowledge-base chunk returned by the vector backend.
// Distance is the similarity distance reported by the backend; lower is closer.
type Document struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Distance float64  `json:"distance"`
}

// SearchResult pairs a document with its backend score.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// ScoredResult is a candidate after relevance scoring.
type ScoredResult struct {
	Document        Document `json:"document"`
	CategoriesFound []string `json:"categories_found"`
	Score           float64  `json:"score"`
}

// ChatMessage represents a single chat turn.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Chat roles used when building generation requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SearchOptions tunes a vector store search.
type SearchOptions struct {
	TopK      int
	Threshold float64
}

// Filter restricts a vector store enumeration by metadata.
type Filter struct {
	Category    string
	SubCategory string
}
