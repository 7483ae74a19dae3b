package interview

import "time"

// Provenance values for generated questions.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Question is a single interview question. Appended to the session's ordered
// history once asked, never mutated afterwards.
type Question struct {
	Text        string    `json:"text"`
	Round       int       `json:"round"` // 1-based position within the session
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`
}
