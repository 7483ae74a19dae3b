package interview

import "time"

// Score bounds enforced on every analysis before it is stored. Anything an
// upstream model returns outside the range, or not numeric at all, becomes
// DefaultScore.
const (
	ScoreMin     = 1
	ScoreMax     = 100
	DefaultScore = 75
)

// Scores holds the three per-response metrics, each in [ScoreMin, ScoreMax].
type Scores struct {
	Fluency    int `json:"fluency"`
	Confidence int `json:"confidence"`
	Knowledge  int `json:"knowledge"`
}

// AnalysisResult is the scored outcome for one recorded response.
type AnalysisResult struct {
	Scores     Scores    `json:"scores"`
	ReportText string    `json:"reportText"`
	Transcript string    `json:"transcript"`
	WordCount  int       `json:"wordCount"`
	Duration   int64     `json:"duration"` // recording length in milliseconds
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// ResultEntry pairs a question with its analysis inside the session result
// list. The list grows monotonically, one entry per completed question.
type ResultEntry struct {
	Round     int            `json:"round"`
	Question  Question       `json:"question"`
	Analysis  AnalysisResult `json:"analysis"`
	Timestamp time.Time      `json:"timestamp"`
}
