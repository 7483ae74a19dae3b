package interview

import "time"

// QuestionsPerSession is the fixed number of questions asked in one interview.
const QuestionsPerSession = 5

// Session captures one transient interview run. Sessions are immutable after
// creation; mutable progress lives in the orchestrator, not here.
type Session struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Difficulty   string    `json:"difficulty"`
	VoiceEnabled bool      `json:"voiceEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

// State is the orchestrator phase of a session. At most one of the speaking,
// listening and analyzing phases is active at any instant.
type State string

const (
	StateAwaitingQuestion State = "awaiting_question"
	StateSpeaking         State = "speaking"
	StateListening        State = "listening"
	StateAnalyzing        State = "analyzing"
	StateFinished         State = "finished"
)
