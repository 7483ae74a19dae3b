package session

import (
	"time"

	"github.com/skillverse/ai-backend/internal/model/interview"
)

// Event describes one orchestrator transition.
type Event struct {
	SessionID        string          `json:"sessionId"`
	State            interview.State `json:"state"`
	Round            int             `json:"round"`
	Completed        int             `json:"completed"`
	AttentionWarning bool            `json:"attentionWarning"`
	Timestamp        time.Time       `json:"timestamp"`
}

// EventSink receives orchestrator transitions. Implementations must not
// block; delivery happens on the transition path.
type EventSink interface {
	SessionEvent(Event)
}

// NopSink discards events.
type NopSink struct{}

// SessionEvent implements EventSink.
func (NopSink) SessionEvent(Event) {}
