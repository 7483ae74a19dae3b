package session

import (
	"sync"

	"go.uber.org/zap"

	sessionsvc "github.com/skillverse/ai-backend/internal/service/session"
)

// subscriberBuffer is the per-connection event queue depth. A subscriber that
// cannot keep up loses events rather than stalling the orchestrator.
const subscriberBuffer = 16

type subscriber struct {
	events chan sessionsvc.Event
}

// Hub fans orchestrator transitions out to websocket subscribers. It
// implements the orchestrator's event sink and never blocks delivery.
type Hub struct {
	logger *zap.Logger

	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// SessionEvent delivers one transition to every subscriber of its session.
func (h *Hub) SessionEvent(event sessionsvc.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[event.SessionID] {
		select {
		case sub.events <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				zap.String("session", event.SessionID))
		}
	}
}

func (h *Hub) subscribe(sessionID string) *subscriber {
	sub := &subscriber{events: make(chan sessionsvc.Event, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[sessionID] == nil {
		h.subscribers[sessionID] = make(map[*subscriber]struct{})
	}
	h.subscribers[sessionID][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[sessionID]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, sessionID)
	}
}
