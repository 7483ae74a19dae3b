package session

import (
	"errors"
	"sync"
	"time"
)

// attentionThreshold is how long a face must be continuously absent before
// the advisory attention warning raises. It clears immediately on the next
// detected report.
const attentionThreshold = 3 * time.Second

var (
	// ErrRecordingActive rejects starting a recording while one is running.
	ErrRecordingActive = errors.New("recording already in progress")
	// ErrNoRecording rejects completing a recording that was never started.
	ErrNoRecording = errors.New("no recording in progress")
	// ErrCaptureUnavailable marks a session whose media devices failed;
	// distinct from no-speech, and recoverable only by a new session.
	ErrCaptureUnavailable = errors.New("media capture unavailable for this session")
)

// Recording is one captured response.
type Recording struct {
	QuestionIndex int
	Audio         []byte
	StartedAt     time.Time
	EndedAt       time.Time
}

// Duration reports the recording length in milliseconds.
func (r Recording) Duration() int64 {
	return r.EndedAt.Sub(r.StartedAt).Milliseconds()
}

// Capture owns the exclusive per-session recording slot and the advisory
// face-presence signal. At most one recording is active at any instant.
type Capture struct {
	mu               sync.Mutex
	active           bool
	disabled         bool
	questionIndex    int
	startedAt        time.Time
	faceAbsentSince  time.Time
	attentionWarning bool

	now func() time.Time
}

// NewCapture returns an idle capture slot.
func NewCapture() *Capture {
	return &Capture{now: time.Now}
}

// Begin claims the recording slot for the given question index.
func (c *Capture) Begin(questionIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return ErrCaptureUnavailable
	}
	if c.active {
		return ErrRecordingActive
	}

	c.active = true
	c.questionIndex = questionIndex
	c.startedAt = c.now()
	return nil
}

// Complete ends the active recording with the delivered audio bytes.
func (c *Capture) Complete(audio []byte) (Recording, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return Recording{}, ErrNoRecording
	}

	c.active = false
	return Recording{
		QuestionIndex: c.questionIndex,
		Audio:         audio,
		StartedAt:     c.startedAt,
		EndedAt:       c.now(),
	}, nil
}

// Abandon drops the active recording, if any.
func (c *Capture) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

// Disable marks device capture as failed for the rest of the session.
func (c *Capture) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = true
	c.active = false
}

// Disabled reports whether device capture failed.
func (c *Capture) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// ReportFace records one face-presence probe from the client.
func (c *Capture) ReportFace(detected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if detected {
		c.faceAbsentSince = time.Time{}
		c.attentionWarning = false
		return
	}

	now := c.now()
	if c.faceAbsentSince.IsZero() {
		c.faceAbsentSince = now
		return
	}
	if now.Sub(c.faceAbsentSince) >= attentionThreshold {
		c.attentionWarning = true
	}
}

// AttentionWarning reports the advisory face-absence flag.
func (c *Capture) AttentionWarning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attentionWarning
}
