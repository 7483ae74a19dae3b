// Package session owns the interview state machine: question generation,
// timed response capture, analysis, and the terminal transition to report
// generation. All mutable progress lives here, behind accessors.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/model/interview"
	"github.com/skillverse/ai-backend/internal/service/analyzer"
	"github.com/skillverse/ai-backend/internal/service/question"
	"github.com/skillverse/ai-backend/internal/service/report"
)

var (
	ErrMissingFields     = errors.New("role and difficulty are required")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFinished   = errors.New("session already finished")
	ErrSessionActive     = errors.New("session has not finished yet")
	ErrInvalidTransition = errors.New("operation not valid in current state")
)

// Orchestrator drives every live interview session. Sessions are in-memory
// for the lifetime of one interview; there is no durable persistence.
type Orchestrator struct {
	provider *question.Provider
	analyzer *analyzer.Service
	sink     EventSink
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

// liveSession is the mutable state of one interview. All transitions
// serialize on mu; the epoch counter invalidates in-flight work when the
// session terminates early.
type liveSession struct {
	session interview.Session

	mu         sync.Mutex
	state      interview.State
	index      int // 0-based current question index
	generating bool
	questions  []interview.Question
	results    []interview.ResultEntry
	capture    *Capture
	epoch      int
}

// Snapshot is the read-only view handed to HTTP consumers.
type Snapshot struct {
	Session          interview.Session        `json:"session"`
	State            interview.State          `json:"state"`
	Round            int                      `json:"round"`
	CurrentQuestion  *interview.Question      `json:"currentQuestion,omitempty"`
	Completed        int                      `json:"completed"`
	Results          []interview.ResultEntry  `json:"results"`
	AttentionWarning bool                     `json:"attentionWarning"`
	CaptureDisabled  bool                     `json:"captureDisabled"`
}

// NewOrchestrator wires the orchestrator; sink may be nil.
func NewOrchestrator(provider *question.Provider, analyzerSvc *analyzer.Service, sink EventSink, logger *zap.Logger) *Orchestrator {
	if sink == nil {
		sink = NopSink{}
	}
	return &Orchestrator{
		provider: provider,
		analyzer: analyzerSvc,
		sink:     sink,
		logger:   logger,
		sessions: make(map[string]*liveSession),
	}
}

// Create provisions a session in the awaiting-question state.
func (o *Orchestrator) Create(_ context.Context, role, difficulty string, voiceEnabled bool) (interview.Session, error) {
	if role == "" || difficulty == "" {
		return interview.Session{}, ErrMissingFields
	}

	session := interview.Session{
		ID:           uuid.NewString(),
		Role:         role,
		Difficulty:   difficulty,
		VoiceEnabled: voiceEnabled,
		CreatedAt:    time.Now().UTC(),
	}

	live := &liveSession{
		session:   session,
		state:     interview.StateAwaitingQuestion,
		questions: make([]interview.Question, 0, interview.QuestionsPerSession),
		results:   make([]interview.ResultEntry, 0, interview.QuestionsPerSession),
		capture:   NewCapture(),
	}

	o.mu.Lock()
	o.sessions[session.ID] = live
	o.mu.Unlock()

	o.logger.Info("interview session created",
		zap.String("session", session.ID),
		zap.String("role", role),
		zap.String("difficulty", difficulty),
	)
	o.sink.SessionEvent(Event{
		SessionID: session.ID,
		State:     interview.StateAwaitingQuestion,
		Round:     1,
		Timestamp: time.Now().UTC(),
	})
	return session, nil
}

// Snapshot returns the current state of a session.
func (o *Orchestrator) Snapshot(id string) (Snapshot, error) {
	live, err := o.get(id)
	if err != nil {
		return Snapshot{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.snapshotLocked(), nil
}

// NextQuestion generates the current round's question and moves the session
// into speaking (voice enabled) or straight into listening.
func (o *Orchestrator) NextQuestion(ctx context.Context, id string) (interview.Question, error) {
	live, err := o.get(id)
	if err != nil {
		return interview.Question{}, err
	}

	live.mu.Lock()
	if live.state == interview.StateFinished {
		live.mu.Unlock()
		return interview.Question{}, ErrSessionFinished
	}
	if live.state != interview.StateAwaitingQuestion || live.generating {
		live.mu.Unlock()
		return interview.Question{}, ErrInvalidTransition
	}
	if live.capture.Disabled() {
		live.mu.Unlock()
		return interview.Question{}, ErrCaptureUnavailable
	}

	live.generating = true
	role, difficulty := live.session.Role, live.session.Difficulty
	round := live.index + 1
	previous := questionTexts(live.questions)
	epoch := live.epoch
	live.mu.Unlock()

	// Sequential pipeline: generation only ever starts from AwaitingQuestion,
	// after the previous round's analysis has been appended, so the previous
	// questions list is always complete.
	q, genErr := o.provider.Next(ctx, role, difficulty, round, previous)

	live.mu.Lock()
	live.generating = false
	if live.epoch != epoch || live.state == interview.StateFinished {
		live.mu.Unlock()
		return interview.Question{}, ErrSessionFinished
	}
	if genErr != nil {
		live.mu.Unlock()
		return interview.Question{}, genErr
	}

	live.questions = append(live.questions, q)
	if live.session.VoiceEnabled {
		live.state = interview.StateSpeaking
	} else {
		if err := live.capture.Begin(live.index); err != nil {
			live.mu.Unlock()
			return interview.Question{}, err
		}
		live.state = interview.StateListening
	}
	event := live.eventLocked()
	live.mu.Unlock()

	o.sink.SessionEvent(event)
	return q, nil
}

// AnnouncementDone signals that the client finished reading the question
// aloud; recording starts now.
func (o *Orchestrator) AnnouncementDone(id string) error {
	live, err := o.get(id)
	if err != nil {
		return err
	}

	live.mu.Lock()
	if live.state == interview.StateFinished {
		live.mu.Unlock()
		return ErrSessionFinished
	}
	if live.state != interview.StateSpeaking {
		live.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := live.capture.Begin(live.index); err != nil {
		live.mu.Unlock()
		return err
	}
	live.state = interview.StateListening
	event := live.eventLocked()
	live.mu.Unlock()

	o.sink.SessionEvent(event)
	return nil
}

// SubmitResponse completes the active recording with the uploaded audio and
// runs analysis. On success exactly one result entry is appended and the
// session advances (or finishes after the final round).
func (o *Orchestrator) SubmitResponse(ctx context.Context, id string, audio []byte) (interview.ResultEntry, error) {
	live, err := o.get(id)
	if err != nil {
		return interview.ResultEntry{}, err
	}

	live.mu.Lock()
	if live.state == interview.StateFinished {
		live.mu.Unlock()
		return interview.ResultEntry{}, ErrSessionFinished
	}
	if live.state != interview.StateListening {
		live.mu.Unlock()
		return interview.ResultEntry{}, ErrInvalidTransition
	}
	recording, err := live.capture.Complete(audio)
	if err != nil {
		live.mu.Unlock()
		return interview.ResultEntry{}, err
	}
	live.state = interview.StateAnalyzing
	epoch := live.epoch
	event := live.eventLocked()
	live.mu.Unlock()
	o.sink.SessionEvent(event)

	return o.finishAnalysis(ctx, live, recording, epoch)
}

// Skip abandons the current round. From speaking it advances without a
// result entry; from listening it analyzes whatever was captured so far and
// appends exactly one entry.
func (o *Orchestrator) Skip(ctx context.Context, id string) (*interview.ResultEntry, error) {
	live, err := o.get(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	switch live.state {
	case interview.StateFinished:
		live.mu.Unlock()
		return nil, ErrSessionFinished

	case interview.StateSpeaking:
		// Announcement cancelled; no recording exists for this round, so no
		// result is synthesized either.
		live.advanceLocked()
		event := live.eventLocked()
		live.mu.Unlock()
		o.sink.SessionEvent(event)
		return nil, nil

	case interview.StateListening:
		recording, err := live.capture.Complete(nil)
		if err != nil {
			live.mu.Unlock()
			return nil, err
		}
		live.state = interview.StateAnalyzing
		epoch := live.epoch
		event := live.eventLocked()
		live.mu.Unlock()
		o.sink.SessionEvent(event)

		entry, err := o.finishAnalysis(ctx, live, recording, epoch)
		if err != nil {
			return nil, err
		}
		return &entry, nil

	default:
		live.mu.Unlock()
		return nil, ErrInvalidTransition
	}
}

// End forces the terminal state from anywhere, discarding in-flight work.
// Ending an already finished session is a no-op.
func (o *Orchestrator) End(id string) error {
	live, err := o.get(id)
	if err != nil {
		return err
	}

	live.mu.Lock()
	if live.state == interview.StateFinished {
		live.mu.Unlock()
		return nil
	}
	live.state = interview.StateFinished
	live.epoch++
	live.capture.Abandon()
	event := live.eventLocked()
	live.mu.Unlock()

	o.logger.Info("interview session ended early", zap.String("session", id))
	o.sink.SessionEvent(event)
	return nil
}

// Report aggregates a finished session's results.
func (o *Orchestrator) Report(id string) (interview.Report, error) {
	live, err := o.get(id)
	if err != nil {
		return interview.Report{}, err
	}

	live.mu.Lock()
	if live.state != interview.StateFinished {
		live.mu.Unlock()
		return interview.Report{}, ErrSessionActive
	}
	results := append([]interview.ResultEntry(nil), live.results...)
	live.mu.Unlock()

	return report.Aggregate(results)
}

// ReportFace feeds the advisory face-presence signal.
func (o *Orchestrator) ReportFace(id string, detected bool) error {
	live, err := o.get(id)
	if err != nil {
		return err
	}
	live.capture.ReportFace(detected)
	return nil
}

// CaptureFailure records a permanent device failure for the session.
func (o *Orchestrator) CaptureFailure(id string) error {
	live, err := o.get(id)
	if err != nil {
		return err
	}
	live.capture.Disable()
	o.logger.Warn("media capture disabled for session", zap.String("session", id))
	return nil
}

// Delete discards a session entirely, e.g. when the user starts a new one.
func (o *Orchestrator) Delete(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(o.sessions, id)
	return nil
}

// finishAnalysis runs the analyzer outside the session lock, then appends the
// result unless the session terminated in the meantime.
func (o *Orchestrator) finishAnalysis(ctx context.Context, live *liveSession, recording Recording, epoch int) (interview.ResultEntry, error) {
	result, analyzeErr := o.analyzer.Analyze(ctx, recording.Audio, recording.Duration())

	live.mu.Lock()
	if live.epoch != epoch || live.state == interview.StateFinished {
		live.mu.Unlock()
		o.logger.Info("discarding analysis for terminated session", zap.String("session", live.session.ID))
		return interview.ResultEntry{}, ErrSessionFinished
	}

	if analyzeErr != nil {
		// The user retries this round: re-arm the recording slot.
		if err := live.capture.Begin(live.index); err != nil && !errors.Is(err, ErrCaptureUnavailable) {
			o.logger.Warn("failed to re-arm recording", zap.Error(err))
		}
		live.state = interview.StateListening
		event := live.eventLocked()
		live.mu.Unlock()
		o.sink.SessionEvent(event)
		return interview.ResultEntry{}, analyzeErr
	}

	entry := interview.ResultEntry{
		Round:     live.index + 1,
		Question:  live.questions[live.index],
		Analysis:  result,
		Timestamp: time.Now().UTC(),
	}
	live.results = append(live.results, entry)
	live.advanceLocked()
	event := live.eventLocked()
	live.mu.Unlock()

	o.sink.SessionEvent(event)
	return entry, nil
}

func (o *Orchestrator) get(id string) (*liveSession, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	live, ok := o.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// advanceLocked moves to the next round or the terminal state. Caller holds
// the session lock.
func (s *liveSession) advanceLocked() {
	if s.index+1 >= interview.QuestionsPerSession {
		s.state = interview.StateFinished
		s.capture.Abandon()
		return
	}
	s.index++
	s.state = interview.StateAwaitingQuestion
}

func (s *liveSession) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Session:          s.session,
		State:            s.state,
		Round:            s.index + 1,
		Completed:        len(s.results),
		Results:          append([]interview.ResultEntry(nil), s.results...),
		AttentionWarning: s.capture.AttentionWarning(),
		CaptureDisabled:  s.capture.Disabled(),
	}
	if s.index < len(s.questions) {
		q := s.questions[s.index]
		snapshot.CurrentQuestion = &q
	}
	return snapshot
}

func (s *liveSession) eventLocked() Event {
	return Event{
		SessionID:        s.session.ID,
		State:            s.state,
		Round:            s.index + 1,
		Completed:        len(s.results),
		AttentionWarning: s.capture.AttentionWarning(),
		Timestamp:        time.Now().UTC(),
	}
}

func questionTexts(questions []interview.Question) []string {
	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}
	return texts
}
