package session

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/model/interview"
	"github.com/skillverse/ai-backend/internal/questionbank"
	"github.com/skillverse/ai-backend/internal/service/analyzer"
	"github.com/skillverse/ai-backend/internal/service/question"
	sessionsvc "github.com/skillverse/ai-backend/internal/service/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	provider := question.NewProvider(nil, questionbank.MustLoad(), logger)
	analyzerSvc := analyzer.NewService(nil, nil, t.TempDir(), logger)
	hub := NewHub(logger)
	orchestrator := sessionsvc.NewOrchestrator(provider, analyzerSvc, hub, logger)

	h := New(orchestrator, hub, logger)
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, router http.Handler) interview.Session {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/sessions/", map[string]any{
		"role":       "frontend",
		"difficulty": "medium",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var session interview.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected a session id")
	}
	return session
}

func postAudio(t *testing.T, router http.Handler, path string, audio []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "answer.webm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(audio); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateValidatesInput(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/sessions/", map[string]string{"role": "frontend"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/sessions/nope/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/api/sessions/" + session.ID

	rec := doJSON(t, router, http.MethodPost, base+"/question", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("question failed: %d %s", rec.Code, rec.Body.String())
	}
	var q interview.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode question: %v", err)
	}
	if q.Text == "" || q.Round != 1 {
		t.Fatalf("unexpected question: %+v", q)
	}

	rec = doJSON(t, router, http.MethodGet, base+"/", nil)
	var snapshot sessionsvc.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.State != interview.StateListening {
		t.Fatalf("expected listening, got %q", snapshot.State)
	}
	if snapshot.CurrentQuestion == nil || snapshot.CurrentQuestion.Text != q.Text {
		t.Fatal("snapshot must expose the current question")
	}

	rec = postAudio(t, router, base+"/response", []byte("audio"))
	if rec.Code != http.StatusOK {
		t.Fatalf("response failed: %d %s", rec.Code, rec.Body.String())
	}
	var entry interview.ResultEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Round != 1 {
		t.Fatalf("expected round 1 entry, got %d", entry.Round)
	}
	if entry.Analysis.Transcript == "" {
		t.Fatal("expected a transcript in the analysis")
	}
}

func TestResponseRequiresAudio(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/api/sessions/" + session.ID

	if rec := doJSON(t, router, http.MethodPost, base+"/question", nil); rec.Code != http.StatusOK {
		t.Fatalf("question failed: %d", rec.Code)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, base+"/response", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitWithoutQuestionConflicts(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)

	rec := postAudio(t, router, "/api/sessions/"+session.ID+"/response", []byte("audio"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSkipReturnsResultWhileListening(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/api/sessions/" + session.ID

	if rec := doJSON(t, router, http.MethodPost, base+"/question", nil); rec.Code != http.StatusOK {
		t.Fatalf("question failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, base+"/skip", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("skip failed: %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Skipped bool                   `json:"skipped"`
		Result  *interview.ResultEntry `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode skip response: %v", err)
	}
	if !body.Skipped || body.Result == nil {
		t.Fatalf("expected a synthesized result, got %s", rec.Body.String())
	}
}

func TestEndAndReport(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/api/sessions/" + session.ID

	// Answer one question so the report has data, then end early.
	if rec := doJSON(t, router, http.MethodPost, base+"/question", nil); rec.Code != http.StatusOK {
		t.Fatalf("question failed: %d", rec.Code)
	}
	if rec := postAudio(t, router, base+"/response", []byte("audio")); rec.Code != http.StatusOK {
		t.Fatalf("response failed: %d", rec.Code)
	}

	if rec := doJSON(t, router, http.MethodGet, base+"/report", nil); rec.Code != http.StatusConflict {
		t.Fatalf("report before finish must conflict, got %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, base+"/end", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("end failed: %d", rec.Code)
	}
	var snapshot sessionsvc.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.State != interview.StateFinished {
		t.Fatalf("expected finished, got %q", snapshot.State)
	}

	rec = doJSON(t, router, http.MethodGet, base+"/report?download=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report failed: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Error("expected attachment disposition for download")
	}
	var report interview.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Questions != 1 {
		t.Fatalf("expected 1 question in report, got %d", report.Questions)
	}
	if report.Grade == "" {
		t.Fatal("expected a grade")
	}
}

func TestFaceAndCaptureFailureEndpoints(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/api/sessions/" + session.ID

	rec := doJSON(t, router, http.MethodPost, base+"/face", map[string]bool{"detected": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("face failed: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, base+"/capture-failure", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture-failure failed: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, base+"/question", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after capture failure, got %d", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/api/sessions/"+session.ID+"/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/sessions/"+session.ID+"/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestEventStreamDeliversTransitions(t *testing.T) {
	router := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	session := createSession(t, router)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/sessions/" + session.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer conn.Close()

	var frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read initial frame: %v", err)
	}
	if frame.Type != "snapshot" {
		t.Fatalf("expected a snapshot first, got %q", frame.Type)
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/sessions/"+session.ID+"/question", nil); rec.Code != http.StatusOK {
		t.Fatalf("question failed: %d", rec.Code)
	}

	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read event frame: %v", err)
	}
	if frame.Type != "event" {
		t.Fatalf("expected an event frame, got %q", frame.Type)
	}
	var event sessionsvc.Event
	if err := json.Unmarshal(frame.Data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.State != interview.StateListening {
		t.Fatalf("expected listening event, got %q", event.State)
	}
}
