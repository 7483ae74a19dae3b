package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/model/interview"
	"github.com/skillverse/ai-backend/internal/questionbank"
	"github.com/skillverse/ai-backend/internal/service/analyzer"
	"github.com/skillverse/ai-backend/internal/service/question"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func newTestRouter(t *testing.T, generator *fakeGenerator) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	var provider *question.Provider
	var h *Handler
	analyzerSvc := analyzer.NewService(nil, nil, t.TempDir(), logger)
	if generator != nil {
		provider = question.NewProvider(generator, questionbank.MustLoad(), logger)
		h = New(provider, analyzerSvc, generator, false, logger)
	} else {
		provider = question.NewProvider(nil, questionbank.MustLoad(), logger)
		h = New(provider, analyzerSvc, nil, false, logger)
	}

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQuestionRequiresRoleAndDifficulty(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := postJSON(t, router, "/api/interview/question", map[string]string{"role": "frontend"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Missing required fields" {
		t.Errorf("unexpected error field: %q", body["error"])
	}
}

func TestQuestionFallsBackToBank(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := postJSON(t, router, "/api/interview/question", map[string]any{
		"role":       "frontend",
		"difficulty": "medium",
		"round":      2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Question string `json:"question"`
		Metadata struct {
			Round  int    `json:"round"`
			Source string `json:"source"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Question == "" {
		t.Fatal("expected a question")
	}
	if body.Metadata.Source != interview.SourceFallback {
		t.Errorf("expected fallback source, got %q", body.Metadata.Source)
	}
	if body.Metadata.Round != 2 {
		t.Errorf("expected round 2 echoed, got %d", body.Metadata.Round)
	}
}

func TestQuestionUsesGenerator(t *testing.T) {
	router := newTestRouter(t, &fakeGenerator{reply: "Explain how you would design a rate limiter."})

	rec := postJSON(t, router, "/api/interview/question", map[string]string{
		"role":       "backend",
		"difficulty": "hard",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Question string `json:"question"`
		Metadata struct {
			Source string `json:"source"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Question != "Explain how you would design a rate limiter." {
		t.Errorf("unexpected question: %q", body.Question)
	}
	if body.Metadata.Source != interview.SourceAI {
		t.Errorf("expected ai source, got %q", body.Metadata.Source)
	}
}

func TestAnalyzeRequiresAudioFile(t *testing.T) {
	router := newTestRouter(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/interview/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No audio file provided") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestAnalyzeReturnsScoresAndTranscript(t *testing.T) {
	router := newTestRouter(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "answer.webm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake webm bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/interview/analyze", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Scores     interview.Scores `json:"scores"`
		ReportText string           `json:"reportText"`
		Transcript string           `json:"transcript"`
		Metadata   struct {
			WordCount int `json:"word_count"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Without a configured transcriber the canned transcript flows through.
	if body.Transcript != analyzer.CannedTranscript {
		t.Errorf("unexpected transcript: %q", body.Transcript)
	}
	for name, score := range map[string]int{
		"fluency":    body.Scores.Fluency,
		"confidence": body.Scores.Confidence,
		"knowledge":  body.Scores.Knowledge,
	} {
		if score < interview.ScoreMin || score > interview.ScoreMax {
			t.Errorf("%s score out of range: %d", name, score)
		}
	}
	if body.ReportText == "" {
		t.Error("expected feedback text")
	}
	if body.Metadata.WordCount == 0 {
		t.Error("expected a word count")
	}
}

func TestTestAIWithoutModel(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/interview/test-ai", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status   string          `json:"status"`
		Services map[string]bool `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "warning" {
		t.Errorf("expected warning status, got %q", body.Status)
	}
	if body.Services["llm"] {
		t.Error("llm must report unavailable")
	}
}

func TestTestAIReportsFailureInBand(t *testing.T) {
	router := newTestRouter(t, &fakeGenerator{err: errors.New("upstream timeout")})

	req := httptest.NewRequest(http.MethodGet, "/api/interview/test-ai", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("probe failures must stay in-band, got %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "error" {
		t.Errorf("expected error status, got %q", body.Status)
	}
	if !strings.Contains(body.Error, "upstream timeout") {
		t.Errorf("expected the upstream error surfaced, got %q", body.Error)
	}
}
