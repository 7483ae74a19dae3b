// Package interview exposes the stateless interview endpoints: question
// generation, response analysis and the AI connectivity probe. No server-side
// session is involved; callers carry their own history.
package interview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/service/ai"
	"github.com/skillverse/ai-backend/internal/service/analyzer"
	"github.com/skillverse/ai-backend/internal/service/question"
	"github.com/skillverse/ai-backend/pkg/utils"
)

// maxUploadSize caps the analyze request body at 50MB.
const maxUploadSize = 50 << 20

// Handler serves the stateless interview API.
type Handler struct {
	questions     *question.Provider
	analyzer      *analyzer.Service
	generator     ai.Generator // nil when the model is not configured
	speechEnabled bool
	logger        *zap.Logger
}

// New creates the interview handler.
func New(questions *question.Provider, analyzerSvc *analyzer.Service, generator ai.Generator, speechEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		questions:     questions,
		analyzer:      analyzerSvc,
		generator:     generator,
		speechEnabled: speechEnabled,
		logger:        logger,
	}
}

// RegisterRoutes mounts the interview endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/interview", func(ir chi.Router) {
		ir.Post("/question", h.handleQuestion)
		ir.Post("/analyze", h.handleAnalyze)
		ir.Get("/test-ai", h.handleTestAI)
	})
}

type questionRequest struct {
	Role              string   `json:"role"`
	Difficulty        string   `json:"difficulty"`
	Round             int      `json:"round"`
	PreviousQuestions []string `json:"previousQuestions"`
}

func (h *Handler) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}
	if req.Role == "" || req.Difficulty == "" {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Missing required fields",
			"message": "Role and difficulty are required",
		})
		return
	}
	if req.Round < 1 {
		req.Round = 1
	}

	q, err := h.questions.Next(r.Context(), req.Role, req.Difficulty, req.Round, req.PreviousQuestions)
	if err != nil {
		h.logger.Error("question generation failed", zap.Error(err))
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Question Generation Failed",
			"message": err.Error(),
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"question": q.Text,
		"metadata": map[string]any{
			"role":         req.Role,
			"difficulty":   req.Difficulty,
			"round":        req.Round,
			"generated_at": q.GeneratedAt.Format(time.RFC3339),
			"source":       q.Source,
		},
	})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid upload",
			"message": err.Error(),
		})
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "No audio file provided",
			"message": "Please upload an audio file",
		})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Audio Processing Failed",
			"message": err.Error(),
		})
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), audio, header.Size)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoSpeechDetected) {
			utils.RespondJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "No speech detected",
				"message": "Could not transcribe audio. Please ensure you spoke clearly.",
			})
			return
		}
		h.logger.Error("audio analysis failed", zap.Error(err))
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Audio Processing Failed",
			"message": err.Error(),
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"scores":     result.Scores,
		"reportText": result.ReportText,
		"transcript": result.Transcript,
		"metadata": map[string]any{
			"duration":    result.Duration,
			"analyzed_at": result.AnalyzedAt.Format(time.RFC3339),
			"word_count":  result.WordCount,
		},
	})
}

// handleTestAI probes model connectivity. Failures are reported in-band with
// HTTP 200 so the frontend can show degraded-mode status.
func (h *Handler) handleTestAI(w http.ResponseWriter, r *http.Request) {
	services := map[string]bool{
		"llm":            h.generator != nil,
		"speech_to_text": h.speechEnabled,
	}

	if h.generator == nil {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "warning",
			"message":  "AI model not initialized - using fallback responses",
			"services": services,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	system, query := ai.ProbePrompt()
	reply, err := h.generator.Generate(ctx, system, query)
	if err != nil {
		services["llm"] = false
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "error",
			"message":  "AI connection failed - using fallback responses",
			"error":    err.Error(),
			"services": services,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"message":       "AI services connected successfully",
		"test_response": reply,
		"services":      services,
	})
}
