// Package session exposes the server-side interview session API. The
// orchestrator owns all interview progress; clients hold only the session ID
// and react to state they read back from here or over the event stream.
package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/service/analyzer"
	sessionsvc "github.com/skillverse/ai-backend/internal/service/session"
	"github.com/skillverse/ai-backend/pkg/utils"
)

// maxUploadSize caps response uploads at 50MB, matching the analyze endpoint.
const maxUploadSize = 50 << 20

// Handler serves the session lifecycle endpoints.
type Handler struct {
	orchestrator *sessionsvc.Orchestrator
	hub          *Hub
	logger       *zap.Logger
}

// New creates the session handler. The hub must be the same sink the
// orchestrator publishes to.
func New(orchestrator *sessionsvc.Orchestrator, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{orchestrator: orchestrator, hub: hub, logger: logger}
}

// RegisterRoutes mounts the session endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", h.handleCreate)

		sr.Route("/{sessionID}", func(one chi.Router) {
			one.Get("/", h.handleSnapshot)
			one.Delete("/", h.handleDelete)
			one.Post("/question", h.handleNextQuestion)
			one.Post("/announced", h.handleAnnounced)
			one.Post("/response", h.handleResponse)
			one.Post("/skip", h.handleSkip)
			one.Post("/end", h.handleEnd)
			one.Post("/face", h.handleFace)
			one.Post("/capture-failure", h.handleCaptureFailure)
			one.Get("/report", h.handleReport)
			one.Get("/events", h.handleEvents)
		})
	})
}

type createRequest struct {
	Role         string `json:"role"`
	Difficulty   string `json:"difficulty"`
	VoiceEnabled bool   `json:"voiceEnabled"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.orchestrator.Create(r.Context(), req.Role, req.Difficulty, req.VoiceEnabled)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.orchestrator.Snapshot(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Delete(chi.URLParam(r, "sessionID")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.orchestrator.NextQuestion(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, q)
}

func (h *Handler) handleAnnounced(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.orchestrator.AnnouncementDone(id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	snapshot, err := h.orchestrator.Snapshot(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to read audio", err.Error())
		return
	}

	entry, err := h.orchestrator.SubmitResponse(r.Context(), chi.URLParam(r, "sessionID"), audio)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleSkip(w http.ResponseWriter, r *http.Request) {
	entry, err := h.orchestrator.Skip(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	body := map[string]any{"skipped": true}
	if entry != nil {
		body["result"] = entry
	}
	utils.RespondJSON(w, http.StatusOK, body)
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.orchestrator.End(id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	snapshot, err := h.orchestrator.Snapshot(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

type faceRequest struct {
	Detected bool `json:"detected"`
}

func (h *Handler) handleFace(w http.ResponseWriter, r *http.Request) {
	var req faceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id := chi.URLParam(r, "sessionID")
	if err := h.orchestrator.ReportFace(id, req.Detected); err != nil {
		h.respondServiceError(w, err)
		return
	}
	snapshot, err := h.orchestrator.Snapshot(id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{
		"attentionWarning": snapshot.AttentionWarning,
	})
}

func (h *Handler) handleCaptureFailure(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.CaptureFailure(chi.URLParam(r, "sessionID")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"captureDisabled": true})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.orchestrator.Report(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	// The report doubles as the downloadable artifact.
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", "attachment; filename=interview-report.json")
	}
	utils.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionsvc.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sessionsvc.ErrMissingFields):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrNoSpeechDetected):
		utils.RespondError(w, http.StatusBadRequest, "No speech detected", "Could not transcribe audio. Please ensure you spoke clearly.")
	case errors.Is(err, sessionsvc.ErrSessionFinished),
		errors.Is(err, sessionsvc.ErrSessionActive),
		errors.Is(err, sessionsvc.ErrInvalidTransition),
		errors.Is(err, sessionsvc.ErrCaptureUnavailable),
		errors.Is(err, sessionsvc.ErrRecordingActive),
		errors.Is(err, sessionsvc.ErrNoRecording):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("session operation failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
