// Package handler wires HTTP routes to core services.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	interviewHandler "github.com/skillverse/ai-backend/internal/handler/interview"
	sessionHandler "github.com/skillverse/ai-backend/internal/handler/session"
	"github.com/skillverse/ai-backend/internal/middleware"
	"github.com/skillverse/ai-backend/internal/service/ai"
	"github.com/skillverse/ai-backend/internal/service/analyzer"
	"github.com/skillverse/ai-backend/internal/service/question"
	sessionsvc "github.com/skillverse/ai-backend/internal/service/session"
	"github.com/skillverse/ai-backend/pkg/utils"
)

// Deps carries the services the router exposes.
type Deps struct {
	Questions     *question.Provider
	Analyzer      *analyzer.Service
	Orchestrator  *sessionsvc.Orchestrator
	Hub           *sessionHandler.Hub
	Generator     ai.Generator // nil when the model is not configured
	SpeechEnabled bool
	Origins       []string
	Logger        *zap.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(deps.Origins))

	r.Get("/health", handleHealth)

	r.Route("/api", func(api chi.Router) {
		interviewH := interviewHandler.New(deps.Questions, deps.Analyzer, deps.Generator, deps.SpeechEnabled, deps.Logger)
		interviewH.RegisterRoutes(api)

		sessionH := sessionHandler.New(deps.Orchestrator, deps.Hub, deps.Logger)
		sessionH.RegisterRoutes(api)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{
			"error":     "Not Found",
			"message":   "Route " + r.URL.Path + " not found",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error":     "Method Not Allowed",
			"message":   r.Method + " is not supported on " + r.URL.Path,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "SkillVerse AI Backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
