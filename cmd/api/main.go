package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/config"
	"github.com/skillverse/ai-backend/internal/handler"
	sessionHandler "github.com/skillverse/ai-backend/internal/handler/session"
	"github.com/skillverse/ai-backend/internal/questionbank"
	"github.com/skillverse/ai-backend/internal/service/ai"
	"github.com/skillverse/ai-backend/internal/service/analyzer"
	"github.com/skillverse/ai-backend/internal/service/question"
	sessionsvc "github.com/skillverse/ai-backend/internal/service/session"
	speechsvc "github.com/skillverse/ai-backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn("failed to load .env file, continuing with system environment", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize the LLM service
	var generator ai.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize AI service, falling back to the question bank", zap.Error(err))
		} else {
			logger.Info("AI service initialized")
			generator = aiService
		}
	} else {
		logger.Info("Ark credentials not configured, question bank and heuristic scoring only")
	}

	// Initialize the speech recognizer
	var transcriber speechsvc.Transcriber
	if cfg.Speech.Enabled {
		transcriber = speechsvc.NewRecognizer(cfg.Speech, logger)
		logger.Info("speech recognizer initialized")
	} else {
		logger.Info("speech credentials not configured, transcription disabled")
	}

	bank := questionbank.MustLoad()
	provider := question.NewProvider(generator, bank, logger)
	analyzerSvc := analyzer.NewService(transcriber, generator, cfg.Server.UploadDir, logger)

	hub := sessionHandler.NewHub(logger)
	orchestrator := sessionsvc.NewOrchestrator(provider, analyzerSvc, hub, logger)

	router := handler.NewRouter(handler.Deps{
		Questions:     provider,
		Analyzer:      analyzerSvc,
		Orchestrator:  orchestrator,
		Hub:           hub,
		Generator:     generator,
		SpeechEnabled: cfg.Speech.Enabled,
		Origins:       cfg.Server.AllowedOrigins,
		Logger:        logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("SkillVerse AI backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
