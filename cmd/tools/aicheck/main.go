// Command aicheck exercises the configured AI integrations from the command
// line: question generation, transcript analysis and speech recognition.
// Useful for verifying credentials before deploying.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/config"
	"github.com/skillverse/ai-backend/internal/service/ai"
	"github.com/skillverse/ai-backend/internal/service/speech"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	mode := flag.String("mode", "", "check mode: probe, question, analyze or asr")
	role := flag.String("role", "fullstack", "interview role for question mode")
	difficulty := flag.String("difficulty", "medium", "difficulty for question mode")
	transcript := flag.String("transcript", "", "transcript text for analyze mode")
	audioPath := flag.String("audio", "", "audio file path for asr mode")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := zap.NewNop()

	switch *mode {
	case "probe", "question", "analyze":
		if !cfg.AI.Enabled() {
			log.Fatal("Ark credentials not configured, set ARK_API_KEY and ARK_CHAT_MODEL first")
		}
		svc, err := ai.NewService(ctx, cfg.AI, logger)
		if err != nil {
			log.Fatalf("failed to initialize AI service: %v", err)
		}
		runModel(ctx, svc, *mode, *role, *difficulty, *transcript)

	case "asr":
		if !cfg.Speech.Enabled {
			log.Fatal("speech credentials not configured, set SPEECH_API_KEY first")
		}
		runASR(ctx, speech.NewRecognizer(cfg.Speech, logger), *audioPath)

	default:
		flag.Usage()
		log.Fatal("specify -mode=probe, -mode=question, -mode=analyze or -mode=asr")
	}
}

func runModel(ctx context.Context, svc *ai.Service, mode, role, difficulty, transcript string) {
	var system, query string
	switch mode {
	case "probe":
		system, query = ai.ProbePrompt()
	case "question":
		system, query = ai.QuestionPrompt(role, difficulty, 1, nil)
	case "analyze":
		if transcript == "" {
			log.Fatal("-transcript is required for analyze mode")
		}
		system, query = ai.AnalysisPrompt(transcript)
	}

	start := time.Now()
	reply, err := svc.Generate(ctx, system, query)
	if err != nil {
		log.Fatalf("model request failed: %v", err)
	}
	log.Printf("model responded in %s", time.Since(start))
	fmt.Println(reply)
}

func runASR(ctx context.Context, recognizer *speech.Recognizer, audioPath string) {
	if audioPath == "" {
		log.Fatal("-audio is required for asr mode")
	}
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		log.Fatalf("failed to read audio file: %v", err)
	}

	start := time.Now()
	transcript, err := recognizer.Transcribe(ctx, audio)
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}
	log.Printf("transcribed %d bytes in %s", len(audio), time.Since(start))
	fmt.Println(transcript)
}
