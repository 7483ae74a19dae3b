package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/config"
	speechmodel "github.com/skillverse/ai-backend/internal/model/speech"
)

// ErrNoAudio is returned when a transcription is requested for empty input.
var ErrNoAudio = errors.New("no audio data to transcribe")

// Recognizer calls the JSON recognize endpoint with the fixed configuration.
type Recognizer struct {
	endpoint string
	apiKey   string
	cfg      speechmodel.RecognizeConfig
	client   *http.Client
	logger   *zap.Logger
}

// NewRecognizer builds the transcription client from service configuration.
func NewRecognizer(cfg config.SpeechConfig, logger *zap.Logger) *Recognizer {
	recognizeCfg := speechmodel.DefaultRecognizeConfig()
	if cfg.Language != "" {
		recognizeCfg.LanguageCode = cfg.Language
	}

	return &Recognizer{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		cfg:      recognizeCfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// Transcribe sends the audio for recognition and joins the returned segments.
func (r *Recognizer) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudio
	}

	payload, err := json.Marshal(speechmodel.RecognizeRequest{
		Config: r.cfg,
		Audio:  speechmodel.RecognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal recognize request: %w", err)
	}

	endpoint := r.endpoint
	if r.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(r.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read recognize response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognize API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var decoded speechmodel.RecognizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode recognize response: %w", err)
	}

	transcript := decoded.Transcript()
	r.logger.Debug("transcription completed",
		zap.Int("audio_bytes", len(audio)),
		zap.Int("transcript_length", len(transcript)),
	)
	return transcript, nil
}
