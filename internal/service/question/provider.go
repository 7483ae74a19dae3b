// Package question produces interview questions, preferring the generative
// model and degrading to the static bank when the model is unavailable or
// returns a degenerate result.
package question

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skillverse/ai-backend/internal/model/interview"
	"github.com/skillverse/ai-backend/internal/questionbank"
	"github.com/skillverse/ai-backend/internal/service/ai"
)

// ErrMissingFields is the only error Next surfaces; every upstream failure
// degrades to the fallback bank instead.
var ErrMissingFields = errors.New("role and difficulty are required")

// Model output shorter than this is treated as degenerate.
const minQuestionLength = 10

// Provider implements question selection with provenance tagging.
type Provider struct {
	generator ai.Generator // nil when the model is not configured
	bank      *questionbank.Bank
	logger    *zap.Logger
}

// NewProvider wires the provider; generator may be nil for fallback-only mode.
func NewProvider(generator ai.Generator, bank *questionbank.Bank, logger *zap.Logger) *Provider {
	return &Provider{generator: generator, bank: bank, logger: logger}
}

// Available reports whether the generative path is configured.
func (p *Provider) Available() bool {
	return p.generator != nil
}

// Next returns one interview question for the given round. The previous
// questions feed both the model prompt and the bank's repeat filter.
func (p *Provider) Next(ctx context.Context, role, difficulty string, round int, previous []string) (interview.Question, error) {
	if strings.TrimSpace(role) == "" || strings.TrimSpace(difficulty) == "" {
		return interview.Question{}, ErrMissingFields
	}
	if round < 1 {
		round = 1
	}

	if text, ok := p.generate(ctx, role, difficulty, round, previous); ok {
		return interview.Question{
			Text:        text,
			Round:       round,
			Source:      interview.SourceAI,
			GeneratedAt: time.Now().UTC(),
		}, nil
	}

	return interview.Question{
		Text:        p.bank.Pick(role, difficulty, previous),
		Round:       round,
		Source:      interview.SourceFallback,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (p *Provider) generate(ctx context.Context, role, difficulty string, round int, previous []string) (string, bool) {
	if p.generator == nil {
		return "", false
	}

	system, query := ai.QuestionPrompt(role, difficulty, round, previous)
	text, err := p.generator.Generate(ctx, system, query)
	if err != nil {
		p.logger.Warn("question generation failed, using fallback bank", zap.Error(err))
		return "", false
	}

	text = stripQuotes(strings.TrimSpace(text))
	if len(text) < minQuestionLength {
		p.logger.Warn("degenerate model question, using fallback bank", zap.Int("length", len(text)))
		return "", false
	}
	return text, true
}

// stripQuotes removes one layer of wrapping quote characters the model
// sometimes adds around the question text.
func stripQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}
