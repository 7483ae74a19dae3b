// Package scoring turns generative-model output into validated interview
// scores. It attempts a strict JSON decode first and falls back to best-effort
// field extraction, always producing the same result shape.
package scoring

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/skillverse/ai-backend/internal/model/interview"
)

// Result is the structured outcome recovered from model output.
type Result struct {
	Scores     interview.Scores
	ReportText string
}

// Per-field defaults applied when a score cannot be extracted.
const (
	defaultFluency    = 75
	defaultConfidence = 80
	defaultKnowledge  = 70
)

var (
	fluencyPattern    = regexp.MustCompile(`"fluency":\s*(\d+)`)
	confidencePattern = regexp.MustCompile(`"confidence":\s*(\d+)`)
	knowledgePattern  = regexp.MustCompile(`"knowledge":\s*(\d+)`)
	reportPattern     = regexp.MustCompile(`"reportText":\s*"([^"]+)"`)
)

// Parse decodes the model's analysis response. Malformed JSON degrades to
// regex extraction of the individual fields with per-field defaults; the raw
// text doubles as the report when no reportText can be recovered.
func Parse(text string) Result {
	trimmed := strings.TrimSpace(text)

	var decoded struct {
		Scores     interview.Scores `json:"scores"`
		ReportText string           `json:"reportText"`
	}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return Result{Scores: decoded.Scores, ReportText: decoded.ReportText}
	}

	return extract(trimmed)
}

func extract(text string) Result {
	result := Result{
		Scores: interview.Scores{
			Fluency:    defaultFluency,
			Confidence: defaultConfidence,
			Knowledge:  defaultKnowledge,
		},
		ReportText: text,
	}

	if value, ok := extractScore(fluencyPattern, text); ok {
		result.Scores.Fluency = value
	}
	if value, ok := extractScore(confidencePattern, text); ok {
		result.Scores.Confidence = value
	}
	if value, ok := extractScore(knowledgePattern, text); ok {
		result.Scores.Knowledge = value
	}
	if match := reportPattern.FindStringSubmatch(text); match != nil {
		result.ReportText = match[1]
	}

	return result
}

func extractScore(pattern *regexp.Regexp, text string) (int, bool) {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

// Clamp replaces every score outside the valid range with the fixed default.
// This runs on every result before it is stored, regardless of which path
// produced it.
func Clamp(scores interview.Scores) interview.Scores {
	scores.Fluency = clampScore(scores.Fluency)
	scores.Confidence = clampScore(scores.Confidence)
	scores.Knowledge = clampScore(scores.Knowledge)
	return scores
}

func clampScore(value int) int {
	if value < interview.ScoreMin || value > interview.ScoreMax {
		return interview.DefaultScore
	}
	return value
}

// WordCount reports the number of whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
