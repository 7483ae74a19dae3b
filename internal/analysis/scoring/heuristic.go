package scoring

import (
	"fmt"
	"regexp"

	"github.com/skillverse/ai-backend/internal/model/interview"
)

var (
	confidencePhrases = regexp.MustCompile(`(?i)\b(confident|sure|definitely|absolutely|clearly)\b`)
	technicalTerms    = regexp.MustCompile(`(?i)\b(component|function|variable|array|object|database|api|framework)\b`)
)

// Heuristic scores a transcript without the model: fluency scales with
// response length, confidence and knowledge key off indicative vocabulary.
// Used when the scoring call itself fails, not merely returns malformed data.
func Heuristic(transcript string) Result {
	wordCount := WordCount(transcript)
	confident := confidencePhrases.MatchString(transcript)
	technical := technicalTerms.MatchString(transcript)

	fluency := 70
	if wordCount > 50 {
		fluency += 10
	}
	if fluency < 60 {
		fluency = 60
	}
	if fluency > 90 {
		fluency = 90
	}

	confidence := 75
	if confident {
		confidence = 85
	}

	knowledge := 65
	if technical {
		knowledge = 80
	}

	return Result{
		Scores: interview.Scores{
			Fluency:    fluency,
			Confidence: confidence,
			Knowledge:  knowledge,
		},
		ReportText: heuristicFeedback(confident, technical, wordCount),
	}
}

func heuristicFeedback(confident, technical bool, wordCount int) string {
	knowledgeNote := "basic understanding"
	if technical {
		knowledgeNote = "good technical knowledge"
	}
	deliveryNote := "room for more confidence"
	if confident {
		deliveryNote = "confident delivery"
	}
	lengthNote := "you could provide more detail"
	if wordCount > 50 {
		lengthNote = "thorough thinking"
	}

	return fmt.Sprintf(
		"Based on your response, you demonstrated %s with %s. Your response length suggests %s. "+
			"Focus on speaking with more conviction and providing specific examples to strengthen your answers.",
		knowledgeNote, deliveryNote, lengthNote,
	)
}
