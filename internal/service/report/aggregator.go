// Package report reduces a finalized session result list into the overall
// interview report. It only reads its input.
package report

import (
	"errors"
	"math"
	"time"

	"github.com/skillverse/ai-backend/internal/model/interview"
)

// ErrNoResults signals that there is nothing to aggregate; a report over zero
// responses is undefined rather than zero-scored.
var ErrNoResults = errors.New("insufficient data: no analyzed responses")

// Aggregate computes per-metric rounded averages, the overall score, and the
// letter grade from the ordered result list.
func Aggregate(results []interview.ResultEntry) (interview.Report, error) {
	if len(results) == 0 {
		return interview.Report{}, ErrNoResults
	}

	var fluency, confidence, knowledge int
	for _, entry := range results {
		fluency += entry.Analysis.Scores.Fluency
		confidence += entry.Analysis.Scores.Confidence
		knowledge += entry.Analysis.Scores.Knowledge
	}

	n := len(results)
	scores := interview.Scores{
		Fluency:    roundedMean(fluency, n),
		Confidence: roundedMean(confidence, n),
		Knowledge:  roundedMean(knowledge, n),
	}

	mean := float64(scores.Fluency+scores.Confidence+scores.Knowledge) / 3
	grade, description := interview.GradeFor(mean)

	return interview.Report{
		Scores:      scores,
		Overall:     int(math.Round(mean)),
		Grade:       grade,
		Description: description,
		Questions:   n,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func roundedMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
