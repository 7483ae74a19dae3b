package interview

import "time"

// Report is derived from a finalized result list and never independently
// mutated. It serializes to JSON for the downloadable report and parses back
// to an identical structure.
type Report struct {
	Scores      Scores    `json:"scores"` // per-metric rounded averages
	Overall     int       `json:"overall"`
	Grade       string    `json:"grade"`
	Description string    `json:"description"`
	Questions   int       `json:"questions"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GradeFor maps the mean of the three metric averages to its letter grade
// and description. The comparison uses the unrounded mean.
func GradeFor(overall float64) (string, string) {
	switch {
	case overall >= 90:
		return "A+", "Exceptional Performance"
	case overall >= 80:
		return "A", "Excellent Performance"
	case overall >= 70:
		return "B", "Good Performance"
	case overall >= 60:
		return "C", "Average Performance"
	default:
		return "D", "Needs Improvement"
	}
}
