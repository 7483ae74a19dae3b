package ai

import (
	"fmt"
	"strings"
)

// QuestionPrompt builds the deterministic prompt pair for generating one
// interview question. The previous questions are rendered into the prompt so
// the model avoids repeating them.
func QuestionPrompt(role, difficulty string, round int, previous []string) (system, query string) {
	system = fmt.Sprintf(
		"You are an expert technical interviewer conducting a %s level interview for a %s developer position.",
		difficulty, role,
	)

	prior := "None"
	if len(previous) > 0 {
		prior = strings.Join(previous, ", ")
	}

	query = fmt.Sprintf(`Generate a single, well-crafted interview question that:
- Tests %s-level knowledge for a %s developer
- Is appropriate for interview round %d
- Avoids repetition with previous questions: %s
- Encourages detailed, technical responses
- Can be answered in 2-3 minutes

Focus on practical scenarios and real-world applications. Return only the question text, no additional formatting or explanation.`,
		difficulty, role, round, prior,
	)
	return system, query
}

// AnalysisPrompt builds the prompt pair asking the model for strict JSON
// scores and feedback over a transcript.
func AnalysisPrompt(transcript string) (system, query string) {
	system = "You are an expert technical interviewer analyzing a candidate's response."

	query = fmt.Sprintf(`Transcript: "%s"

Please analyze this interview response and provide:

1. SCORES (1-100 scale):
   - Fluency: How well did they speak (clarity, pace, flow)
   - Confidence: How confident did they sound (conviction, certainty)
   - Technical Knowledge: Quality of technical content and accuracy

2. A comprehensive feedback report (2-3 paragraphs) covering:
   - Strengths demonstrated
   - Areas for improvement
   - Specific technical insights
   - Communication effectiveness

Format your response as JSON:
{
  "scores": {
    "fluency": <number>,
    "confidence": <number>,
    "knowledge": <number>
  },
  "reportText": "<detailed feedback>"
}`, transcript)
	return system, query
}

// ProbePrompt is the connectivity check used by the diagnostics endpoint.
func ProbePrompt() (system, query string) {
	return "You are a connectivity probe.", `Say "AI connection successful" if you can read this.`
}
