package speech

import "strings"

// RecognizeAlternative is one transcription hypothesis.
type RecognizeAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// RecognizeResult is one recognized segment; the first alternative is the
// best hypothesis.
type RecognizeResult struct {
	Alternatives []RecognizeAlternative `json:"alternatives"`
}

// RecognizeResponse is the JSON body returned by the transcription service.
type RecognizeResponse struct {
	Results []RecognizeResult `json:"results"`
}

// Transcript joins the best hypothesis of every segment with spaces.
func (r RecognizeResponse) Transcript() string {
	parts := make([]string, 0, len(r.Results))
	for _, result := range r.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := result.Alternatives[0].Transcript; text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
