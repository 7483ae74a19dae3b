package speech

// RecognizeConfig is the fixed transcription configuration sent with every
// recognize call. Browser MediaRecorder produces webm/opus at 48kHz, so the
// defaults match that capture path.
type RecognizeConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Model                      string `json:"model"`
}

// DefaultRecognizeConfig returns the configuration used by the analyze
// pipeline.
func DefaultRecognizeConfig() RecognizeConfig {
	return RecognizeConfig{
		Encoding:                   "WEBM_OPUS",
		SampleRateHertz:            48000,
		LanguageCode:               "en-US",
		EnableAutomaticPunctuation: true,
		Model:                      "latest_long",
	}
}
