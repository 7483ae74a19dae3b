package speech

// RecognizeAudio carries the recorded audio as base64 content.
type RecognizeAudio struct {
	Content string `json:"content"`
}

// RecognizeRequest is the JSON body of one transcription call.
type RecognizeRequest struct {
	Config RecognizeConfig `json:"config"`
	Audio  RecognizeAudio  `json:"audio"`
}
