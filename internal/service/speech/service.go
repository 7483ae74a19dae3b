// Package speech provides the transcription client used by the analyze
// pipeline. The service is a stateless request issuer; failure handling
// (canned transcript fallback) lives with the caller.
package speech

import "context"

// Transcriber obtains one transcript for one recorded response.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
