package driven

import "context"

// SpeechService synthesises narration audio.
// This is an optional service - when nil, narration is disabled.
type SpeechService interface {
	// Synthesise returns raw signed 16-bit little-endian PCM for text.
	Synthesise(ctx context.Context, text string) (Audio, error)

	// Close releases resources.
	Close() error
}

// Audio is raw PCM with its format.
type Audio struct {
	PCM           []byte
	SampleRate    int
	Channels      int
	BitsPerSample int
}
