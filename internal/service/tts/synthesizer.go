// Package tts defines the interface for text-to-speech providers, used by
// the demo conversation generator.
package tts

import "context"

// VoiceProfile selects a voice. Accent distinguishes the two speakers in
// generated consultations: the same engine with a different regional
// endpoint yields an audibly different voice.
type VoiceProfile struct {
	// Language is an ISO-639-1 code, e.g. "en".
	Language string

	// Accent is the regional endpoint suffix, e.g. "com" or "co.uk".
	Accent string
}

// Synthesizer converts text into encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice VoiceProfile) ([]byte, error)
}
