// Package stt defines the interface for speech-to-text providers.
package stt

import (
	"context"
	"errors"

	"medical-conversation-processor/internal/models"
)

// ErrNoSpeech is returned when the provider processed the audio but found
// no speech in it. Callers surface this distinctly from a generic
// transcription failure, and must not retry on it.
var ErrNoSpeech = errors.New("no speech detected in audio")

// Options controls a single transcription request.
type Options struct {
	// LanguageHint is an ISO-639-1 code (e.g. "en") to guide recognition.
	// Empty means provider auto-detection.
	LanguageHint string

	// Conservative selects the provider's most defensive parameter set.
	// Used on the one retry after a generic failure.
	Conservative bool
}

// Transcription is the result of transcribing one audio recording.
type Transcription struct {
	Segments []models.TranscriptSegment
	FullText string
	Duration float64
	Language string
}

// Transcriber converts a complete audio recording into timestamped
// transcript segments. Implementations must honor ctx cancellation and
// return ErrNoSpeech when the audio contains no usable speech.
type Transcriber interface {
	// Name returns the provider identifier (e.g. "whisper", "google").
	Name() string

	Transcribe(ctx context.Context, audio []byte, opts Options) (*Transcription, error)
}
