// Package mock provides a mock STT adapter for running the service without
// a transcription engine. It returns a canned doctor-patient consultation
// with realistic segment timings.
package mock

import (
	"context"
	"strings"

	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/service/stt"
)

// DefaultSegments is the canned consultation returned by the adapter.
// It mirrors the demo audio produced by convogen so the two tools can be
// exercised against each other.
var DefaultSegments = []models.TranscriptSegment{
	{Text: "Good morning. Please come in and have a seat.", Start: 0, End: 3.2},
	{Text: "Good morning, Doctor.", Start: 3.8, End: 5.1},
	{Text: "Can I have your full name and age, please?", Start: 5.7, End: 8.4},
	{Text: "Yes, I'm Rahul Mehta, 32 years old.", Start: 9.0, End: 11.6},
	{Text: "What brings you in today?", Start: 12.2, End: 13.9},
	{Text: "I've been having fever, sore throat, and fatigue for the last three days.", Start: 14.5, End: 19.3},
	{Text: "Based on your symptoms, this looks like a mild viral fever with throat infection.", Start: 19.9, End: 24.8},
	{Text: "I'm prescribing Paracetamol six hundred and fifty milligrams, one tablet every six hours after food.", Start: 25.4, End: 31.7},
	{Text: "I'll note your diagnosis as Acute Viral Pharyngitis.", Start: 32.3, End: 35.6},
	{Text: "Thank you, Doctor.", Start: 36.2, End: 37.4},
}

// Adapter implements stt.Transcriber with canned output.
type Adapter struct {
	segments []models.TranscriptSegment
	language string

	// Err, when set, is returned once and then cleared. Lets tests drive
	// the retry path.
	Err error
}

// New creates a mock STT adapter returning the default consultation.
func New() *Adapter {
	return &Adapter{segments: DefaultSegments, language: "en"}
}

// NewWithSegments creates a mock adapter returning the given segments.
func NewWithSegments(segments []models.TranscriptSegment) *Adapter {
	return &Adapter{segments: segments, language: "en"}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "mock" }

// Transcribe returns the canned transcription. Honors ctx cancellation.
func (a *Adapter) Transcribe(ctx context.Context, _ []byte, _ stt.Options) (*stt.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.Err != nil {
		err := a.Err
		a.Err = nil
		return nil, err
	}
	if len(a.segments) == 0 {
		return nil, stt.ErrNoSpeech
	}

	texts := make([]string, 0, len(a.segments))
	for _, s := range a.segments {
		texts = append(texts, s.Text)
	}
	segments := make([]models.TranscriptSegment, len(a.segments))
	copy(segments, a.segments)

	return &stt.Transcription{
		Segments: segments,
		FullText: strings.Join(texts, " "),
		Duration: a.segments[len(a.segments)-1].End,
		Language: a.language,
	}, nil
}
