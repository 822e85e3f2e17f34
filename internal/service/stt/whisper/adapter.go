// Package whisper provides a speech-to-text adapter backed by the OpenAI
// audio transcriptions API. Pointing BaseURL at a self-hosted
// whisper-compatible server (faster-whisper, LocalAI) works unchanged.
package whisper

import (
	"bytes"
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/service/stt"
)

// Config holds whisper adapter configuration.
type Config struct {
	BaseURL string // empty means the public OpenAI endpoint
	APIKey  string
	Model   string // empty means whisper-1
}

// Adapter implements stt.Transcriber against a whisper-compatible API.
type Adapter struct {
	client *openai.Client
	model  string
}

// New creates a whisper STT adapter.
func New(cfg Config) *Adapter {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &Adapter{
		client: openai.NewClientWithConfig(cc),
		model:  model,
	}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "whisper" }

// Transcribe sends the audio bytes for transcription and maps the
// verbose-JSON response onto transcript segments. Segments with fewer than
// three characters of text are dropped as transcription noise.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (*stt.Transcription, error) {
	req := openai.AudioRequest{
		Model:    a.model,
		FilePath: "conversation.mp3", // multipart filename hint only
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if !opts.Conservative {
		req.Language = opts.LanguageHint
	}
	// Conservative mode: temperature 0 and provider-side language
	// detection, the engine's most defensive configuration.

	resp, err := a.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, err
	}

	tr := &stt.Transcription{
		FullText: strings.TrimSpace(resp.Text),
		Duration: resp.Duration,
		Language: resp.Language,
	}
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if len(text) <= 2 {
			continue
		}
		tr.Segments = append(tr.Segments, models.TranscriptSegment{
			Text:  text,
			Start: s.Start,
			End:   s.End,
		})
	}

	if tr.FullText == "" && len(tr.Segments) == 0 {
		return nil, stt.ErrNoSpeech
	}
	return tr, nil
}
