// Package pipeline orchestrates the processing of one consultation:
// transcription, speaker attribution, prompt building, completion,
// extraction, and normalization, with events published along the way.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"medical-conversation-processor/internal/events"
	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/observability/logging"
	"medical-conversation-processor/internal/observability/metrics"
	"medical-conversation-processor/internal/schema"
	"medical-conversation-processor/internal/service/attribution"
	"medical-conversation-processor/internal/service/extraction"
	"medical-conversation-processor/internal/service/llm"
	"medical-conversation-processor/internal/service/prompt"
	"medical-conversation-processor/internal/service/record"
	"medical-conversation-processor/internal/service/stt"
)

// CollaboratorError marks a failure of an external collaborator (the
// transcription provider or the completion backend), as opposed to an
// input-validation failure.
type CollaboratorError struct {
	Stage string // "transcription" or "completion"
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// Config holds pipeline behavior configuration.
type Config struct {
	// Workers bounds concurrent in-flight requests.
	Workers int

	// AttributeSpeakers enables keyword-based doctor/patient labeling.
	AttributeSpeakers bool

	// RetryTranscribe enables one conservative retry after a generic
	// transcription failure.
	RetryTranscribe bool

	// Model is the completion model identifier passed to the backend.
	Model string

	// LanguageHint guides the transcription provider. Empty means
	// auto-detection.
	LanguageHint string

	// Sampling holds the completion sampling parameters.
	Sampling llm.Options
}

// Result is the outcome of processing one consultation.
type Result struct {
	Conversation *models.Conversation
	Record       models.MedicalRecord
	Extraction   extraction.Result
	Model        string
}

// Pipeline runs consultations through the processing stages. Concurrency
// is bounded by a weighted semaphore; callers block in Process until a
// slot frees up or their context is cancelled.
type Pipeline struct {
	transcriber stt.Transcriber
	completer   llm.Completer
	publisher   *events.Publisher
	validator   *schema.Validator
	metrics     *metrics.Metrics
	sem         *semaphore.Weighted
	cfg         Config
}

// New creates a pipeline. A nil publisher disables event publishing.
func New(transcriber stt.Transcriber, completer llm.Completer, publisher *events.Publisher, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Sampling == (llm.Options{}) {
		cfg.Sampling = llm.DefaultOptions()
	}
	if publisher == nil {
		publisher = events.New(nil)
	}
	return &Pipeline{
		transcriber: transcriber,
		completer:   completer,
		publisher:   publisher,
		validator:   schema.New(),
		metrics:     metrics.DefaultMetrics,
		sem:         semaphore.NewWeighted(int64(cfg.Workers)),
		cfg:         cfg,
	}
}

// Process runs the full pipeline on an audio recording.
func (p *Pipeline) Process(ctx context.Context, audio []byte) (*Result, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	start := time.Now()
	p.metrics.RecordRequestStart()

	res, err := p.process(ctx, audio)
	p.metrics.RecordRequestEnd(failureReason(err), time.Since(start).Seconds())
	return res, err
}

// ProcessTranscription runs the pipeline on an already-transcribed
// conversation, skipping the transcription stage. Used by the sample
// endpoint and by tools that carry their own transcripts.
func (p *Pipeline) ProcessTranscription(ctx context.Context, tr *stt.Transcription) (*Result, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	start := time.Now()
	p.metrics.RecordRequestStart()

	conv := p.buildConversation(tr)
	res, err := p.processConversation(ctx, conv)
	p.metrics.RecordRequestEnd(failureReason(err), time.Since(start).Seconds())
	return res, err
}

func (p *Pipeline) process(ctx context.Context, audio []byte) (*Result, error) {
	tr, err := p.transcribe(ctx, audio)
	if err != nil {
		if errors.Is(err, stt.ErrNoSpeech) {
			p.metrics.RecordNoSpeech()
		}
		return nil, &CollaboratorError{Stage: "transcription", Err: err}
	}

	conv := p.buildConversation(tr)
	return p.processConversation(ctx, conv)
}

// transcribe calls the provider, retrying once with conservative options
// after a generic failure. No retry on missing speech or cancellation.
func (p *Pipeline) transcribe(ctx context.Context, audio []byte) (*stt.Transcription, error) {
	opts := stt.Options{LanguageHint: p.cfg.LanguageHint}

	start := time.Now()
	tr, err := p.transcriber.Transcribe(ctx, audio, opts)
	p.metrics.RecordTranscription(p.transcriber.Name(), err, time.Since(start).Seconds())
	if err == nil {
		return tr, nil
	}
	if !p.cfg.RetryTranscribe || errors.Is(err, stt.ErrNoSpeech) || ctx.Err() != nil {
		return nil, err
	}

	log.Warn().Err(err).Str("provider", p.transcriber.Name()).
		Msg("Transcription failed, retrying with conservative options")
	p.metrics.RecordTranscriptionRetry()

	opts.Conservative = true
	start = time.Now()
	tr, err = p.transcriber.Transcribe(ctx, audio, opts)
	p.metrics.RecordTranscription(p.transcriber.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func (p *Pipeline) buildConversation(tr *stt.Transcription) *models.Conversation {
	segments := tr.Segments
	if p.cfg.AttributeSpeakers {
		segments = attribution.Attribute(segments)
	}
	return &models.Conversation{
		ID:       uuid.NewString(),
		Segments: segments,
		Language: tr.Language,
		Duration: tr.Duration,
	}
}

func (p *Pipeline) processConversation(ctx context.Context, conv *models.Conversation) (*Result, error) {
	logger := logging.WithConversation(conv.ID)

	p.publishTranscript(ctx, conv)

	instruction, err := prompt.Build(conv)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completion, err := p.completer.Complete(ctx, p.cfg.Model, instruction, p.cfg.Sampling)
	p.metrics.RecordCompletion(p.completer.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return nil, &CollaboratorError{Stage: "completion", Err: err}
	}

	ext := extraction.Extract(completion)
	p.metrics.RecordExtraction(string(ext.Status))
	if ext.Status == extraction.StatusHard {
		return nil, &CollaboratorError{Stage: "completion", Err: errors.New(ext.Err)}
	}

	rec := record.Normalize(ext.Raw)
	if err := p.validator.Validate(rec); err != nil {
		// Normalization guarantees completeness; this is a bug, not input.
		logger.Error().Err(err).Msg("Normalized record failed completeness check")
		return nil, fmt.Errorf("record completeness: %w", err)
	}

	res := &Result{
		Conversation: conv,
		Record:       rec,
		Extraction:   ext,
		Model:        p.cfg.Model,
	}
	p.publishRecord(ctx, res)

	logger.Info().
		Str("status", string(ext.Status)).
		Int("segments", len(conv.Segments)).
		Msg("Consultation processed")
	return res, nil
}

// publishTranscript sends the transcript event. Best-effort: failures are
// logged and never fail the request.
func (p *Pipeline) publishTranscript(ctx context.Context, conv *models.Conversation) {
	event := models.TranscriptEvent{
		EventType:       "consultation.transcript",
		ConversationID:  conv.ID,
		Timestamp:       time.Now().UnixMilli(),
		Language:        conv.Language,
		DurationSeconds: conv.Duration,
		SegmentCount:    len(conv.Segments),
		Text:            conv.FullText(),
	}
	if err := p.publisher.PublishTranscript(ctx, conv.ID, event); err != nil {
		log.Warn().Err(err).Str("conversationId", conv.ID).Msg("Transcript event publish failed")
	}
}

// publishRecord sends the record event. Best-effort.
func (p *Pipeline) publishRecord(ctx context.Context, res *Result) {
	event := models.RecordEvent{
		EventType:        "consultation.record",
		ConversationID:   res.Conversation.ID,
		Timestamp:        time.Now().UnixMilli(),
		ExtractionStatus: string(res.Extraction.Status),
		Model:            res.Model,
		Record:           res.Record,
	}
	if err := p.publisher.PublishRecord(ctx, res.Conversation.ID, event); err != nil {
		log.Warn().Err(err).Str("conversationId", res.Conversation.ID).Msg("Record event publish failed")
	}
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, stt.ErrNoSpeech):
		return "no_speech"
	case errors.Is(err, prompt.ErrConversationTooShort):
		return "too_short"
	default:
		var ce *CollaboratorError
		if errors.As(err, &ce) {
			return ce.Stage
		}
		return "internal"
	}
}
