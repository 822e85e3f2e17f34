package mock

import (
	"context"
	"errors"
	"testing"

	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/service/stt"
)

func TestAdapter_Transcribe(t *testing.T) {
	adapter := New()

	tr, err := adapter.Transcribe(context.Background(), nil, stt.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Segments) != len(DefaultSegments) {
		t.Errorf("expected %d segments, got %d", len(DefaultSegments), len(tr.Segments))
	}
	if tr.FullText == "" {
		t.Error("expected non-empty full text")
	}
	if tr.Language != "en" {
		t.Errorf("expected language 'en', got %s", tr.Language)
	}
	if tr.Duration != DefaultSegments[len(DefaultSegments)-1].End {
		t.Errorf("expected duration %v, got %v", DefaultSegments[len(DefaultSegments)-1].End, tr.Duration)
	}
}

func TestAdapter_SegmentOrdering(t *testing.T) {
	adapter := New()

	tr, err := adapter.Transcribe(context.Background(), nil, stt.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var prevEnd float64
	for i, s := range tr.Segments {
		if s.Start < prevEnd {
			t.Errorf("segment %d starts at %v before previous end %v", i, s.Start, prevEnd)
		}
		if s.End < s.Start {
			t.Errorf("segment %d ends at %v before its start %v", i, s.End, s.Start)
		}
		prevEnd = s.End
	}
}

func TestAdapter_NoSpeech(t *testing.T) {
	adapter := NewWithSegments(nil)

	_, err := adapter.Transcribe(context.Background(), nil, stt.Options{})
	if !errors.Is(err, stt.ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestAdapter_ErrOnce(t *testing.T) {
	adapter := New()
	injected := errors.New("engine unavailable")
	adapter.Err = injected

	_, err := adapter.Transcribe(context.Background(), nil, stt.Options{})
	if !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}

	// Second call succeeds: the error is one-shot.
	tr, err := adapter.Transcribe(context.Background(), nil, stt.Options{})
	if err != nil {
		t.Fatalf("expected success after injected error, got %v", err)
	}
	if len(tr.Segments) == 0 {
		t.Error("expected segments after injected error cleared")
	}
}

func TestAdapter_ContextCancelled(t *testing.T) {
	adapter := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Transcribe(ctx, nil, stt.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAdapter_CopiesSegments(t *testing.T) {
	adapter := NewWithSegments([]models.TranscriptSegment{
		{Text: "hello there doctor", Start: 0, End: 1},
	})

	tr, _ := adapter.Transcribe(context.Background(), nil, stt.Options{})
	tr.Segments[0].Text = "mutated"

	tr2, _ := adapter.Transcribe(context.Background(), nil, stt.Options{})
	if tr2.Segments[0].Text != "hello there doctor" {
		t.Error("adapter output must not share backing storage between calls")
	}
}
