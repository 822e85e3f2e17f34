package gtranslate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medical-conversation-processor/internal/service/tts"
)

func TestSynthesize(t *testing.T) {
	var gotQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQueries = append(gotQueries, r.URL.Query().Get("q"))
		if r.URL.Query().Get("tl") != "en" {
			t.Errorf("expected tl=en, got %q", r.URL.Query().Get("tl"))
		}
		w.Write([]byte("MP3" + r.URL.Query().Get("idx")))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	audio, err := c.Synthesize(context.Background(), "Good morning, Doctor.", tts.VoiceProfile{Language: "en", Accent: "com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "MP30" {
		t.Errorf("unexpected audio bytes: %q", audio)
	}
	if len(gotQueries) != 1 || gotQueries[0] != "Good morning, Doctor." {
		t.Errorf("unexpected queries: %v", gotQueries)
	}
}

func TestSynthesize_LongTextIsChunkedAndConcatenated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[" + r.URL.Query().Get("q") + "]"))
	}))
	defer srv.Close()

	long := strings.Repeat("The patient reports fever and sore throat. ", 10)
	c := NewWithBaseURL(srv.URL)
	audio, err := c.Synthesize(context.Background(), long, tts.VoiceProfile{Language: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(string(audio), "[") < 2 {
		t.Error("expected long text to be fetched in multiple chunks")
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	c := New()
	if _, err := c.Synthesize(context.Background(), "   ", tts.VoiceProfile{}); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestSynthesize_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	if _, err := c.Synthesize(context.Background(), "hello there doctor", tts.VoiceProfile{}); err == nil {
		t.Error("expected error on HTTP failure")
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want int
	}{
		{"short", "hello", 200, 1},
		{"exact", strings.Repeat("a", 200), 200, 1},
		{"two sentences", "First sentence here. Second sentence follows after.", 30, 2},
		{"no boundary", strings.Repeat("a", 450), 200, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitChunks(tt.in, tt.n)
			if len(got) != tt.want {
				t.Errorf("expected %d chunks, got %d: %q", tt.want, len(got), got)
			}
			for _, c := range got {
				if len(c) > tt.n {
					t.Errorf("chunk exceeds limit: %d > %d", len(c), tt.n)
				}
			}
		})
	}
}
