// Package gtranslate synthesizes speech through the Google Translate TTS
// endpoint. It needs no API key, which keeps the demo generator
// dependency-free; output is MP3.
package gtranslate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medical-conversation-processor/internal/service/tts"
)

// maxChunkChars bounds the text sent per request; the endpoint truncates
// longer input silently.
const maxChunkChars = 200

// userAgent mimics a browser; the endpoint rejects default Go clients.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// Client implements tts.Synthesizer against the translate_tts endpoint.
type Client struct {
	httpClient *http.Client

	// baseURL overrides the accent-derived endpoint. Tests only.
	baseURL string
}

var _ tts.Synthesizer = (*Client)(nil)

// New creates a Google Translate TTS client.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithBaseURL creates a client bound to a fixed endpoint.
func NewWithBaseURL(baseURL string) *Client {
	c := New()
	c.baseURL = baseURL
	return c
}

// Synthesize converts text to MP3. Long text is split into chunks at
// sentence boundaries and the resulting MP3 streams are concatenated,
// which is valid for MPEG audio.
func (c *Client) Synthesize(ctx context.Context, text string, voice tts.VoiceProfile) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("no text to synthesize")
	}

	lang := voice.Language
	if lang == "" {
		lang = "en"
	}

	chunks := splitChunks(text, maxChunkChars)
	var audio []byte
	for i, chunk := range chunks {
		b, err := c.fetchChunk(ctx, chunk, lang, voice.Accent, i, len(chunks))
		if err != nil {
			return nil, err
		}
		audio = append(audio, b...)
	}
	return audio, nil
}

func (c *Client) fetchChunk(ctx context.Context, text, lang, accent string, idx, total int) ([]byte, error) {
	endpoint := c.baseURL
	if endpoint == "" {
		tld := accent
		if tld == "" {
			tld = "com"
		}
		endpoint = fmt.Sprintf("https://translate.google.%s/translate_tts", tld)
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(len(text)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("tts http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

// splitChunks breaks text into chunks of at most n characters, preferring
// sentence boundaries, then word boundaries.
func splitChunks(text string, n int) []string {
	if len(text) <= n {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for len(remaining) > n {
		cut := lastBoundary(remaining[:n])
		if cut <= 0 {
			cut = n
		}
		chunks = append(chunks, strings.TrimSpace(remaining[:cut]))
		remaining = strings.TrimSpace(remaining[cut:])
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}

// lastBoundary finds the rightmost sentence end, falling back to the
// rightmost space.
func lastBoundary(s string) int {
	for _, sep := range []string{". ", "? ", "! "} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			return i + 1
		}
	}
	return strings.LastIndexByte(s, ' ')
}
