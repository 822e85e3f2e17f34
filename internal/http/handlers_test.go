package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"medical-conversation-processor/internal/config"
	llmmock "medical-conversation-processor/internal/service/llm/mock"
	"medical-conversation-processor/internal/service/pipeline"
	sttmock "medical-conversation-processor/internal/service/stt/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{HTTPPort: "0"},
		LLM:     config.LLMConfig{Model: "llama3"},
		Upload: config.UploadConfig{
			MaxBytes:          50 * 1024 * 1024,
			MinBytes:          1000,
			AllowedExtensions: []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"},
		},
	}
}

func newTestServer(cfg *config.Config, transcriber *sttmock.Adapter, completer *llmmock.Client) *Server {
	p := pipeline.New(transcriber, completer, nil, pipeline.Config{
		AttributeSpeakers: true,
		Model:             cfg.LLM.Model,
	})
	return New(cfg, p, completer, transcriber.Name())
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func validAudio() []byte {
	return bytes.Repeat([]byte{0x01}, 2000)
}

func TestConsultation_Success(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.New(), llmmock.New())

	body, ct := multipartBody(t, "file", "visit.mp3", validAudio())
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp processingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ConversationID == "" {
		t.Error("expected a conversation id")
	}
	if resp.Record.PatientInfo.Name != "Rahul Mehta" {
		t.Errorf("expected extracted name, got %q", resp.Record.PatientInfo.Name)
	}
	if resp.Extraction.Status != "success" {
		t.Errorf("expected success extraction, got %q", resp.Extraction.Status)
	}
	if resp.ProcessingInfo.STTProvider != "mock" || resp.ProcessingInfo.Model != "llama3" {
		t.Errorf("unexpected processing info: %+v", resp.ProcessingInfo)
	}
	if resp.ProcessingInfo.SegmentCount != len(sttmock.DefaultSegments) {
		t.Errorf("expected %d segments, got %d", len(sttmock.DefaultSegments), resp.ProcessingInfo.SegmentCount)
	}
}

func TestConsultation_BadExtension(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.New(), llmmock.New())

	body, ct := multipartBody(t, "file", "notes.txt", validAudio())
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestConsultation_TooSmall(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.New(), llmmock.New())

	body, ct := multipartBody(t, "file", "visit.mp3", []byte("tiny"))
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestConsultation_MissingFileField(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.New(), llmmock.New())

	body, ct := multipartBody(t, "audio", "visit.mp3", validAudio())
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestConsultation_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxBytes = 1024
	s := newTestServer(cfg, sttmock.New(), llmmock.New())

	body, ct := multipartBody(t, "file", "visit.mp3", validAudio())
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestConsultation_NoSpeech(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.NewWithSegments(nil), llmmock.New())

	body, ct := multipartBody(t, "file", "visit.mp3", validAudio())
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for silent audio, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "no speech detected in audio" {
		t.Errorf("expected no-speech message, got %q", resp.Error)
	}
}

func TestConsultation_CompletionBackendDown(t *testing.T) {
	completer := llmmock.New()
	completer.Err = errors.New("connection refused")
	s := newTestServer(testConfig(), sttmock.New(), completer)

	body, ct := multipartBody(t, "file", "visit.mp3", validAudio())
	req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestSampleConsultation(t *testing.T) {
	// Transcriber would fail; the sample route must not touch it.
	s := newTestServer(testConfig(), sttmock.NewWithSegments(nil), llmmock.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/consultations/sample", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp processingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Extraction.Status != "success" {
		t.Errorf("expected success extraction, got %q", resp.Extraction.Status)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.RateLimitPerMin = 2
	s := newTestServer(cfg, sttmock.New(), llmmock.New())

	var last int
	for i := 0; i < 3; i++ {
		body, ct := multipartBody(t, "file", "visit.mp3", validAudio())
		req := httptest.NewRequest(http.MethodPost, "/v1/consultations", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 on the third request, got %d", last)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.New(), llmmock.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.STTProvider != "mock" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestLivenessAndReadiness(t *testing.T) {
	s := newTestServer(testConfig(), sttmock.New(), llmmock.New())

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
