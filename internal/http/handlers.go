package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/observability/metrics"
	"medical-conversation-processor/internal/service/llm"
	"medical-conversation-processor/internal/service/pipeline"
	"medical-conversation-processor/internal/service/prompt"
	"medical-conversation-processor/internal/service/stt"
	sttmock "medical-conversation-processor/internal/service/stt/mock"
)

// processingResponse is the API representation of one processed
// consultation.
type processingResponse struct {
	ConversationID   string               `json:"conversation_id"`
	Timestamp        string               `json:"timestamp"`
	Record           models.MedicalRecord `json:"record"`
	FullConversation string               `json:"full_conversation"`
	Extraction       extractionInfo       `json:"extraction"`
	ProcessingInfo   processingInfo       `json:"processing_info"`
}

type extractionInfo struct {
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

type processingInfo struct {
	STTProvider     string  `json:"stt_provider"`
	Model           string  `json:"model"`
	PromptVersion   string  `json:"prompt_version"`
	DurationSeconds float64 `json:"duration_seconds"`
	SegmentCount    int     `json:"segment_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleConsultation accepts a multipart audio upload and runs it through
// the full pipeline.
func (s *Server) handleConsultation(w http.ResponseWriter, r *http.Request) {
	audio, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.pipeline.Process(r.Context(), audio)
	if err != nil {
		s.writeProcessingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildResponse(res))
}

// handleSampleConsultation processes the built-in demo consultation,
// skipping transcription. Useful for verifying the extraction stack
// without audio in hand.
func (s *Server) handleSampleConsultation(w http.ResponseWriter, r *http.Request) {
	segments := make([]models.TranscriptSegment, len(sttmock.DefaultSegments))
	copy(segments, sttmock.DefaultSegments)

	tr := &stt.Transcription{
		Segments: segments,
		Duration: segments[len(segments)-1].End,
		Language: "en",
	}
	res, err := s.pipeline.ProcessTranscription(r.Context(), tr)
	if err != nil {
		s.writeProcessingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildResponse(res))
}

// readUpload validates and reads the multipart audio file. On failure it
// writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	m := metrics.DefaultMetrics

	if r.ContentLength > s.upload.MaxBytes {
		m.RecordUploadRejected("too_large")
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "audio file exceeds the upload size limit"})
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.upload.MaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			m.RecordUploadRejected("too_large")
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "audio file exceeds the upload size limit"})
			return nil, false
		}
		m.RecordUploadRejected("missing_file")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multipart field 'file' is required"})
		return nil, false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.extensionAllowed(ext) {
		m.RecordUploadRejected("bad_extension")
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "unsupported audio format, allowed: " + strings.Join(s.upload.AllowedExtensions, ", "),
		})
		return nil, false
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			m.RecordUploadRejected("too_large")
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "audio file exceeds the upload size limit"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read upload"})
		return nil, false
	}
	if int64(len(audio)) < s.upload.MinBytes {
		m.RecordUploadRejected("too_small")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "audio file too small to contain a conversation"})
		return nil, false
	}

	m.RecordUpload(len(audio))
	return audio, true
}

func (s *Server) extensionAllowed(ext string) bool {
	for _, allowed := range s.upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// writeProcessingError maps pipeline errors onto HTTP statuses. Input
// problems are 400s; collaborator failures are 502s.
func (s *Server) writeProcessingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stt.ErrNoSpeech):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no speech detected in audio"})
	case errors.Is(err, prompt.ErrConversationTooShort):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "conversation text too short or empty"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusRequestTimeout, errorResponse{Error: "request cancelled"})
	default:
		var ce *pipeline.CollaboratorError
		if errors.As(err, &ce) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: ce.Error()})
			return
		}
		log.Error().Err(err).Msg("Processing failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal processing error"})
	}
}

func (s *Server) buildResponse(res *pipeline.Result) processingResponse {
	conversation := res.Conversation.FullText()
	if res.Conversation.Attributed() {
		conversation = res.Conversation.AttributedText()
	}
	return processingResponse{
		ConversationID:   res.Conversation.ID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Record:           res.Record,
		FullConversation: conversation,
		Extraction: extractionInfo{
			Status:      string(res.Extraction.Status),
			Error:       res.Extraction.Err,
			RawResponse: res.Extraction.RawResponse,
		},
		ProcessingInfo: processingInfo{
			STTProvider:     s.sttName,
			Model:           res.Model,
			PromptVersion:   prompt.Version,
			DurationSeconds: res.Conversation.Duration,
			SegmentCount:    len(res.Conversation.Segments),
		},
	}
}

// healthResponse reports service and backend status.
type healthResponse struct {
	Status          string   `json:"status"`
	STTProvider     string   `json:"stt_provider"`
	Model           string   `json:"model"`
	AvailableModels []string `json:"available_models,omitempty"`
}

// handleHealth reports backend reachability. When the completion backend
// can enumerate models, the list is included and its failure degrades the
// reported status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		STTProvider: s.sttName,
		Model:       s.model,
	}

	if lister, ok := s.completer.(llm.ModelLister); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		names, err := lister.ListModels(ctx)
		if err != nil {
			resp.Status = "degraded"
		} else {
			resp.AvailableModels = names
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
