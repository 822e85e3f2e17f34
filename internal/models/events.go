package models

// TranscriptEvent is published once per request after transcription
// succeeds, before the completion step runs.
type TranscriptEvent struct {
	EventType       string  `json:"eventType"`
	ConversationID  string  `json:"conversationId"`
	Timestamp       int64   `json:"timestamp"`
	Language        string  `json:"language"`
	DurationSeconds float64 `json:"durationSeconds"`
	SegmentCount    int     `json:"segmentCount"`
	Text            string  `json:"text"`
}

// RecordEvent is published once per request with the normalized record.
// ExtractionStatus distinguishes clean extractions from placeholder-filled
// partial failures so downstream consumers can filter on quality.
type RecordEvent struct {
	EventType        string        `json:"eventType"`
	ConversationID   string        `json:"conversationId"`
	Timestamp        int64         `json:"timestamp"`
	ExtractionStatus string        `json:"extractionStatus"`
	Model            string        `json:"model"`
	Record           MedicalRecord `json:"record"`
}
