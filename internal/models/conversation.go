// Package models defines the data structures shared across the pipeline:
// the transcribed conversation on the way in and the structured medical
// record on the way out.
package models

import "strings"

// Role labels who is speaking in a transcript segment.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleUnknown Role = "unknown"
)

// TranscriptSegment is one timestamped span of transcribed speech.
// Role is empty until speaker attribution runs (and stays empty when
// attribution is disabled). Segments are immutable once created.
type TranscriptSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Role  Role    `json:"role,omitempty"`
}

// Conversation is the ordered transcript of one consultation.
// Insertion order is chronological order.
type Conversation struct {
	ID       string              `json:"conversationId"`
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language"`
	Duration float64             `json:"durationSeconds"`
}

// FullText joins all segment texts with single spaces, order-preserving.
func (c *Conversation) FullText() string {
	parts := make([]string, 0, len(c.Segments))
	for _, s := range c.Segments {
		t := strings.TrimSpace(s.Text)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// AttributedText renders the conversation as "Role: text" lines for the
// prompt. Segments without a role fall back to the unknown label.
func (c *Conversation) AttributedText() string {
	lines := make([]string, 0, len(c.Segments))
	for _, s := range c.Segments {
		t := strings.TrimSpace(s.Text)
		if t == "" {
			continue
		}
		role := s.Role
		if role == "" {
			role = RoleUnknown
		}
		lines = append(lines, string(role)+": "+t)
	}
	return strings.Join(lines, "\n")
}

// Attributed reports whether every non-empty segment carries a role.
func (c *Conversation) Attributed() bool {
	for _, s := range c.Segments {
		if strings.TrimSpace(s.Text) != "" && s.Role == "" {
			return false
		}
	}
	return len(c.Segments) > 0
}
