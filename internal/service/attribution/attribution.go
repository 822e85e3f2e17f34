// Package attribution assigns doctor/patient roles to transcript segments
// by lexical keyword scoring.
//
// This is a best-effort heuristic, not a classifier. Its output must never
// be treated as ground truth: everything downstream tolerates segments
// being fully mis-attributed. The tie-break is positional parity (even
// index doctor, odd index patient), which matches the usual turn-taking of
// a consultation but is otherwise arbitrary.
package attribution

import (
	"strings"

	"medical-conversation-processor/internal/models"
)

// doctorIndicators are phrases characteristic of the clinician's side of
// the conversation.
var doctorIndicators = []string{
	"how can i help", "what brings you", "symptoms", "diagnosis",
	"prescribe", "medication", "treatment", "examine", "clinical",
	"follow up", "recommend", "advise", "suggest", "take this",
	"doctor", "dr.", "physician", "let me check", "examination",
	"test results", "blood pressure", "heart rate", "temperature",
	"i recommend", "you should", "your condition", "medical history",
}

// patientIndicators are phrases characteristic of the patient's side.
var patientIndicators = []string{
	"i have", "i feel", "my", "pain", "hurt", "sick", "unwell",
	"problem", "issue", "concern", "appointment", "thank you",
	"patient", "suffering", "experience", "headache", "fever",
	"cough", "ache", "nausea", "dizzy", "my doctor",
	"i've been", "i'm feeling", "i need",
}

// Attribute returns a copy of the segments with a role assigned to every
// segment whose text is non-empty. Never fails; the worst case is every
// segment getting the parity default.
func Attribute(segments []models.TranscriptSegment) []models.TranscriptSegment {
	out := make([]models.TranscriptSegment, len(segments))
	copy(out, segments)
	for i := range out {
		if strings.TrimSpace(out[i].Text) == "" {
			continue
		}
		out[i].Role = Classify(out[i].Text, i)
	}
	return out
}

// Classify scores one segment's text against both indicator sets and
// returns the role with the higher score. An exact tie falls back to
// positional parity.
func Classify(text string, index int) models.Role {
	lower := strings.ToLower(text)

	var doctorScore, patientScore int
	for _, ind := range doctorIndicators {
		if strings.Contains(lower, ind) {
			doctorScore++
		}
	}
	for _, ind := range patientIndicators {
		if strings.Contains(lower, ind) {
			patientScore++
		}
	}

	switch {
	case doctorScore > patientScore:
		return models.RoleDoctor
	case patientScore > doctorScore:
		return models.RolePatient
	case index%2 == 0:
		return models.RoleDoctor
	default:
		return models.RolePatient
	}
}
