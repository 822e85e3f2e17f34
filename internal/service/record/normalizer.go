// Package record maps an extracted raw record onto the canonical output
// schema. Normalization guarantees structural completeness only: every
// declared field resolves to extracted content or its placeholder default,
// and no semantic validation of medical content happens here.
package record

import (
	"strings"

	"medical-conversation-processor/internal/models"
)

// Normalize produces a complete MedicalRecord from a possibly partial raw
// parse. Any value that does not match the expected shape for its field is
// treated as missing. This function cannot fail.
func Normalize(raw map[string]any) models.MedicalRecord {
	return models.MedicalRecord{
		PatientInfo:         normalizePatient(asObject(raw["patient_info"])),
		ConversationSummary: asString(raw["conversation_summary"], models.NotSpecified),
		Prescription:        normalizePrescription(asObject(raw["prescription"])),
	}
}

func normalizePatient(m map[string]any) models.PatientInfo {
	return models.PatientInfo{
		Name:               asString(m["name"], models.NotMentioned),
		Age:                asString(m["age"], models.NotMentioned),
		Gender:             asString(m["gender"], models.NotMentioned),
		Contact:            asString(m["contact"], models.NotMentioned),
		MedicalHistory:     asStringList(m["medical_history"]),
		Allergies:          asStringList(m["allergies"]),
		CurrentMedications: asStringList(m["current_medications"]),
	}
}

func normalizePrescription(m map[string]any) models.Prescription {
	return models.Prescription{
		ChiefComplaint:  asString(m["chief_complaint"], models.NotSpecified),
		Symptoms:        normalizeSymptoms(m["symptoms"]),
		VitalSigns:      normalizeVitals(asObject(m["vital_signs"])),
		Diagnosis:       asString(m["diagnosis"], models.NotSpecified),
		Medications:     normalizeMedications(m["medications"]),
		LifestyleAdvice: asStringList(m["lifestyle_advice"]),
		Precautions:     asStringList(m["precautions"]),
		FollowUp:        asString(m["follow_up"], models.NotSpecified),
		AdditionalNotes: asString(m["additional_notes"], ""),
	}
}

func normalizeVitals(m map[string]any) models.VitalSigns {
	return models.VitalSigns{
		Temperature:     asString(m["temperature"], models.NotRecorded),
		BloodPressure:   asString(m["blood_pressure"], models.NotRecorded),
		HeartRate:       asString(m["heart_rate"], models.NotRecorded),
		RespiratoryRate: asString(m["respiratory_rate"], models.NotRecorded),
		Weight:          asString(m["weight"], models.NotRecorded),
	}
}

// normalizeSymptoms keeps entries that are objects with a non-empty
// symptom name; everything else is dropped, never invented.
func normalizeSymptoms(v any) []models.Symptom {
	out := []models.Symptom{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := asString(m["symptom"], "")
		if name == "" {
			continue
		}
		out = append(out, models.Symptom{
			Symptom:  name,
			Duration: asString(m["duration"], models.NotSpecified),
			Severity: asString(m["severity"], models.NotSpecified),
		})
	}
	return out
}

// normalizeMedications keeps entries that are objects with a non-empty
// medication name.
func normalizeMedications(v any) []models.Medication {
	out := []models.Medication{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := asString(m["name"], "")
		if name == "" {
			continue
		}
		out = append(out, models.Medication{
			Name:         name,
			Dosage:       asString(m["dosage"], models.NotSpecified),
			Frequency:    asString(m["frequency"], models.NotSpecified),
			Duration:     asString(m["duration"], models.NotSpecified),
			Instructions: asString(m["instructions"], models.NotSpecified),
		})
	}
	return out
}

// asString returns the trimmed string value, or def when the value is
// missing, not a string, or blank.
func asString(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// asStringList keeps the string elements of a list value. Wrong shapes
// yield an empty list, never a placeholder string.
func asStringList(v any) []string {
	out := []string{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		if s, ok := item.(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// asObject returns the map value or nil; reads from a nil map are safe and
// resolve every field to its default.
func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
