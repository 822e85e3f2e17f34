package models

// Placeholder defaults substituted for any schema field the completion
// omits. The output contract is placeholder strings, never null: a consumer
// can rely on every declared field being present and non-null.
const (
	NotMentioned    = "Not mentioned"
	NotSpecified    = "Not specified"
	NotRecorded     = "Not recorded"
	UnableToExtract = "Unable to extract"

	// UnparsedSummary marks the conversation summary when the completion
	// could not be parsed at all.
	UnparsedSummary = "Unable to parse conversation"
)

// PatientInfo holds patient identity and history as stated in the
// conversation. String fields default to "Not mentioned".
type PatientInfo struct {
	Name               string   `json:"name"`
	Age                string   `json:"age"`
	Gender             string   `json:"gender"`
	Contact            string   `json:"contact"`
	MedicalHistory     []string `json:"medical_history"`
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"current_medications"`
}

// VitalSigns holds measurements mentioned during the consultation.
// Fields default to "Not recorded".
type VitalSigns struct {
	Temperature     string `json:"temperature"`
	BloodPressure   string `json:"blood_pressure"`
	HeartRate       string `json:"heart_rate"`
	RespiratoryRate string `json:"respiratory_rate"`
	Weight          string `json:"weight"`
}

// Symptom is one patient-reported symptom with its characteristics.
type Symptom struct {
	Symptom  string `json:"symptom"`
	Duration string `json:"duration"`
	Severity string `json:"severity"`
}

// Medication is one prescribed medication with dosing details.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// Prescription is the clinical half of the record.
type Prescription struct {
	ChiefComplaint  string       `json:"chief_complaint"`
	Symptoms        []Symptom    `json:"symptoms"`
	VitalSigns      VitalSigns   `json:"vital_signs"`
	Diagnosis       string       `json:"diagnosis"`
	Medications     []Medication `json:"medications"`
	LifestyleAdvice []string     `json:"lifestyle_advice"`
	Precautions     []string     `json:"precautions"`
	FollowUp        string       `json:"follow_up"`
	AdditionalNotes string       `json:"additional_notes"`
}

// MedicalRecord is the canonical pipeline output. After normalization every
// field resolves to either extracted content or its placeholder; lists are
// empty, not placeholder strings.
type MedicalRecord struct {
	PatientInfo         PatientInfo  `json:"patient_info"`
	ConversationSummary string       `json:"conversation_summary"`
	Prescription        Prescription `json:"prescription"`
}
