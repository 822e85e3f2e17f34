package schema

import (
	"testing"

	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/service/record"
)

func TestValidate_NormalizedRecordPasses(t *testing.T) {
	v := New()

	inputs := []map[string]any{
		nil,
		{},
		{"patient_info": map[string]any{"name": "Rahul Mehta"}},
		{"prescription": map[string]any{
			"medications": []any{map[string]any{"name": "Paracetamol"}},
		}},
	}
	for _, in := range inputs {
		rec := record.Normalize(in)
		if err := v.Validate(rec); err != nil {
			t.Errorf("normalized record failed validation: %v", err)
		}
	}
}

func TestValidate_ZeroValueRecordFails(t *testing.T) {
	v := New()

	// A zero-value record has nil lists, which serialize to null.
	var rec models.MedicalRecord
	if err := v.Validate(rec); err == nil {
		t.Error("expected zero-value record to fail validation")
	}
}

func TestValidate_NilMedicationListFails(t *testing.T) {
	v := New()

	rec := record.Normalize(nil)
	rec.Prescription.Medications = nil
	if err := v.Validate(rec); err == nil {
		t.Error("expected nil medications list to fail validation")
	}
}
