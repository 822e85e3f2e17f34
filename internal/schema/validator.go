// Package schema guards the structural completeness of extracted records
// before they leave the pipeline.
package schema

import (
	"encoding/json"
	"fmt"

	"medical-conversation-processor/internal/models"
)

// Validator checks that a normalized record satisfies the output contract:
// no null fields, no missing declared keys, non-nil lists.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// requiredKeys lists every object in the serialized record with the keys
// it must carry.
var requiredKeys = map[string][]string{
	"": {"patient_info", "conversation_summary", "prescription"},
	"patient_info": {
		"name", "age", "gender", "contact",
		"medical_history", "allergies", "current_medications",
	},
	"prescription": {
		"chief_complaint", "symptoms", "vital_signs", "diagnosis",
		"medications", "lifestyle_advice", "precautions", "follow_up",
		"additional_notes",
	},
	"prescription.vital_signs": {
		"temperature", "blood_pressure", "heart_rate",
		"respiratory_rate", "weight",
	},
}

// Validate returns an error if the record violates the completeness
// contract. A record that passed through normalization always validates;
// a failure here indicates a programming error upstream.
func (v *Validator) Validate(rec models.MedicalRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return walk("", m)
}

func walk(path string, v any) error {
	switch x := v.(type) {
	case nil:
		return fmt.Errorf("field %q is null", path)
	case map[string]any:
		for _, key := range requiredKeys[path] {
			if _, ok := x[key]; !ok {
				return fmt.Errorf("object %q missing key %q", path, key)
			}
		}
		for k, vv := range x {
			if err := walk(join(path, k), vv); err != nil {
				return err
			}
		}
	case []any:
		for i, vv := range x {
			if err := walk(fmt.Sprintf("%s[%d]", path, i), vv); err != nil {
				return err
			}
		}
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
