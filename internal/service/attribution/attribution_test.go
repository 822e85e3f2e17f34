package attribution

import (
	"testing"

	"medical-conversation-processor/internal/models"
)

func TestClassify_DoctorIndicators(t *testing.T) {
	role := Classify("I'm going to prescribe an antibiotic and recommend rest", 1)
	if role != models.RoleDoctor {
		t.Errorf("expected doctor, got %s", role)
	}
}

func TestClassify_PatientIndicators(t *testing.T) {
	role := Classify("I have a terrible headache and fever", 0)
	if role != models.RolePatient {
		t.Errorf("expected patient, got %s", role)
	}
}

func TestClassify_TieParity(t *testing.T) {
	// "Okay." matches neither indicator set, forcing the parity fallback.
	tests := []struct {
		index    int
		expected models.Role
	}{
		{0, models.RoleDoctor},
		{1, models.RolePatient},
		{2, models.RoleDoctor},
		{3, models.RolePatient},
	}
	for _, tt := range tests {
		if got := Classify("Okay.", tt.index); got != tt.expected {
			t.Errorf("Classify tie at index %d = %s, want %s", tt.index, got, tt.expected)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("I WILL PRESCRIBE SOMETHING FOR THE TREATMENT", 1); got != models.RoleDoctor {
		t.Errorf("expected doctor for upper-case text, got %s", got)
	}
}

func TestAttribute_AssignsEveryNonEmptySegment(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Text: "What brings you in today?", Start: 0, End: 2},
		{Text: "I have fever and body pain", Start: 2, End: 5},
		{Text: "   ", Start: 5, End: 5.5},
		{Text: "Okay.", Start: 5.5, End: 6},
	}

	out := Attribute(segments)

	if out[0].Role != models.RoleDoctor {
		t.Errorf("segment 0: expected doctor, got %s", out[0].Role)
	}
	if out[1].Role != models.RolePatient {
		t.Errorf("segment 1: expected patient, got %s", out[1].Role)
	}
	if out[2].Role != "" {
		t.Errorf("blank segment must stay unattributed, got %s", out[2].Role)
	}
	// Tie at odd index 3 → patient.
	if out[3].Role != models.RolePatient {
		t.Errorf("segment 3: expected patient by parity, got %s", out[3].Role)
	}
}

func TestAttribute_DoesNotMutateInput(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Text: "What brings you in today?"},
	}
	Attribute(segments)
	if segments[0].Role != "" {
		t.Error("Attribute must not mutate its input slice")
	}
}

func TestAttribute_NeverFails(t *testing.T) {
	// Degenerate inputs: nil, empty, all-blank.
	if out := Attribute(nil); len(out) != 0 {
		t.Errorf("expected empty output for nil input, got %d", len(out))
	}
	out := Attribute([]models.TranscriptSegment{{Text: ""}, {Text: " "}})
	for i, s := range out {
		if s.Role != "" {
			t.Errorf("segment %d: blank text must stay unattributed", i)
		}
	}
}
