// Package prompt renders the extraction instruction sent to the completion
// backend. The instruction template is a versioned, fixed artifact; changing
// it changes the extraction contract, so bump Version when editing.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"medical-conversation-processor/internal/models"
)

// Version identifies the instruction template generation.
const Version = "v3"

// MinConversationChars is the minimum full-text length worth sending to the
// model. Shorter input wastes a completion request and reliably yields
// garbage, so the builder refuses it up front.
const MinConversationChars = 20

// ErrConversationTooShort is returned when the conversation text is below
// MinConversationChars. It is an input-validation failure: no completion
// request has been made.
var ErrConversationTooShort = errors.New("conversation text too short or empty")

// template embeds the role statement, the conversation, the closed output
// schema with its placeholder literals, and the extraction rules.
const template = `You are an expert medical AI assistant. Analyze this doctor-patient conversation and extract ALL relevant information.

CONVERSATION TRANSCRIPT:
%s

YOUR TASK:
Automatically identify and extract:
1. Patient information (name, age, gender, medical history, allergies)
2. Chief complaint and symptoms
3. Vital signs (if mentioned)
4. Doctor's diagnosis
5. Prescribed medications with complete details
6. Lifestyle advice and precautions
7. Follow-up instructions

OUTPUT FORMAT (JSON ONLY):
{
    "patient_info": {
        "name": "patient name if mentioned, else 'Not mentioned'",
        "age": "age if mentioned, else 'Not mentioned'",
        "gender": "gender if mentioned, else 'Not mentioned'",
        "contact": "phone/email if mentioned",
        "medical_history": ["previous conditions mentioned"],
        "allergies": ["allergies mentioned"],
        "current_medications": ["medications patient is already taking"]
    },
    "conversation_summary": "Brief 2-3 sentence summary of the consultation",
    "prescription": {
        "chief_complaint": "main reason for visit",
        "symptoms": [
            {
                "symptom": "symptom name",
                "duration": "how long",
                "severity": "mild/moderate/severe"
            }
        ],
        "vital_signs": {
            "temperature": "temp if measured",
            "blood_pressure": "BP if measured",
            "heart_rate": "HR if measured",
            "respiratory_rate": "RR if measured",
            "weight": "weight if measured"
        },
        "diagnosis": "doctor's diagnosis",
        "medications": [
            {
                "name": "medication name",
                "dosage": "dosage amount (e.g., 500mg)",
                "frequency": "how often (e.g., twice daily)",
                "duration": "treatment length (e.g., 7 days)",
                "instructions": "special instructions (e.g., take with food)"
            }
        ],
        "lifestyle_advice": ["lifestyle recommendations"],
        "precautions": ["warnings and things to watch for"],
        "follow_up": "when to return or follow up",
        "additional_notes": "any other important information"
    }
}

CRITICAL RULES:
1. Extract ONLY information explicitly stated in the conversation
2. Use "Not mentioned" or "Not specified" for missing information
3. Do NOT invent or assume information
4. Return ONLY valid JSON with no additional text
5. Be thorough - extract ALL details mentioned in the conversation
6. Pay attention to exact dosages, frequencies, and durations

Return the JSON now:`

// Build renders the completion request for a conversation. When every
// segment carries a role the conversation is rendered as "role: text"
// lines; otherwise the plain joined text is used.
//
// Returns ErrConversationTooShort without rendering when the full text is
// below MinConversationChars. No retries happen at this layer.
func Build(conv *models.Conversation) (string, error) {
	full := conv.FullText()
	if len(strings.TrimSpace(full)) < MinConversationChars {
		return "", ErrConversationTooShort
	}

	text := full
	if conv.Attributed() {
		text = conv.AttributedText()
	}
	return fmt.Sprintf(template, text), nil
}
