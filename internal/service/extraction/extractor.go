// Package extraction recovers a structured record from a model's free-text
// completion. Models routinely wrap valid JSON in prose or markdown
// fencing, so parsing proceeds through ordered fallbacks; a completion that
// cannot be parsed at all is an expected case, not an exceptional one, and
// resolves to a placeholder record rather than an error.
package extraction

import (
	"encoding/json"
	"errors"
	"strings"

	"medical-conversation-processor/internal/models"
)

// Status tags an extraction outcome.
type Status string

const (
	// StatusSuccess - the completion parsed into a record.
	StatusSuccess Status = "success"
	// StatusPartial - the completion was unparseable; Raw holds the
	// placeholder fallback record and RawResponse the diagnostic preview.
	StatusPartial Status = "partial_failure"
	// StatusHard - the completion carried no content at all. The caller
	// should treat this as a collaborator failure.
	StatusHard Status = "hard_failure"
)

// maxRawPreview bounds the raw completion text carried for diagnostics.
const maxRawPreview = 1000

// Result is the outcome of one extraction attempt.
type Result struct {
	Status Status

	// Raw is the parsed record on success, or the fallback record on
	// partial failure. Nil only on hard failure.
	Raw map[string]any

	// RawResponse holds up to maxRawPreview characters of the original
	// completion. Set on partial failure only.
	RawResponse string

	// Err is a human-readable failure marker. Empty on success.
	Err string
}

// Extract parses a completion through ordered attempts, stopping at the
// first success:
//
//  1. strip a leading/trailing fenced code block, if present
//  2. parse the substring from the first '{' through the last '}'
//  3. parse the entire cleaned text
//
// When all attempts fail the result is a PartialFailure carrying a
// placeholder record, never a Go error.
func Extract(completion string) Result {
	if strings.TrimSpace(completion) == "" {
		return Result{Status: StatusHard, Err: "completion is empty"}
	}

	cleaned := stripFence(completion)

	if sub, ok := outermostBraces(cleaned); ok {
		if raw, err := parseObject(sub); err == nil {
			return Result{Status: StatusSuccess, Raw: raw}
		}
	}

	if raw, err := parseObject(cleaned); err == nil {
		return Result{Status: StatusSuccess, Raw: raw}
	}

	return Result{
		Status:      StatusPartial,
		Raw:         FallbackRecord(),
		RawResponse: truncate(completion, maxRawPreview),
		Err:         "completion did not contain parseable JSON",
	}
}

// FallbackRecord is the minimal raw record used when nothing could be
// extracted. Normalization fills every remaining field with its ordinary
// placeholder.
func FallbackRecord() map[string]any {
	return map[string]any{
		"patient_info": map[string]any{
			"name": models.NotMentioned,
		},
		"conversation_summary": models.UnparsedSummary,
		"prescription": map[string]any{
			"chief_complaint": models.UnableToExtract,
			"diagnosis":       models.UnableToExtract,
			"medications":     []any{},
		},
	}
}

// stripFence removes a leading/trailing triple-backtick fence, with or
// without a language tag. Text that is not fenced passes through trimmed.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		// Drop the opening line (possible language tag).
		t = t[i+1:]
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// outermostBraces returns the substring from the first '{' through the
// last '}', the greedy outermost match.
func outermostBraces(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func parseObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		// "null" decodes without error but carries no record.
		return nil, errors.New("not a JSON object")
	}
	return m, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
