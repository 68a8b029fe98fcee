package llm

import (
	"encoding/json"
	"strings"
)

// DecodeJSON decodes a model reply into v. The trimmed reply is parsed as-is
// first; only when that fails is a surrounding markdown code fence
// (```json or ```) removed and the parse retried. Failures are *ParseError.
func DecodeJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	stripped := StripFences(text)
	if stripped == text {
		return &ParseError{Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(stripped), v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}

// StripFences removes a leading ```json or ``` fence and a trailing ``` fence
// from s and trims the remaining whitespace.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
