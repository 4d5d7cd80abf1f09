package textgen

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	fencedBlock   = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON recovers a JSON object from free-form model output. It takes,
// in order: the body of the first fenced code block; otherwise the text from
// the first '{' to the last '}'. Trailing commas before '}' or ']' are then
// removed. The result is not validated.
func ExtractJSON(raw string) string {
	candidate := raw
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		candidate = raw[start : end+1]
	}
	return trailingComma.ReplaceAllString(strings.TrimSpace(candidate), "$1")
}

// DecodeJSON extracts a JSON object from raw and unmarshals it into v.
// Failures are reported as *MalformedResponseError.
func DecodeJSON(raw string, v any) error {
	candidate := ExtractJSON(raw)
	if candidate == "" {
		return &MalformedResponseError{Sample: sample(raw), Err: errors.New("no JSON object found")}
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return &MalformedResponseError{Sample: sample(raw), Err: err}
	}
	return nil
}
