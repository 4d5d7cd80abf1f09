package textgen

import (
	"errors"
	"fmt"
)

// ErrNoProvider is returned when no text-generation credential is
// configured.
var ErrNoProvider = errors.New("no text generation provider configured: add an APIFree or OpenRouter API key in the admin settings or the environment")

// ErrNoGeminiKey is returned by the Gemini variant when no Gemini key is
// configured.
var ErrNoGeminiKey = errors.New("no Gemini API key configured: add gemini_api_key in the admin settings or set GEMINI_API_KEY")

// ErrUpstreamShape is returned when a provider answers successfully but the
// expected response fields are missing.
var ErrUpstreamShape = errors.New("unexpected upstream response shape")

// UpstreamHTTPError reports a non-successful HTTP status from a provider.
type UpstreamHTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

// sampleLength is how much raw model output is kept for diagnosis.
const sampleLength = 500

// MalformedResponseError reports model output from which no JSON object
// could be recovered.
type MalformedResponseError struct {
	Sample string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %v (sample: %q)", e.Err, e.Sample)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func sample(raw string) string {
	r := []rune(raw)
	if len(r) > sampleLength {
		r = r[:sampleLength]
	}
	return string(r)
}
