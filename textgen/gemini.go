package textgen

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API directly. Its replies arrive in the
// candidates envelope rather than the chat-completions one.
type GeminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Model returns the model ID requests are sent with.
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	failed := &capturingTransport{}
	base := p.httpClient
	if base == nil {
		base = http.DefaultClient
	}
	failed.next = base.Transport
	if failed.next == nil {
		failed.next = http.DefaultTransport
	}

	cfg := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: failed, Timeout: base.Timeout},
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if failed.resp.status != 0 {
			return "", &UpstreamHTTPError{Provider: p.Name(), StatusCode: failed.resp.status, Body: failed.resp.body}
		}
		return "", fmt.Errorf("gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: %w: no candidates[0].content.parts", ErrUpstreamShape)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: %w: empty candidate text", ErrUpstreamShape)
	}
	return text, nil
}

type capturingTransport struct {
	next http.RoundTripper
	resp capturedResponse
}

func (t *capturingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.resp.capture(resp)
	return resp, nil
}
