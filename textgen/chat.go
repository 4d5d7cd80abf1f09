package textgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a blog writer. You always answer with a single JSON object and nothing else."

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 64 << 10

// ChatProvider talks to an OpenAI-compatible chat-completions gateway
// (APIFree, OpenRouter).
type ChatProvider struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	headers    map[string]string
	httpClient *http.Client
}

func (p *ChatProvider) Name() string { return p.name }

// Model returns the model ID requests are sent with.
func (p *ChatProvider) Model() string { return p.model }

func (p *ChatProvider) Complete(ctx context.Context, prompt string) (string, error) {
	var failed capturedResponse
	opts := []option.RequestOption{
		option.WithAPIKey(p.apiKey),
		option.WithBaseURL(p.baseURL),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
		option.WithMiddleware(failed.middleware),
	}
	for k, v := range p.headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if failed.status != 0 {
			return "", &UpstreamHTTPError{Provider: p.name, StatusCode: failed.status, Body: failed.body}
		}
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", &UpstreamHTTPError{Provider: p.name, StatusCode: apierr.StatusCode, Body: apierr.Error()}
		}
		return "", fmt.Errorf("%s: %w", p.name, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w: no choices[0].message.content", p.name, ErrUpstreamShape)
	}
	return resp.Choices[0].Message.Content, nil
}

// capturedResponse records the status and body of a non-2xx response so the
// raw upstream body can be surfaced to operators.
type capturedResponse struct {
	status int
	body   string
}

func (c *capturedResponse) middleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if err != nil || resp == nil {
		return resp, err
	}
	c.capture(resp)
	return resp, nil
}

func (c *capturedResponse) capture(resp *http.Response) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	c.status = resp.StatusCode
	c.body = string(raw)
}
