package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// APIFree generates images through the APIFree gateway's OpenAI-compatible
// images endpoint. The call is synchronous.
type APIFree struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func (p *APIFree) Name() string { return "apifree" }

func (p *APIFree) Generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(p.APIKey),
		option.WithBaseURL(p.BaseURL),
		option.WithHTTPClient(p.HTTPClient),
		option.WithMaxRetries(0),
	)
	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(p.Model),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", fmt.Errorf("apifree: HTTP %d", apierr.StatusCode)
		}
		return "", fmt.Errorf("apifree: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("apifree: no image url in response")
	}
	return resp.Data[0].URL, nil
}
