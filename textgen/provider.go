package textgen

import (
	"context"
	"net/http"

	"github.com/eringen/draftsmith/credentials"
)

// Provider is a text-generation backend. Complete sends a single prompt and
// returns the model's raw text reply, unwrapped from the provider envelope.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Default provider endpoints.
const (
	DefaultAPIFreeBaseURL    = "https://api.apifree.ai/v1"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Endpoints configures where providers are reached and how they identify
// the calling site.
type Endpoints struct {
	APIFreeBaseURL    string
	OpenRouterBaseURL string
	GeminiBaseURL     string // empty uses the SDK default

	HTTPClient *http.Client

	// Sent to OpenRouter as HTTP-Referer and X-Title.
	SiteURL  string
	SiteName string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.APIFreeBaseURL == "" {
		e.APIFreeBaseURL = DefaultAPIFreeBaseURL
	}
	if e.OpenRouterBaseURL == "" {
		e.OpenRouterBaseURL = DefaultOpenRouterBaseURL
	}
	if e.HTTPClient == nil {
		e.HTTPClient = http.DefaultClient
	}
	return e
}

// FromCredentials returns the preferred chat provider for creds: APIFree,
// then OpenRouter. ErrNoProvider is returned when neither key is set.
func FromCredentials(creds credentials.Credentials, ep Endpoints) (Provider, error) {
	ep = ep.withDefaults()
	switch creds.TextProvider() {
	case credentials.TextAPIFree:
		return &ChatProvider{
			name:       string(credentials.TextAPIFree),
			baseURL:    ep.APIFreeBaseURL,
			apiKey:     creds.Value(credentials.KeyAPIFreeAPIKey),
			model:      creds.Value(credentials.KeyAPIFreeTextModel),
			httpClient: ep.HTTPClient,
		}, nil
	case credentials.TextOpenRouter:
		headers := map[string]string{}
		if ep.SiteURL != "" {
			headers["HTTP-Referer"] = ep.SiteURL
		}
		if ep.SiteName != "" {
			headers["X-Title"] = ep.SiteName
		}
		return &ChatProvider{
			name:       string(credentials.TextOpenRouter),
			baseURL:    ep.OpenRouterBaseURL,
			apiKey:     creds.Value(credentials.KeyOpenRouterAPIKey),
			model:      creds.Value(credentials.KeyOpenRouterModel),
			headers:    headers,
			httpClient: ep.HTTPClient,
		}, nil
	default:
		return nil, ErrNoProvider
	}
}

// GeminiFromCredentials returns a direct Gemini provider, or ErrNoGeminiKey.
func GeminiFromCredentials(creds credentials.Credentials, ep Endpoints) (Provider, error) {
	key, ok := creds.Get(credentials.KeyGeminiAPIKey)
	if !ok {
		return nil, ErrNoGeminiKey
	}
	ep = ep.withDefaults()
	return &GeminiProvider{
		apiKey:     key,
		model:      creds.Value(credentials.KeyGeminiModel),
		baseURL:    ep.GeminiBaseURL,
		httpClient: ep.HTTPClient,
	}, nil
}
