// Package imagegen resolves an illustration URL for every article item by
// trying image providers in a fixed order. The last provider synthesizes a
// URL without any network call, so resolution always yields an image.
package imagegen

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/eringen/draftsmith/credentials"
)

// QualitySuffix is appended to every prompt before any provider sees it.
const QualitySuffix = ", professional photography, 4k, high quality, detailed, natural lighting"

// Provider generates an image for a prompt and returns its URL.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Default provider endpoints.
const (
	DefaultAPIFreeBaseURL      = "https://api.apifree.ai/v1"
	DefaultReplicateBaseURL    = "https://api.replicate.com/v1"
	DefaultPollinationsBaseURL = "https://image.pollinations.ai"
)

// Config holds provider endpoints and polling behaviour.
type Config struct {
	APIFreeBaseURL      string
	ReplicateBaseURL    string
	PollinationsBaseURL string
	HTTPClient          *http.Client
	Poll                PollConfig
}

func (c Config) withDefaults() Config {
	if c.APIFreeBaseURL == "" {
		c.APIFreeBaseURL = DefaultAPIFreeBaseURL
	}
	if c.ReplicateBaseURL == "" {
		c.ReplicateBaseURL = DefaultReplicateBaseURL
	}
	if c.PollinationsBaseURL == "" {
		c.PollinationsBaseURL = DefaultPollinationsBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	c.Poll = c.Poll.withDefaults()
	return c
}

// WithQuality appends QualitySuffix to prompt.
func WithQuality(prompt string) string {
	return strings.TrimSpace(prompt) + QualitySuffix
}

// Providers builds the attempt order for creds: APIFree, Replicate, then
// Pollinations. Providers without credentials are left out.
func Providers(creds credentials.Credentials, cfg Config) []Provider {
	cfg = cfg.withDefaults()
	var out []Provider
	for _, kind := range creds.ImageProviders() {
		switch kind {
		case credentials.ImageAPIFree:
			out = append(out, &APIFree{
				BaseURL:    cfg.APIFreeBaseURL,
				APIKey:     creds.Value(credentials.KeyAPIFreeAPIKey),
				Model:      creds.Value(credentials.KeyAPIFreeImageModel),
				HTTPClient: cfg.HTTPClient,
			})
		case credentials.ImageReplicate:
			out = append(out, &Replicate{
				BaseURL:    cfg.ReplicateBaseURL,
				Token:      creds.Value(credentials.KeyReplicateAPIToken),
				Model:      creds.Value(credentials.KeyReplicateModel),
				HTTPClient: cfg.HTTPClient,
				Poll:       cfg.Poll,
			})
		case credentials.ImagePollinations:
			out = append(out, &Pollinations{BaseURL: cfg.PollinationsBaseURL})
		}
	}
	return out
}
