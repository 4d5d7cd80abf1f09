// Package pipeline runs article generation end to end: topic parsing,
// credential resolution, content generation, image resolution and document
// assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eringen/draftsmith/article"
	"github.com/eringen/draftsmith/credentials"
	"github.com/eringen/draftsmith/imagegen"
	"github.com/eringen/draftsmith/mockgen"
	"github.com/eringen/draftsmith/textgen"
	"github.com/eringen/draftsmith/topic"
)

// Variant selects which text provider and image chain a run uses.
type Variant string

const (
	// VariantMock uses the deterministic mock provider and synthesized images.
	VariantMock Variant = "mock"
	// VariantGemini calls Gemini directly and uses synthesized images.
	VariantGemini Variant = "gemini"
	// VariantListicle uses APIFree or OpenRouter and the full image chain.
	VariantListicle Variant = "listicle"
)

// Variants lists every supported variant.
var Variants = []Variant{VariantMock, VariantGemini, VariantListicle}

// ErrUnknownVariant is returned for a variant name that is not supported.
var ErrUnknownVariant = errors.New("unknown generation variant")

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Config holds pipeline behaviour and upstream endpoints.
type Config struct {
	DefaultItemCount int
	Timeout          time.Duration
	MockDelay        time.Duration
	Text             textgen.Endpoints
	Images           imagegen.Config
}

func (c *Config) setDefaults() {
	if c.DefaultItemCount <= 0 {
		c.DefaultItemCount = topic.DefaultItemCount
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
}

// Request is the input of one run.
type Request struct {
	Topic    string `json:"topic"`
	Keywords string `json:"keywords"`
}

// Pipeline runs generation requests. It holds no per-run state and is safe
// for concurrent use.
type Pipeline struct {
	cfg      Config
	resolver *credentials.Resolver
	log      zerolog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a Pipeline. Credentials are resolved through resolver on every
// run.
func New(resolver *credentials.Resolver, cfg Config, logger zerolog.Logger) *Pipeline {
	cfg.setDefaults()
	return &Pipeline{
		cfg:      cfg,
		resolver: resolver,
		log:      logger,
		sleep:    sleep,
	}
}

// Run generates a Draft Article for req. Runs are bounded by the configured
// timeout; on expiry the returned error wraps context.DeadlineExceeded. A
// logger attached to ctx with zerolog's WithContext replaces the pipeline
// logger for this run.
func (p *Pipeline) Run(ctx context.Context, variant Variant, req Request) (article.Draft, error) {
	spec, err := topic.Parse(req.Topic, p.cfg.DefaultItemCount)
	if err != nil {
		return article.Draft{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	base := p.log
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		base = *l
	}
	log := base.With().
		Str("run_id", uuid.NewString()).
		Str("variant", string(variant)).
		Str("topic", spec.RawTopic).
		Logger()
	start := time.Now()

	provider, chain, err := p.stages(ctx, variant, spec, log)
	if err != nil {
		return article.Draft{}, err
	}

	log.Debug().Str("provider", provider.Name()).Int("items", spec.ItemCount).Msg("generating content")
	gen, err := textgen.Generate(ctx, provider, spec, req.Keywords)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return article.Draft{}, fmt.Errorf("generation timed out after %s: %w", p.cfg.Timeout, context.DeadlineExceeded)
		}
		return article.Draft{}, err
	}
	if len(gen.Items) > article.DisplayCap {
		log.Warn().Int("items", len(gen.Items)).Int("cap", article.DisplayCap).Msg("dropping items beyond display cap")
	}
	gen.Items = article.Cap(gen.Items)

	resolved := chain.Resolve(ctx, gen.Items)
	draft := article.Finalize(gen, resolved)

	log.Info().
		Str("slug", draft.Slug).
		Int("items", len(resolved)).
		Dur("elapsed", time.Since(start)).
		Msg("article generated")
	return draft, nil
}

// stages picks the text provider and image chain for variant.
func (p *Pipeline) stages(ctx context.Context, variant Variant, spec topic.Spec, log zerolog.Logger) (textgen.Provider, *imagegen.Chain, error) {
	synthesized := func() *imagegen.Chain {
		return imagegen.NewChain([]imagegen.Provider{
			&imagegen.Pollinations{BaseURL: p.cfg.Images.PollinationsBaseURL},
		}, log)
	}

	switch variant {
	case VariantMock:
		if err := p.sleep(ctx, p.cfg.MockDelay); err != nil {
			return nil, nil, err
		}
		return mockgen.New(spec), synthesized(), nil

	case VariantGemini:
		creds := p.resolver.Resolve(ctx)
		provider, err := textgen.GeminiFromCredentials(creds, p.cfg.Text)
		if err != nil {
			return nil, nil, err
		}
		return provider, synthesized(), nil

	case VariantListicle:
		creds := p.resolver.Resolve(ctx)
		provider, err := textgen.FromCredentials(creds, p.cfg.Text)
		if err != nil {
			return nil, nil, err
		}
		chain := imagegen.NewChain(imagegen.Providers(creds, p.cfg.Images), log)
		log.Debug().Strs("image_providers", chain.Names()).Msg("image chain")
		return provider, chain, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
