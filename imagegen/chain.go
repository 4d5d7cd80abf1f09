package imagegen

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"

	"github.com/eringen/draftsmith/article"
)

// Chain resolves images by trying its providers in order. The final
// provider is always Pollinations.
type Chain struct {
	providers []Provider
	log       zerolog.Logger
}

// NewChain builds a chain over providers, appending a Pollinations provider
// when the list does not already end with one.
func NewChain(providers []Provider, logger zerolog.Logger) *Chain {
	ps := append([]Provider(nil), providers...)
	if len(ps) == 0 {
		ps = append(ps, &Pollinations{})
	} else if _, ok := ps[len(ps)-1].(*Pollinations); !ok {
		ps = append(ps, &Pollinations{})
	}
	return &Chain{providers: ps, log: logger}
}

// Names lists the providers in attempt order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Resolve finds an image for every item. Items are resolved concurrently and
// independently; the result preserves item order and every ImageURL is
// non-empty.
func (c *Chain) Resolve(ctx context.Context, items []article.Item) []article.ResolvedItem {
	if len(items) == 0 {
		return []article.ResolvedItem{}
	}
	mapper := iter.Mapper[article.Item, article.ResolvedItem]{MaxGoroutines: len(items)}
	return mapper.Map(items, func(it *article.Item) article.ResolvedItem {
		return article.ResolvedItem{Item: *it, ImageURL: c.resolveOne(ctx, *it)}
	})
}

func (c *Chain) resolveOne(ctx context.Context, it article.Item) string {
	subject := it.ImagePrompt
	if subject == "" {
		subject = it.Title
	}
	prompt := WithQuality(subject)
	for _, p := range c.providers {
		url, err := p.Generate(ctx, prompt)
		if err == nil && url != "" {
			c.log.Debug().Str("provider", p.Name()).Str("item", it.Title).Msg("image resolved")
			return url
		}
		c.log.Warn().Err(err).Str("provider", p.Name()).Str("item", it.Title).Msg("image provider failed, falling back")
	}
	return (&Pollinations{}).URL(prompt)
}
