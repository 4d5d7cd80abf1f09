// Package textgen turns a topic into structured article content by prompting
// a text-generation provider and recovering JSON from its reply.
package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/eringen/draftsmith/article"
	"github.com/eringen/draftsmith/topic"
)

// MaxKeywordTags bounds how many keywords become tags.
const MaxKeywordTags = 5

type response struct {
	Title      string         `json:"title"`
	Intro      string         `json:"intro"`
	Items      []responseItem `json:"items"`
	Conclusion string         `json:"conclusion"`
}

type responseItem struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	ImagePrompt      string `json:"imagePrompt"`
	ImagePromptSnake string `json:"image_prompt"`
}

// Generate prompts p for an article about spec and parses the reply.
// Missing intro, items or conclusion default to empty; only an empty reply
// or unrecoverable JSON is an error.
func Generate(ctx context.Context, p Provider, spec topic.Spec, keywords string) (article.Generated, error) {
	if p == nil {
		return article.Generated{}, ErrNoProvider
	}
	prompt, err := BuildPrompt(spec, keywords)
	if err != nil {
		return article.Generated{}, fmt.Errorf("build prompt: %w", err)
	}
	raw, err := p.Complete(ctx, prompt)
	if err != nil {
		return article.Generated{}, err
	}
	return Parse(raw, spec, keywords)
}

// Parse builds an article.Generated from raw model output.
func Parse(raw string, spec topic.Spec, keywords string) (article.Generated, error) {
	if strings.TrimSpace(raw) == "" {
		return article.Generated{}, fmt.Errorf("%w: empty reply", ErrUpstreamShape)
	}
	var resp response
	if err := DecodeJSON(raw, &resp); err != nil {
		return article.Generated{}, err
	}

	items := make([]article.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		title := strings.TrimSpace(it.Title)
		imagePrompt := strings.TrimSpace(it.ImagePrompt)
		if imagePrompt == "" {
			imagePrompt = strings.TrimSpace(it.ImagePromptSnake)
		}
		if imagePrompt == "" {
			imagePrompt = title
		}
		items = append(items, article.Item{
			Title:       title,
			Content:     NormalizeHTML(it.Content),
			ImagePrompt: imagePrompt,
		})
	}

	title := strings.TrimSpace(resp.Title)
	if title == "" {
		title = spec.CleanTopic
	}
	intro := NormalizeHTML(resp.Intro)
	return article.Generated{
		Title:      title,
		Slug:       spec.Slug(),
		Intro:      intro,
		Items:      items,
		Conclusion: NormalizeHTML(resp.Conclusion),
		Excerpt:    article.Excerpt(intro),
		Tags:       Tags(spec, keywords),
	}, nil
}

// Tags returns the first token of the clean topic followed by up to
// MaxKeywordTags keywords, lowercased and de-duplicated.
func Tags(spec topic.Spec, keywords string) []string {
	var tags []string
	seen := map[string]bool{}
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		tags = append(tags, t)
	}
	add(spec.FirstToken())
	for i, k := range SplitKeywords(keywords) {
		if i == MaxKeywordTags {
			break
		}
		add(k)
	}
	if len(tags) == 0 {
		tags = []string{"article"}
	}
	return tags
}
