// Package mockgen is a deterministic stand-in for a text-generation
// provider. It answers with a well-formed article for the topic it was built
// for and makes no network calls.
package mockgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"

	"github.com/eringen/draftsmith/article"
	"github.com/eringen/draftsmith/topic"
)

// Provider implements textgen.Provider for a single topic.
type Provider struct {
	spec topic.Spec
}

// New returns a mock provider for spec.
func New(spec topic.Spec) *Provider {
	return &Provider{spec: spec}
}

func (p *Provider) Name() string { return "mock" }

var sections = []string{
	"**%[1]s** is a simple place to start with %[2]s. It costs little, takes an afternoon, and the difference is easy to notice.\n\nStart small and adjust as you go.",
	"People often overlook **%[1]s**, yet it shapes how %[2]s feels day to day.\n\n- Keep it practical\n- Keep it personal",
	"With **%[1]s**, a few careful choices go a long way. Think about how you actually use the space before buying anything.",
	"**%[1]s** rewards patience. Try one change, live with it for a week, then decide what comes next.",
}

var angles = []string{"Start with the basics", "Mind the details", "Make it yours", "Think long term", "Keep it simple"}

// Complete ignores the prompt and returns the article JSON.
func (p *Provider) Complete(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	subject := p.spec.CleanTopic
	if subject == "" {
		subject = p.spec.RawTopic
	}

	n := p.spec.ItemCount
	if n > article.DisplayCap {
		n = article.DisplayCap
	}
	items := make([]map[string]string, n)
	for i := range items {
		title := fmt.Sprintf("%s: %s", angles[i%len(angles)], subject)
		if p.spec.IsListicle {
			title = fmt.Sprintf("Idea %d for %s", i+1, subject)
		}
		items[i] = map[string]string{
			"title":       title,
			"content":     render(fmt.Sprintf(sections[i%len(sections)], title, subject)),
			"imagePrompt": fmt.Sprintf("%s, %s, styled interior scene number %d", subject, strings.ToLower(angles[i%len(angles)]), i+1),
		}
	}

	out, err := json.Marshal(map[string]any{
		"title":      headline(p.spec, subject),
		"intro":      render(fmt.Sprintf("Thinking about **%s**? You are in good company. This guide walks through practical ideas you can try this weekend, with notes on what works and what to skip.", subject)),
		"items":      items,
		"conclusion": render(fmt.Sprintf("That wraps up our look at %s. Pick one idea, try it, and build from there.", subject)),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func headline(spec topic.Spec, subject string) string {
	title := subject
	if r, size := utf8.DecodeRuneInString(subject); r != utf8.RuneError {
		title = string(unicode.ToUpper(r)) + subject[size:]
	}
	if spec.IsListicle {
		return fmt.Sprintf("%d %s You Will Actually Use", spec.ItemCount, title)
	}
	return fmt.Sprintf("%s: A Practical Guide", title)
}

func render(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "<p>" + md + "</p>"
	}
	return strings.TrimSpace(buf.String())
}
