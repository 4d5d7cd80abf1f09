package imagegen

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
)

// Pollinations synthesizes an image URL from the prompt. It makes no request
// and never fails.
type Pollinations struct {
	BaseURL string
	Width   int
	Height  int
}

func (p *Pollinations) Name() string { return "pollinations" }

func (p *Pollinations) Generate(_ context.Context, prompt string) (string, error) {
	return p.URL(prompt), nil
}

// URL returns the image URL for prompt. The same prompt always yields the
// same URL.
func (p *Pollinations) URL(prompt string) string {
	base := strings.TrimRight(p.BaseURL, "/")
	if base == "" {
		base = DefaultPollinationsBaseURL
	}
	w, h := p.Width, p.Height
	if w <= 0 {
		w = 1024
	}
	if h <= 0 {
		h = 768
	}
	seed := fnv.New32a()
	seed.Write([]byte(prompt))
	return fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&seed=%d&nologo=true",
		base, url.PathEscape(prompt), w, h, seed.Sum32())
}
