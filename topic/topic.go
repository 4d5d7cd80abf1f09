// Package topic turns free-text article topics into a structured Spec.
package topic

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when the topic is empty or whitespace only.
var ErrInvalidInput = errors.New("topic is required")

// DefaultItemCount is used when a topic carries no leading number.
const DefaultItemCount = 10

var leadingCount = regexp.MustCompile(`^(\d+)\s*`)

// Spec is the structural intent extracted from a raw topic.
type Spec struct {
	RawTopic   string
	ItemCount  int
	IsListicle bool
	CleanTopic string
}

// Parse extracts the item count and clean topic from raw. A topic such as
// "12 cozy ideas" yields a listicle of 12; "cozy ideas" falls back to
// defaultCount. No upper bound is applied here.
func Parse(raw string, defaultCount int) (Spec, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Spec{}, ErrInvalidInput
	}
	if defaultCount < 0 {
		defaultCount = 0
	}
	spec := Spec{
		RawTopic:   trimmed,
		ItemCount:  defaultCount,
		CleanTopic: trimmed,
	}
	m := leadingCount.FindStringSubmatch(trimmed)
	if m == nil {
		return spec, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Too many digits for an int; treat the number as part of the topic.
		return spec, nil
	}
	spec.ItemCount = n
	spec.IsListicle = true
	spec.CleanTopic = strings.TrimSpace(trimmed[len(m[0]):])
	return spec, nil
}

// Slug returns the URL slug for the topic. The leading count is
// presentational, so the clean topic is used; a topic that is nothing but a
// number falls back to the raw topic.
func (s Spec) Slug() string {
	if slug := Slugify(s.CleanTopic); slug != "" {
		return slug
	}
	return Slugify(s.RawTopic)
}

// FirstToken returns the first word of the clean topic, lowercased and
// stripped of surrounding punctuation.
func (s Spec) FirstToken() string {
	for _, f := range strings.Fields(s.CleanTopic) {
		tok := Slugify(f)
		if tok != "" {
			return tok
		}
	}
	return Slugify(s.RawTopic)
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
