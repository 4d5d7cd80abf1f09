package textgen

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var htmlTag = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?/?>`)

// NormalizeHTML returns fragment unchanged when it already contains HTML
// markup, and otherwise renders it as Markdown. Models sometimes ignore the
// instruction to answer in HTML.
func NormalizeHTML(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || htmlTag.MatchString(fragment) {
		return fragment
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(fragment), &buf); err != nil {
		return "<p>" + html.EscapeString(fragment) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}
