package textgen

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/eringen/draftsmith/topic"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("prompt").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(promptSource))

type promptData struct {
	Topic      string
	ItemCount  int
	IsListicle bool
	Keywords   []string
}

// BuildPrompt renders the article prompt for spec. keywords is a
// comma-separated list; blank entries are ignored.
func BuildPrompt(spec topic.Spec, keywords string) (string, error) {
	data := promptData{
		Topic:      spec.CleanTopic,
		ItemCount:  spec.ItemCount,
		IsListicle: spec.IsListicle,
		Keywords:   SplitKeywords(keywords),
	}
	if data.Topic == "" {
		data.Topic = spec.RawTopic
	}
	var b strings.Builder
	if err := promptTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SplitKeywords splits a comma-separated keyword list, trimming blanks.
func SplitKeywords(keywords string) []string {
	var out []string
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
