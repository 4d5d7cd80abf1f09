// Package article holds the data that flows through the generation pipeline
// and the pure functions that turn it into a Draft Article.
package article

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DisplayCap bounds the number of items rendered into one document.
const DisplayCap = 15

// ExcerptLength is the number of characters of plain-text intro kept in an
// excerpt before the ellipsis.
const ExcerptLength = 160

// Draft statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Item is one section of a generated article.
type Item struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ImagePrompt string `json:"imagePrompt"`
}

// Generated is the structured output of the content generator before images
// are resolved.
type Generated struct {
	Title      string
	Slug       string
	Intro      string
	Items      []Item
	Conclusion string
	Excerpt    string
	Tags       []string
}

// ResolvedItem is an Item paired with the image that illustrates it.
type ResolvedItem struct {
	Item
	ImageURL string
}

// Draft is the final article handed to callers and to the document store.
type Draft struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image"`
	Status        string   `json:"status"`
}

// Excerpt derives a short summary from intro HTML: markup is stripped,
// whitespace collapsed and the text cut at ExcerptLength characters followed
// by "...". An empty intro yields an empty excerpt.
func Excerpt(introHTML string) string {
	text := PlainText(introHTML)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return strings.TrimSpace(string(runes)) + "..."
}

// PlainText returns the whitespace-collapsed text content of an HTML
// fragment.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Cap trims items to DisplayCap.
func Cap(items []Item) []Item {
	if len(items) > DisplayCap {
		return items[:DisplayCap]
	}
	return items
}

// Finalize assembles the document and builds the Draft Article.
func Finalize(gen Generated, resolved []ResolvedItem) Draft {
	featured := ""
	if len(resolved) > 0 {
		featured = resolved[0].ImageURL
	}
	tags := gen.Tags
	if tags == nil {
		tags = []string{}
	}
	return Draft{
		Title:         gen.Title,
		Slug:          gen.Slug,
		Excerpt:       gen.Excerpt,
		Content:       Assemble(gen, resolved),
		Tags:          tags,
		FeaturedImage: featured,
		Status:        StatusDraft,
	}
}
