package draftsmith

import (
	"github.com/eringen/draftsmith/article"
)

// Article is the content type stored in SQLite and rendered by templates.
// Generated drafts and published posts share it; Status tells them apart.
type Article struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Date          string   `json:"date"`
	Tags          []string `json:"tags"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featured_image"`
	Status        string   `json:"status"`
	Link          string   `json:"link"`
}

// Published reports whether the article is publicly visible.
func (a Article) Published() bool {
	return a.Status == article.StatusPublished
}

// ArticleFromDraft converts a generated Draft Article into an Article.
func ArticleFromDraft(d article.Draft) Article {
	return Article{
		Slug:          d.Slug,
		Title:         d.Title,
		Tags:          d.Tags,
		Excerpt:       d.Excerpt,
		Content:       d.Content,
		FeaturedImage: d.FeaturedImage,
		Status:        d.Status,
	}
}

// Image is an uploaded or mirrored image stored under the static uploads
// directory.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploaded_at"`
	URL          string `json:"url"`
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
}
