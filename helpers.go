package draftsmith

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelated finds articles that share at least one tag with current.
func FilterRelated(current Article, articles []Article) []Article {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Article
	for _, p := range articles {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// isRemoteURL reports whether s is an absolute http(s) URL.
func isRemoteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for an Article schema.
func ArticleJsonLD(art Article, cfg SiteConfig) string {
	articleURL := BuildURL(cfg.URL, "blog", art.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      art.Title,
		"description":   art.Excerpt,
		"datePublished": art.Date,
		"url":           articleURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if art.FeaturedImage != "" {
		img := art.FeaturedImage
		if !isRemoteURL(img) {
			img = strings.TrimRight(cfg.URL, "/") + img
		}
		data["image"] = img
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(art.Tags) > 0 {
		data["keywords"] = strings.Join(art.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
