package views

import (
	"strings"

	"github.com/eringen/draftsmith"
	"github.com/eringen/draftsmith/article"
)

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "inline-flex items-center rounded border border-ink dark:border-white/30 bg-stone-100 dark:bg-neutral-700 px-2.5 py-1 text-[11px] font-semibold uppercase tracking-[0.12em] hover:-translate-y-0.5 hover:shadow-sm transition"
	if active {
		base += " bg-ink dark:bg-white text-white dark:text-ink"
	}
	return base
}

// StatusClass returns CSS classes for an article status badge.
func StatusClass(status string) string {
	if status == article.StatusPublished {
		return "rounded bg-emerald-100 px-2 py-0.5 text-xs text-emerald-800"
	}
	return "rounded bg-amber-100 px-2 py-0.5 text-xs text-amber-800"
}

// absoluteURL resolves a site-relative path against the site URL.
func absoluteURL(cfg draftsmith.SiteConfig, p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(cfg.URL, "/") + "/" + strings.TrimLeft(p, "/")
}

// articleMeta builds page metadata for an article.
func articleMeta(a draftsmith.Article, cfg draftsmith.SiteConfig) draftsmith.PageMeta {
	desc := a.Excerpt
	if desc == "" {
		desc = cfg.Description
	}
	return draftsmith.PageMeta{
		Title:       a.Title + " | " + cfg.Name,
		Description: desc,
		URL:         draftsmith.BuildURL(cfg.URL, "blog", a.Slug),
		OGType:      "article",
		Image:       absoluteURL(cfg, a.FeaturedImage),
	}
}
