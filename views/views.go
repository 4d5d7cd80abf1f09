// Package views provides the default pages for a draftsmith site as templ
// components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/draftsmith"
)

// Default returns the built-in page set.
func Default() draftsmith.ViewFuncs {
	return draftsmith.ViewFuncs{
		Home:           Home,
		Article:        Article,
		DraftPreview:   DraftPreview,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

func esc(s string) string { return templ.EscapeString(s) }

// errWriter keeps the first write error and drops every later write.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

func (ew *errWriter) str(s string) { io.WriteString(ew, s) }

func (ew *errWriter) printf(format string, args ...any) { fmt.Fprintf(ew, format, args...) }

// page is a component body written straight to w.
type page func(ctx context.Context, w io.Writer) error

// Layout wraps body in the site chrome with SEO and OpenGraph tags.
func Layout(meta draftsmith.PageMeta, cfg draftsmith.SiteConfig, jsonLD string, noindex bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.str(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		ew.printf(`<title>%s</title><meta name="description" content="%s">`, esc(meta.Title), esc(meta.Description))
		if noindex {
			ew.str(`<meta name="robots" content="noindex">`)
		}
		if meta.URL != "" {
			ew.printf(`<link rel="canonical" href="%s"><meta property="og:url" content="%s">`, esc(meta.URL), esc(meta.URL))
		}
		ew.printf(`<meta property="og:title" content="%s"><meta property="og:type" content="%s">`, esc(meta.Title), esc(meta.OGType))
		if meta.Image != "" {
			ew.printf(`<meta property="og:image" content="%s">`, esc(meta.Image))
		}
		ew.printf(`<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml">`, esc(cfg.Name))
		ew.str(`<link rel="icon" href="/favicon.svg"><link rel="stylesheet" href="/public/styles.css">`)
		if jsonLD != "" {
			ew.printf(`<script type="application/ld+json">%s</script>`, jsonLD)
		}
		ew.printf(`</head><body class="mx-auto max-w-3xl px-4"><header class="py-6"><a href="/" class="text-xl font-bold">%s</a></header><main>`, esc(cfg.Name))
		if err := body.Render(ctx, ew); err != nil {
			return err
		}
		ew.str(`</main><footer class="py-8 text-sm"><a href="/feed.xml">RSS</a></footer></body></html>`)
		return ew.err
	})
}

func tagList(ew *errWriter, tags []string, active string) {
	if len(tags) == 0 {
		return
	}
	ew.str(`<ul class="flex flex-wrap gap-2">`)
	for _, t := range tags {
		ew.printf(`<li><a class="%s" href="/?tag=%s">%s</a></li>`,
			TagClass(t == active), esc(draftsmith.PathEscape(t)), esc(t))
	}
	ew.str(`</ul>`)
}

func articleCard(ew *errWriter, a draftsmith.Article) {
	ew.str(`<article class="py-6">`)
	if a.FeaturedImage != "" {
		ew.printf(`<img src="%s" alt="%s" loading="lazy" class="mb-3 rounded">`, esc(a.FeaturedImage), esc(a.Title))
	}
	ew.printf(`<h2><a href="%s">%s</a></h2><time datetime="%s">%s</time><p>%s</p>`,
		esc(a.Link), esc(a.Title), esc(a.Date), esc(a.Date), esc(a.Excerpt))
	tagList(ew, a.Tags, "")
	ew.str(`</article>`)
}

// Home lists published articles with a tag filter.
func Home(articles []draftsmith.Article, activeTag string, tags []string, cfg draftsmith.SiteConfig) templ.Component {
	meta := draftsmith.PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         draftsmith.BuildURL(cfg.URL),
		OGType:      "website",
	}
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		tagList(ew, tags, activeTag)
		if len(articles) == 0 {
			ew.str(`<p class="py-6">No articles yet.</p>`)
			return ew.err
		}
		for _, a := range articles {
			articleCard(ew, a)
		}
		return ew.err
	})
	return Layout(meta, cfg, draftsmith.WebsiteJsonLD(cfg), false, body)
}

func articleBody(a draftsmith.Article) page {
	return func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.printf(`<article><h1>%s</h1><time datetime="%s">%s</time>`, esc(a.Title), esc(a.Date), esc(a.Date))
		tagList(ew, a.Tags, "")
		if err := templ.Raw(a.Content).Render(ctx, ew); err != nil {
			return err
		}
		ew.str(`</article>`)
		return ew.err
	}
}

// Article renders a published article and its related articles.
func Article(a draftsmith.Article, related []draftsmith.Article, cfg draftsmith.SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := articleBody(a)(ctx, w); err != nil {
			return err
		}
		if len(related) == 0 {
			return nil
		}
		ew := &errWriter{w: w}
		ew.str(`<aside class="py-8"><h2>Related</h2><ul>`)
		for _, r := range related {
			ew.printf(`<li><a href="%s">%s</a></li>`, esc(r.Link), esc(r.Title))
		}
		ew.str(`</ul></aside>`)
		return ew.err
	})
	return Layout(articleMeta(a, cfg), cfg, draftsmith.ArticleJsonLD(a, cfg), false, body)
}

// DraftPreview renders any article, draft or not, for the admin.
func DraftPreview(a draftsmith.Article, cfg draftsmith.SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.printf(`<p class="%s">Preview: %s</p>`, StatusClass(a.Status), esc(a.Status))
		if ew.err != nil {
			return ew.err
		}
		return articleBody(a)(ctx, w)
	})
	return Layout(articleMeta(a, cfg), cfg, "", true, body)
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.str(`<h1>Admin</h1>`)
		if showError {
			ew.str(`<p class="text-red-700">Invalid password.</p>`)
		}
		ew.printf(`<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value="%s"><input type="password" name="password" autofocus required><button type="submit">Log in</button></form>`, esc(csrfToken))
		return ew.err
	})
	return Layout(draftsmith.PageMeta{Title: "Admin"}, draftsmith.SiteConfig{Name: "Admin"}, "", true, body)
}

// dashboardScript drives the generate form: it calls a generation endpoint
// and saves the returned draft.
const dashboardScript = `<script>
document.getElementById("generate").addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const f = ev.target, status = document.getElementById("generate-status");
  const csrf = f.querySelector("[name=_csrf]").value;
  status.textContent = "Generating...";
  const res = await fetch("/api/generate/" + f.variant.value, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({topic: f.topic.value, keywords: f.keywords.value}),
  });
  const body = await res.json();
  if (!res.ok) { status.textContent = body.error; return; }
  const saved = await fetch("/admin/drafts/", {
    method: "POST",
    headers: {"Content-Type": "application/json", "X-CSRF-Token": csrf},
    body: JSON.stringify(body),
  });
  if (!saved.ok) { status.textContent = (await saved.json()).error; return; }
  location.reload();
});
</script>`

// AdminDashboard lists every article and offers the generate form.
func AdminDashboard(articles []draftsmith.Article, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.str(`<h1>Dashboard</h1>`)
		ew.printf(`<form id="generate" class="py-4"><input type="hidden" name="_csrf" value="%s">`, esc(csrfToken))
		ew.str(`<input name="topic" placeholder="e.g. 10 best desk lamps" required><input name="keywords" placeholder="keywords, comma separated">`)
		ew.str(`<select name="variant"><option value="listicle">Listicle</option><option value="gemini">Gemini</option><option value="mock">Mock</option></select>`)
		ew.str(`<button type="submit">Generate</button><span id="generate-status"></span></form>`)
		ew.str(`<table class="w-full"><thead><tr><th>Title</th><th>Date</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, a := range articles {
			ew.printf(`<tr><td>%s</td><td>%s</td><td><span class="%s">%s</span></td><td><a href="/admin/drafts/%s/preview/">Preview</a></td></tr>`,
				esc(a.Title), esc(a.Date), StatusClass(a.Status), esc(a.Status), esc(draftsmith.PathEscape(a.Slug)))
		}
		ew.str(`</tbody></table>`)
		ew.printf(`<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="%s"><button type="submit">Log out</button></form>`, esc(csrfToken))
		ew.str(dashboardScript)
		return ew.err
	})
	return Layout(draftsmith.PageMeta{Title: "Dashboard"}, draftsmith.SiteConfig{Name: "Admin"}, "", true, body)
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return Layout(draftsmith.PageMeta{Title: "Not found"}, draftsmith.SiteConfig{Name: "Blog"}, "", true,
		templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, `<h1>Page not found</h1><p><a href="/">Back home</a></p>`)
			return err
		}))
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return Layout(draftsmith.PageMeta{Title: "Error"}, draftsmith.SiteConfig{Name: "Blog"}, "", true,
		templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, `<h1>Something went wrong</h1><p>Please try again later.</p>`)
			return err
		}))
}
