package draftsmith

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/draftsmith/article"
	"github.com/eringen/draftsmith/credentials"
	"github.com/eringen/draftsmith/topic"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	articles, err := a.Store.ListAllArticles()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(articles, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleDraftList(c echo.Context) error {
	articles, err := a.Store.ListAllArticles()
	if err != nil {
		return err
	}
	if articles == nil {
		articles = []Article{}
	}
	return c.JSON(http.StatusOK, articleList{Articles: articles})
}

func (a *App) handleDraftGet(c echo.Context) error {
	art, err := a.Store.GetArticleAny(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "draft not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, art)
}

func (a *App) handleDraftPreview(c echo.Context) error {
	art, err := a.Store.GetArticleAny(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.DraftPreview(art, a.Config))
}

// draftRequest is a Draft Article as returned by the generation endpoints,
// optionally with a publication date.
type draftRequest struct {
	article.Draft
	Date string `json:"date"`
}

func (a *App) handleDraftSave(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	art := ArticleFromDraft(req.Draft)
	art.Date = strings.TrimSpace(req.Date)
	saved, err := a.SaveDraft(c.Request().Context(), art)
	if err != nil {
		return a.draftError(c, err)
	}
	return c.JSON(http.StatusCreated, saved)
}

func (a *App) handleDraftUpdate(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	art := ArticleFromDraft(req.Draft)
	art.Date = strings.TrimSpace(req.Date)
	saved, err := a.UpdateDraft(c.Request().Context(), c.Param("slug"), art)
	if err != nil {
		return a.draftError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (a *App) draftError(c echo.Context, err error) error {
	var invalid *invalidDraftError
	switch {
	case errors.As(err, &invalid):
		return jsonError(c, http.StatusBadRequest, invalid.msg)
	case errors.Is(err, ErrNotFound):
		return jsonError(c, http.StatusNotFound, "draft not found")
	}
	return err
}

type invalidDraftError struct{ msg string }

func (e *invalidDraftError) Error() string { return e.msg }

// SaveDraft validates and stores art as a new article. If its slug is
// already taken a numeric suffix is appended, so an existing article is
// never replaced. The public cache is invalidated.
func (a *App) SaveDraft(ctx context.Context, art Article) (Article, error) {
	art.Slug = topic.Slugify(art.Slug)
	if art.Slug == "" {
		art.Slug = topic.Slugify(art.Title)
	}
	if art.Slug == "" {
		return Article{}, &invalidDraftError{"slug is required: add a title or slug"}
	}
	if err := validateArticle(&art); err != nil {
		return Article{}, err
	}
	slug, err := a.uniqueSlug(art.Slug)
	if err != nil {
		return Article{}, err
	}
	art.Slug = slug
	return a.storeArticle(ctx, art)
}

// UpdateDraft replaces the article stored under slug. An empty status or
// date keeps the stored value. ErrNotFound is returned for an unknown slug.
func (a *App) UpdateDraft(ctx context.Context, slug string, art Article) (Article, error) {
	existing, err := a.Store.GetArticleAny(slug)
	if err != nil {
		return Article{}, err
	}
	art.Slug = existing.Slug
	if art.Status == "" {
		art.Status = existing.Status
	}
	if art.Date == "" {
		art.Date = existing.Date
	}
	if err := validateArticle(&art); err != nil {
		return Article{}, err
	}
	return a.storeArticle(ctx, art)
}

func validateArticle(art *Article) error {
	art.Title = strings.TrimSpace(art.Title)
	if art.Date == "" {
		art.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", art.Date); err != nil {
		return &invalidDraftError{"invalid date format: use YYYY-MM-DD"}
	}
	switch art.Status {
	case "":
		art.Status = article.StatusDraft
	case article.StatusDraft, article.StatusPublished:
	default:
		return &invalidDraftError{fmt.Sprintf("invalid status %q", art.Status)}
	}
	art.Tags = FilterEmpty(art.Tags)
	return nil
}

// uniqueSlug appends -2, -3, ... to slug until no stored article uses it.
func (a *App) uniqueSlug(slug string) (string, error) {
	candidate := slug
	for counter := 2; ; counter++ {
		_, err := a.Store.GetArticleAny(candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", slug, counter)
	}
}

// storeArticle mirrors the featured image when MirrorFeaturedImages is set,
// writes art and invalidates the public cache.
func (a *App) storeArticle(ctx context.Context, art Article) (Article, error) {
	if a.Config.MirrorFeaturedImages && isRemoteURL(art.FeaturedImage) {
		local, err := a.mirrorImage(ctx, art.FeaturedImage, art.Slug)
		if err != nil {
			a.Log.Warn().Err(err).Str("slug", art.Slug).Str("url", art.FeaturedImage).Msg("featured image mirroring failed, keeping remote url")
		} else {
			art.FeaturedImage = local
		}
	}

	if err := a.Store.SaveArticle(art); err != nil {
		return Article{}, err
	}
	a.Cache.Invalidate()
	return a.Store.GetArticleAny(art.Slug)
}

func (a *App) handleDraftPublish(c echo.Context) error {
	slug := c.Param("slug")
	if err := a.Store.SetStatus(slug, article.StatusPublished); err != nil {
		if errors.Is(err, ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "draft not found")
		}
		return err
	}
	a.Cache.Invalidate()
	art, err := a.Store.GetArticleAny(slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, art)
}

func (a *App) handleDraftDelete(c echo.Context) error {
	if err := a.Store.DeleteArticle(c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

// settingView is one provider setting as shown in the admin area.
type settingView struct {
	Key    string `json:"key"`
	Env    string `json:"env"`
	Secret bool   `json:"secret"`
	Value  string `json:"value"`
	IsSet  bool   `json:"is_set"`
	Source string `json:"source"`
}

func (a *App) handleSettingsList(c echo.Context) error {
	creds := a.Resolver.Resolve(c.Request().Context())
	out := make([]settingView, 0, len(credentials.Catalog))
	for _, s := range credentials.Catalog {
		v := creds.Value(s.Key)
		if s.Secret {
			v = maskSecret(v)
		}
		out = append(out, settingView{
			Key:    s.Key,
			Env:    s.Env,
			Secret: s.Secret,
			Value:  v,
			IsSet:  creds.Has(s.Key),
			Source: string(creds.Source(s.Key)),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"settings":        out,
		"text_provider":   creds.TextProvider(),
		"image_providers": creds.ImageProviders(),
	})
}

func (a *App) handleSettingsSave(c echo.Context) error {
	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(values) == 0 {
		return jsonError(c, http.StatusBadRequest, "no settings given")
	}
	for key := range values {
		if _, ok := credentials.Lookup(key); !ok {
			return jsonError(c, http.StatusBadRequest, fmt.Sprintf("unknown setting %q", key))
		}
	}
	ctx := c.Request().Context()
	for key, value := range values {
		if err := a.Store.UpsertSetting(ctx, key, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	log := a.requestLogger(c)
	log.Info().Int("count", len(values)).Msg("provider settings updated")
	return a.handleSettingsList(c)
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
