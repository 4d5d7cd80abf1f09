package draftsmith

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	articles, err := a.Cache.ListArticles(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(articles, tag, tags, a.Config))
}

func (a *App) handleArticle(c echo.Context) error {
	slug := c.Param("slug")
	art, err := a.Cache.GetArticle(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	articles, err := a.Cache.ListArticles("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Article(art, FilterRelated(art, articles), a.Config))
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Cache.ListArticles("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, articles)
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Cache.ListArticles("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /api/\n")
	fmt.Fprintf(&b, "\nSitemap: %s\n", strings.TrimRight(a.Config.URL, "/")+"/sitemap.xml")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		log := a.requestLogger(c)
		log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
	}

	if wantsJSON(c) {
		msg := http.StatusText(code)
		if ok && code < 500 {
			msg = fmt.Sprint(he.Message)
		}
		_ = jsonError(c, code, msg)
		return
	}
	if code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	if code >= 500 {
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
