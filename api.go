package draftsmith

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type articleList struct {
	Articles []Article `json:"articles"`
	Tag      string    `json:"tag,omitempty"`
}

func (a *App) handleAPIArticles(c echo.Context) error {
	tag := c.QueryParam("tag")
	articles, err := a.Cache.ListArticles(tag)
	if err != nil {
		return err
	}
	if articles == nil {
		articles = []Article{}
	}
	return c.JSON(http.StatusOK, articleList{Articles: articles, Tag: tag})
}

func (a *App) handleAPIArticle(c echo.Context) error {
	art, err := a.Cache.GetArticle(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "article not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, art)
}

func (a *App) handleAPITags(c echo.Context) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}
