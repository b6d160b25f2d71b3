package handlers

import (
	"time"

	"inkwell/internal/models"
)

// articleView is the JSON shape of an article, with its canonical path.
type articleView struct {
	models.Article
	URL string `json:"url"`
}

func newArticleView(a *models.Article, loc *time.Location) articleView {
	return articleView{Article: *a, URL: a.URLPath(loc)}
}

func newArticleViews(items []models.Article, loc *time.Location) []articleView {
	out := make([]articleView, len(items))
	for i := range items {
		out[i] = newArticleView(&items[i], loc)
	}
	return out
}

// categoryView is the JSON shape of a category, with its canonical path.
type categoryView struct {
	models.Category
	URL string `json:"url"`
}

func newCategoryView(c *models.Category) categoryView {
	return categoryView{Category: *c, URL: c.URLPath()}
}
