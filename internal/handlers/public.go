// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// ArticleReader is the read side of the article store.
type ArticleReader interface {
	ListPublished(ctx context.Context) ([]models.Article, error)
	ListPublishedByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Article, error)
	ListFeatured(ctx context.Context) ([]models.Article, error)
	FindPublishedByDateAndSlug(ctx context.Context, year, month, day int, slug string) (*models.Article, error)
	FindDraft(ctx context.Context, id uuid.UUID, who models.Identity) (*models.Article, error)
	Location() *time.Location
}

// CategoryReader is the read side of the category store.
type CategoryReader interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// PageCache stores rendered public responses. *cache.PageCache satisfies it.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// Public serves the read-only API consumed by the site front end. Listing
// and permalink responses go through the Valkey page cache; draft previews
// and the category index never do.
type Public struct {
	articles   ArticleReader
	categories CategoryReader
	pageCache  PageCache
	pageSize   int
}

// NewPublic creates a new Public handler group. pageCache may be nil to
// disable response caching.
func NewPublic(articles ArticleReader, categories CategoryReader, pageCache PageCache, pageSize int) *Public {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Public{
		articles:   articles,
		categories: categories,
		pageCache:  pageCache,
		pageSize:   pageSize,
	}
}

// Home lists published articles, most recently published first.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.listPage(w, r, p.articles.ListPublished)
}

// Featured lists published articles flagged as featured.
func (p *Public) Featured(w http.ResponseWriter, r *http.Request) {
	p.listPage(w, r, p.articles.ListFeatured)
}

// Categories lists all categories alphabetically with live published counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := p.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]categoryView, len(items))
	for i := range items {
		views[i] = newCategoryView(&items[i])
	}
	writeJSON(w, http.StatusOK, dataEnvelope{Data: views})
}

// Category shows one category and a page of its published articles.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pageParams(r, p.pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := cache.Key(r.URL.Path, pageQuery(page, perPage))
	p.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		cat, err := p.categories.FindBySlug(ctx, chi.URLParam(r, "slug"))
		if err != nil {
			return nil, err
		}
		items, err := p.articles.ListPublishedByCategory(ctx, cat.ID)
		if err != nil {
			return nil, err
		}
		items, meta := paginate(items, page, perPage)
		return pageEnvelope{
			Data: map[string]any{
				"category": newCategoryView(cat),
				"articles": newArticleViews(items, p.articles.Location()),
			},
			Meta: meta,
		}, nil
	})
}

// Article resolves a dated permalink to a published article.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	day, errD := strconv.Atoi(chi.URLParam(r, "day"))
	if errY != nil || errM != nil || errD != nil {
		writeError(w, r, apperr.NotFound("article"))
		return
	}
	slug := chi.URLParam(r, "slug")

	p.serveCached(w, r, r.URL.Path, func(ctx context.Context) (any, error) {
		a, err := p.articles.FindPublishedByDateAndSlug(ctx, year, month, day, slug)
		if err != nil {
			return nil, err
		}
		return dataEnvelope{Data: newArticleView(a, p.articles.Location())}, nil
	})
}

// Draft previews an article of any status for its author or staff.
// Anonymous callers are refused without learning whether the ID exists.
func (p *Public) Draft(w http.ResponseWriter, r *http.Request) {
	who := middleware.IdentityFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		if !who.Authenticated {
			writeError(w, r, apperr.AccessDenied("sign in to preview unpublished articles"))
			return
		}
		writeError(w, r, apperr.NotFound("article"))
		return
	}

	a, err := p.articles.FindDraft(r.Context(), id, who)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, no-store")
	writeJSON(w, http.StatusOK, dataEnvelope{Data: newArticleView(a, p.articles.Location())})
}

// listPage serves one cached page of an article listing.
func (p *Public) listPage(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]models.Article, error)) {
	page, perPage, err := pageParams(r, p.pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := cache.Key(r.URL.Path, pageQuery(page, perPage))
	p.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		items, err := list(ctx)
		if err != nil {
			return nil, err
		}
		items, meta := paginate(items, page, perPage)
		return pageEnvelope{Data: newArticleViews(items, p.articles.Location()), Meta: meta}, nil
	})
}

// serveCached writes the cached body for key, or builds, caches and writes
// it on a miss. Errors are never cached.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string, build func(context.Context) (any, error)) {
	ctx := r.Context()

	if p.pageCache != nil {
		if body, ok := p.pageCache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}
	}

	payload, err := build(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}
	body = append(body, '\n')

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, body)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// pageQuery is the normalized query used in list cache keys.
func pageQuery(page, perPage int) url.Values {
	return url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
}
