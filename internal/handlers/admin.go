// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for inkwell. Handlers
// are grouped by audience (public, admin) and receive their dependencies
// through the handler struct as small interfaces, so tests can substitute
// fakes for the stores and the page cache.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// ArticleWriter is the write side of the article store.
type ArticleWriter interface {
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	Update(ctx context.Context, a *models.Article) (*models.Article, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ArticleStatus) (*models.Article, error)
	Location() *time.Location
}

// CategoryWriter is the write side of the category store.
type CategoryWriter interface {
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Admin groups the authenticated write endpoints.
type Admin struct {
	articles   ArticleWriter
	categories CategoryWriter
	pageCache  PageCache
}

// NewAdmin creates a new Admin handler group. pageCache may be nil.
func NewAdmin(articles ArticleWriter, categories CategoryWriter, pageCache PageCache) *Admin {
	return &Admin{
		articles:   articles,
		categories: categories,
		pageCache:  pageCache,
	}
}

// articleInput is the request body for creating or editing an article.
type articleInput struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Summary         string     `json:"summary"`
	Body            string     `json:"body"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Featured        bool       `json:"featured"`
	MetaDescription string     `json:"meta_description"`
	CoverImage      *string    `json:"cover_image"`
	ReadingTime     int        `json:"reading_time"`
}

// apply copies the editable fields onto a.
func (in *articleInput) apply(a *models.Article) {
	a.Title = in.Title
	a.Slug = in.Slug
	a.Summary = in.Summary
	a.Body = in.Body
	a.CategoryID = in.CategoryID
	a.Featured = in.Featured
	a.MetaDescription = in.MetaDescription
	a.CoverImage = in.CoverImage
	a.ReadingTime = in.ReadingTime
}

type statusInput struct {
	Status string `json:"status"`
}

type categoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// --- Articles ---

// CreateArticle creates a draft authored by the caller.
func (a *Admin) CreateArticle(w http.ResponseWriter, r *http.Request) {
	who := middleware.IdentityFromCtx(r.Context())

	var in articleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	article := &models.Article{AuthorID: who.UserID}
	in.apply(article)

	created, err := a.articles.Create(r.Context(), article)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("article created", "article_id", created.ID, "author_id", who.UserID)
	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, dataEnvelope{Data: newArticleView(created, a.articles.Location())})
}

// UpdateArticle replaces the editable fields of an article. Only the author
// or staff may edit. Status is changed through SetArticleStatus.
func (a *Admin) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.editableArticle(w, r)
	if !ok {
		return
	}

	var in articleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.apply(existing)

	updated, err := a.articles.Update(r.Context(), existing)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, dataEnvelope{Data: newArticleView(updated, a.articles.Location())})
}

// SetArticleStatus moves an article through its lifecycle. Only the author
// or staff may change status.
func (a *Admin) SetArticleStatus(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.editableArticle(w, r)
	if !ok {
		return
	}

	var in statusInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := models.ParseArticleStatus(in.Status)
	if err != nil {
		writeError(w, r, apperr.Validation("status must be one of draft, review, published"))
		return
	}

	updated, err := a.articles.SetStatus(r.Context(), existing.ID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, dataEnvelope{Data: newArticleView(updated, a.articles.Location())})
}

// editableArticle loads the article named by the {id} URL parameter and
// checks the caller may edit it. It writes the error response itself.
func (a *Admin) editableArticle(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.NotFound("article"))
		return nil, false
	}

	article, err := a.articles.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}

	if !models.CanEditArticle(middleware.IdentityFromCtx(r.Context()), article) {
		writeError(w, r, apperr.AccessDenied("only the author or staff may edit this article"))
		return nil, false
	}
	return article, true
}

// --- Categories (staff only) ---

// CreateCategory adds a category.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := a.categories.Create(r.Context(), &models.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Color:       in.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, dataEnvelope{Data: newCategoryView(created)})
}

// UpdateCategory replaces a category's fields.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.NotFound("category"))
		return
	}

	var in categoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	c := &models.Category{ID: id, Name: in.Name, Slug: in.Slug, Description: in.Description, Color: in.Color}
	if err := a.categories.Update(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, dataEnvelope{Data: newCategoryView(updated)})
}

// DeleteCategory removes a category. Its articles become uncategorized.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.NotFound("category"))
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("category deleted", "category_id", id)
	a.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// invalidate clears cached public responses after a successful write.
func (a *Admin) invalidate(ctx context.Context) {
	if a.pageCache != nil {
		a.pageCache.InvalidateAll(ctx)
	}
}
