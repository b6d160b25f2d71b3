// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory fakes for the stores and the page cache, and request helpers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

var errBoom = errors.New("connection refused: 10.0.0.5:5432")

// fakeArticles is an in-memory article store with the same visibility
// rules as the database-backed one.
type fakeArticles struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Article
	now   time.Time
	err   error // returned by every method when set
	calls int
}

func newFakeArticles() *fakeArticles {
	return &fakeArticles{
		items: make(map[uuid.UUID]*models.Article),
		now:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// add stores a copy of a, filling ID and timestamps, and returns the copy.
func (f *fakeArticles) add(a models.Article) *models.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = models.ArticleStatusDraft
	}
	if a.Status == models.ArticleStatusPublished && a.PublishedAt == nil {
		t := f.now
		a.PublishedAt = &t
	}
	f.items[a.ID] = &a
	return &a
}

func (f *fakeArticles) published(keep func(*models.Article) bool) ([]models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Article
	for _, a := range f.items {
		if a.IsPublished() && keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(*out[j].PublishedAt) })
	return out, nil
}

func (f *fakeArticles) ListPublished(context.Context) ([]models.Article, error) {
	return f.published(func(*models.Article) bool { return true })
}

func (f *fakeArticles) ListPublishedByCategory(_ context.Context, id uuid.UUID) ([]models.Article, error) {
	return f.published(func(a *models.Article) bool { return a.CategoryID != nil && *a.CategoryID == id })
}

func (f *fakeArticles) ListFeatured(context.Context) ([]models.Article, error) {
	return f.published(func(a *models.Article) bool { return a.Featured })
}

func (f *fakeArticles) FindPublishedByDateAndSlug(_ context.Context, y, m, d int, slug string) (*models.Article, error) {
	list, err := f.published(func(a *models.Article) bool {
		py, pm, pd, _ := a.PublicationDay(time.UTC)
		return a.Slug == slug && py == y && int(pm) == m && pd == d
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.NotFound("article")
	}
	return &list[0], nil
}

func (f *fakeArticles) FindDraft(ctx context.Context, id uuid.UUID, who models.Identity) (*models.Article, error) {
	if !who.Authenticated {
		return nil, apperr.AccessDenied("sign in to preview unpublished articles")
	}
	a, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanViewDraft(who, a) {
		return nil, apperr.AccessDenied("only the author or staff may preview this article")
	}
	return a, nil
}

func (f *fakeArticles) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("article")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(a.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	cp := *a
	cp.ID = uuid.Nil
	cp.Status = models.ArticleStatusDraft
	cp.PublishedAt = nil
	cp.CreatedAt, cp.UpdatedAt = f.now, f.now
	return f.add(cp), nil
}

func (f *fakeArticles) Update(_ context.Context, a *models.Article) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cur, ok := f.items[a.ID]
	if !ok {
		return nil, apperr.NotFound("article")
	}
	cp := *a
	cp.Status, cp.PublishedAt, cp.CreatedAt = cur.Status, cur.PublishedAt, cur.CreatedAt
	cp.UpdatedAt = f.now
	f.items[a.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeArticles) SetStatus(_ context.Context, id uuid.UUID, status models.ArticleStatus) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("article")
	}
	if _, err := a.ApplyStatus(status, f.now); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeArticles) Location() *time.Location { return time.UTC }

// fakeCategories is an in-memory category store.
type fakeCategories struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Category
	err   error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{items: make(map[uuid.UUID]*models.Category)}
}

func (f *fakeCategories) add(c models.Category) *models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.items[c.ID] = &c
	return &c
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Category
	for _, c := range f.items {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("category")
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("category")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) conflict(c *models.Category) error {
	for _, other := range f.items {
		if other.ID != c.ID && (other.Name == c.Name || other.Slug == c.Slug) {
			return apperr.DuplicateKey("category already exists", nil)
		}
	}
	return nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	if err := f.conflict(c); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.mu.Unlock()
	return f.add(*c), nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[c.ID]; !ok {
		return apperr.NotFound("category")
	}
	if err := f.conflict(c); err != nil {
		return err
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("category")
	}
	delete(f.items, id)
	return nil
}

// fakeCache is an in-memory PageCache.
type fakeCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *fakeCache) Set(_ context.Context, key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
}

func (c *fakeCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.invalidations++
}

// withURLParams adds chi URL parameters to a request, given as key/value pairs.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// as attaches a caller identity to a request.
func as(r *http.Request, id models.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), id))
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rd)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

// errorBody is the decoded error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func staff() models.Identity {
	return models.Identity{Authenticated: true, UserID: uuid.New(), IsStaff: true}
}

func user(id uuid.UUID) models.Identity {
	return models.Identity{Authenticated: true, UserID: id}
}
