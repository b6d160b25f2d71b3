// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/clock"
	"inkwell/internal/models"
)

// ArticleStore owns article records. It enforces the status state machine,
// stamps publication timestamps, keeps slugs unique per publication day and
// answers visibility-filtered queries.
type ArticleStore struct {
	db    *sql.DB
	clock clock.Clock
	loc   *time.Location
}

// NewArticleStore creates an ArticleStore. loc decides which calendar day a
// publication timestamp falls on; nil means UTC.
func NewArticleStore(db *sql.DB, clk clock.Clock, loc *time.Location) *ArticleStore {
	if loc == nil {
		loc = time.UTC
	}
	return &ArticleStore{db: db, clock: clk, loc: loc}
}

// Location returns the time zone used for publication days.
func (s *ArticleStore) Location() *time.Location {
	return s.loc
}

const articleSelect = `
	SELECT a.id, a.title, a.slug, a.summary, a.body, a.author_id, a.category_id,
	       a.status, a.featured, a.meta_description, a.cover_image, a.reading_time,
	       a.created_at, a.published_at, a.updated_at,
	       u.display_name, COALESCE(c.name, ''), COALESCE(c.slug, '')
	FROM articles a
	JOIN users u ON u.id = a.author_id
	LEFT JOIN categories c ON c.id = a.category_id`

const publishedOrder = ` ORDER BY a.published_at DESC, a.created_at DESC`

// scanArticle scans an articleSelect row.
func scanArticle(row scanner) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Body, &a.AuthorID, &a.CategoryID,
		&a.Status, &a.Featured, &a.MetaDescription, &a.CoverImage, &a.ReadingTime,
		&a.CreatedAt, &a.PublishedAt, &a.UpdatedAt,
		&a.AuthorName, &a.CategoryName, &a.CategorySlug,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleStore) queryArticles(ctx context.Context, op, query string, args ...any) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Create inserts a new article in draft status. Status, timestamps and ID on
// the argument are ignored; a blank slug is derived from the title.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	if err := normalizeArticle(a); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (title, slug, summary, body, author_id, category_id,
		                      status, featured, meta_description, cover_image,
		                      reading_time, created_at, published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULL, $12)
		RETURNING id
	`, a.Title, a.Slug, a.Summary, a.Body, a.AuthorID, a.CategoryID,
		models.ArticleStatusDraft, a.Featured, a.MetaDescription, a.CoverImage,
		a.ReadingTime, now,
	).Scan(&id)
	if err != nil {
		if foreignKeyViolation(err) {
			return nil, apperr.Validation("author or category does not exist")
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves an article by ID regardless of status.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, articleSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("article")
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindDraft returns an article of any status for a caller allowed to preview
// it. Anonymous callers are refused before the lookup so the response does
// not reveal whether the article exists.
func (s *ArticleStore) FindDraft(ctx context.Context, id uuid.UUID, who models.Identity) (*models.Article, error) {
	if !who.Authenticated {
		return nil, apperr.AccessDenied("sign in to preview unpublished articles")
	}
	a, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanViewDraft(who, a) {
		return nil, apperr.AccessDenied("only the author or staff may preview this article")
	}
	return a, nil
}

// ListPublished returns every published article, most recently published first.
func (s *ArticleStore) ListPublished(ctx context.Context) ([]models.Article, error) {
	return s.queryArticles(ctx, "list published articles",
		articleSelect+` WHERE a.status = 'published'`+publishedOrder)
}

// ListPublishedByCategory returns the published articles filed under a
// category, most recently published first.
func (s *ArticleStore) ListPublishedByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Article, error) {
	return s.queryArticles(ctx, "list published articles by category",
		articleSelect+` WHERE a.status = 'published' AND a.category_id = $1`+publishedOrder,
		categoryID)
}

// ListFeatured returns published articles flagged for the homepage.
func (s *ArticleStore) ListFeatured(ctx context.Context) ([]models.Article, error) {
	return s.queryArticles(ctx, "list featured articles",
		articleSelect+` WHERE a.status = 'published' AND a.featured`+publishedOrder)
}

// FindPublishedByDateAndSlug resolves a dated permalink. The date is a
// calendar day in the store's time zone.
func (s *ArticleStore) FindPublishedByDateAndSlug(ctx context.Context, year, month, day int, slug string) (*models.Article, error) {
	start, end := models.DayBounds(year, time.Month(month), day, s.loc)
	// time.Date normalizes out-of-range values (Feb 30 -> Mar 1); such
	// dates never match a real publication day.
	if start.Year() != year || int(start.Month()) != month || start.Day() != day {
		return nil, apperr.NotFound("article")
	}

	a, err := scanArticle(s.db.QueryRowContext(ctx, articleSelect+`
		WHERE a.status = 'published'
		  AND a.slug = $1
		  AND a.published_at >= $2 AND a.published_at < $3
		LIMIT 1`, slug, start, end))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("article")
	}
	if err != nil {
		return nil, fmt.Errorf("find article by date and slug: %w", err)
	}
	return a, nil
}

// Update saves the editable fields of an article: title, slug, summary,
// body, category, featured flag, SEO description, cover image and reading
// time. Status and publication timestamp are left alone. If the article has
// a publication timestamp the new slug must still be free on that day.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) (*models.Article, error) {
	if err := normalizeArticle(a); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := lockArticle(ctx, tx, a.ID)
	if err != nil {
		return nil, err
	}

	if current.PublishedAt != nil && current.Slug != a.Slug {
		if err := s.claimSlug(ctx, tx, a.ID, a.Slug, *current.PublishedAt); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE articles SET
			title = $1, slug = $2, summary = $3, body = $4, category_id = $5,
			featured = $6, meta_description = $7, cover_image = $8,
			reading_time = $9, updated_at = $10
		WHERE id = $11
	`, a.Title, a.Slug, a.Summary, a.Body, a.CategoryID,
		a.Featured, a.MetaDescription, a.CoverImage,
		a.ReadingTime, s.clock.Now(), a.ID,
	)
	if err != nil {
		if foreignKeyViolation(err) {
			return nil, apperr.Validation("category does not exist")
		}
		return nil, fmt.Errorf("update article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article update: %w", err)
	}
	return s.FindByID(ctx, a.ID)
}

// SetStatus moves an article to a new status. The row is locked for the
// duration of the transaction so concurrent transitions serialize. The
// first move into published stamps the publication timestamp and claims the
// slug for that day; later moves never re-stamp.
func (s *ArticleStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ArticleStatus) (*models.Article, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown status %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	a, err := lockArticle(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	from := a.Status
	stamped, err := a.ApplyStatus(status, s.clock.Now())
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	if stamped {
		if err := s.claimSlug(ctx, tx, a.ID, a.Slug, *a.PublishedAt); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE articles SET status = $1, published_at = $2, updated_at = $3
		WHERE id = $4
	`, a.Status, a.PublishedAt, a.UpdatedAt, a.ID)
	if err != nil {
		return nil, fmt.Errorf("update article status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article status: %w", err)
	}

	if from != status {
		slog.Info("article status changed",
			"article_id", id,
			"from", from,
			"to", status,
			"first_publication", stamped,
		)
	}
	return s.FindByID(ctx, id)
}

// lockArticle reads the lifecycle columns of an article with a row lock.
func lockArticle(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Article, error) {
	a := &models.Article{ID: id}
	err := tx.QueryRowContext(ctx, `
		SELECT slug, status, published_at, updated_at
		FROM articles WHERE id = $1
		FOR UPDATE
	`, id).Scan(&a.Slug, &a.Status, &a.PublishedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("article")
	}
	if err != nil {
		return nil, fmt.Errorf("lock article: %w", err)
	}
	return a, nil
}

// claimSlug checks, inside tx, that no other article published on the same
// calendar day as publishedAt uses slug. A transaction-scoped advisory lock
// on the slug serializes concurrent claims for it.
func (s *ArticleStore) claimSlug(ctx context.Context, tx *sql.Tx, id uuid.UUID, slug string, publishedAt time.Time) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, slug); err != nil {
		return fmt.Errorf("lock slug: %w", err)
	}

	y, m, d := publishedAt.In(s.loc).Date()
	start, end := models.DayBounds(y, m, d, s.loc)

	var taken bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM articles
			WHERE slug = $1 AND id <> $2
			  AND published_at >= $3 AND published_at < $4
		)
	`, slug, id, start, end).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check slug for date: %w", err)
	}
	if taken {
		return apperr.DuplicateKey(
			fmt.Sprintf("an article with slug %q was already published on %s", slug, start.Format("2006-01-02")),
			nil,
		)
	}
	return nil
}
