// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/clock"
	"inkwell/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db    *sql.DB
	clock clock.Clock
}

// NewCategoryStore returns a new CategoryStore. clk stamps created_at and
// updated_at; nil means the system clock.
func NewCategoryStore(db *sql.DB, clk clock.Clock) *CategoryStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &CategoryStore{db: db, clock: clk}
}

// categorySelect reads every column plus a live count of published articles.
const categorySelect = `
	SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM articles a
	        WHERE a.category_id = c.id AND a.status = 'published') AS published_count
	FROM categories c`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
		&c.CreatedAt, &c.UpdatedAt, &c.PublishedCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered alphabetically by name, each with its
// published article count.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+` ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by its slug.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, categorySelect+` WHERE c.slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by ID.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, categorySelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// PublishedArticleCount returns the number of published articles filed under
// the category. It is computed on every call.
func (s *CategoryStore) PublishedArticleCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles
		WHERE category_id = $1 AND status = 'published'
	`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published articles: %w", err)
	}
	return count, nil
}

// Create inserts a new category and returns it. A blank slug is derived
// from the name and a blank color gets the default.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := normalizeCategory(c); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, name, slug, description, color, created_at, updated_at
	`, c.Name, c.Slug, c.Description, c.Color, now).Scan(
		&result.ID, &result.Name, &result.Slug, &result.Description,
		&result.Color, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, categoryWriteError("create category", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	if err := normalizeCategory(c); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4, updated_at = $5
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.Color, s.clock.Now(), c.ID)
	if err != nil {
		return categoryWriteError("update category", err)
	}
	return requireRow(res, "category")
}

// Delete removes a category by ID. Articles filed under it keep existing
// with no category (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category")
}

// categoryWriteError maps unique violations on name or slug to DuplicateKey.
func categoryWriteError(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case "categories_name_key":
			return apperr.DuplicateKey("a category with this name already exists", err)
		case "categories_slug_key":
			return apperr.DuplicateKey("a category with this slug already exists", err)
		default:
			return apperr.DuplicateKey("category already exists", err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireRow returns NotFound when an UPDATE or DELETE matched nothing.
func requireRow(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
