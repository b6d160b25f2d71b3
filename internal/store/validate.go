package store

import (
	"strings"
	"unicode/utf8"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// Field limits for categories and articles.
const (
	maxCategoryNameLen = 100
	maxCategorySlugLen = 100
	maxCategoryDescLen = 500
	maxTitleLen        = 200
	maxSlugLen         = 200
	maxSummaryLen      = 500
	maxMetaDescLen     = 300
	maxReadingTime     = 1000
)

// normalizeCategory trims input, fills defaults and checks field limits.
func normalizeCategory(c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.TrimSpace(c.Slug)
	c.Description = strings.TrimSpace(c.Description)
	c.Color = strings.TrimSpace(c.Color)

	if c.Name == "" {
		return apperr.Validation("category name is required")
	}
	if utf8.RuneCountInString(c.Name) > maxCategoryNameLen {
		return apperr.Validation("category name is too long (max %d characters)", maxCategoryNameLen)
	}
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	if err := checkSlug(c.Slug, maxCategorySlugLen); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Description) > maxCategoryDescLen {
		return apperr.Validation("category description is too long (max %d characters)", maxCategoryDescLen)
	}
	if c.Color == "" {
		c.Color = models.DefaultCategoryColor
	}
	if !models.ValidColor(c.Color) {
		return apperr.Validation("category color must be a hex color like %s", models.DefaultCategoryColor)
	}
	return nil
}

// normalizeArticle trims the editable fields of a, fills defaults and
// checks field limits. Status and timestamps are not touched.
func normalizeArticle(a *models.Article) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Slug = strings.TrimSpace(a.Slug)
	a.Summary = strings.TrimSpace(a.Summary)
	a.MetaDescription = strings.TrimSpace(a.MetaDescription)

	if a.Title == "" {
		return apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(a.Title) > maxTitleLen {
		return apperr.Validation("title is too long (max %d characters)", maxTitleLen)
	}
	if a.Slug == "" {
		a.Slug = slug.Generate(a.Title)
	}
	if err := checkSlug(a.Slug, maxSlugLen); err != nil {
		return err
	}
	if a.Summary == "" {
		return apperr.Validation("summary is required")
	}
	if utf8.RuneCountInString(a.Summary) > maxSummaryLen {
		return apperr.Validation("summary is too long (max %d characters)", maxSummaryLen)
	}
	if utf8.RuneCountInString(a.MetaDescription) > maxMetaDescLen {
		return apperr.Validation("meta description is too long (max %d characters)", maxMetaDescLen)
	}
	if a.CoverImage != nil && strings.TrimSpace(*a.CoverImage) == "" {
		a.CoverImage = nil
	}
	if a.ReadingTime == 0 {
		a.ReadingTime = models.DefaultReadingTime
	}
	if a.ReadingTime < 0 {
		return apperr.Validation("reading time must be a positive number of minutes")
	}
	if a.ReadingTime > maxReadingTime {
		return apperr.Validation("reading time is too long (max %d minutes)", maxReadingTime)
	}
	return nil
}

func checkSlug(s string, maxLen int) error {
	if s == "" {
		return apperr.Validation("slug could not be derived; please provide one")
	}
	if len(s) > maxLen {
		return apperr.Validation("slug is too long (max %d characters)", maxLen)
	}
	if !slug.Valid(s) {
		return apperr.Validation("slug %q may only contain lowercase letters, digits and single hyphens", s)
	}
	return nil
}
