// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the editorial state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusReview    ArticleStatus = "review"
	ArticleStatusPublished ArticleStatus = "published"
)

// DefaultReadingTime is the estimated reading time, in minutes, given to new
// articles that do not specify one.
const DefaultReadingTime = 5

// statusTransitions lists the allowed target states for each source state.
// Editorial workflow is not linear, so every edge is currently open.
var statusTransitions = map[ArticleStatus][]ArticleStatus{
	ArticleStatusDraft:     {ArticleStatusDraft, ArticleStatusReview, ArticleStatusPublished},
	ArticleStatusReview:    {ArticleStatusDraft, ArticleStatusReview, ArticleStatusPublished},
	ArticleStatusPublished: {ArticleStatusDraft, ArticleStatusReview, ArticleStatusPublished},
}

// ParseArticleStatus converts a raw string into an ArticleStatus, rejecting
// anything outside the known set.
func ParseArticleStatus(s string) (ArticleStatus, error) {
	st := ArticleStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown article status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether an article in state from may move to state to.
func CanTransition(from, to ArticleStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Article is a content record with a publication lifecycle.
type Article struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Summary         string        `json:"summary"`
	Body            string        `json:"body"`
	AuthorID        uuid.UUID     `json:"author_id"`
	CategoryID      *uuid.UUID    `json:"category_id,omitempty"`
	Status          ArticleStatus `json:"status"`
	Featured        bool          `json:"featured"`
	MetaDescription string        `json:"meta_description"`
	CoverImage      *string       `json:"cover_image,omitempty"`
	ReadingTime     int           `json:"reading_time"`
	CreatedAt       time.Time     `json:"created_at"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Virtual fields populated by store joins.
	AuthorName   string `json:"author_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	CategorySlug string `json:"category_slug,omitempty"`
}

// IsPublished returns true if the article is publicly visible.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// ApplyStatus moves the article to the target status at time now. The first
// move into published stamps PublishedAt; later moves never overwrite it.
// UpdatedAt is always refreshed. It reports whether PublishedAt was stamped
// by this call.
func (a *Article) ApplyStatus(to ArticleStatus, now time.Time) (stamped bool, err error) {
	if !to.Valid() {
		return false, fmt.Errorf("unknown article status %q", to)
	}
	if !CanTransition(a.Status, to) {
		return false, fmt.Errorf("transition %s -> %s not allowed", a.Status, to)
	}

	a.Status = to
	if to == ArticleStatusPublished && a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
		stamped = true
	}
	a.UpdatedAt = now
	return stamped, nil
}

// PublicationDay returns the calendar date of PublishedAt in loc, or false if
// the article has never been published.
func (a *Article) PublicationDay(loc *time.Location) (year int, month time.Month, day int, ok bool) {
	if a.PublishedAt == nil {
		return 0, 0, 0, false
	}
	y, m, d := a.PublishedAt.In(loc).Date()
	return y, m, d, true
}

// URLPath returns the canonical path for the article: the dated permalink
// once it has a publication timestamp, the draft preview path otherwise.
func (a *Article) URLPath(loc *time.Location) string {
	if y, m, d, ok := a.PublicationDay(loc); ok {
		return fmt.Sprintf("/%d/%d/%d/%s/", y, int(m), d, a.Slug)
	}
	return fmt.Sprintf("/draft/%s/", a.ID)
}

// DayBounds returns the half-open interval [start, end) covering the given
// calendar date in loc.
func DayBounds(year int, month time.Month, day int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
