// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3498db"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category is a named grouping of articles. Articles can have at most one
// category assigned.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	PublishedCount int `json:"published_count"`
}

// URLPath returns the public listing path for the category.
func (c *Category) URLPath() string {
	return "/category/" + c.Slug + "/"
}

// ValidColor reports whether s is a #RRGGBB hex color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}
