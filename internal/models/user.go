// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
)

// User is an account that can author articles.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStaff reports whether the role grants editorial access to other
// people's articles.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEditor
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff returns true for admins and editors.
func (u *User) IsStaff() bool {
	return u.Role.IsStaff()
}

// Identity describes the caller of a request as supplied by the identity
// collaborator. The zero value is an anonymous caller.
type Identity struct {
	Authenticated bool
	UserID        uuid.UUID
	IsStaff       bool
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// CanViewDraft reports whether id may see article regardless of its status:
// the caller must be authenticated and be either the author or staff.
func CanViewDraft(id Identity, article *Article) bool {
	if !id.Authenticated || article == nil {
		return false
	}
	return id.IsStaff || id.UserID == article.AuthorID
}

// CanEditArticle reports whether id may change article. Editing follows the
// same rule as previewing.
func CanEditArticle(id Identity, article *Article) bool {
	return CanViewDraft(id, article)
}
