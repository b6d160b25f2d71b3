package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestUserIsAdmin verifies that IsAdmin returns true only for the admin role.
func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "admin role", role: RoleAdmin, want: true},
		{name: "editor role", role: RoleEditor, want: false},
		{name: "author role", role: RoleAuthor, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "uppercase ADMIN", role: Role("ADMIN"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsAdmin() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

// TestUserIsStaff verifies that admins and editors are staff and authors are not.
func TestUserIsStaff(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "admin role", role: RoleAdmin, want: true},
		{name: "editor role", role: RoleEditor, want: true},
		{name: "author role", role: RoleAuthor, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "unknown role", role: Role("superadmin"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsStaff(); got != tt.want {
				t.Errorf("User{Role: %q}.IsStaff() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

// TestCanViewDraft covers the draft access predicate.
func TestCanViewDraft(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	article := &Article{AuthorID: author, Status: ArticleStatusDraft}

	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{name: "anonymous", id: Anonymous(), want: false},
		{name: "anonymous claiming author id", id: Identity{UserID: author}, want: false},
		{name: "anonymous claiming staff", id: Identity{IsStaff: true}, want: false},
		{name: "author, not staff", id: Identity{Authenticated: true, UserID: author}, want: true},
		{name: "author and staff", id: Identity{Authenticated: true, UserID: author, IsStaff: true}, want: true},
		{name: "staff, not author", id: Identity{Authenticated: true, UserID: other, IsStaff: true}, want: true},
		{name: "other user", id: Identity{Authenticated: true, UserID: other}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewDraft(tt.id, article); got != tt.want {
				t.Errorf("CanViewDraft(%+v) = %v, want %v", tt.id, got, tt.want)
			}
			if got := CanEditArticle(tt.id, article); got != tt.want {
				t.Errorf("CanEditArticle(%+v) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	if CanViewDraft(Identity{Authenticated: true, IsStaff: true}, nil) {
		t.Error("nil article must never be viewable")
	}
}
