package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// UserStore handles author accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userSelect = `
	SELECT id, email, password_hash, display_name, role, created_at, updated_at
	FROM users`

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by email address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE email = $1`, strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password. Emails are
// stored lowercased.
func (s *UserStore) Create(ctx context.Context, email, password, displayName string, role models.Role) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || displayName == "" {
		return nil, apperr.Validation("email and display name are required")
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}
	switch role {
	case models.RoleAdmin, models.RoleEditor, models.RoleAuthor:
	default:
		return nil, apperr.Validation("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, display_name, role, created_at, updated_at
	`, email, string(hash), displayName, role))
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, apperr.DuplicateKey("a user with this email already exists", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Delete removes a user by ID. Their articles are removed with them.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, "user")
}
