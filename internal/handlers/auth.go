package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// SessionWriter creates and destroys cookie sessions. *session.Store
// satisfies it.
type SessionWriter interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// UserFinder looks up accounts by email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Auth groups the session endpoints that feed the identity middleware.
type Auth struct {
	sessions SessionWriter
	users    UserFinder
	tokens   *middleware.TokenVerifier
	tokenTTL time.Duration
}

// NewAuth creates a new Auth handler group. tokens may be nil, in which
// case login only sets the session cookie.
func NewAuth(sessions SessionWriter, users UserFinder, tokens *middleware.TokenVerifier) *Auth {
	return &Auth{
		sessions: sessions,
		users:    users,
		tokens:   tokens,
		tokenTTL: session.DefaultTTL,
	}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

type identityView struct {
	UserID    uuid.UUID `json:"user_id"`
	Staff     bool      `json:"staff"`
	CSRFToken string    `json:"csrf_token,omitempty"`
}

// Login checks an email and password, starts a cookie session and, when
// bearer tokens are enabled, returns a signed token as well.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		writeError(w, r, apperr.Validation("email and password are required"))
		return
	}

	user, err := a.users.FindByEmail(r.Context(), in.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		writeError(w, r, err)
		return
	}
	if user == nil || !store.CheckPassword(user, in.Password) {
		slog.Info("login failed", "email", in.Email)
		writeError(w, r, apperr.Unauthorized("invalid email or password"))
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	out := loginResult{User: user}
	if a.tokens != nil {
		token, err := a.tokens.Issue(user.ID, user.IsStaff(), a.tokenTTL)
		if err != nil {
			writeError(w, r, err)
			return
		}
		exp := time.Now().Add(a.tokenTTL)
		out.Token, out.ExpiresAt = token, &exp
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, dataEnvelope{Data: out})
}

// Logout destroys the caller's session, if any.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller identity and the CSRF token cookie clients must
// echo on writes.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	who := middleware.IdentityFromCtx(r.Context())
	writeJSON(w, http.StatusOK, dataEnvelope{Data: identityView{
		UserID:    who.UserID,
		Staff:     who.IsStaff,
		CSRFToken: middleware.CSRFTokenFromCtx(r.Context()),
	}})
}
