// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the caller identity.
	IdentityKey contextKey = "identity"
)

// SessionSource looks up the session attached to a request.
// *session.Store satisfies it.
type SessionSource interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadIdentity resolves the caller of each request and stores it in the
// request context. A bearer token is used when present and tokens is
// non-nil; otherwise the session cookie is consulted. This middleware does
// NOT enforce authentication: callers without credentials continue as
// anonymous. A bearer token that fails verification is rejected with 401.
func LoadIdentity(sessions SessionSource, tokens *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := models.Anonymous()

			if raw, ok := bearerToken(r); ok && tokens != nil {
				verified, err := tokens.Verify(raw)
				if err != nil {
					slog.Debug("bearer token rejected", "error", err)
					writeJSONError(w, http.StatusUnauthorized, apperr.CodeUnauthorized, "invalid or expired token")
					return
				}
				id = verified
			} else if sessions != nil {
				data, err := sessions.Get(r.Context(), r)
				if err != nil {
					// Log but don't block: treat as anonymous.
					slog.Warn("session lookup failed", "error", err)
				}
				id = data.Identity()
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
// Must be applied after LoadIdentity in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromCtx(r.Context()).Authenticated {
			writeJSONError(w, http.StatusUnauthorized, apperr.CodeUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff returns 403 if the caller is not an admin or editor.
// Must be applied after RequireAuth.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromCtx(r.Context())
		if !id.Authenticated || !id.IsStaff {
			writeJSONError(w, http.StatusForbidden, apperr.CodeAccessDenied, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromCtx extracts the caller identity from the request context.
// Returns an anonymous identity if none was loaded.
func IdentityFromCtx(ctx context.Context) models.Identity {
	id, _ := ctx.Value(IdentityKey).(models.Identity)
	return id
}

// bearerToken returns the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// writeJSONError writes the same error envelope the handlers use.
func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// code and msg are constants from this package; no escaping needed.
	w.Write([]byte(`{"error":"` + msg + `","code":"` + code + `"}`))
}
