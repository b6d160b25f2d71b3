package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"inkwell/internal/apperr"
)

const (
	// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "iw_csrf"

	// CSRFHeaderName is the header clients echo the CSRF token in.
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenKey contextKey = "csrf_token"
)

// NewCSRF returns double-submit cookie CSRF protection for cookie-session
// callers. It sets a token cookie and requires state-changing requests
// (POST, PUT, PATCH, DELETE) to echo it in the X-CSRF-Token header.
// Requests carrying a bearer token are exempt since browsers never attach
// that header cross-site. secure marks the cookie Secure.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bearerToken(r); ok {
				next.ServeHTTP(w, r)
				return
			}

			// Ensure a CSRF token cookie exists.
			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				token, err := generateCSRFToken()
				if err != nil {
					writeJSONError(w, http.StatusInternalServerError, apperr.CodeInternal, "an unexpected error occurred")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // clients read it to echo in the header
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
				cookie = &http.Cookie{Value: token}
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey, cookie.Value))

			// Safe methods don't need CSRF validation.
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(CSRFHeaderName)
			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
				writeJSONError(w, http.StatusForbidden, "CSRF_MISMATCH", "CSRF token mismatch")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFTokenFromCtx returns the CSRF token for the current request, or ""
// outside the CSRF middleware.
func CSRFTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey).(string)
	return token
}

// generateCSRFToken creates a cryptographically random token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
