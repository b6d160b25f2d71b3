// Package session provides Valkey-backed HTTP sessions. Sessions are
// identified by a secure cookie and stored as JSON in Valkey with automatic
// TTL expiry. Sessions are issued by the password login endpoint and read
// back by the identity middleware on every request.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "iw_session"

	// DefaultTTL is how long a session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload stored in Valkey.
type Data struct {
	UserID      uuid.UUID   `json:"user_id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Identity converts the session into a request identity. A nil session is
// anonymous.
func (d *Data) Identity() models.Identity {
	if d == nil || d.UserID == uuid.Nil {
		return models.Anonymous()
	}
	return models.Identity{
		Authenticated: true,
		UserID:        d.UserID,
		IsStaff:       d.Role.IsStaff(),
	}
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks the cookie Secure, for deployments behind TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create stores a new session in Valkey and sets the session cookie on the
// response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data from Valkey using the session ID from the
// request cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
