package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// identityClaims is the JWT payload accepted as a caller identity.
type identityClaims struct {
	jwt.RegisteredClaims

	Staff bool `json:"staff"`
}

// TokenVerifier issues and checks HS256 bearer tokens and turns them into
// request identities. The subject claim carries the user ID.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier returns a verifier for tokens signed with secret, or nil
// when secret is empty (bearer identities disabled).
func NewTokenVerifier(secret string) *TokenVerifier {
	if secret == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret)}
}

// Issue signs a token for userID valid for ttl. The login endpoint hands
// these out to API clients.
func (v *TokenVerifier) Issue(userID uuid.UUID, staff bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Staff: staff,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns the identity it
// carries.
func (v *TokenVerifier) Verify(raw string) (models.Identity, error) {
	var claims identityClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Identity{}, errors.New("invalid token: subject is not a user id")
	}

	return models.Identity{
		Authenticated: true,
		UserID:        userID,
		IsStaff:       claims.Staff,
	}, nil
}
