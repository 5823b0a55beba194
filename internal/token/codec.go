// Package token issues and verifies the signed session tokens carried by the
// session cookie. Verification is a pure function of (token, secret, now), so
// the same codec runs unchanged in the edge request filter and in the full
// request-handling path without drifting apart.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

// PurposePasswordReset marks a single-use token issued for the reset flow.
const PurposePasswordReset = "password-reset"

// ResetTokenTTL is the fixed lifetime of password-reset tokens, regardless of
// any "remember me" semantics.
const ResetTokenTTL = time.Hour

// ErrInvalidToken is returned for any token that fails signature, shape or
// expiry checks. Callers decide the HTTP-level consequence.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload carried inside a session token. Claims are
// immutable once issued.
type Claims struct {
	UserID    uint
	Email     string
	Role      models.Role
	Purpose   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsPasswordReset reports whether the claims describe a reset token rather
// than a normal session.
func (c Claims) IsPasswordReset() bool {
	return c.Purpose == PurposePasswordReset
}

type jwtClaims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec from the configured signing secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token signing secret must not be empty")
	}

	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// WithClock returns a copy of the codec using the provided time source.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	return &Codec{secret: c.secret, now: now}
}

// Issue produces a signed token for the claims with expiry now+ttl.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()

	payload := jwtClaims{
		Email:   claims.Email,
		Role:    string(claims.Role),
		Purpose: claims.Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
			ID:        claims.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.secret)
}

// IssueReset produces a single-use password-reset token with a fixed lifetime
// and a fresh token id so the calling layer can record consumption.
func (c *Codec) IssueReset(user models.User) (string, Claims, error) {
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Purpose: PurposePasswordReset,
		TokenID: uuid.NewString(),
	}

	signed, err := c.Issue(claims, ResetTokenTTL)
	if err != nil {
		return "", Claims{}, err
	}

	return signed, claims, nil
}

// Verify checks signature integrity and expiry, returning the embedded claims.
// Any failure collapses to ErrInvalidToken; Verify never panics or propagates
// parser internals across the boundary.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	payload, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(payload.Subject, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	role := models.Role(payload.Role)
	if !role.Valid() {
		return Claims{}, ErrInvalidToken
	}

	if payload.ExpiresAt == nil || payload.IssuedAt == nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID:    uint(userID),
		Email:     payload.Email,
		Role:      role,
		Purpose:   payload.Purpose,
		TokenID:   payload.ID,
		IssuedAt:  payload.IssuedAt.Time,
		ExpiresAt: payload.ExpiresAt.Time,
	}, nil
}
