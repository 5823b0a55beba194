// Package session derives the cookie attributes for stateless session tokens.
// There is no server-side session record; logout is just an expired cookie.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the name of the session cookie carrying the signed token.
const CookieName = "token"

const (
	// RememberLifetime applies when the user asked to stay signed in.
	RememberLifetime = 30 * 24 * time.Hour
	// DefaultLifetime bounds a normal session to a predictable expiry instead
	// of an unbounded browser-session cookie.
	DefaultLifetime = 24 * time.Hour
)

// Lifetime returns the cookie lifetime for the remember flag.
func Lifetime(remember bool) time.Duration {
	if remember {
		return RememberLifetime
	}
	return DefaultLifetime
}

// CookiePolicy builds session cookies with the transport settings the
// environment requires. The secure flag comes from configuration; the policy
// only carries it through.
type CookiePolicy struct {
	secure bool
	now    func() time.Time
}

// NewCookiePolicy constructs a policy with the given secure-transport flag.
func NewCookiePolicy(secure bool) *CookiePolicy {
	return &CookiePolicy{secure: secure, now: time.Now}
}

// WithClock returns a copy of the policy using the provided time source.
func (p *CookiePolicy) WithClock(now func() time.Time) *CookiePolicy {
	return &CookiePolicy{secure: p.secure, now: now}
}

// Issue returns the cookie storing the token value for the session lifetime.
func (p *CookiePolicy) Issue(value string, remember bool) *fiber.Cookie {
	lifetime := Lifetime(remember)

	return &fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  p.now().Add(lifetime),
		MaxAge:   int(lifetime / time.Second),
		HTTPOnly: true,
		Secure:   p.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Clear returns an already-expired empty cookie that removes the session.
func (p *CookiePolicy) Clear() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  p.now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   p.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
