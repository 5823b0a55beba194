// Package access decides, per request, whether to allow, redirect or reject
// based on the request path and the verified session claims. The decision is
// terminal in one step; there is no multi-step negotiation.
package access

import (
	"strings"

	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/token"
)

// Decision is the outcome of one access check.
type Decision int

const (
	// Allow lets the request proceed to its handler.
	Allow Decision = iota
	// RedirectToLogin sends an unauthenticated request to the login page.
	RedirectToLogin
	// RedirectToDefault sends the request to the signed-in default page.
	RedirectToDefault
	// Forbidden rejects the request with no redirect.
	Forbidden
)

// String names the decision for logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToDefault:
		return "redirect_default"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Rules is the declared path tables the engine evaluates, each an ordered
// list of literal, case-sensitive prefixes.
type Rules struct {
	// Passthrough paths (assets, machine-to-machine API) bypass the decision
	// table entirely and always resolve to Allow.
	Passthrough []string
	// Public paths (login, password reset) are reachable without a session.
	Public []string
	// AdminScoped paths require an admin-scoped role.
	AdminScoped []string
	// StrictAdmin sub-paths additionally require the full ADMIN role. They
	// only apply inside the admin scope.
	StrictAdmin []string
}

// Engine evaluates the rule table. It holds no mutable state and is safe for
// unbounded concurrent use.
type Engine struct {
	rules Rules
}

// NewEngine builds an engine over the declared path tables.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Decide returns the access decision for the path. claims is nil when the
// request carries no verified session.
//
// Order matters: the public short-circuit precedes the generic
// authentication requirement so login and reset pages stay reachable, and
// the strictly-admin check is nested inside the admin scope because some
// admin prefixes are shared by both admin roles.
func (e *Engine) Decide(path string, claims *token.Claims) Decision {
	if matchesPrefix(path, e.rules.Passthrough) {
		return Allow
	}

	authenticated := claims != nil

	if matchesPrefix(path, e.rules.Public) {
		if authenticated {
			return RedirectToDefault
		}
		return Allow
	}

	if !authenticated {
		return RedirectToLogin
	}

	if matchesPrefix(path, e.rules.AdminScoped) {
		if !claims.Role.IsAdminScoped() {
			return RedirectToDefault
		}
		if matchesPrefix(path, e.rules.StrictAdmin) && claims.Role != models.RoleAdmin {
			return RedirectToDefault
		}
		return Allow
	}

	return Allow
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
