package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kinerja-go-api/internal/access"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/session"
	"github.com/noah-isme/kinerja-go-api/internal/token"
)

func newGateApp(t *testing.T) (*fiber.App, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	engine := access.NewEngine(access.Rules{
		Passthrough: []string{"/healthz"},
		Public:      []string{"/login"},
		AdminScoped: []string{"/admin", "/settings"},
		StrictAdmin: []string{"/settings"},
	})

	app := fiber.New()
	app.Use(Session(codec, session.NewCookiePolicy(false)))
	app.Use(AccessControl(engine, "/login", "/dashboard"))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/login", func(c *fiber.Ctx) error { return c.SendString("login") })
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		claims := ClaimsFromContext(c)
		if claims == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(claims.Email)
	})
	app.Get("/admin/users", func(c *fiber.Ctx) error { return c.SendString("admin") })
	app.Get("/settings", func(c *fiber.Ctx) error { return c.SendString("settings") })

	return app, codec
}

func sessionCookie(t *testing.T, codec *token.Codec, role models.Role) *http.Cookie {
	t.Helper()
	signed, err := codec.Issue(token.Claims{UserID: 1, Email: "ana@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: signed}
}

func doRequest(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	app, _ := newGateApp(t)

	resp := doRequest(t, app, "/dashboard", nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestGateAllowsValidSession(t *testing.T) {
	app, codec := newGateApp(t)

	resp := doRequest(t, app, "/dashboard", sessionCookie(t, codec, models.RoleUser))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateClearsTamperedCookie(t *testing.T) {
	app, codec := newGateApp(t)

	cookie := sessionCookie(t, codec, models.RoleUser)
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	resp := doRequest(t, app, "/dashboard", cookie)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	setCookie := resp.Header.Get("Set-Cookie")
	require.Contains(t, setCookie, session.CookieName+"=")
	require.Contains(t, strings.ToLower(setCookie), "max-age")
}

func TestGateRejectsResetTokenAsSession(t *testing.T) {
	app, codec := newGateApp(t)

	signed, _, err := codec.IssueReset(models.User{ID: 1, Email: "ana@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	resp := doRequest(t, app, "/dashboard", &http.Cookie{Name: session.CookieName, Value: signed})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestGateRedirectsSignedInUserOffLogin(t *testing.T) {
	app, codec := newGateApp(t)

	resp := doRequest(t, app, "/login", sessionCookie(t, codec, models.RoleUser))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestGateLoginOpenForAnonymous(t *testing.T) {
	app, _ := newGateApp(t)

	resp := doRequest(t, app, "/login", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateAdminScope(t *testing.T) {
	app, codec := newGateApp(t)

	resp := doRequest(t, app, "/admin/users", sessionCookie(t, codec, models.RoleUser))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = doRequest(t, app, "/admin/users", sessionCookie(t, codec, models.RoleAdminHR))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateStrictAdminScope(t *testing.T) {
	app, codec := newGateApp(t)

	resp := doRequest(t, app, "/settings", sessionCookie(t, codec, models.RoleAdminHR))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = doRequest(t, app, "/settings", sessionCookie(t, codec, models.RoleAdmin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGatePassthroughSkipsEverything(t *testing.T) {
	app, codec := newGateApp(t)

	resp := doRequest(t, app, "/healthz", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, codec, models.RoleUser)
	cookie.Value = "garbage"
	resp = doRequest(t, app, "/healthz", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
