package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginForm(email, pass string) url.Values {
	return url.Values{"email": {email}, "password": {pass}}
}

func TestLoginStoresTokenAndRedirects(t *testing.T) {
	c := newConsole(t)

	resp := c.postForm("/login", loginForm(adminEmail, adminPass))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	tok, err := c.deps.Settings.Token(c.ctx())
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	// The stored token now guards /admin and is sent as a bearer header.
	resp = c.get("/admin/meals")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, c.api.count("GET /api/meals"))

	// Signed-in browsers skip the login page.
	resp = c.get("/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	c := newConsole(t)

	resp := c.postForm("/login", loginForm(adminEmail, "wrongpass!"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid email or password.")

	tok, err := c.deps.Settings.Token(c.ctx())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestLoginRejectsMalformedEmailWithoutCallingBackend(t *testing.T) {
	c := newConsole(t)

	resp := c.postForm("/login", loginForm("not-an-email", adminPass))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, c.api.count("POST /api/auth/login"))
}

func TestLoginThrottle(t *testing.T) {
	c := newConsoleWithGuard(t, limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}))

	for i := 0; i < 2; i++ {
		resp := c.postForm("/login", loginForm(adminEmail, "wrongpass!"))
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i)
	}
	resp := c.postForm("/login", loginForm(adminEmail, adminPass))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestLogoutClearsToken(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	resp := c.postForm("/logout", url.Values{})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	tok, err := c.deps.Settings.Token(c.ctx())
	require.NoError(t, err)
	assert.Empty(t, tok)

	resp = c.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
