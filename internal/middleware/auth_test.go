package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quill/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthApp(t *testing.T, jtiLookup func(context.Context, string) (bool, error)) *fiber.App {
	t.Helper()

	InitMiddleware(&config.Config{JWTSecret: testSecret}, jtiLookup)

	app := fiber.New()
	app.Get("/protected", AuthRequired, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    c.Locals("userID"),
			"profile_id": c.Locals("profileID"),
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "12",
		"pid": "34",
		"jti": "jti-fresh",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthRequired(t *testing.T) {
	neverUsed := func(_ context.Context, _ string) (bool, error) { return false, nil }

	t.Run("valid token passes", func(t *testing.T) {
		app := newAuthApp(t, neverUsed)
		resp := doRequest(t, app, "Bearer "+signToken(t, testSecret, validClaims()))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		app := newAuthApp(t, neverUsed)
		resp := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newAuthApp(t, neverUsed)
		resp := doRequest(t, app, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong signature", func(t *testing.T) {
		app := newAuthApp(t, neverUsed)
		resp := doRequest(t, app, "Bearer "+signToken(t, "other-secret", validClaims()))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		app := newAuthApp(t, neverUsed)
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		resp := doRequest(t, app, "Bearer "+signToken(t, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("consumed jti is rejected", func(t *testing.T) {
		used := func(_ context.Context, jti string) (bool, error) { return jti == "jti-fresh", nil }
		app := newAuthApp(t, used)
		resp := doRequest(t, app, "Bearer "+signToken(t, testSecret, validClaims()))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("jti lookup failure does not let the token through", func(t *testing.T) {
		broken := func(_ context.Context, _ string) (bool, error) { return false, assert.AnError }
		app := newAuthApp(t, broken)
		resp := doRequest(t, app, "Bearer "+signToken(t, testSecret, validClaims()))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		app := newAuthApp(t, neverUsed)
		claims := validClaims()
		claims["sub"] = "abc"
		resp := doRequest(t, app, "Bearer "+signToken(t, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestOptionalAuth(t *testing.T) {
	neverUsed := func(_ context.Context, _ string) (bool, error) { return false, nil }
	InitMiddleware(&config.Config{JWTSecret: testSecret}, neverUsed)

	app := fiber.New()
	app.Get("/open", OptionalAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    c.Locals("userID"),
			"profile_id": c.Locals("profileID"),
		})
	})

	request := func(t *testing.T, authHeader string) *http.Response {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("anonymous request passes with no identity", func(t *testing.T) {
		resp := request(t, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Nil(t, body["user_id"])
		assert.Nil(t, body["profile_id"])
	})

	t.Run("valid token resolves identity", func(t *testing.T) {
		resp := request(t, "Bearer "+signToken(t, testSecret, validClaims()))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(12), body["user_id"])
		assert.Equal(t, float64(34), body["profile_id"])
	})

	t.Run("a bad token is rejected, not treated as anonymous", func(t *testing.T) {
		resp := request(t, "Bearer "+signToken(t, "other-secret", validClaims()))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
