package authController

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	"lms/upstream"
	authValidator "lms/validators/auth"
)

type fakeAuth struct {
	password string
	user     *upstream.User
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (string, *upstream.User, error) {
	if password != f.password {
		return "", nil, &upstream.Error{Status: 401, Message: "No active account found with the given credentials"}
	}
	return "upstream-token", f.user, nil
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", SessionTTL: time.Hour}
	_, err := database.OpenMemory()
	require.NoError(t, err)

	h := NewHandler(&fakeAuth{
		password: "s3cret",
		user:     &upstream.User{ID: "42", Name: "Ada", Email: "ada@example.com", Role: "TEACHER"},
	}, logger.Nop())

	app := fiber.New()
	app.Post("/auth/login", authValidator.Login(), h.Login)
	app.Post("/auth/logout", middleware.JWTMiddleware, h.Logout)
	app.Get("/auth/me", middleware.JWTMiddleware, h.Me)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestLoginLogout(t *testing.T) {
	app := newApp(t)

	resp, body := call(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    " Ada@Example.com ",
		"password": "s3cret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleInstructor, data["user"].(map[string]interface{})["role"])

	var session models.Session
	require.NoError(t, database.Database.Db.Where("user_id = ?", "42").First(&session).Error)
	assert.Equal(t, "upstream-token", session.UpstreamToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	resp, body = call(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, body["data"], "upstream_token")

	resp, _ = call(t, app, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejected(t *testing.T) {
	app := newApp(t)

	resp, _ := call(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	fields := body["data"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	var count int64
	database.Database.Db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)
}
