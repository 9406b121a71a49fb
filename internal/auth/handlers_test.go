package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"opps-backend/internal/middleware"
	"opps-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserFinder returns the configured user when the password is
// "password123", the matching sentinel otherwise.
type fakeUserFinder struct {
	user *models.User
	err  error
}

func (f *fakeUserFinder) FindByEmailAndPassword(email, password string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && f.user.Email == email && password == "password123" {
		return f.user, nil
	}
	if f.user != nil && f.user.Email == email {
		return nil, ErrIncorrectPassword
	}
	return nil, ErrInvalidEmail
}

func setupAuthHandlers(t *testing.T, finder UserFinder) (*Handlers, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Handlers{
		UserFinder: finder,
		Rdb:        rdb,
		Config:     middleware.SessionConfig{},
	}, rdb
}

func doLogin(t *testing.T, app *fiber.App, body map[string]string) (int, map[string]interface{}, []string) {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, resp.Header.Values("Set-Cookie")
}

func TestLogin_MissingCredentials(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _, _ := doLogin(t, app, map[string]string{"email": "a@b.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLogin_InvalidEmail(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _, _ := doLogin(t, app, map[string]string{"email": "nobody@example.com", "password": "any"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLogin_IncorrectPassword(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{user: &models.User{
		UserID: uuid.New(), Email: "enc@example.com", Fullname: "Encoder", Role: "encoder",
	}})
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _, _ := doLogin(t, app, map[string]string{"email": "enc@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLogin_Success(t *testing.T) {
	uid := uuid.New()
	h, rdb := setupAuthHandlers(t, &fakeUserFinder{user: &models.User{
		UserID: uid, Email: "enc@example.com", Fullname: "Encoder", Role: "encoder",
	}})
	app := fiber.New()
	app.Post("/login", h.Login)

	status, out, cookies := doLogin(t, app, map[string]string{"email": "enc@example.com", "password": "password123"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "Login successful", out["message"])

	data, _ := out["data"].(map[string]interface{})
	require.NotNil(t, data)
	user, _ := data["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "enc@example.com", user["email"])
	assert.Equal(t, "encoder", user["role"])

	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], middleware.SessionCookieName+"=")

	members, err := rdb.SMembers(context.Background(), userSessionsPrefix+uid.String()).Result()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestLogin_NilRedis(t *testing.T) {
	// DATABASE_URL set, REDIS_URL not: valid credentials must fail cleanly,
	// not crash on the session write.
	h := &Handlers{
		UserFinder: &fakeUserFinder{user: &models.User{
			UserID: uuid.New(), Email: "enc@example.com", Fullname: "Encoder", Role: "encoder",
		}},
		Rdb:    nil,
		Config: middleware.SessionConfig{},
	}
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _, _ := doLogin(t, app, map[string]string{"email": "enc@example.com", "password": "password123"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestLogin_NilUserFinder(t *testing.T) {
	h, _ := setupAuthHandlers(t, nil)
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _, _ := doLogin(t, app, map[string]string{"email": "a@b.com", "password": "pass"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestMe_NoSession(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Get("/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_WithSessionUser(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":  "550e8400-e29b-41d4-a716-446655440000",
			"fullname": "Encoder",
			"email":    "enc@example.com",
			"role":     "encoder",
		})
		return h.Me(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Authenticated", out["message"])
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.Equal(t, "enc@example.com", user["email"])
}

func TestLogout_NoSession(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Delete("/logout", h.Logout)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Values("Set-Cookie"))
}
