package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymbuddy/internal/config"
	"gymbuddy/internal/database"
	"gymbuddy/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gofiber/fiber/v2"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// newTestServer builds a Server over an in-memory database with the full
// route table mounted. Redis is absent, so rate limits and notifications are
// no-ops.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret:              testJWTSecret,
		Port:                   "8090",
		Env:                    "test",
		FeatureFlags:           "push_notifications=on",
		FeedPageSize:           50,
		DefaultSessionDuration: 60,
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func seedTestUser(t *testing.T, s *Server, name string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: string(hashed),
		Name:     name,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func seedTestGym(t *testing.T, s *Server) *models.Gym {
	t.Helper()
	gym := &models.Gym{Name: "Iron Temple", Address: "1 Main St"}
	require.NoError(t, s.db.Create(gym).Error)
	return gym
}

func authHeader(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	token, err := s.generateToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON issues a JSON request against the test app as the given user.
// A zero userID sends the request unauthenticated.
func doJSON(t *testing.T, s *Server, app *fiber.App, method, path string, userID uint, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", authHeader(t, s, userID))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
