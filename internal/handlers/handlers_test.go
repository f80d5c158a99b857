package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
	"github.com/anonto42/nano-blog/backend/validators"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "handler-test-secret"

// Post ids the stub resolver treats as existing
var knownPosts = map[string]bool{"p1": true, "p2": true}

// newTestServer wires the full API surface against an in-memory SQLite
// database and a stub post resolver, so handler behavior can be exercised
// without MongoDB or Firebase.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Like{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	userRepo := repositories.NewPostgresUserRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	analyticsRepo := repositories.NewLikeAnalyticsRepository(likeRepo)

	registry := repositories.NewTargetRegistry()
	registry.Register(models.KindPost, func(ctx context.Context, id string) error {
		if knownPosts[id] {
			return nil
		}
		return repositories.ErrTargetNotFound
	})

	e := echo.New()
	e.Validator = validators.NewValidator()

	api := e.Group("/api/v1")
	api.Use(middleware.OptionalJWTAuthMiddleware(testJWTSecret))
	requireAuth := middleware.JWTAuthMiddleware(testJWTSecret)

	NewAuthHandler(userRepo, nil, testJWTSecret, 15*time.Minute, 24*time.Hour).RegisterAuthRoutes(api)
	NewUserHandler(userRepo).RegisterUserRoutes(api, requireAuth)
	NewLikeHandler(likeRepo, registry).RegisterLikeRoutes(api, requireAuth)
	NewAnalyticsHandler(analyticsRepo).RegisterAnalyticsRoutes(api)

	return e
}

// doRequest performs a request against the test server and records the response
func doRequest(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// decodeJSON decodes a recorded response body
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// registerAndLogin signs a user up through the API and returns their token pair
func registerAndLogin(t *testing.T, e *echo.Echo, username string) (access, refresh string) {
	t.Helper()

	rec := doRequest(t, e, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password-" + username,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", username, rec.Code, rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodPost, "/api/v1/token/obtain", "", map[string]string{
		"username": username,
		"password": "password-" + username,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("obtain token for %s: expected 200, got %d (%s)", username, rec.Code, rec.Body.String())
	}

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decodeJSON(t, rec, &tokens)
	if tokens.Access == "" || tokens.Refresh == "" {
		t.Fatalf("expected non-empty token pair for %s", username)
	}
	return tokens.Access, tokens.Refresh
}

// likeCount reads the public like counter for a post target
func likeCount(t *testing.T, e *echo.Echo, postID string) int64 {
	t.Helper()

	rec := doRequest(t, e, http.MethodGet, "/api/v1/post/"+postID+"/likes/count", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("likes count for %s: expected 200, got %d", postID, rec.Code)
	}
	var body struct {
		TotalLikes int64 `json:"total_likes"`
	}
	decodeJSON(t, rec, &body)
	return body.TotalLikes
}
