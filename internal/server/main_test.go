package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lotboard/internal/config"
	"lotboard/internal/database"
	"lotboard/internal/middleware"
	"lotboard/internal/moderation"
	"lotboard/internal/repository"
	"lotboard/internal/service"
	"lotboard/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testTokenSecret = "handler-test-secret-1234567890abcdef"

// newTestServer wires a Server against in-memory sqlite. The Prometheus
// middleware is left nil so repeated test setups don't re-register collectors.
func newTestServer(t *testing.T, pages service.PageScraper) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		TokenSecret:   testTokenSecret,
		TokenTTLHours: 24,
		ScrapeTimeout: 2,
		Env:           "test",
	}

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	patternRepo := repository.NewPatternRepository(db)
	codec := token.NewCodec(cfg.TokenSecret)

	s := &Server{
		config:      cfg,
		db:          db,
		codec:       codec,
		auth:        middleware.NewAuthenticator(codec, userRepo),
		userRepo:    userRepo,
		listingRepo: listingRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		patternRepo: patternRepo,
	}
	s.listingService = service.NewListingService(listingRepo, pages)
	s.commentService = service.NewCommentService(
		commentRepo, listingRepo, likeRepo, moderation.NewEngine(patternRepo))

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, authToken string) (*http.Response, map[string]any) {
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
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": "SecurePass12!@",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %v", username, body)

	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	return tok, uint(user["id"].(float64))
}
