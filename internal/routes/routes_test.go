package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/handlers"
	"github.com/phibrew/vidstream-backend/internal/media"
	"github.com/phibrew/vidstream-backend/internal/models"
	"github.com/phibrew/vidstream-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *services.AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Tweet{},
		&models.Comment{},
		&models.Like{},
		&models.Subscription{},
		&models.Playlist{},
		&models.PlaylistVideo{},
	))

	cfg := &config.Config{
		AccessTokenSecret:  "route-access-secret",
		RefreshTokenSecret: "route-refresh-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 240 * time.Hour,
	}

	uploader := media.NewHTTPUploader("http://blob.invalid", "")
	authService := services.NewAuthService(db, cfg)
	likeService := services.NewLikeService(db, cfg)

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(authService, cfg),
		handlers.NewUserHandler(services.NewUserService(db, uploader)),
		handlers.NewHealthHandler(),
		handlers.NewVideoHandler(services.NewVideoService(db, uploader)),
		handlers.NewTweetHandler(services.NewTweetService(db)),
		handlers.NewCommentHandler(services.NewCommentService(db)),
		handlers.NewLikeHandler(likeService),
		handlers.NewSubscriptionHandler(services.NewSubscriptionService(db, cfg)),
		handlers.NewPlaylistHandler(services.NewPlaylistService(db)),
		handlers.NewDashboardHandler(services.NewDashboardService(db, likeService)),
	)
	return app, db, authService
}

func seedRouteUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Password: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// Public /users/* reads share the general limit only; the stricter credential
// limit must not throttle them.
func TestPublicUserReadsBypassCredentialLimiter(t *testing.T) {
	app, db, _ := newTestApp(t)
	user := seedRouteUser(t, db, "reader")

	url := fmt.Sprintf("/api/v1/users/%s/tweets", user.ID)
	for i := 1; i <= 12; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i)
	}
}

func TestCredentialEndpointsAreRateLimited(t *testing.T) {
	app, _, _ := newTestApp(t)

	body := `{"email":"nobody@example.com","password":"wrong-password"}`
	var last int
	for i := 1; i <= 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		last = resp.StatusCode
		if i <= 10 {
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "request %d", i)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

// The channel profile is public but resolves the viewer when the request
// carries a valid access token.
func TestChannelProfileResolvesViewerIdentity(t *testing.T) {
	app, db, auth := newTestApp(t)

	channel := seedRouteUser(t, db, "channel")
	fan := seedRouteUser(t, db, "fan")
	require.NoError(t, db.Create(&models.Subscription{SubscriberID: fan.ID, ChannelID: channel.ID}).Error)

	pair, err := auth.IssueTokenPair(fan)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/channel", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: pair.AccessToken})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeProfile(t, resp.Body)
	assert.Equal(t, float64(1), profile["subscriber_count"])
	assert.Equal(t, true, profile["is_subscribed"])

	anon, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/channels/channel", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, anon.StatusCode)
	assert.Equal(t, false, decodeProfile(t, anon.Body)["is_subscribed"])
}

func decodeProfile(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Data
}
