package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func guardedApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	cfg := &config.Config{AccessTokenSecret: "guard-test-secret"}

	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), LoadIdentity(db), func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(user.Username)
	})
	return app, db, cfg
}

func mintToken(t *testing.T, cfg *config.Config, userID uuid.UUID, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessTokenSecret))
	require.NoError(t, err)
	return signed
}

func TestGuardAcceptsBearerToken(t *testing.T) {
	app, db, cfg := guardedApp(t)

	user := models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, user.ID, time.Minute))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "alice", string(body))
}

func TestGuardPrefersCookieOverHeader(t *testing.T) {
	app, db, cfg := guardedApp(t)

	user := models.User{Username: "bob", Email: "bob@example.com", FullName: "Bob", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	// A garbage header does not matter when the cookie carries a valid token.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: mintToken(t, cfg, user.ID, time.Minute)})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardRejectsBadTokens(t *testing.T) {
	app, db, cfg := guardedApp(t)

	user := models.User{Username: "carol", Email: "carol@example.com", FullName: "Carol", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	for name, build := range map[string]func(*http.Request){
		"missing": func(r *http.Request) {},
		"garbage": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not-a-token")
		},
		"expired": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, user.ID, -time.Minute))
		},
		"wrong key": func(r *http.Request) {
			other := &config.Config{AccessTokenSecret: "some-other-secret"}
			r.Header.Set("Authorization", "Bearer "+mintToken(t, other, user.ID, time.Minute))
		},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		build(req)
		resp, err := app.Test(req)
		require.NoError(t, err, name)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestGuardRejectsDeletedUser(t *testing.T) {
	app, db, cfg := guardedApp(t)

	user := models.User{Username: "dave", Email: "dave@example.com", FullName: "Dave", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	token := mintToken(t, cfg, user.ID, time.Minute)
	require.NoError(t, db.Unscoped().Delete(&user).Error)

	// The signature still verifies but the subject no longer resolves.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
