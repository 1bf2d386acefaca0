package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

const identityKey = "identity"

// LoadIdentity resolves the verified token's subject to a stored user and
// attaches a sanitized projection (no password hash, no refresh token) to the
// request. A subject that no longer resolves fails closed with the same 401
// as a bad token. Runs after JWTProtected; pure read, no state mutation.
func LoadIdentity(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := claimSubject(c)
		if err != nil {
			return unauthorized(c)
		}

		var user models.User
		err = db.
			Select("id", "username", "email", "full_name", "avatar", "cover_image", "created_at", "updated_at").
			First(&user, "id = ?", userID).Error
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(identityKey, &user)
		return c.Next()
	}
}

// OptionalIdentity resolves an identity when the request carries a valid
// access token (cookie first, then bearer header) and passes through silently
// when it does not. For public endpoints whose response is richer for
// logged-in viewers.
func OptionalIdentity(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies("accessToken")
		if raw == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if raw == "" {
			return c.Next()
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.AccessTokenSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}
		sub, err := token.Claims.GetSubject()
		if err != nil {
			return c.Next()
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.Next()
		}

		var user models.User
		err = db.
			Select("id", "username", "email", "full_name", "avatar", "cover_image", "created_at", "updated_at").
			First(&user, "id = ?", userID).Error
		if err != nil {
			return c.Next()
		}

		c.Locals(identityKey, &user)
		return c.Next()
	}
}

// CurrentUser returns the identity attached by LoadIdentity. Absent identity
// maps to Unauthorized so a route missing the guard fails closed with 401.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(identityKey).(*models.User)
	if !ok || user == nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "authentication required")
	}
	return user, nil
}

// claimSubject extracts the user UUID from the JWT placed in locals by the
// jwt middleware.
func claimSubject(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		StatusCode: fiber.StatusUnauthorized,
		Message:    "Unauthorized",
		Success:    false,
	})
}
