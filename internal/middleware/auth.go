package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/dto"

	jwtware "github.com/gofiber/contrib/jwt"
)

// JWTProtected verifies the access token's signature and expiry. The cookie
// is checked before the Authorization header. Absent, malformed and expired
// tokens all produce the same 401 so callers learn nothing about which check
// failed.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.AccessTokenSecret)},
		TokenLookup: "cookie:accessToken,header:Authorization",
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				StatusCode: fiber.StatusUnauthorized,
				Message:    "Unauthorized",
				Success:    false,
			})
		},
	})
}
