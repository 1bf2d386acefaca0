package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusCreated, resp, "User registered successfully")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return dto.Fail(c, err)
	}

	h.setAuthCookies(c, resp.AccessToken, resp.RefreshToken)
	return dto.Success(c, fiber.StatusOK, resp, "User logged in successfully")
}

// Refresh accepts the refresh token from the cookie or, failing that, the
// request body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	presented := c.Cookies("refreshToken")
	if presented == "" {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	resp, err := h.authService.Refresh(presented)
	if err != nil {
		return dto.Fail(c, err)
	}

	h.setAuthCookies(c, resp.AccessToken, resp.RefreshToken)
	return dto.Success(c, fiber.StatusOK, resp, "Token refreshed successfully")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.authService.Logout(user.ID); err != nil {
		return dto.Fail(c, err)
	}

	h.clearAuthCookies(c)
	return dto.Success(c, fiber.StatusOK, nil, "User logged out successfully")
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}
	resp := dto.NewUserResponse(user)
	return dto.Success(c, fiber.StatusOK, resp, "Current user fetched successfully")
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Expires:  time.Now().Add(h.cfg.AccessTokenExpiry),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Expires:  time.Now().Add(h.cfg.RefreshTokenExpiry),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteStrictMode,
			Path:     "/",
		})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{
		StatusCode: fiber.StatusBadRequest,
		Message:    "Invalid request body",
		Success:    false,
	})
}
