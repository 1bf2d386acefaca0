package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/models"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) Toggle(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	contentID, err := parseUUIDParam(c, "contentId")
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.ToggleLikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	kind := models.ContentKind(req.ContentKind)
	active, err := h.likeService.Toggle(user.ID, contentID, kind)
	if err != nil {
		return dto.Fail(c, err)
	}

	message := string(kind) + " unliked"
	if active {
		message = string(kind) + " liked"
	}
	return dto.Success(c, fiber.StatusOK, dto.ToggleResponse{Active: active}, message)
}

func (h *LikeHandler) ListLiked(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	liked, err := h.likeService.ListLiked(user.ID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, liked, "Liked content retrieved")
}
