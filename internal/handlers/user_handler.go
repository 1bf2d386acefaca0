package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.userService.UpdateProfile(user.ID, req.FullName)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, resp, "Profile updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	return h.updateImage(c, "avatar", "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *fiber.Ctx) error {
	return h.updateImage(c, "coverImage", "Cover image updated successfully")
}

func (h *UserHandler) updateImage(c *fiber.Ctx, field, message string) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		return badBody(c)
	}

	localPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s-%s", uuid.NewString(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, localPath); err != nil {
		return dto.Fail(c, err)
	}

	var resp *dto.UserResponse
	if field == "avatar" {
		resp, err = h.userService.UpdateAvatar(c.Context(), user.ID, localPath)
	} else {
		resp, err = h.userService.UpdateCoverImage(c.Context(), user.ID, localPath)
	}
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, resp, message)
}
