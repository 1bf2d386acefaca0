package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type VideoHandler struct {
	videoService *services.VideoService
}

func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Publish takes a multipart upload: the video file plus title/description/
// thumbnail form fields. The file is spooled to a temp path which the
// service removes after the blob-service attempt.
func (h *VideoHandler) Publish(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	req := dto.CreateVideoRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Thumbnail:   c.FormValue("thumbnail"),
	}

	fileHeader, err := c.FormFile("videoFile")
	if err != nil {
		return badBody(c)
	}

	localPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s-%s", uuid.NewString(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, localPath); err != nil {
		return dto.Fail(c, err)
	}

	video, err := h.videoService.Publish(c.Context(), user.ID, localPath, &req)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) List(c *fiber.Ctx) error {
	ownerID := uuid.Nil
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return dto.Fail(c, apperr.Wrap(apperr.ErrInvalidInput, "invalid user_id"))
		}
		ownerID = id
	}

	page, err := h.videoService.List(ownerID, c.Query("query"), pageRequest(c))
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, page, "Videos fetched successfully")
}

func (h *VideoHandler) Get(c *fiber.Ctx) error {
	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	video, err := h.videoService.Get(videoID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, video, "Video fetched successfully")
}

func (h *VideoHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.UpdateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	video, err := h.videoService.Update(videoID, user.ID, &req)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.videoService.Delete(videoID, user.ID); err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, nil, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublish(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	video, err := h.videoService.TogglePublish(videoID, user.ID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, video, "Video publish status updated successfully")
}
