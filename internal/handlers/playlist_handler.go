package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type PlaylistHandler struct {
	playlistService *services.PlaylistService
}

func NewPlaylistHandler(playlistService *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

func (h *PlaylistHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	playlist, err := h.playlistService.Create(user.ID, &req)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) Get(c *fiber.Ctx) error {
	playlistID, err := parseUUIDParam(c, "playlistId")
	if err != nil {
		return dto.Fail(c, err)
	}

	playlist, err := h.playlistService.Get(playlistID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, playlist, "Playlist retrieved successfully")
}

func (h *PlaylistHandler) ListByUser(c *fiber.Ctx) error {
	ownerID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return dto.Fail(c, err)
	}

	playlists, err := h.playlistService.ListByOwner(ownerID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, playlists, "User playlists retrieved successfully")
}

func (h *PlaylistHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	playlistID, err := parseUUIDParam(c, "playlistId")
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.UpdatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	playlist, err := h.playlistService.Update(playlistID, user.ID, &req)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	playlistID, err := parseUUIDParam(c, "playlistId")
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.playlistService.Delete(playlistID, user.ID); err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, nil, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	playlistID, err := parseUUIDParam(c, "playlistId")
	if err != nil {
		return dto.Fail(c, err)
	}
	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.playlistService.AddVideo(playlistID, videoID, user.ID); err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, nil, "Video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	playlistID, err := parseUUIDParam(c, "playlistId")
	if err != nil {
		return dto.Fail(c, err)
	}
	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.playlistService.RemoveVideo(playlistID, videoID, user.ID); err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, nil, "Video removed from playlist successfully")
}
