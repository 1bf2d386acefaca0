package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	comment, err := h.commentService.Create(user.ID, videoID, req.Content)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusCreated, comment, "Comment added successfully")
}

func (h *CommentHandler) ListByVideo(c *fiber.Ctx) error {
	videoID, err := parseUUIDParam(c, "videoId")
	if err != nil {
		return dto.Fail(c, err)
	}

	page, err := h.commentService.ListByVideo(videoID, pageRequest(c))
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, page, "Comments fetched successfully")
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	commentID, err := parseUUIDParam(c, "commentId")
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	comment, err := h.commentService.Update(commentID, user.ID, req.Content)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, comment, "Comment updated successfully")
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	commentID, err := parseUUIDParam(c, "commentId")
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.commentService.Delete(commentID, user.ID); err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, nil, "Comment deleted successfully")
}
