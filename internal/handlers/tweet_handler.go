package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type TweetHandler struct {
	tweetService *services.TweetService
}

func NewTweetHandler(tweetService *services.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

func (h *TweetHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.CreateTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	tweet, err := h.tweetService.Create(user.ID, req.Content)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) ListByUser(c *fiber.Ctx) error {
	ownerID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return dto.Fail(c, err)
	}

	page, err := h.tweetService.ListByOwner(ownerID, pageRequest(c))
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, page, "Tweets fetched successfully")
}

func (h *TweetHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	tweetID, err := parseUUIDParam(c, "tweetId")
	if err != nil {
		return dto.Fail(c, err)
	}

	var req dto.CreateTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	tweet, err := h.tweetService.Update(tweetID, user.ID, req.Content)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	tweetID, err := parseUUIDParam(c, "tweetId")
	if err != nil {
		return dto.Fail(c, err)
	}

	if err := h.tweetService.Delete(tweetID, user.ID); err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, nil, "Tweet deleted successfully")
}
