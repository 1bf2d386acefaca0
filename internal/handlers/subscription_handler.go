package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Toggle(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	channelID, err := parseUUIDParam(c, "channelId")
	if err != nil {
		return dto.Fail(c, err)
	}

	active, err := h.subscriptionService.Toggle(user.ID, channelID)
	if err != nil {
		return dto.Fail(c, err)
	}

	message := "Unsubscribed successfully"
	if active {
		message = "Subscribed successfully"
	}
	return dto.Success(c, fiber.StatusOK, dto.ToggleResponse{Active: active}, message)
}

func (h *SubscriptionHandler) Subscribers(c *fiber.Ctx) error {
	channelID, err := parseUUIDParam(c, "channelId")
	if err != nil {
		return dto.Fail(c, err)
	}

	page, err := h.subscriptionService.Subscribers(channelID, pageRequest(c))
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, page, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(c *fiber.Ctx) error {
	subscriberID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return dto.Fail(c, err)
	}

	page, err := h.subscriptionService.SubscribedChannels(subscriberID, pageRequest(c))
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, page, "Subscribed channels fetched successfully")
}

// ChannelProfile is public; a logged-in viewer gets is_subscribed resolved.
func (h *SubscriptionHandler) ChannelProfile(c *fiber.Ctx) error {
	viewerID := uuid.Nil
	if user, err := middleware.CurrentUser(c); err == nil {
		viewerID = user.ID
	}

	profile, err := h.subscriptionService.ChannelProfile(c.Params("username"), viewerID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, profile, "Channel profile fetched successfully")
}
