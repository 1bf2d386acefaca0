package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"github.com/phibrew/vidstream-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return dto.Fail(c, err)
	}

	stats, err := h.dashboardService.ChannelStats(user.ID)
	if err != nil {
		return dto.Fail(c, err)
	}
	return dto.Success(c, fiber.StatusOK, stats, "Channel stats fetched successfully")
}
