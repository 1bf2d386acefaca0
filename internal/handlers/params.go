package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/services"
)

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.ErrInvalidInput, "invalid "+name)
	}
	return id, nil
}

func pageRequest(c *fiber.Ctx) services.PageRequest {
	return services.PageRequest{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_type", "desc") == "desc",
	}
}
