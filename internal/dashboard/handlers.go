package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/dashboard
func (h *Handlers) WinLoss(c *fiber.Ctx) error {
	data, err := h.Service.WinLoss(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate win/loss dashboard data", "details": err.Error(),
		})
	}
	return c.JSON(data)
}

// GET /api/forecast-dashboard?status=
func (h *Handlers) Forecast(c *fiber.Ctx) error {
	data, err := h.Service.Forecast(c.Context(), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate forecast dashboard data", "details": err.Error(),
		})
	}
	return c.JSON(data)
}

// GET /api/forecast-dashboard-weeks
func (h *Handlers) ForecastWeeks(c *fiber.Ctx) error {
	weeks, err := h.Service.ForecastWeeks(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate weekly forecast data", "details": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"weekSummary": weeks})
}

// GET /api/forecast-revision-summary
func (h *Handlers) RevisionSummary(c *fiber.Ctx) error {
	data, err := h.Service.RevisionSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate forecast revision summary", "details": err.Error(),
		})
	}
	return c.JSON(data)
}
