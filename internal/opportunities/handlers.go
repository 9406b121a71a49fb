package opportunities

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// errorJSON is the raw error shape the grid client parses. The rest of the
// app uses the standard envelope.
func errorJSON(c *fiber.Ctx, status int, message string, details error) error {
	body := fiber.Map{"error": message}
	if details != nil {
		body["details"] = details.Error()
	}
	return c.Status(status).JSON(body)
}

// changedByFrom pulls the optional actor out of the payload. Absent or blank
// means a null actor in the ledger; authorization happens upstream, this is
// descriptive metadata only.
func changedByFrom(body map[string]interface{}) *string {
	if s, ok := body["changed_by"].(string); ok && s != "" {
		return &s
	}
	return nil
}

// GET /api/opportunities
func (h *Handlers) GetOpportunities(c *fiber.Ctx) error {
	opps, err := h.Service.GetAllOpportunities(c.Context())
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch data from database", nil)
	}
	return c.JSON(opps)
}

// POST /api/opportunities
func (h *Handlers) CreateOpportunity(c *fiber.Ctx) error {
	body := map[string]interface{}{}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.", err)
	}
	created, err := h.Service.CreateOpportunity(c.Context(), body, changedByFrom(body))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create opportunity.", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// PUT /api/opportunities/:uid
func (h *Handlers) UpdateOpportunity(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return errorJSON(c, fiber.StatusBadRequest, "UID is required.", nil)
	}
	body := map[string]interface{}{}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.", err)
	}
	updated, err := h.Service.UpdateOpportunity(c.Context(), uid, body, changedByFrom(body))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Opportunity not found.", nil)
		case errors.Is(err, ErrNoFields):
			return errorJSON(c, fiber.StatusBadRequest, "No data provided for update.", nil)
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to update opportunity.", err)
		}
	}
	return c.JSON(updated)
}

// DELETE /api/opportunities/:uid
func (h *Handlers) DeleteOpportunity(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return errorJSON(c, fiber.StatusBadRequest, "UID is required.", nil)
	}
	if err := h.Service.DeleteOpportunity(c.Context(), uid); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Opportunity not found.", nil)
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete opportunity.", err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Opportunity and its revisions deleted successfully."})
}

// GET /api/opportunities/:uid/revisions
func (h *Handlers) GetRevisions(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return errorJSON(c, fiber.StatusBadRequest, "UID is required.", nil)
	}
	revs, err := h.Service.GetRevisions(c.Context(), uid)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch revision history.", err)
	}
	return c.JSON(revs)
}

// GET /api/opportunities/:uid/forecast-revisions
func (h *Handlers) GetForecastRevisions(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return errorJSON(c, fiber.StatusBadRequest, "UID is required.", nil)
	}
	revs, err := h.Service.GetForecastRevisions(c.Context(), uid)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch forecast revision history.", err)
	}
	return c.JSON(revs)
}
