package ingestion

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// POST /api/opportunities/import
// Expects a multipart form with the workbook under "file".
func (h *Handlers) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded.", "details": err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file.", "details": err.Error(),
		})
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file.", "details": err.Error(),
		})
	}

	var changedBy *string
	if by := c.FormValue("changed_by"); by != "" {
		changedBy = &by
	}

	result, err := h.Service.ImportXLSX(c.Context(), payload, changedBy)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrNoHeader) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": "Failed to import opportunities", "details": err.Error(),
		})
	}
	return c.JSON(result)
}
