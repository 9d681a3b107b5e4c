package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Svacinar/not-stonks-sub000/internal/bank"
	"github.com/Svacinar/not-stonks-sub000/internal/service"
)

// ImportHandler exposes the two-phase import protocol.
type ImportHandler struct {
	Importer *service.Importer
}

// Parse accepts a multipart upload. Each form field name designates the
// bank source for the files it carries.
func (h *ImportHandler) Parse(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart form expected"})
	}

	var files []service.ImportFile
	for source, headers := range form.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file " + header.Filename})
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file " + header.Filename})
			}
			files = append(files, service.ImportFile{
				Name:   header.Filename,
				Source: bank.Source(source),
				Data:   data,
			})
		}
	}
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no files uploaded"})
	}

	res, err := h.Importer.ParseFiles(c.Context(), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

type completeRequest struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Complete commits a pending session with the caller-confirmed rates.
func (h *ImportHandler) Complete(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")

	var req completeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	res, err := h.Importer.CompleteImport(c.Context(), sessionID, req.Rates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
