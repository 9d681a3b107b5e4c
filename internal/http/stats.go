package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Svacinar/not-stonks-sub000/internal/service"
)

// StatsHandler exposes the dashboard rollups.
type StatsHandler struct {
	Service *service.StatsService
}

// Get computes stats for an optional inclusive date range
// (?from=2024-01-01&to=2024-12-31).
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from date, expected YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to date, expected YYYY-MM-DD"})
	}

	stats, err := h.Service.GetStats(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
