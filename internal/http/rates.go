package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Svacinar/not-stonks-sub000/internal/rates"
)

// RatesHandler proxies the external rate provider. Provider failures map to
// 502 and the client falls back to manual rate entry.
type RatesHandler struct {
	Provider rates.Provider
}

// Get fetches rates (?from=CZK&to=EUR,USD).
func (h *RatesHandler) Get(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from and to query parameters required"})
	}
	symbols := strings.Split(to, ",")

	out, err := h.Provider.Rates(c.Context(), from, symbols)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "rate provider unavailable"})
	}
	return c.JSON(fiber.Map{"base": strings.ToUpper(from), "rates": out})
}
