package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
	"github.com/Svacinar/not-stonks-sub000/internal/service"
)

// TransactionsHandler exposes the persisted transaction set.
type TransactionsHandler struct {
	Service  *service.TransactionService
	Suspects *service.SuspectService
}

// List returns transactions with optional filters
// (?bank=csob&category=...&from=...&to=...&q=...).
func (h *TransactionsHandler) List(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from date, expected YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to date, expected YYYY-MM-DD"})
	}

	txs, err := h.Service.List(c.Context(), repository.TransactionFilters{
		Bank:       c.Query("bank"),
		CategoryID: c.Query("category"),
		From:       from,
		To:         to,
		Search:     c.Query("q"),
	})
	if err != nil {
		return respondError(c, err)
	}
	if txs == nil {
		txs = []repository.Transaction{}
	}
	return c.JSON(txs)
}

type setCategoryRequest struct {
	CategoryID *string `json:"categoryId"`
}

// SetCategory assigns or clears a transaction's category — the only
// mutation a persisted transaction permits.
func (h *TransactionsHandler) SetCategory(c *fiber.Ctx) error {
	var req setCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if err := h.Service.SetCategory(c.Context(), c.Params("id"), req.CategoryID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSuspects returns the near-duplicate advisory report.
func (h *TransactionsHandler) ListSuspects(c *fiber.Ctx) error {
	pairs, err := h.Suspects.Detect(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if pairs == nil {
		pairs = []service.SuspectPair{}
	}
	return c.JSON(pairs)
}
