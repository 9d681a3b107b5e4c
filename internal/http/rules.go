package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
	"github.com/Svacinar/not-stonks-sub000/internal/service"
)

// RulesHandler exposes rule CRUD and batch application.
type RulesHandler struct {
	Service *service.RuleService
}

type ruleRequest struct {
	Keyword    string `json:"keyword"`
	CategoryID string `json:"categoryId"`
}

func (h *RulesHandler) List(c *fiber.Ctx) error {
	rules, err := h.Service.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if rules == nil {
		rules = []repository.Rule{}
	}
	return c.JSON(rules)
}

func (h *RulesHandler) Create(c *fiber.Ctx) error {
	var req ruleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	rule, err := h.Service.Create(c.Context(), req.Keyword, req.CategoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

func (h *RulesHandler) Update(c *fiber.Ctx) error {
	var req ruleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	rule, err := h.Service.Update(c.Context(), c.Params("id"), req.Keyword, req.CategoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rule)
}

func (h *RulesHandler) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RulesHandler) Apply(c *fiber.Ctx) error {
	res, err := h.Service.ApplyRules(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
