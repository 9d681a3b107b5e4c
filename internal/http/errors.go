package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Svacinar/not-stonks-sub000/internal/bank"
	"github.com/Svacinar/not-stonks-sub000/internal/service"
)

// respondError maps engine errors onto HTTP statuses. Unrecognized errors
// are treated as storage/internal failures.
func respondError(c *fiber.Ctx, err error) error {
	var (
		unknownSource *service.UnknownSourceError
		badFormat     *bank.UnrecognizedFormatError
		expired       *service.SessionExpiredError
		missingRate   *service.MissingRateError
		invalidRate   *service.InvalidRateError
		ruleNotFound  *service.RuleNotFoundError
		txNotFound    *service.TransactionNotFoundError
	)
	switch {
	case errors.As(err, &unknownSource),
		errors.As(err, &badFormat),
		errors.As(err, &missingRate),
		errors.As(err, &invalidRate),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrBlankKeyword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &expired),
		errors.As(err, &ruleNotFound),
		errors.As(err, &txNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
}
