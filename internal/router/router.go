package router

import (
	"github.com/gofiber/fiber/v2"

	handlers "github.com/Svacinar/not-stonks-sub000/internal/http"
)

// Router wires handlers onto the fiber app.
type Router struct {
	Import       *handlers.ImportHandler
	Rules        *handlers.RulesHandler
	Stats        *handlers.StatsHandler
	Rates        *handlers.RatesHandler
	Transactions *handlers.TransactionsHandler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/import/parse", r.Import.Parse)
	app.Post("/api/import/:sessionID/complete", r.Import.Complete)

	app.Get("/api/rules", r.Rules.List)
	app.Post("/api/rules", r.Rules.Create)
	app.Put("/api/rules/:id", r.Rules.Update)
	app.Delete("/api/rules/:id", r.Rules.Delete)
	app.Post("/api/rules/apply", r.Rules.Apply)

	app.Get("/api/stats", r.Stats.Get)
	app.Get("/api/rates", r.Rates.Get)

	app.Get("/api/transactions", r.Transactions.List)
	app.Put("/api/transactions/:id/category", r.Transactions.SetCategory)
	app.Get("/api/suspects", r.Transactions.ListSuspects)
}
