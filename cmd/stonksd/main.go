package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/Svacinar/not-stonks-sub000/internal/bank"
	"github.com/Svacinar/not-stonks-sub000/internal/config"
	"github.com/Svacinar/not-stonks-sub000/internal/database"
	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
	handlers "github.com/Svacinar/not-stonks-sub000/internal/http"
	"github.com/Svacinar/not-stonks-sub000/internal/logger"
	"github.com/Svacinar/not-stonks-sub000/internal/rates"
	"github.com/Svacinar/not-stonks-sub000/internal/router"
	"github.com/Svacinar/not-stonks-sub000/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("mkdir db dir")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed defaults")
	}

	// repositories
	txRepo := repository.NewTransactionRepo(db)
	catRepo := repository.NewCategoryRepo(db)
	ruleRepo := repository.NewRuleRepo(db)

	// services
	sessions := service.NewSessionStore(cfg.Import.SessionTTL)
	defer sessions.Close()

	importer := &service.Importer{
		DB:           db,
		Transactions: txRepo,
		Registry:     bank.DefaultRegistry(),
		Sessions:     sessions,
		BaseCurrency: cfg.Import.BaseCurrency,
		Log:          log,
	}
	ruleSvc := &service.RuleService{DB: db, Rules: ruleRepo, Categories: catRepo, Transactions: txRepo, Log: log}
	statsSvc := &service.StatsService{Transactions: txRepo, Categories: catRepo}
	txSvc := &service.TransactionService{Transactions: txRepo, Categories: catRepo}
	suspectSvc := &service.SuspectService{Transactions: txRepo}
	provider := rates.NewClient(cfg.Rates.ProviderURL, cfg.Rates.Timeout, log)

	app := fiber.New(fiber.Config{AppName: "not-stonks"})
	r := &router.Router{
		Import:       &handlers.ImportHandler{Importer: importer},
		Rules:        &handlers.RulesHandler{Service: ruleSvc},
		Stats:        &handlers.StatsHandler{Service: statsSvc},
		Rates:        &handlers.RatesHandler{Provider: provider},
		Transactions: &handlers.TransactionsHandler{Service: txSvc, Suspects: suspectSvc},
	}
	r.RegisterRoutes(app)

	log.Info().Str("addr", cfg.Server.ListenAddr).Str("base_currency", cfg.Import.BaseCurrency).Msg("listening")
	if err := app.Listen(cfg.Server.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
