package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// SeedDefaults ensures baseline categories exist for new databases.
// It is idempotent and safe to run on every startup. "Uncategorized" and
// "Income" are synthetic aggregation buckets and must never be seeded here.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	existing, err := catRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	defaults := []struct {
		name  string
		color string
	}{
		{"Groceries", "#4caf50"},
		{"Restaurants", "#ff9800"},
		{"Transport", "#2196f3"},
		{"Housing", "#795548"},
		{"Utilities", "#607d8b"},
		{"Shopping", "#e91e63"},
		{"Subscriptions", "#9c27b0"},
		{"Health", "#f44336"},
		{"Entertainment", "#00bcd4"},
		{"Savings", "#8bc34a"},
	}
	for _, d := range defaults {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:"+d.name)).String()
		cat := repository.Category{ID: id, Name: d.name, Color: d.color}
		if err := catRepo.Upsert(ctx, cat); err != nil {
			return err
		}
	}
	return nil
}
