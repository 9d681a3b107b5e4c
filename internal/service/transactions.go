package service

import (
	"context"
	"fmt"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// TransactionService exposes the read surface plus the single mutation a
// persisted transaction permits: its category.
type TransactionService struct {
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo
}

func (s *TransactionService) List(ctx context.Context, f repository.TransactionFilters) ([]repository.Transaction, error) {
	return s.Transactions.List(ctx, f)
}

// SetCategory assigns or clears (nil) a transaction's category.
func (s *TransactionService) SetCategory(ctx context.Context, txID string, categoryID *string) error {
	if categoryID != nil {
		cat, err := s.Categories.Get(ctx, *categoryID)
		if err != nil {
			return fmt.Errorf("lookup category: %w", err)
		}
		if cat == nil {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, *categoryID)
		}
	}
	ok, err := s.Transactions.UpdateCategory(ctx, txID, categoryID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if !ok {
		return &TransactionNotFoundError{ID: txID}
	}
	return nil
}
