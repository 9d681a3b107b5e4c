package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a category row.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Rule represents a keyword categorization rule.
type Rule struct {
	ID         string    `json:"id"`
	Keyword    string    `json:"keyword"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Transaction represents a persisted transaction row. Amounts are stored in
// the base currency; the original_* fields are set only for rows imported in
// a foreign currency. Rows are immutable after insert except CategoryID.
type Transaction struct {
	ID               string           `json:"id"`
	Date             time.Time        `json:"date"` // calendar date, midnight UTC
	Amount           decimal.Decimal  `json:"amount"`
	Description      string           `json:"description"`
	Bank             string           `json:"bank"`
	CategoryID       *string          `json:"categoryId"`
	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency *string          `json:"originalCurrency,omitempty"`
	ConversionRate   *decimal.Decimal `json:"conversionRate,omitempty"`
	DedupKey         string           `json:"-"`
	CreatedAt        time.Time        `json:"createdAt"`
}
