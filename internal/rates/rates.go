// Package rates wraps the external exchange-rate provider. Provider
// failures are soft: the import flow never auto-applies rates at commit, so
// an unavailable provider just means the caller enters rates manually.
package rates

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider supplies exchange rates from one currency into others.
type Provider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
	Rates(ctx context.Context, from string, to []string) (map[string]decimal.Decimal, error)
}
