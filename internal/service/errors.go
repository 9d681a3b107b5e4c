package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCategoryNotFound is returned when a rule or manual assignment names a
// category that does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// ErrBlankKeyword is returned when a rule is created or updated with an
// empty keyword.
var ErrBlankKeyword = errors.New("rule keyword must not be blank")

// UnknownSourceError means an uploaded file designated a bank outside the
// supported set.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown bank source %q", e.Source)
}

// SessionExpiredError means a commit referenced a session that never existed
// or already expired.
type SessionExpiredError struct {
	SessionID string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("import session %s not found or expired", e.SessionID)
}

// MissingRateError means a commit omitted the conversion rate for a detected
// foreign currency.
type MissingRateError struct {
	Currency string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("missing conversion rate for currency %s", e.Currency)
}

// InvalidRateError means a supplied conversion rate was zero or negative.
type InvalidRateError struct {
	Currency string
	Rate     decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid conversion rate %s for currency %s: must be positive", e.Rate, e.Currency)
}

// RuleNotFoundError means an edit or delete referenced a missing rule.
type RuleNotFoundError struct {
	ID string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("rule %s not found", e.ID)
}

// TransactionNotFoundError means a category assignment referenced a missing
// transaction.
type TransactionNotFoundError struct {
	ID string
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("transaction %s not found", e.ID)
}
