package service

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Svacinar/not-stonks-sub000/internal/bank"
	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// minorUnit is the number of decimal places persisted amounts are rounded
// to. All supported currencies use two.
const minorUnit = 2

// convertRecord turns a parsed record into persisted transaction fields.
// Base-currency records keep their amount and carry no original-currency
// fields. Foreign records get amount = original * rate, rounded to the
// currency minor unit, with the originals preserved for audit.
func convertRecord(rec bank.Record, baseCurrency string, rate decimal.Decimal) repository.Transaction {
	t := repository.Transaction{
		ID:          uuid.NewString(),
		Date:        rec.Date,
		Description: rec.Description,
		Bank:        string(rec.Source),
	}
	if isBase(rec.Currency, baseCurrency) {
		t.Amount = rec.Amount.Round(minorUnit)
	} else {
		orig := rec.Amount
		ccy := strings.ToUpper(rec.Currency)
		r := rate
		t.Amount = orig.Mul(rate).Round(minorUnit)
		t.OriginalAmount = &orig
		t.OriginalCurrency = &ccy
		t.ConversionRate = &r
	}
	t.DedupKey = dedupKey(t.Date, t.Amount, t.Description, t.Bank)
	return t
}

func isBase(currency, baseCurrency string) bool {
	return currency == "" || strings.EqualFold(currency, baseCurrency)
}

// normalizeDescription lowercases and collapses whitespace runs so that
// cosmetic differences between exports of the same row hash identically.
func normalizeDescription(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// dedupKey hashes (date, amount to minor unit, normalized description, bank)
// into the key used to recognize an already-imported transaction.
func dedupKey(date time.Time, amount decimal.Decimal, description, bankName string) string {
	joined := strings.Join([]string{
		date.Format(time.DateOnly),
		amount.StringFixed(minorUnit),
		normalizeDescription(description),
		bankName,
	}, "|")
	sum := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("%x", sum[:])
}
