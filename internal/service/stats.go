package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// Synthetic aggregation buckets for NULL-category rows, split by sign. They
// are presentation conventions, never persisted category rows.
const (
	BucketUncategorized = "Uncategorized"
	BucketIncome        = "Income"
)

// StatsService computes the grouped summaries consumed by the dashboard.
type StatsService struct {
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo
}

// CategoryStat is one category's rollup. CategoryID is empty for the
// synthetic buckets.
type CategoryStat struct {
	CategoryID string          `json:"categoryId,omitempty"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
}

// BankStat is one bank's rollup.
type BankStat struct {
	Bank  string          `json:"bank"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// MonthStat is one calendar month's rollup, keyed YYYY-MM.
type MonthStat struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// DateRange is the effective range of the matched rows.
type DateRange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// Stats is the full rollup for a date range. Signs are preserved
// throughout; presentation decides how to display magnitude.
type Stats struct {
	TotalCount    int             `json:"totalCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ByCategory    []CategoryStat  `json:"byCategory"`
	ByBank        []BankStat      `json:"byBank"`
	ByMonth       []MonthStat     `json:"byMonth"`
	IncomeByMonth []MonthStat     `json:"incomeByMonth"`
	DateRange     DateRange       `json:"dateRange"`
}

// GetStats aggregates transactions in the inclusive date range; nil bounds
// mean unbounded. Aggregation runs over decimal values in memory so money
// never round-trips through floats.
func (s *StatsService) GetStats(ctx context.Context, from, to *time.Time) (*Stats, error) {
	rows, err := s.Transactions.List(ctx, repository.TransactionFilters{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	catByID := make(map[string]repository.Category, len(cats))
	for _, c := range cats {
		catByID[c.ID] = c
	}

	stats := &Stats{TotalAmount: decimal.Zero}
	byCategory := make(map[string]*CategoryStat)
	byBank := make(map[string]*BankStat)
	expenseMonths := make(map[string]decimal.Decimal)
	incomeMonths := make(map[string]decimal.Decimal)
	var minDate, maxDate time.Time

	for _, t := range rows {
		stats.TotalCount++
		stats.TotalAmount = stats.TotalAmount.Add(t.Amount)

		key, name, color := categoryBucket(t, catByID)
		cs, ok := byCategory[key]
		if !ok {
			cs = &CategoryStat{Name: name, Color: color, Total: decimal.Zero}
			if name != BucketUncategorized && name != BucketIncome {
				cs.CategoryID = key
			}
			byCategory[key] = cs
		}
		cs.Count++
		cs.Total = cs.Total.Add(t.Amount)

		bs, ok := byBank[t.Bank]
		if !ok {
			bs = &BankStat{Bank: t.Bank, Total: decimal.Zero}
			byBank[t.Bank] = bs
		}
		bs.Count++
		bs.Total = bs.Total.Add(t.Amount)

		month := t.Date.Format("2006-01")
		if t.Amount.Sign() < 0 {
			expenseMonths[month] = expenseMonths[month].Add(t.Amount)
		} else {
			incomeMonths[month] = incomeMonths[month].Add(t.Amount)
		}

		if minDate.IsZero() || t.Date.Before(minDate) {
			minDate = t.Date
		}
		if maxDate.IsZero() || t.Date.After(maxDate) {
			maxDate = t.Date
		}
	}

	for _, cs := range byCategory {
		stats.ByCategory = append(stats.ByCategory, *cs)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		a, b := stats.ByCategory[i], stats.ByCategory[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.LessThan(b.Total)
		}
		return a.Name < b.Name
	})

	for _, bs := range byBank {
		stats.ByBank = append(stats.ByBank, *bs)
	}
	sort.Slice(stats.ByBank, func(i, j int) bool { return stats.ByBank[i].Bank < stats.ByBank[j].Bank })

	stats.ByMonth = monthSeries(expenseMonths)
	stats.IncomeByMonth = monthSeries(incomeMonths)

	if !minDate.IsZero() {
		fromStr := minDate.Format(time.DateOnly)
		toStr := maxDate.Format(time.DateOnly)
		stats.DateRange = DateRange{From: &fromStr, To: &toStr}
	}
	return stats, nil
}

// categoryBucket resolves a row to its category, or to the synthetic bucket
// for NULL-category rows: negative amounts are Uncategorized spending,
// positive amounts are Income.
func categoryBucket(t repository.Transaction, cats map[string]repository.Category) (key, name, color string) {
	if t.CategoryID != nil {
		if c, ok := cats[*t.CategoryID]; ok {
			return c.ID, c.Name, c.Color
		}
		return *t.CategoryID, *t.CategoryID, ""
	}
	if t.Amount.Sign() < 0 {
		return "bucket:" + BucketUncategorized, BucketUncategorized, ""
	}
	return "bucket:" + BucketIncome, BucketIncome, ""
}

func monthSeries(totals map[string]decimal.Decimal) []MonthStat {
	out := make([]MonthStat, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthStat{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
