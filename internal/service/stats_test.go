package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

func TestGetStats_BucketsAndSeries(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	groceries := seedCategory(t, ctx, db, "Groceries")

	importRows(t, ctx, db,
		"05.01.2024;-100,00;CZK;TESCO EXPRESS",
		"10.01.2024;-200,00;CZK;UNKNOWN SHOP",
		"15.01.2024;35000,00;CZK;VYPLATA LEDEN",
		"05.02.2024;-300,00;CZK;UNKNOWN SHOP FEB",
	)

	// categorize the TESCO row
	tx := findByDescription(t, ctx, db, "TESCO")
	txSvc := &TransactionService{Transactions: repository.NewTransactionRepo(db), Categories: repository.NewCategoryRepo(db)}
	require.NoError(t, txSvc.SetCategory(ctx, tx.ID, &groceries))

	svc := &StatsService{Transactions: repository.NewTransactionRepo(db), Categories: repository.NewCategoryRepo(db)}
	stats, err := svc.GetStats(ctx, nil, nil)
	require.NoError(t, err)

	require.Equal(t, 4, stats.TotalCount)
	require.True(t, stats.TotalAmount.Equal(decimal.RequireFromString("34400")), "got %s", stats.TotalAmount)

	byName := make(map[string]CategoryStat)
	for _, cs := range stats.ByCategory {
		byName[cs.Name] = cs
	}
	require.Len(t, byName, 3)
	require.True(t, byName["Groceries"].Total.Equal(decimal.RequireFromString("-100")))
	require.Equal(t, groceries, byName["Groceries"].CategoryID)
	// NULL-category rows split by sign into the synthetic buckets
	require.True(t, byName[BucketUncategorized].Total.Equal(decimal.RequireFromString("-500")))
	require.Equal(t, 2, byName[BucketUncategorized].Count)
	require.Empty(t, byName[BucketUncategorized].CategoryID)
	require.True(t, byName[BucketIncome].Total.Equal(decimal.RequireFromString("35000")))

	require.Len(t, stats.ByBank, 1)
	require.Equal(t, "csob", stats.ByBank[0].Bank)
	require.Equal(t, 4, stats.ByBank[0].Count)

	// sign preserved in month series, one for expenses, one for income
	require.Len(t, stats.ByMonth, 2)
	require.Equal(t, "2024-01", stats.ByMonth[0].Month)
	require.True(t, stats.ByMonth[0].Total.Equal(decimal.RequireFromString("-300")))
	require.Equal(t, "2024-02", stats.ByMonth[1].Month)
	require.True(t, stats.ByMonth[1].Total.Equal(decimal.RequireFromString("-300")))
	require.Len(t, stats.IncomeByMonth, 1)
	require.Equal(t, "2024-01", stats.IncomeByMonth[0].Month)
	require.True(t, stats.IncomeByMonth[0].Total.Equal(decimal.RequireFromString("35000")))

	require.NotNil(t, stats.DateRange.From)
	require.Equal(t, "2024-01-05", *stats.DateRange.From)
	require.Equal(t, "2024-02-05", *stats.DateRange.To)
}

func TestGetStats_DateRangeInclusive(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)

	importRows(t, ctx, db,
		"05.01.2024;-100,00;CZK;ROW A",
		"10.01.2024;-200,00;CZK;ROW B",
		"15.01.2024;-400,00;CZK;ROW C",
	)

	svc := &StatsService{Transactions: repository.NewTransactionRepo(db), Categories: repository.NewCategoryRepo(db)}

	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	stats, err := svc.GetStats(ctx, &from, &to)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalCount, "both bounds are inclusive")
	require.True(t, stats.TotalAmount.Equal(decimal.RequireFromString("-300")))

	// open-ended lower bound
	stats, err = svc.GetStats(ctx, nil, &to)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalCount)

	// open-ended upper bound
	stats, err = svc.GetStats(ctx, &from, nil)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalCount)
}

func TestGetStats_Empty(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)

	svc := &StatsService{Transactions: repository.NewTransactionRepo(db), Categories: repository.NewCategoryRepo(db)}
	stats, err := svc.GetStats(ctx, nil, nil)
	require.NoError(t, err)
	require.Zero(t, stats.TotalCount)
	require.True(t, stats.TotalAmount.IsZero())
	require.Empty(t, stats.ByCategory)
	require.Nil(t, stats.DateRange.From)
	require.Nil(t, stats.DateRange.To)
}
