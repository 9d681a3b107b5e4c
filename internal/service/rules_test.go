package service

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
	"github.com/Svacinar/not-stonks-sub000/internal/logger"
)

func newRuleService(t *testing.T, db *sql.DB) *RuleService {
	t.Helper()
	return &RuleService{
		DB:           db,
		Rules:        repository.NewRuleRepo(db),
		Categories:   repository.NewCategoryRepo(db),
		Transactions: repository.NewTransactionRepo(db),
		Log:          logger.NewWithWriter(io.Discard),
	}
}

func seedCategory(t *testing.T, ctx context.Context, db *sql.DB, name string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, repository.NewCategoryRepo(db).Upsert(ctx, repository.Category{ID: id, Name: name, Color: "#cccccc"}))
	return id
}

// importRows persists base-currency CSOB rows so rule tests have real data.
func importRows(t *testing.T, ctx context.Context, db *sql.DB, rows ...string) {
	t.Helper()
	imp := newImporter(t, db, time.Minute)
	parse, err := imp.ParseFiles(ctx, []ImportFile{csobFile(rows...)})
	require.NoError(t, err)
	_, err = imp.CompleteImport(ctx, parse.SessionID, nil)
	require.NoError(t, err)
}

func findByDescription(t *testing.T, ctx context.Context, db *sql.DB, search string) repository.Transaction {
	t.Helper()
	txs, err := repository.NewTransactionRepo(db).List(ctx, repository.TransactionFilters{Search: search})
	require.NoError(t, err)
	require.Len(t, txs, 1, "search %q", search)
	return txs[0]
}

func TestRuleCRUD(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	catID := seedCategory(t, ctx, db, "Groceries")

	rule, err := svc.Create(ctx, "TESCO", catID)
	require.NoError(t, err)
	require.Equal(t, "TESCO", rule.Keyword)
	require.Equal(t, catID, rule.CategoryID)
	require.False(t, rule.CreatedAt.IsZero())

	updated, err := svc.Update(ctx, rule.ID, "TESCO EXPRESS", catID)
	require.NoError(t, err)
	require.Equal(t, "TESCO EXPRESS", updated.Keyword)

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	require.NoError(t, svc.Delete(ctx, rule.ID))
	rules, err = svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, rules)
}

func TestRuleCRUD_Errors(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	catID := seedCategory(t, ctx, db, "Groceries")

	_, err := svc.Create(ctx, "   ", catID)
	require.ErrorIs(t, err, ErrBlankKeyword)

	_, err = svc.Create(ctx, "TESCO", "no-such-category")
	require.ErrorIs(t, err, ErrCategoryNotFound)

	var notFound *RuleNotFoundError
	_, err = svc.Update(ctx, "missing-id", "TESCO", catID)
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "missing-id", notFound.ID)

	err = svc.Delete(ctx, "missing-id")
	require.ErrorAs(t, err, &notFound)
}

func TestApplyRules_LongestKeywordWins(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	groceries := seedCategory(t, ctx, db, "Groceries")
	convenience := seedCategory(t, ctx, db, "Convenience")

	importRows(t, ctx, db, "02.01.2024;-123,45;CZK;TESCO EXPRESS PRAHA")

	_, err := svc.Create(ctx, "TESCO", groceries)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "TESCO EXPRESS", convenience)
	require.NoError(t, err)

	res, err := svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Categorized)
	require.Equal(t, 0, res.TotalUncategorized)

	tx := findByDescription(t, ctx, db, "TESCO EXPRESS PRAHA")
	require.NotNil(t, tx.CategoryID)
	require.Equal(t, convenience, *tx.CategoryID, "the longer keyword must win")
}

func TestApplyRules_TieBreaksToEarliestRule(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	first := seedCategory(t, ctx, db, "First")
	second := seedCategory(t, ctx, db, "Second")

	importRows(t, ctx, db, "02.01.2024;-10,00;CZK;ALBERT LIDL STORE")

	r1, err := svc.Create(ctx, "ALBERT", first) // 6 chars
	require.NoError(t, err)
	// force distinct creation instants despite CURRENT_TIMESTAMP second
	// granularity, so the earliest-created tie-break is deterministic
	_, err = db.ExecContext(ctx, `UPDATE category_rules SET created_at = '2024-01-01 00:00:00' WHERE id = ?`, r1.ID)
	require.NoError(t, err)
	r2, err := svc.Create(ctx, "LIDL S", second) // also 6 chars
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE category_rules SET created_at = '2024-01-02 00:00:00' WHERE id = ?`, r2.ID)
	require.NoError(t, err)

	res, err := svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Categorized)

	tx := findByDescription(t, ctx, db, "ALBERT LIDL STORE")
	require.NotNil(t, tx.CategoryID)
	require.Equal(t, first, *tx.CategoryID, "equal-length keywords must break to the earlier rule")
}

func TestApplyRules_NeverOverwrites(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	groceries := seedCategory(t, ctx, db, "Groceries")
	manual := seedCategory(t, ctx, db, "Manual")

	importRows(t, ctx, db, "02.01.2024;-123,45;CZK;TESCO EXPRESS PRAHA")

	tx := findByDescription(t, ctx, db, "TESCO")
	txSvc := &TransactionService{Transactions: repository.NewTransactionRepo(db), Categories: repository.NewCategoryRepo(db)}
	require.NoError(t, txSvc.SetCategory(ctx, tx.ID, &manual))

	_, err := svc.Create(ctx, "TESCO", groceries)
	require.NoError(t, err)

	res, err := svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Categorized)
	require.Equal(t, 0, res.TotalUncategorized)

	tx = findByDescription(t, ctx, db, "TESCO")
	require.NotNil(t, tx.CategoryID)
	require.Equal(t, manual, *tx.CategoryID, "manual assignment must survive rule application")
}

func TestApplyRules_IdempotentAndCaseInsensitive(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	groceries := seedCategory(t, ctx, db, "Groceries")

	importRows(t, ctx, db,
		"02.01.2024;-123,45;CZK;tesco express praha",
		"03.01.2024;-50,00;CZK;UNMATCHED MERCHANT",
	)

	_, err := svc.Create(ctx, "TESCO", groceries)
	require.NoError(t, err)

	res1, err := svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res1.Categorized)
	require.Equal(t, 1, res1.TotalUncategorized)

	// a second run with an unchanged rule set categorizes nothing new
	res2, err := svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res2.Categorized)
	require.Equal(t, 1, res2.TotalUncategorized)
}

func TestApplyRules_RetroactiveOnNewRule(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	svc := newRuleService(t, db)
	transport := seedCategory(t, ctx, db, "Transport")

	// backlog imported long before the rule exists
	importRows(t, ctx, db,
		"02.01.2023;-32,00;CZK;DPP JIZDENKA",
		"02.01.2024;-32,00;CZK;DPP JIZDENKA PRAHA",
	)

	res, err := svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Categorized)
	require.Equal(t, 2, res.TotalUncategorized)

	_, err = svc.Create(ctx, "DPP", transport)
	require.NoError(t, err)

	res, err = svc.ApplyRules(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Categorized, "new rules must clean up historical backlog")
	require.Equal(t, 0, res.TotalUncategorized)
}

func TestBestMatchDeterminism(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	rules := []repository.Rule{
		{ID: "b", Keyword: "TESCO", CategoryID: "1", CreatedAt: now},
		{ID: "a", Keyword: "tesco", CategoryID: "2", CreatedAt: now},
	}
	// equal length, equal creation instant: lowest id wins
	best := bestMatch(rules, "TESCO EXPRESS PRAHA")
	require.NotNil(t, best)
	require.Equal(t, "a", best.ID)

	require.Nil(t, bestMatch(rules, "ALBERT"))
	require.Nil(t, bestMatch(nil, "TESCO"))
}
