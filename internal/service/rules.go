package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Svacinar/not-stonks-sub000/internal/database"
	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// RuleService owns categorization rule CRUD and batch application.
type RuleService struct {
	DB           *sql.DB
	Rules        *repository.RuleRepo
	Categories   *repository.CategoryRepo
	Transactions *repository.TransactionRepo
	Log          zerolog.Logger
}

// ApplyResult reports one ApplyRules run.
type ApplyResult struct {
	Categorized        int `json:"categorized"`
	TotalUncategorized int `json:"totalUncategorized"`
}

func (s *RuleService) Create(ctx context.Context, keyword, categoryID string) (*repository.Rule, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrBlankKeyword
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	rule := repository.Rule{ID: uuid.NewString(), Keyword: keyword, CategoryID: categoryID}
	if err := s.Rules.Insert(ctx, rule); err != nil {
		return nil, fmt.Errorf("insert rule: %w", err)
	}
	return s.Rules.Get(ctx, rule.ID)
}

func (s *RuleService) Update(ctx context.Context, id, keyword, categoryID string) (*repository.Rule, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrBlankKeyword
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	ok, err := s.Rules.Update(ctx, id, keyword, categoryID)
	if err != nil {
		return nil, fmt.Errorf("update rule: %w", err)
	}
	if !ok {
		return nil, &RuleNotFoundError{ID: id}
	}
	return s.Rules.Get(ctx, id)
}

func (s *RuleService) Delete(ctx context.Context, id string) error {
	ok, err := s.Rules.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if !ok {
		return &RuleNotFoundError{ID: id}
	}
	return nil
}

func (s *RuleService) List(ctx context.Context) ([]repository.Rule, error) {
	return s.Rules.List(ctx)
}

func (s *RuleService) checkCategory(ctx context.Context, categoryID string) error {
	cat, err := s.Categories.Get(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("lookup category: %w", err)
	}
	if cat == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	return nil
}

// ApplyRules scans every uncategorized transaction and assigns the category
// of the best matching rule. A keyword matches as a case-insensitive
// substring of the description; among matching rules the longest keyword
// wins, then the earliest-created, then the lowest id. Rows with a category
// are never touched, so manual edits survive any number of runs. All
// assignments land in one database transaction.
func (s *RuleService) ApplyRules(ctx context.Context) (*ApplyResult, error) {
	rules, err := s.Rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	uncategorized, err := s.Transactions.ListUncategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized: %w", err)
	}

	assignments := make(map[string][]string) // category id -> transaction ids
	matched := 0
	for _, t := range uncategorized {
		rule := bestMatch(rules, t.Description)
		if rule == nil {
			continue
		}
		assignments[rule.CategoryID] = append(assignments[rule.CategoryID], t.ID)
		matched++
	}

	res := &ApplyResult{}
	if matched > 0 {
		err = database.WithTx(s.DB, func(tx *sql.Tx) error {
			for categoryID, ids := range assignments {
				n, err := s.Transactions.AssignCategoryTx(ctx, tx, categoryID, ids)
				if err != nil {
					return fmt.Errorf("assign category %s: %w", categoryID, err)
				}
				res.Categorized += int(n)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	remaining, err := s.Transactions.CountUncategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("count uncategorized: %w", err)
	}
	res.TotalUncategorized = remaining

	s.Log.Info().
		Int("categorized", res.Categorized).
		Int("uncategorized", res.TotalUncategorized).
		Msg("applied categorization rules")
	return res, nil
}

// bestMatch picks the matching rule with the longest keyword; ties break to
// the earliest-created rule, then the lowest id for full determinism.
func bestMatch(rules []repository.Rule, description string) *repository.Rule {
	desc := strings.ToLower(description)
	var best *repository.Rule
	for i := range rules {
		r := &rules[i]
		kw := strings.ToLower(r.Keyword)
		if kw == "" || !strings.Contains(desc, kw) {
			continue
		}
		if best == nil {
			best = r
			continue
		}
		switch {
		case len(r.Keyword) > len(best.Keyword):
			best = r
		case len(r.Keyword) == len(best.Keyword) && r.CreatedAt.Before(best.CreatedAt):
			best = r
		case len(r.Keyword) == len(best.Keyword) && r.CreatedAt.Equal(best.CreatedAt) && r.ID < best.ID:
			best = r
		}
	}
	return best
}
