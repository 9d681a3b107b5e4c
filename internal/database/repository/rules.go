package repository

import (
	"context"
	"database/sql"
)

// RuleRepo stores categorization rules.
type RuleRepo struct{ db *sql.DB }

func NewRuleRepo(db *sql.DB) *RuleRepo { return &RuleRepo{db: db} }

func (r *RuleRepo) Insert(ctx context.Context, rule Rule) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO category_rules(id, keyword, category_id, created_at)
	VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, rule.ID, rule.Keyword, rule.CategoryID)
	return err
}

// Update changes keyword and category of an existing rule. Returns false if
// no rule with the given id exists.
func (r *RuleRepo) Update(ctx context.Context, id, keyword, categoryID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE category_rules SET keyword = ?, category_id = ? WHERE id = ?
	`, keyword, categoryID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a rule. Returns false if no rule with the given id exists.
func (r *RuleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM category_rules WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RuleRepo) Get(ctx context.Context, id string) (*Rule, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, keyword, category_id, created_at FROM category_rules WHERE id = ?
	`, id)
	var rule Rule
	if err := row.Scan(&rule.ID, &rule.Keyword, &rule.CategoryID, &rule.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepo) List(ctx context.Context) ([]Rule, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, keyword, category_id, created_at FROM category_rules ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Rule
	for rows.Next() {
		var rule Rule
		if err := rows.Scan(&rule.ID, &rule.Keyword, &rule.CategoryID, &rule.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}
