package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// Near-duplicate thresholds. The dedup key only catches exact re-imports;
// this report surfaces rows that slipped past it with a shifted booking date
// or a slightly reworded description.
const (
	suspectMaxDateDiffDays = 3
	suspectMaxEditDistance = 3
)

// SuspectService reports likely duplicates among persisted transactions.
// It is advisory and read-only: it never merges or deletes anything.
type SuspectService struct {
	Transactions *repository.TransactionRepo
}

// SuspectPair is a candidate duplicate pair.
type SuspectPair struct {
	A        repository.Transaction `json:"a"`
	B        repository.Transaction `json:"b"`
	Distance int                    `json:"distance"`
}

// Detect pairs transactions with equal amount and bank whose dates lie
// within a few days and whose normalized descriptions are within a small
// edit distance.
func (s *SuspectService) Detect(ctx context.Context) ([]SuspectPair, error) {
	rows, err := s.Transactions.List(ctx, repository.TransactionFilters{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	// Group by (amount, bank) so the pairwise scan stays bounded.
	groups := make(map[string][]repository.Transaction)
	for _, t := range rows {
		key := t.Amount.StringFixed(minorUnit) + "|" + t.Bank
		groups[key] = append(groups[key], t)
	}

	var pairs []SuspectPair
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				days := int(b.Date.Sub(a.Date).Hours() / 24)
				if days > suspectMaxDateDiffDays {
					break // group is date-sorted, later entries only drift further
				}
				dist := levenshtein.ComputeDistance(
					normalizeDescription(a.Description),
					normalizeDescription(b.Description),
				)
				if dist <= suspectMaxEditDistance {
					pairs = append(pairs, SuspectPair{A: a, B: b, Distance: dist})
				}
			}
		}
	}
	return pairs, nil
}
