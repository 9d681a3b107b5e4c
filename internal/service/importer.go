package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Svacinar/not-stonks-sub000/internal/bank"
	"github.com/Svacinar/not-stonks-sub000/internal/database"
	"github.com/Svacinar/not-stonks-sub000/internal/database/repository"
)

// Importer orchestrates the two-phase parse/commit import protocol. Parse
// holds records in a TTL session without persisting; commit converts,
// deduplicates and persists them once the caller has confirmed rates.
type Importer struct {
	DB           *sql.DB
	Transactions *repository.TransactionRepo
	Registry     *bank.Registry
	Sessions     *SessionStore
	BaseCurrency string
	Log          zerolog.Logger
}

// ImportFile is one uploaded statement with its caller-designated source.
type ImportFile struct {
	Name   string
	Source bank.Source
	Data   []byte
}

// FileWarning carries the skipped rows of one file.
type FileWarning struct {
	File string          `json:"file"`
	Rows []bank.RowError `json:"rows"`
}

// ParseResult is the parse-phase response: counts only, nothing persisted.
type ParseResult struct {
	SessionID  string         `json:"sessionId"`
	Parsed     int            `json:"parsed"`
	Currencies []string       `json:"currencies"`
	ByBank     map[string]int `json:"byBank"`
	ByCurrency map[string]int `json:"byCurrency"`
	Warnings   []FileWarning  `json:"warnings,omitempty"`
}

// CommitResult is the commit-phase response with exact counts.
type CommitResult struct {
	Imported   int            `json:"imported"`
	Duplicates int            `json:"duplicates"`
	ByBank     map[string]int `json:"byBank"`
}

type parsedFile struct {
	records  []bank.Record
	warnings []bank.RowError
}

// ParseFiles runs every file through its adapter, aggregates the records
// into one pending batch under a fresh session id, and returns counts.
// Files parse in parallel; adapters are pure and share no state.
func (s *Importer) ParseFiles(ctx context.Context, files []ImportFile) (*ParseResult, error) {
	// Resolve adapters up front so an unknown source fails before any work.
	parsers := make([]bank.Parser, len(files))
	for i, f := range files {
		p := s.Registry.Get(f.Source)
		if p == nil {
			return nil, &UnknownSourceError{Source: string(f.Source)}
		}
		parsers[i] = p
	}

	parsed := make([]parsedFile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, warnings, err := parsers[i].Parse(f.Data)
			if err != nil {
				return fmt.Errorf("file %s: %w", f.Name, err)
			}
			parsed[i] = parsedFile{records: records, warnings: warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sess := importSession{
		ByBank:     make(map[string]int),
		ByCurrency: make(map[string]int),
	}
	var warnings []FileWarning
	foreign := make(map[string]struct{})
	for i, f := range files {
		for _, rec := range parsed[i].records {
			sess.Records = append(sess.Records, rec)
			sess.ByBank[string(rec.Source)]++
			ccy := strings.ToUpper(rec.Currency)
			if isBase(ccy, s.BaseCurrency) {
				ccy = s.BaseCurrency
			} else {
				foreign[ccy] = struct{}{}
			}
			sess.ByCurrency[ccy]++
		}
		if len(parsed[i].warnings) > 0 {
			warnings = append(warnings, FileWarning{File: f.Name, Rows: parsed[i].warnings})
		}
	}
	for ccy := range foreign {
		sess.Currencies = append(sess.Currencies, ccy)
	}
	sort.Strings(sess.Currencies)

	id := s.Sessions.Put(sess)
	s.Log.Info().
		Str("session_id", id).
		Int("records", len(sess.Records)).
		Strs("currencies", sess.Currencies).
		Msg("parsed import batch")

	return &ParseResult{
		SessionID:  id,
		Parsed:     len(sess.Records),
		Currencies: sess.Currencies,
		ByBank:     sess.ByBank,
		ByCurrency: sess.ByCurrency,
		Warnings:   warnings,
	}, nil
}

// CompleteImport converts the pending batch with the supplied rates,
// deduplicates against persisted data and within the batch, and persists the
// survivors atomically. The session is deleted only on success so a rejected
// commit can be retried with corrected rates.
func (s *Importer) CompleteImport(ctx context.Context, sessionID string, rates map[string]decimal.Decimal) (*CommitResult, error) {
	sess := s.Sessions.Get(sessionID)
	if sess == nil {
		return nil, &SessionExpiredError{SessionID: sessionID}
	}

	// Every detected foreign currency needs a positive rate before anything
	// is persisted.
	normalized := make(map[string]decimal.Decimal, len(rates))
	for ccy, rate := range rates {
		normalized[strings.ToUpper(ccy)] = rate
	}
	for _, ccy := range sess.Currencies {
		rate, ok := normalized[ccy]
		if !ok {
			return nil, &MissingRateError{Currency: ccy}
		}
		if !rate.IsPositive() {
			return nil, &InvalidRateError{Currency: ccy, Rate: rate}
		}
	}

	batch := make([]repository.Transaction, 0, len(sess.Records))
	keys := make([]string, 0, len(sess.Records))
	for _, rec := range sess.Records {
		rate := decimal.NewFromInt(1)
		if !isBase(rec.Currency, s.BaseCurrency) {
			rate = normalized[strings.ToUpper(rec.Currency)]
		}
		t := convertRecord(rec, s.BaseCurrency, rate)
		batch = append(batch, t)
		keys = append(keys, t.DedupKey)
	}

	res := &CommitResult{ByBank: make(map[string]int)}
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		existing, err := s.Transactions.ExistingDedupKeysTx(ctx, tx, keys)
		if err != nil {
			return fmt.Errorf("dedup lookup: %w", err)
		}
		seen := make(map[string]struct{}, len(batch))
		for _, t := range batch {
			if _, dup := existing[t.DedupKey]; dup {
				res.Duplicates++
				continue
			}
			if _, dup := seen[t.DedupKey]; dup {
				res.Duplicates++
				continue
			}
			if err := s.Transactions.InsertTx(ctx, tx, t); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
			seen[t.DedupKey] = struct{}{}
			res.Imported++
			res.ByBank[t.Bank]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Sessions.Delete(sessionID)
	s.Log.Info().
		Str("session_id", sessionID).
		Int("imported", res.Imported).
		Int("duplicates", res.Duplicates).
		Msg("import committed")
	return res, nil
}
