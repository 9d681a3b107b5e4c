// Package bank holds the per-source statement parsers. Each supported bank
// owns its column layout, date and decimal conventions, and encoding; the
// caller designates the source explicitly, there is no content sniffing.
package bank

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Source identifies a supported bank export format.
type Source string

const (
	SourceCSOB    Source = "csob"
	SourceKB      Source = "kb"
	SourceAirbank Source = "airbank"
	SourceRevolut Source = "revolut"
)

// Record is the bank-format-agnostic shape produced by an adapter before
// persistence. Currency is empty for base-currency rows.
type Record struct {
	Date        time.Time // calendar date, midnight UTC
	Amount      decimal.Decimal
	Description string
	Source      Source
	Currency    string
}

// RowError reports a skipped malformed row. It is a warning, not a failure:
// parsing never aborts on individual bad rows.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// UnrecognizedFormatError means the file cannot be read as the designated
// bank's export at all. The whole file is rejected.
type UnrecognizedFormatError struct {
	Source Source
	Reason string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("file is not a recognizable %s export: %s", e.Source, e.Reason)
}

// Parser converts one bank's raw export into Records. Malformed rows are
// skipped and reported; only an unrecognizable file is a fatal error.
type Parser interface {
	Source() Source
	Parse(data []byte) ([]Record, []RowError, error)
}

// Registry holds the closed set of parsers keyed by source.
type Registry struct {
	parsers map[Source]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Source]Parser)}
}

// Register adds a parser. Panics on duplicate source.
func (r *Registry) Register(p Parser) {
	if _, ok := r.parsers[p.Source()]; ok {
		panic("duplicate parser source: " + string(p.Source()))
	}
	r.parsers[p.Source()] = p
}

// Get returns the parser for source, or nil.
func (r *Registry) Get(source Source) Parser {
	return r.parsers[Source(strings.ToLower(string(source)))]
}

// Sources returns the registered source names.
func (r *Registry) Sources() []Source {
	out := make([]Source, 0, len(r.parsers))
	for s := range r.parsers {
		out = append(out, s)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSOBParser{})
	r.Register(&KBParser{})
	r.Register(&AirbankParser{})
	r.Register(&RevolutParser{})
	return r
}

// parseAmount handles Czech-style amounts: thousands separated by spaces
// (regular or non-breaking), decimal comma or dot.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

// parseDate parses a calendar date in the given layout, anchored to UTC.
func parseDate(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// decodeWindows1250 converts legacy Czech bank exports to UTF-8.
func decodeWindows1250(data []byte) ([]byte, error) {
	return charmap.Windows1250.NewDecoder().Bytes(data)
}
