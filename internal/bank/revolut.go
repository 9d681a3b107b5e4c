package bank

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RevolutParser parses Revolut CSV exports: UTF-8, comma separated,
// columns date,description,amount,currency, ISO dates, decimal dot.
type RevolutParser struct{}

const (
	revolutDateFormat = "2006-01-02"
	revolutNumFields  = 4
	revolutColDate    = 0
	revolutColDesc    = 1
	revolutColAmount  = 2
	revolutColCcy     = 3
)

func (p *RevolutParser) Source() Source { return SourceRevolut }

func (p *RevolutParser) Parse(data []byte) ([]Record, []RowError, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []Record
	var warnings []RowError
	line := 0
	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if line == 1 {
				return nil, nil, &UnrecognizedFormatError{Source: SourceRevolut, Reason: err.Error()}
			}
			warnings = append(warnings, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if line == 1 {
			if len(rec) < revolutNumFields || !strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
				return nil, nil, &UnrecognizedFormatError{Source: SourceRevolut, Reason: "missing expected header row"}
			}
			continue
		}
		if isBlankRow(rec) {
			continue
		}
		if len(rec) < revolutNumFields {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", revolutNumFields, len(rec))})
			continue
		}
		date, err := parseDate(revolutDateFormat, rec[revolutColDate])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("date %q: %v", rec[revolutColDate], err)})
			continue
		}
		amount, err := parseAmount(rec[revolutColAmount])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("amount %q: %v", rec[revolutColAmount], err)})
			continue
		}
		records = append(records, Record{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(rec[revolutColDesc]),
			Source:      SourceRevolut,
			Currency:    strings.ToUpper(strings.TrimSpace(rec[revolutColCcy])),
		})
	}
	return records, warnings, nil
}
