package bank

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// AirbankParser parses Air Bank CSV exports: UTF-8, comma separated,
// columns date,amount,currency,description, dd/mm/yyyy dates. Amounts use a
// decimal comma inside quoted fields ("1 234,56") or a plain dot.
type AirbankParser struct{}

const (
	airbankDateFormat = "02/01/2006"
	airbankNumFields  = 4
	airbankColDate    = 0
	airbankColAmount  = 1
	airbankColCcy     = 2
	airbankColDesc    = 3
)

func (p *AirbankParser) Source() Source { return SourceAirbank }

func (p *AirbankParser) Parse(data []byte) ([]Record, []RowError, error) {
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
				return nil, nil, &UnrecognizedFormatError{Source: SourceAirbank, Reason: err.Error()}
			}
			warnings = append(warnings, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if line == 1 {
			if len(rec) < airbankNumFields || !strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
				return nil, nil, &UnrecognizedFormatError{Source: SourceAirbank, Reason: "missing expected header row"}
			}
			continue
		}
		if isBlankRow(rec) {
			continue
		}
		if len(rec) < airbankNumFields {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", airbankNumFields, len(rec))})
			continue
		}
		date, err := parseDate(airbankDateFormat, rec[airbankColDate])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("date %q: %v", rec[airbankColDate], err)})
			continue
		}
		amount, err := parseAmount(rec[airbankColAmount])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("amount %q: %v", rec[airbankColAmount], err)})
			continue
		}
		records = append(records, Record{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(rec[airbankColDesc]),
			Source:      SourceAirbank,
			Currency:    strings.ToUpper(strings.TrimSpace(rec[airbankColCcy])),
		})
	}
	return records, warnings, nil
}
