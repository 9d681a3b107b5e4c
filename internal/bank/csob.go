package bank

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSOBParser parses ČSOB CSV exports: windows-1250, semicolon separated,
// columns date;amount;currency;description, dd.mm.yyyy dates, decimal comma.
type CSOBParser struct{}

const (
	csobDateFormat = "02.01.2006"
	csobNumFields  = 4
	csobColDate    = 0
	csobColAmount  = 1
	csobColCcy     = 2
	csobColDesc    = 3
)

func (p *CSOBParser) Source() Source { return SourceCSOB }

func (p *CSOBParser) Parse(data []byte) ([]Record, []RowError, error) {
	decoded, err := decodeWindows1250(data)
	if err != nil {
		return nil, nil, &UnrecognizedFormatError{Source: SourceCSOB, Reason: "not windows-1250 encoded"}
	}
	cr := csv.NewReader(bytes.NewReader(decoded))
	cr.Comma = ';'
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
				return nil, nil, &UnrecognizedFormatError{Source: SourceCSOB, Reason: err.Error()}
			}
			warnings = append(warnings, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if line == 1 {
			if !csobHeader(rec) {
				return nil, nil, &UnrecognizedFormatError{Source: SourceCSOB, Reason: "missing expected header row"}
			}
			continue
		}
		if isBlankRow(rec) {
			continue
		}
		if len(rec) < csobNumFields {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", csobNumFields, len(rec))})
			continue
		}
		date, err := parseDate(csobDateFormat, rec[csobColDate])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("date %q: %v", rec[csobColDate], err)})
			continue
		}
		amount, err := parseAmount(rec[csobColAmount])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("amount %q: %v", rec[csobColAmount], err)})
			continue
		}
		records = append(records, Record{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(rec[csobColDesc]),
			Source:      SourceCSOB,
			Currency:    strings.ToUpper(strings.TrimSpace(rec[csobColCcy])),
		})
	}
	return records, warnings, nil
}

func csobHeader(rec []string) bool {
	if len(rec) < csobNumFields {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return strings.HasPrefix(first, "datum")
}

func isBlankRow(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
