package bank

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// KBParser parses Komerční banka CSV exports: windows-1250, semicolon
// separated, columns date;description;amount. KB exports carry no currency
// column; rows are in the account (base) currency.
type KBParser struct{}

const (
	kbDateFormat = "02.01.2006"
	kbNumFields  = 3
	kbColDate    = 0
	kbColDesc    = 1
	kbColAmount  = 2
)

func (p *KBParser) Source() Source { return SourceKB }

func (p *KBParser) Parse(data []byte) ([]Record, []RowError, error) {
	decoded, err := decodeWindows1250(data)
	if err != nil {
		return nil, nil, &UnrecognizedFormatError{Source: SourceKB, Reason: "not windows-1250 encoded"}
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
				return nil, nil, &UnrecognizedFormatError{Source: SourceKB, Reason: err.Error()}
			}
			warnings = append(warnings, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if line == 1 {
			if len(rec) < kbNumFields || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(rec[0])), "datum") {
				return nil, nil, &UnrecognizedFormatError{Source: SourceKB, Reason: "missing expected header row"}
			}
			continue
		}
		if isBlankRow(rec) {
			continue
		}
		if len(rec) < kbNumFields {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", kbNumFields, len(rec))})
			continue
		}
		date, err := parseDate(kbDateFormat, rec[kbColDate])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("date %q: %v", rec[kbColDate], err)})
			continue
		}
		amount, err := parseAmount(rec[kbColAmount])
		if err != nil {
			warnings = append(warnings, RowError{Line: line, Reason: fmt.Sprintf("amount %q: %v", rec[kbColAmount], err)})
			continue
		}
		records = append(records, Record{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(rec[kbColDesc]),
			Source:      SourceKB,
		})
	}
	return records, warnings, nil
}
