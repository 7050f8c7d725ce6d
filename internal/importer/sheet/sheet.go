// Package sheet reads expense sheets exported as CSV: the expense export of
// this application, hand kept spreadsheets and bank statements.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/controlfin/internal/encoding"
	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

// DefaultCategory is used for rows of sheets without a category column.
const DefaultCategory = "Otros"

var ErrUnknownFormat = errors.New("no matching sheet format found")

// Row is one expense read from a sheet. Card and bank are referenced by
// name, as written in the sheet.
type Row struct {
	Line        int
	Description string
	Amount      string
	Category    string
	Date        string
	Method      string
	Card        string
	Bank        string
}

type Sheet struct {
	Profile string
	Charset string
	Rows    []Row
}

// Parse detects the encoding, separator and layout of a sheet and returns
// its expense rows. Rows without a readable date or amount, such as totals
// and page footers, are skipped.
func Parse(r io.Reader) (*Sheet, error) {
	utf8r, charset, err := encoding.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readCSV(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		parsed, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
		if err != nil {
			return nil, err
		}

		return &Sheet{Profile: profile.Name, Charset: charset, Rows: parsed}, nil
	}

	return nil, ErrUnknownFormat
}

func readCSV(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts expenses from the data rows. headerIdx is the 0-based
// index of the header in the file; Row.Line is 1-based.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) ([]Row, error) {
	var out []Row

	for i, row := range rows {
		line := headerIdx + i + 2

		date, ok := parseDate(p, cellValue(row, cols, p.DateCol))
		if !ok {
			continue
		}

		raw := cellValue(row, cols, p.AmountCol)
		if raw == "" {
			continue
		}

		amount, err := parseAmount(raw, p.DecimalComma)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", line, raw)
		}

		if p.Signed {
			if !amount.IsNegative() {
				continue
			}

			amount = amount.Neg()
		}

		out = append(out, Row{
			Line:        line,
			Description: cellValue(row, cols, p.DescCol),
			Amount:      amount.String(),
			Category:    orDefault(cellValue(row, cols, p.CategoryCol), DefaultCategory),
			Date:        date.Format(time.DateOnly),
			Method:      orDefault(cellValue(row, cols, p.MethodCol), string(finance.MethodCash)),
			Card:        cellValue(row, cols, p.CardCol),
			Bank:        cellValue(row, cols, p.BankCol),
		})
	}

	return out, nil
}

func parseDate(p *Profile, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range p.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// cellValue returns the trimmed cell of the named column, or "" when the
// profile has no such column or the row is short.
func cellValue(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
