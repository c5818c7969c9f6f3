// Package cgd parses Caixa Geral de Depósitos CSV exports.
package cgd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/importer/charset"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const dateLayout = "02-01-2006"

var ErrUnknownFormat = errors.New("no matching CGD format: expected the conta, extrato or cartão columns")

// Parser detects which CGD layout a file uses from its header row. Dates are
// read as calendar days in loc.
type Parser struct {
	loc *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}

	return &Parser{loc: loc}
}

func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]transaction.ImportParams, error) {
	utf8r, cs, err := charset.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, header := detect(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	logger.FromContext(ctx).Debug().
		Str("charset", cs).
		Str("profile", profile.Name).
		Int("header_row", header+1).
		Msg("cgd statement detected")

	var out []transaction.ImportParams

	for i, row := range rows[header+1:] {
		line := header + i + 2

		date, ok := p.date(cell(row, cols[profile.Date]))
		if !ok {
			continue
		}

		desc := cell(row, cols[profile.Desc])
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		amount, kind, ok := rowAmount(profile, cols, row)
		if !ok {
			continue
		}

		out = append(out, transaction.ImportParams{
			Name:           desc,
			RawDescription: desc,
			Amount:         amount,
			Type:           kind,
			Date:           date,
		})
	}

	return out, nil
}

func (p *Parser) date(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	d, err := time.ParseInLocation(dateLayout, s, p.loc)
	if err != nil {
		return time.Time{}, false
	}

	return d, true
}

// detect returns the first profile whose columns all appear in a single row,
// with that row's column positions.
func detect(rows [][]string) (*Profile, map[string]int, int) {
	for i, row := range rows {
		cols := make(map[string]int, len(row))

		for j, c := range row {
			if name := strings.TrimSpace(c); name != "" {
				cols[name] = j
			}
		}

		for k := range profiles {
			if hasAll(cols, profiles[k].columns()) {
				return &profiles[k], cols, i
			}
		}
	}

	return nil, nil, 0
}

func hasAll(cols map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return false
		}
	}

	return true
}

// rowAmount returns the unsigned amount and its direction. Rows without a
// usable non-zero amount (page footers, reversals) are skipped.
func rowAmount(p *Profile, cols map[string]int, row []string) (decimal.Decimal, transaction.Type, bool) {
	if p.signed() {
		v, ok := nonZero(cell(row, cols[p.Amount]))
		if !ok {
			return decimal.Decimal{}, "", false
		}

		if v.IsNegative() {
			return v.Neg(), transaction.TypeExpense, true
		}

		return v, transaction.TypeDeposit, true
	}

	if v, ok := nonZero(cell(row, cols[p.Debit])); ok {
		return v.Abs(), transaction.TypeExpense, true
	}

	if v, ok := nonZero(cell(row, cols[p.Credit])); ok {
		return v.Abs(), transaction.TypeDeposit, true
	}

	return decimal.Decimal{}, "", false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}

	v, err := parseAmount(s)
	if err != nil || v.IsZero() {
		return decimal.Decimal{}, false
	}

	return v, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
