package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var ErrNoHeader = errors.New("no recognizable header: expected date, description and amount columns")

var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// Parser reads bank and spreadsheet CSV exports into transaction params.
// Categories are never taken from the file.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	decoded, err := enc.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	delim := sniffDelimiter(data)

	slog.Debug("parsing csv import", "charset", decoded.Charset, "delimiter", string(delim))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	l, headerIdx := detectLayout(rows)
	if l == nil {
		return nil, ErrNoHeader
	}

	return parseRows(l, rows[headerIdx+1:], headerIdx+1)
}

// sniffDelimiter picks ';' or ',' by counting them in the first lines.
func sniffDelimiter(data []byte) rune {
	var semi, comma int

	for i, line := range bytes.SplitN(data, []byte("\n"), 11) {
		if i == 10 {
			break
		}

		semi += bytes.Count(line, []byte(";"))
		comma += bytes.Count(line, []byte(","))
	}

	if semi > 0 && semi >= comma {
		return ';'
	}

	return ','
}

func detectLayout(rows [][]string) (*layout, int) {
	for rowIdx, row := range rows {
		cols := newColIndex(row)

		for i := range profiles {
			if l := profiles[i].match(cols); l != nil {
				return l, rowIdx
			}
		}
	}

	return nil, 0
}

func parseRows(l *layout, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(cellValue(row, l.date))
		if !ok {
			continue
		}

		desc := cellValue(row, l.desc)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := l.amountOf(row)
		if !ok {
			continue
		}

		if kind := cellValue(row, l.kind); kind != "" {
			t, err := parseKind(kind)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}

			txType = t
		}

		params = append(params, transaction.CreateParams{
			Date:        date,
			Description: desc,
			Type:        txType,
			Amount:      amount,
		})
	}

	return params, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseKind(s string) (transaction.Type, error) {
	switch strings.ToLower(s) {
	case "expense", "debit", "despesa":
		return transaction.TypeExpense, nil
	case "income", "credit", "receita":
		return transaction.TypeIncome, nil
	}

	return "", fmt.Errorf("%w: %q", transaction.ErrInvalidType, s)
}

func (l *layout) amountOf(row []string) (decimal.Decimal, transaction.Type, bool) {
	switch l.profile.mode {
	case amountSingle:
		return signedAmount(cellValue(row, l.amount))
	case amountSplit:
		if d, _, ok := signedAmount(cellValue(row, l.debit)); ok {
			return d, transaction.TypeExpense, true
		}

		if d, _, ok := signedAmount(cellValue(row, l.credit)); ok {
			return d, transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

// signedAmount returns the absolute value and the type implied by the sign.
// Empty, zero and unparseable cells report false.
func signedAmount(s string) (decimal.Decimal, transaction.Type, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Abs(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
