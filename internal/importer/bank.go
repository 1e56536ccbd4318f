// Package importer parses the engine's input files: the semicolon bank
// voucher CSV and the extracted document-data JSON. All record validation
// happens here; malformed rows are dropped with a warning so the matching
// engine only ever sees clean records.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/dates"
	"github.com/bilag-dev/bilag/internal/model"
)

// Separator is the field separator of the bank CSV files.
const Separator = ';'

// bankColumns are the required header names of the voucher CSV.
var bankColumns = []string{"VoucherNumber", "Date", "Amount", "CreditorID", "Text"}

// ParseVouchers reads the semicolon-delimited voucher CSV. Rows with an
// unparsable date or amount are skipped with a warning; an empty
// CreditorID is a valid posting without a creditor.
func ParseVouchers(r io.Reader, log *zap.Logger) ([]model.Voucher, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading voucher CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range bankColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("voucher CSV is missing column %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var vouchers []model.Voucher
	for n, rec := range records[1:] {
		row := n + 2

		date, err := ParsePostingDate(field(rec, "Date"))
		if err != nil {
			log.Warn("skipping voucher row with invalid date",
				zap.Int("row", row), zap.String("date", field(rec, "Date")))
			continue
		}

		amount, err := ParseAmount(field(rec, "Amount"))
		if err != nil {
			log.Warn("skipping voucher row with invalid amount",
				zap.Int("row", row), zap.String("amount", field(rec, "Amount")))
			continue
		}

		creditorID := 0
		if s := field(rec, "CreditorID"); s != "" {
			creditorID, err = strconv.Atoi(s)
			if err != nil {
				log.Warn("skipping voucher row with invalid creditor id",
					zap.Int("row", row), zap.String("creditor_id", s))
				continue
			}
		}

		vouchers = append(vouchers, model.Voucher{
			ID:         field(rec, "VoucherNumber"),
			Date:       date,
			Amount:     amount.Round(2),
			CreditorID: creditorID,
			Text:       field(rec, "Text"),
		})
	}
	return vouchers, nil
}

// ParsePostingDate accepts ISO dates plus the day-first forms the bank
// exports use: DD-MM-YYYY and DD.MM.YY (two-digit years mean 20xx).
func ParsePostingDate(s string) (time.Time, error) {
	if t, err := dates.Parse(s); err == nil {
		return t, nil
	}

	sep := "-"
	if strings.Contains(s, ".") {
		sep = "."
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", dates.ErrInvalidDate, s)
	}
	day, month, year := pad2(parts[0]), pad2(parts[1]), parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return dates.Parse(year + "-" + month + "-" + day)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ParseAmount parses an amount that may use Danish number formatting:
// "1.234,56" (dot thousands, comma decimal) or "123,45" (comma decimal),
// alongside plain "123.45".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
