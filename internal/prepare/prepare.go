// Package prepare turns a raw bank statement export into numbered voucher
// rows: expenses are matched against creditor aliases and split from
// income, and each row gets a voucher number. The resulting CSV is the
// input of the matching workflow.
package prepare

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/importer"
	"github.com/bilag-dev/bilag/internal/model"
)

// StatementEntry is one row of the raw bank statement.
type StatementEntry struct {
	Date   time.Time
	Amount decimal.Decimal
	Text   string
}

// VoucherRow is a numbered posting ready for the bookkeeping import.
// Amount is always positive; the direction lives in which list of the
// Result the row ends up in.
type VoucherRow struct {
	VoucherNumber int
	Date          time.Time
	Amount        decimal.Decimal
	CreditorID    int // 0 when no creditor matched
	DebitAccount  string
	CreditAccount string
	Text          string
}

// Result holds the split statement. Unmatched counts the expense rows
// that no alias claimed; those rows are still numbered and kept in
// Credit with blank accounts so the bookkeeper can fill them in.
type Result struct {
	Credit    []VoucherRow
	Debit     []VoucherRow
	Unmatched int
}

// Options are the default accounts for income rows.
type Options struct {
	BankAccount  string
	SalesAccount string
}

func (o Options) withDefaults() Options {
	if o.BankAccount == "" {
		o.BankAccount = "58000"
	}
	if o.SalesAccount == "" {
		o.SalesAccount = "1000"
	}
	return o
}

// Service prepares statements against a fixed creditor register.
type Service struct {
	creditors []model.Creditor
	opts      Options
	log       *zap.Logger
}

// NewService creates a prepare service. Creditors are tried in ID order
// so alias matching is deterministic regardless of register order.
func NewService(creditors []model.Creditor, opts Options, log *zap.Logger) *Service {
	sorted := make([]model.Creditor, len(creditors))
	copy(sorted, creditors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Service{creditors: sorted, opts: opts.withDefaults(), log: log}
}

// numberer hands out voucher numbers. Creditors flagged single-voucher
// reuse one number for all their rows.
type numberer struct {
	next   int
	single map[int]int
}

func newNumberer() *numberer {
	return &numberer{next: 1, single: make(map[int]int)}
}

func (n *numberer) assign(creditorID int, singleVoucher bool) int {
	if singleVoucher && creditorID != 0 {
		if v, ok := n.single[creditorID]; ok {
			return v
		}
		v := n.next
		n.next++
		n.single[creditorID] = v
		return v
	}
	v := n.next
	n.next++
	return v
}

// Process numbers and splits the statement entries in input order.
func (s *Service) Process(entries []StatementEntry) Result {
	var res Result
	nums := newNumberer()

	for _, e := range entries {
		if e.Amount.IsNegative() {
			res.Credit = append(res.Credit, s.expenseRow(e, nums, &res))
			continue
		}
		res.Debit = append(res.Debit, VoucherRow{
			VoucherNumber: nums.assign(0, false),
			Date:          e.Date,
			Amount:        e.Amount,
			DebitAccount:  s.opts.BankAccount,
			CreditAccount: s.opts.SalesAccount,
			Text:          e.Text,
		})
	}
	return res
}

func (s *Service) expenseRow(e StatementEntry, nums *numberer, res *Result) VoucherRow {
	for _, cr := range s.creditors {
		for _, al := range cr.Aliases {
			if !al.Matches(e.Text) {
				continue
			}
			text := e.Text
			if al.Override != "" {
				text = al.Override
			}
			return VoucherRow{
				VoucherNumber: nums.assign(cr.ID, cr.SingleVoucher),
				Date:          e.Date,
				Amount:        e.Amount.Abs(),
				CreditorID:    cr.ID,
				DebitAccount:  al.DebitAccount,
				CreditAccount: al.CreditAccount,
				Text:          text,
			}
		}
	}

	res.Unmatched++
	s.log.Warn("expense without creditor alias", zap.String("text", e.Text))
	return VoucherRow{
		VoucherNumber: nums.assign(0, false),
		Date:          e.Date,
		Amount:        e.Amount.Abs(),
		Text:          e.Text,
	}
}

// statement column headers; the bank exports both Danish and English.
var statementColumns = [][2]string{
	{"Dato", "Date"},
	{"Beløb", "Amount"},
	{"Tekst", "Text"},
}

// ParseStatement reads the raw semicolon statement CSV. Rows with an
// unparsable date or amount are skipped with a warning.
func ParseStatement(r io.Reader, log *zap.Logger) ([]StatementEntry, error) {
	cr := csv.NewReader(r)
	cr.Comma = importer.Separator
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	idx := make([]int, len(statementColumns))
	for n, names := range statementColumns {
		i, ok := cols[names[0]]
		if !ok {
			i, ok = cols[names[1]]
		}
		if !ok {
			return nil, fmt.Errorf("statement CSV is missing column %q", names[1])
		}
		idx[n] = i
	}

	field := func(rec []string, n int) string {
		if idx[n] >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx[n]])
	}

	var entries []StatementEntry
	for n, rec := range records[1:] {
		row := n + 2

		date, err := importer.ParsePostingDate(field(rec, 0))
		if err != nil {
			log.Warn("skipping statement row with invalid date",
				zap.Int("row", row), zap.String("date", field(rec, 0)))
			continue
		}
		amount, err := importer.ParseAmount(field(rec, 1))
		if err != nil {
			log.Warn("skipping statement row with invalid amount",
				zap.Int("row", row), zap.String("amount", field(rec, 1)))
			continue
		}

		entries = append(entries, StatementEntry{
			Date:   date,
			Amount: amount.Round(2),
			Text:   field(rec, 2),
		})
	}
	return entries, nil
}

// rowHeader is the column order of the prepared voucher CSV.
var rowHeader = []string{"VoucherNumber", "Date", "Amount", "CreditorID", "DebitAccount", "CreditAccount", "Text"}

// WriteRows writes prepared rows as a semicolon CSV with Danish number
// formatting, matching what the bookkeeping import expects.
func WriteRows(w io.Writer, rows []VoucherRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = importer.Separator

	if err := cw.Write(rowHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		creditor := ""
		if r.CreditorID != 0 {
			creditor = strconv.Itoa(r.CreditorID)
		}
		rec := []string{
			strconv.Itoa(r.VoucherNumber),
			r.Date.Format("02-01-2006"),
			formatAmount(r.Amount),
			creditor,
			r.DebitAccount,
			r.CreditAccount,
			r.Text,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", r.VoucherNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatAmount renders two decimals with a comma separator.
func formatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
