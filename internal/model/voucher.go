package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher represents one bank posting awaiting a supporting document.
type Voucher struct {
	ID         string          // voucher number, kept as string ("0953")
	Date       time.Time       // posting date; zero if unknown
	Amount     decimal.Decimal // always positive, 2 decimal places
	CreditorID int             // 0 = no creditor on the posting
	Text       string          // free text from the bank statement
}

// HasCreditor reports whether the posting carries a creditor reference.
func (v Voucher) HasCreditor() bool {
	return v.CreditorID != 0
}
