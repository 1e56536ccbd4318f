package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is one scanned invoice or receipt, reduced to the candidate
// dates, amounts, and vendor text lines the extraction step found in it.
type Document struct {
	ID          string // source filename, e.g. "invoice123.pdf"
	Dates       []time.Time
	Amounts     []decimal.Decimal
	VendorLines []string
}

// HasAmount reports whether the document contains the given amount at
// cent precision.
func (d Document) HasAmount(amount decimal.Decimal) bool {
	want := amount.Round(2)
	for _, a := range d.Amounts {
		if a.Round(2).Equal(want) {
			return true
		}
	}
	return false
}
