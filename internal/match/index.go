package match

import (
	"github.com/shopspring/decimal"

	"github.com/bilag-dev/bilag/internal/model"
)

// amountKey normalizes an amount to a cent-precision map key. Comparing
// through a fixed 2-decimal string avoids float drift between an amount
// read from the bank CSV and one extracted from a document.
func amountKey(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// indexByAmount maps each cent-precision amount to the documents that
// contain it. A document contributes one entry per distinct amount, no
// matter how often the amount repeats in its text. Built fresh from the
// current unmatched pool at the start of a pass.
func indexByAmount(docs []model.Document) map[string][]string {
	idx := make(map[string][]string)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc.Amounts))
		for _, a := range doc.Amounts {
			key := amountKey(a)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			idx[key] = append(idx[key], doc.ID)
		}
	}
	return idx
}

// aliasMatches reports whether any vendor line of the document matches any
// of the aliases, returning the first matching line.
func aliasMatches(doc model.Document, aliases []model.Alias) (string, bool) {
	for _, line := range doc.VendorLines {
		for _, a := range aliases {
			if a.Matches(line) {
				return line, true
			}
		}
	}
	return "", false
}
