package match

import (
	"sort"

	"github.com/bilag-dev/bilag/internal/dates"
	"github.com/bilag-dev/bilag/internal/model"
)

// Scoring weights for manual review. A document matching on amount, alias,
// and a date within a week totals 100.
const (
	scoreAmount     = 50
	scoreAlias      = 30
	scoreDateWeek   = 20 // closest date within 7 days
	scoreDateWindow = 10 // within 15 days
	scoreDateMonth  = 5  // within 30 days
)

// Candidate is one scored document for a voucher, for display to a human.
type Candidate struct {
	DocumentID        string
	Score             int
	MatchedVendorLine string // the vendor line that matched an alias, if any
}

// ScoreCandidates ranks every document in the given pool against one
// voucher. The caller chooses the pool (full collection or unmatched
// only). cred may be nil when the voucher's creditor is unknown; the alias
// bonus is simply unavailable then. Pure function: match state is never
// touched, and the ranking is not a commit.
func ScoreCandidates(v model.Voucher, pool []model.Document, cred *model.Creditor) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, doc := range pool {
		c := Candidate{DocumentID: doc.ID}

		if doc.HasAmount(v.Amount) {
			c.Score += scoreAmount
		}

		if cred != nil {
			// First matching line wins; multiple aliases do not stack.
			if line, ok := aliasMatches(doc, cred.Aliases); ok {
				c.Score += scoreAlias
				c.MatchedVendorLine = line
			}
		}

		if closest, ok := dates.Closest(doc.Dates, v.Date); ok && !v.Date.IsZero() {
			switch diff := dates.DaysApart(closest, v.Date); {
			case diff <= 7:
				c.Score += scoreDateWeek
			case diff <= 15:
				c.Score += scoreDateWindow
			case diff <= 30:
				c.Score += scoreDateMonth
			}
		}

		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out
}
