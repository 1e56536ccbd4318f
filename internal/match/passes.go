package match

import (
	"time"

	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/dates"
	"github.com/bilag-dev/bilag/internal/model"
)

// passA matches on exact amount. The amount index is built over the
// unmatched documents only, and a voucher is matched only when exactly one
// document carries its amount: two unrelated documents sharing an amount
// must never be auto-assigned.
func (e *Engine) passA(vouchers []model.Voucher, docs []model.Document, st *State) []proposal {
	idx := indexByAmount(unmatchedDocuments(docs, st))

	var proposals []proposal
	for _, v := range vouchers {
		if !st.VoucherUnmatched(v.ID) {
			continue
		}
		candidates := idx[amountKey(v.Amount)]
		if len(candidates) != 1 {
			continue
		}
		proposals = append(proposals, proposal{voucherID: v.ID, docIDs: candidates})
	}
	return proposals
}

// passB matches on creditor alias text plus date proximity. A document
// qualifies when a vendor line matches one of the creditor's aliases and
// its closest date is within the alias window of the voucher date. A
// document with no extracted dates qualifies on the alias alone; a failed
// date read is not held against it.
func (e *Engine) passB(vouchers []model.Voucher, docs []model.Document, st *State) []proposal {
	pool := unmatchedDocuments(docs, st)

	var proposals []proposal
	for _, v := range vouchers {
		if !st.VoucherUnmatched(v.ID) {
			continue
		}
		cred, ok := e.resolveCreditor(v)
		if !ok {
			continue
		}
		if v.Date.IsZero() {
			e.log.Warn("skipping voucher without a usable date",
				zap.String("pass", "B"), zap.String("voucher", v.ID))
			continue
		}

		var candidates []string
		for _, doc := range pool {
			if _, ok := aliasMatches(doc, cred.Aliases); !ok {
				continue
			}
			if closest, ok := dates.Closest(doc.Dates, v.Date); ok {
				if dates.DaysApart(closest, v.Date) > e.opts.AliasWindowDays {
					continue
				}
			}
			candidates = append(candidates, doc.ID)
		}
		if len(candidates) != 1 {
			continue
		}
		proposals = append(proposals, proposal{voucherID: v.ID, docIDs: candidates})
	}
	return proposals
}

// passC matches recurring subscriptions. Only creditors with at least one
// alias carrying a frequency and start date participate. A document
// qualifies when it contains the voucher amount, a vendor line matches a
// subscription alias, and its closest date falls within the tolerance of
// an expected occurrence. An undated document qualifies only on the
// bimonthly fallback: the voucher date must sit within the tolerance of
// the 60-day grid anchored at the alias start date.
func (e *Engine) passC(vouchers []model.Voucher, docs []model.Document, st *State) []proposal {
	pool := unmatchedDocuments(docs, st)

	var proposals []proposal
	for _, v := range vouchers {
		if !st.VoucherUnmatched(v.ID) {
			continue
		}
		cred, ok := e.resolveCreditor(v)
		if !ok {
			continue
		}
		subs := cred.SubscriptionAliases()
		if len(subs) == 0 {
			continue
		}
		if v.Date.IsZero() {
			e.log.Warn("skipping voucher without a usable date",
				zap.String("pass", "C"), zap.String("voucher", v.ID))
			continue
		}

		seen := make(map[string]struct{})
		var candidates []string
		for _, doc := range pool {
			if !doc.HasAmount(v.Amount) {
				continue
			}
			if _, ok := aliasMatches(doc, subs); !ok {
				continue
			}
			if !e.onSchedule(doc, v.Date, subs) {
				continue
			}
			if _, dup := seen[doc.ID]; dup {
				continue
			}
			seen[doc.ID] = struct{}{}
			candidates = append(candidates, doc.ID)
		}
		if len(candidates) != 1 {
			continue
		}
		proposals = append(proposals, proposal{voucherID: v.ID, docIDs: candidates})
	}
	return proposals
}

// onSchedule reports whether the document's closest date lands near an
// expected occurrence of any subscription alias.
func (e *Engine) onSchedule(doc model.Document, voucherDate time.Time, subs []model.Alias) bool {
	closest, hasDates := dates.Closest(doc.Dates, voucherDate)
	for _, a := range subs {
		period := a.Frequency.PeriodDays()
		if !hasDates {
			// Undated fallback, bimonthly only: check the voucher date
			// against the 60-day grid directly.
			if a.Frequency == model.FrequencyBimonthly &&
				dates.DaysApart(voucherDate, a.StartDate)%period <= e.opts.ScheduleToleranceDays {
				return true
			}
			continue
		}
		for _, expected := range schedule(a.StartDate, period, voucherDate) {
			if dates.DaysApart(closest, expected) <= e.opts.ScheduleToleranceDays {
				return true
			}
		}
	}
	return false
}

// schedule lists the expected occurrences from start, stepping by a fixed
// day count, up to and including one period past the voucher date. Bounded
// iteration, never recursion: the upper bound guarantees termination even
// for a start date far in the past.
func schedule(start time.Time, periodDays int, voucherDate time.Time) []time.Time {
	upper := voucherDate.AddDate(0, 0, periodDays)
	var expected []time.Time
	for cur := start; !cur.After(upper); cur = cur.AddDate(0, 0, periodDays) {
		expected = append(expected, cur)
	}
	return expected
}

// resolveCreditor looks up the voucher's creditor, logging the skip when
// the reference is missing or unknown. Such vouchers stay eligible for
// pass A but cannot participate in alias-dependent passes.
func (e *Engine) resolveCreditor(v model.Voucher) (model.Creditor, bool) {
	if !v.HasCreditor() {
		return model.Creditor{}, false
	}
	cred, ok := e.creditors.Get(v.CreditorID)
	if !ok {
		e.log.Warn("voucher references unknown creditor",
			zap.String("voucher", v.ID), zap.Int("creditor", v.CreditorID))
		return model.Creditor{}, false
	}
	return cred, true
}
