package model

import (
	"strings"
	"time"
)

// Frequency is the billing cadence of a subscription alias. Cadences are
// fixed day counts, not calendar months; "monthly" means every 30 days.
// This approximation is inherited from the bookkeeping workflow and must
// not be silently replaced with calendar-month arithmetic.
type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyBimonthly  Frequency = "bimonthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
)

// PeriodDays returns the cadence length in days, or 0 for an unknown
// frequency.
func (f Frequency) PeriodDays() int {
	switch f {
	case FrequencyMonthly:
		return 30
	case FrequencyBimonthly:
		return 60
	case FrequencyQuarterly:
		return 90
	case FrequencySemiAnnual:
		return 180
	}
	return 0
}

// Alias is a text pattern that recognizes one creditor's vendor lines.
// The account fields and Override feed voucher preparation; Frequency and
// StartDate mark a recurring subscription.
type Alias struct {
	Prefix        string
	Postfix       string
	DebitAccount  string
	CreditAccount string
	Override      string // replacement posting text for expenses, optional
	Frequency     Frequency
	StartDate     time.Time // zero if not a subscription
}

// Matches reports whether a vendor line matches this alias: the line must
// start with Prefix, and end with Postfix when Postfix is non-empty.
func (a Alias) Matches(line string) bool {
	if !strings.HasPrefix(line, a.Prefix) {
		return false
	}
	return a.Postfix == "" || strings.HasSuffix(line, a.Postfix)
}

// IsSubscription reports whether the alias carries a recurring schedule.
func (a Alias) IsSubscription() bool {
	return a.Frequency.PeriodDays() > 0 && !a.StartDate.IsZero()
}

// Creditor is one vendor from the creditor catalog.
type Creditor struct {
	ID            int
	Name          string
	SingleVoucher bool // all postings share one voucher number
	Aliases       []Alias
}

// SubscriptionAliases returns the aliases carrying both a frequency and a
// start date.
func (c Creditor) SubscriptionAliases() []Alias {
	var subs []Alias
	for _, a := range c.Aliases {
		if a.IsSubscription() {
			subs = append(subs, a)
		}
	}
	return subs
}
