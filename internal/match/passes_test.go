package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/model"
)

func newEngine(creditors fakeCatalog) *Engine {
	return New(creditors, Options{}, zap.NewNop())
}

func TestPassA_UniqueAmountMatches(t *testing.T) {
	vouchers := []model.Voucher{voucher("0007", day(2024, 3, 1), "199.50", 0)}
	docs := []model.Document{
		doc("a.pdf", nil, []string{"120.00"}),
		doc("b.pdf", nil, []string{"199.50"}),
		doc("c.pdf", nil, []string{"310.25"}),
		doc("d.pdf", nil, []string{"87.00"}),
		doc("e.pdf", nil, []string{"12.00"}),
	}

	st := NewState(vouchers, docs, nil)
	result := newEngine(nil).Run(vouchers, docs, st)

	assert.Equal(t, 1, result.Total())
	assert.Equal(t, []string{"b.pdf"}, st.Matches()["0007"])
}

func TestPassA_SharedAmountStaysUnmatched(t *testing.T) {
	// Two documents carry the voucher amount, so pass A must not pick one.
	vouchers := []model.Voucher{voucher("0001", day(2024, 3, 1), "500.00", 0)}
	docs := []model.Document{
		doc("a.pdf", nil, []string{"500.00"}),
		doc("b.pdf", nil, []string{"500.00"}),
	}

	st := NewState(vouchers, docs, nil)
	result := newEngine(nil).Run(vouchers, docs, st)

	assert.Equal(t, 0, result.Total())
	assert.True(t, st.VoucherUnmatched("0001"))
}

func TestPassA_ClaimedDocumentNotReconsidered(t *testing.T) {
	// b.pdf was matched in a prior run; the only remaining document with
	// the amount would be none, so the voucher stays unmatched.
	vouchers := []model.Voucher{voucher("0002", day(2024, 3, 1), "75.00", 0)}
	docs := []model.Document{doc("b.pdf", nil, []string{"75.00"})}
	prior := MatchSet{"0001": {"b.pdf"}}

	st := NewState(vouchers, docs, prior)
	result := newEngine(nil).Run(vouchers, docs, st)

	assert.Equal(t, 0, result.Total())
	assert.True(t, st.VoucherUnmatched("0002"))
}

func TestPassB_AliasAndDateWindow(t *testing.T) {
	// Scenario: two documents share the amount, so pass A abstains. One of
	// them carries a NETFLIX vendor line and a date 4 days from the
	// voucher; pass B commits it.
	creditors := fakeCatalog{
		42: {ID: 42, Name: "Netflix", Aliases: []model.Alias{{Prefix: "NETFLIX"}}},
	}
	vouchers := []model.Voucher{voucher("0003", day(2024, 5, 10), "500.00", 42)}
	docs := []model.Document{
		doc("a.pdf", []time.Time{day(2024, 5, 6)}, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", []time.Time{day(2024, 5, 8)}, []string{"500.00"}, "SOME SHOP"),
	}

	st := NewState(vouchers, docs, nil)
	result := newEngine(creditors).Run(vouchers, docs, st)

	assert.Equal(t, 1, result.Total())
	assert.Equal(t, "B", result.Passes[1].Name)
	require.Len(t, result.Passes[1].Committed, 1)
	assert.Equal(t, []string{"a.pdf"}, st.Matches()["0003"])
}

func TestPassB_OutsideWindowRejected(t *testing.T) {
	creditors := fakeCatalog{
		42: {ID: 42, Aliases: []model.Alias{{Prefix: "NETFLIX"}}},
	}
	vouchers := []model.Voucher{voucher("0004", day(2024, 5, 10), "500.00", 42)}
	docs := []model.Document{
		// Alias matches but the closest date is 20 days out.
		doc("a.pdf", []time.Time{day(2024, 5, 30)}, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", nil, []string{"500.00"}),
	}

	st := NewState(vouchers, docs, nil)
	newEngine(creditors).Run(vouchers, docs, st)

	assert.True(t, st.VoucherUnmatched("0004"))
}

func TestPassB_UndatedDocumentAccepted(t *testing.T) {
	// A document with no extracted dates is not penalized for it.
	creditors := fakeCatalog{
		42: {ID: 42, Aliases: []model.Alias{{Prefix: "NETFLIX"}}},
	}
	vouchers := []model.Voucher{voucher("0005", day(2024, 5, 10), "500.00", 42)}
	docs := []model.Document{
		doc("a.pdf", nil, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", nil, []string{"500.00"}),
	}

	st := NewState(vouchers, docs, nil)
	newEngine(creditors).Run(vouchers, docs, st)

	assert.Equal(t, []string{"a.pdf"}, st.Matches()["0005"])
}

func TestPassB_UnknownCreditorSkipped(t *testing.T) {
	vouchers := []model.Voucher{
		voucher("0006", day(2024, 5, 10), "500.00", 99), // not in catalog
		voucher("0007", day(2024, 5, 10), "500.00", 0),  // none at all
	}
	docs := []model.Document{
		doc("a.pdf", []time.Time{day(2024, 5, 9)}, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", nil, []string{"500.00"}),
	}

	st := NewState(vouchers, docs, nil)
	result := newEngine(fakeCatalog{}).Run(vouchers, docs, st)

	assert.Equal(t, 0, result.Total())
}

func TestPassC_MonthlySchedule(t *testing.T) {
	// Subscription started 2024-01-05, 30-day cadence: occurrences at
	// 01-05, 02-04, 03-05, 04-04, ... The document date 2024-04-03 sits a
	// day from the 04-04 occurrence.
	sub := model.Alias{
		Prefix:    "SPOTIFY",
		Frequency: model.FrequencyMonthly,
		StartDate: day(2024, 1, 5),
	}
	creditors := fakeCatalog{7: {ID: 7, Name: "Spotify", Aliases: []model.Alias{sub}}}
	vouchers := []model.Voucher{voucher("0010", day(2024, 4, 6), "99.00", 7)}
	docs := []model.Document{
		doc("apr.pdf", []time.Time{day(2024, 4, 3)}, []string{"99.00"}, "SPOTIFY AB"),
	}

	e := newEngine(creditors)
	st := NewState(vouchers, docs, nil)
	proposals := e.passC(vouchers, docs, st)

	require.Len(t, proposals, 1)
	assert.Equal(t, "0010", proposals[0].voucherID)
	assert.Equal(t, []string{"apr.pdf"}, proposals[0].docIDs)
}

func TestPassC_ResolvesAliasAmbiguityBySchedule(t *testing.T) {
	// Pass A sees two documents with the amount and abstains; pass B sees
	// both aliased inside the window and abstains; pass C keeps only the
	// one whose date sits on the subscription schedule.
	sub := model.Alias{
		Prefix:    "SPOTIFY",
		Frequency: model.FrequencyMonthly,
		StartDate: day(2024, 1, 5),
	}
	creditors := fakeCatalog{7: {ID: 7, Aliases: []model.Alias{sub}}}
	vouchers := []model.Voucher{voucher("0011", day(2024, 4, 6), "99.00", 7)}
	docs := []model.Document{
		// Expected occurrences: 01-05, 02-04, 03-05, 04-04, 05-04.
		doc("apr.pdf", []time.Time{day(2024, 4, 3)}, []string{"99.00"}, "SPOTIFY AB"),
		// 14 days from the voucher (inside the pass B window) but 16 days
		// from the nearest occurrence.
		doc("other.pdf", []time.Time{day(2024, 4, 20)}, []string{"99.00"}, "SPOTIFY AB"),
	}

	st := NewState(vouchers, docs, nil)
	result := newEngine(creditors).Run(vouchers, docs, st)

	assert.Equal(t, 1, result.Total())
	assert.Equal(t, "C", result.Passes[2].Name)
	assert.Equal(t, []string{"apr.pdf"}, st.Matches()["0011"])
}

func TestPassC_UndatedBimonthlyFallback(t *testing.T) {
	sub := model.Alias{
		Prefix:    "FORSIKRING",
		Frequency: model.FrequencyBimonthly,
		StartDate: day(2024, 1, 10),
	}
	creditors := fakeCatalog{9: {ID: 9, Aliases: []model.Alias{sub}}}
	// 2024-05-12 is 123 days after the start date: 123 mod 60 = 3 ≤ 7.
	vouchers := []model.Voucher{voucher("0012", day(2024, 5, 12), "450.00", 9)}
	docs := []model.Document{
		doc("policy.pdf", nil, []string{"450.00"}, "FORSIKRING NORD"),
	}

	e := newEngine(creditors)
	st := NewState(vouchers, docs, nil)
	proposals := e.passC(vouchers, docs, st)

	require.Len(t, proposals, 1)
	assert.Equal(t, []string{"policy.pdf"}, proposals[0].docIDs)
}

func TestPassC_UndatedMonthlyNotEligible(t *testing.T) {
	// The undated fallback is deliberately bimonthly-only.
	sub := model.Alias{
		Prefix:    "SPOTIFY",
		Frequency: model.FrequencyMonthly,
		StartDate: day(2024, 1, 5),
	}
	creditors := fakeCatalog{7: {ID: 7, Aliases: []model.Alias{sub}}}
	vouchers := []model.Voucher{voucher("0013", day(2024, 4, 6), "99.00", 7)}
	docs := []model.Document{
		doc("apr.pdf", nil, []string{"99.00"}, "SPOTIFY AB"),
	}

	e := newEngine(creditors)
	st := NewState(vouchers, docs, nil)
	assert.Empty(t, e.passC(vouchers, docs, st))
}

func TestPassC_WrongAmountRejected(t *testing.T) {
	sub := model.Alias{
		Prefix:    "SPOTIFY",
		Frequency: model.FrequencyMonthly,
		StartDate: day(2024, 1, 5),
	}
	creditors := fakeCatalog{7: {ID: 7, Aliases: []model.Alias{sub}}}
	vouchers := []model.Voucher{voucher("0014", day(2024, 4, 6), "99.00", 7)}
	docs := []model.Document{
		doc("apr.pdf", []time.Time{day(2024, 4, 3)}, []string{"54.00"}, "SPOTIFY AB"),
	}

	e := newEngine(creditors)
	st := NewState(vouchers, docs, nil)
	assert.Empty(t, e.passC(vouchers, docs, st))
}

func TestRun_EmptyDocumentPool(t *testing.T) {
	vouchers := []model.Voucher{voucher("0001", day(2024, 1, 1), "10.00", 0)}

	st := NewState(vouchers, nil, nil)
	result := newEngine(nil).Run(vouchers, nil, st)

	assert.Equal(t, 0, result.Total())
	for _, p := range result.Passes {
		assert.Empty(t, p.Committed)
	}
}

func TestRun_Idempotent(t *testing.T) {
	creditors := fakeCatalog{
		42: {ID: 42, Aliases: []model.Alias{{Prefix: "NETFLIX"}}},
	}
	vouchers := []model.Voucher{
		voucher("0001", day(2024, 5, 10), "500.00", 42),
		voucher("0002", day(2024, 5, 11), "75.25", 0),
	}
	docs := []model.Document{
		doc("a.pdf", []time.Time{day(2024, 5, 6)}, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", []time.Time{day(2024, 5, 8)}, []string{"500.00"}, "SOME SHOP"),
		doc("c.pdf", nil, []string{"75.25"}),
	}

	e := newEngine(creditors)
	st := NewState(vouchers, docs, nil)
	first := e.Run(vouchers, docs, st)
	require.Equal(t, 2, first.Total())

	// Re-running against the produced match set yields nothing new.
	st2 := NewState(vouchers, docs, st.Matches())
	second := e.Run(vouchers, docs, st2)
	assert.Equal(t, 0, second.Total())
	assert.Equal(t, st.Matches(), st2.Matches())
}

func TestRun_Deterministic(t *testing.T) {
	creditors := fakeCatalog{
		42: {ID: 42, Aliases: []model.Alias{{Prefix: "NETFLIX"}}},
	}
	vouchers := []model.Voucher{
		voucher("0002", day(2024, 5, 11), "75.25", 0),
		voucher("0001", day(2024, 5, 10), "500.00", 42),
	}
	docs := []model.Document{
		doc("c.pdf", nil, []string{"75.25"}),
		doc("a.pdf", []time.Time{day(2024, 5, 6)}, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", []time.Time{day(2024, 5, 8)}, []string{"500.00"}, "SOME SHOP"),
	}

	e := newEngine(creditors)
	st1 := NewState(vouchers, docs, nil)
	r1 := e.Run(vouchers, docs, st1)
	st2 := NewState(vouchers, docs, nil)
	r2 := e.Run(vouchers, docs, st2)

	assert.Equal(t, st1.Matches(), st2.Matches())
	assert.Equal(t, r1, r2)
}

func TestRun_MonotonicNarrowing(t *testing.T) {
	creditors := fakeCatalog{
		42: {ID: 42, Aliases: []model.Alias{{Prefix: "NETFLIX"}}},
	}
	vouchers := []model.Voucher{
		voucher("0001", day(2024, 5, 10), "500.00", 42),
		voucher("0002", day(2024, 5, 11), "75.25", 0),
		voucher("0003", day(2024, 5, 12), "11.00", 0),
	}
	docs := []model.Document{
		doc("a.pdf", []time.Time{day(2024, 5, 6)}, []string{"500.00"}, "NETFLIX INTL"),
		doc("b.pdf", []time.Time{day(2024, 5, 8)}, []string{"500.00"}, "SOME SHOP"),
		doc("c.pdf", nil, []string{"75.25"}),
	}

	st := NewState(vouchers, docs, nil)
	beforeV, beforeD := st.UnmatchedVoucherCount(), st.UnmatchedDocumentCount()
	result := newEngine(creditors).Run(vouchers, docs, st)

	committed := 0
	for _, p := range result.Passes {
		committed += len(p.Committed)
	}
	assert.Equal(t, beforeV-committed, st.UnmatchedVoucherCount())
	assert.LessOrEqual(t, st.UnmatchedDocumentCount(), beforeD)
}
