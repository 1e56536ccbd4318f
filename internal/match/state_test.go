package match

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilag-dev/bilag/internal/model"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func voucher(id string, date time.Time, amount string, creditorID int) model.Voucher {
	return model.Voucher{ID: id, Date: date, Amount: dec(amount), CreditorID: creditorID}
}

func doc(id string, ds []time.Time, amounts []string, lines ...string) model.Document {
	d := model.Document{ID: id, Dates: ds, VendorLines: lines}
	for _, a := range amounts {
		d.Amounts = append(d.Amounts, dec(a))
	}
	return d
}

// fakeCatalog implements CreditorLookup for tests.
type fakeCatalog map[int]model.Creditor

func (f fakeCatalog) Get(id int) (model.Creditor, bool) {
	c, ok := f[id]
	return c, ok
}

func TestNewState_DerivesPoolsFromPrior(t *testing.T) {
	vouchers := []model.Voucher{
		voucher("0001", day(2024, 1, 10), "100.00", 0),
		voucher("0002", day(2024, 1, 11), "200.00", 0),
	}
	docs := []model.Document{
		doc("a.pdf", nil, []string{"100.00"}),
		doc("b.pdf", nil, []string{"200.00"}),
	}
	prior := MatchSet{"0001": {"a.pdf"}}

	st := NewState(vouchers, docs, prior)

	assert.False(t, st.VoucherUnmatched("0001"))
	assert.True(t, st.VoucherUnmatched("0002"))
	assert.False(t, st.DocumentUnmatched("a.pdf"))
	assert.True(t, st.DocumentUnmatched("b.pdf"))
	assert.Equal(t, 1, st.UnmatchedVoucherCount())
	assert.Equal(t, 1, st.UnmatchedDocumentCount())
}

func TestState_CommitNarrowsPools(t *testing.T) {
	vouchers := []model.Voucher{voucher("0001", day(2024, 1, 10), "100.00", 0)}
	docs := []model.Document{doc("a.pdf", nil, []string{"100.00"})}

	st := NewState(vouchers, docs, nil)
	require.True(t, st.Commit("0001", []string{"a.pdf"}))

	assert.False(t, st.VoucherUnmatched("0001"))
	assert.False(t, st.DocumentUnmatched("a.pdf"))
	assert.Equal(t, []string{"a.pdf"}, st.Matches()["0001"])
}

func TestState_CommitRefusesMatchedVoucher(t *testing.T) {
	vouchers := []model.Voucher{voucher("0001", day(2024, 1, 10), "100.00", 0)}
	docs := []model.Document{
		doc("a.pdf", nil, []string{"100.00"}),
		doc("b.pdf", nil, []string{"100.00"}),
	}

	st := NewState(vouchers, docs, nil)
	require.True(t, st.Commit("0001", []string{"a.pdf"}))
	assert.False(t, st.Commit("0001", []string{"b.pdf"}))
	assert.Equal(t, []string{"a.pdf"}, st.Matches()["0001"])
	assert.True(t, st.DocumentUnmatched("b.pdf"))
}

func TestMatchSet_CloneIsIndependent(t *testing.T) {
	orig := MatchSet{"0001": {"a.pdf"}}
	clone := orig.Clone()
	clone["0002"] = []string{"b.pdf"}
	clone["0001"][0] = "changed.pdf"

	assert.Equal(t, []string{"a.pdf"}, orig["0001"])
	assert.NotContains(t, orig, "0002")
}

func TestMatchSet_VoucherIDsSorted(t *testing.T) {
	m := MatchSet{"0010": {"c.pdf"}, "0002": {"a.pdf"}, "0005": {"b.pdf"}}
	assert.Equal(t, []string{"0002", "0005", "0010"}, m.VoucherIDs())
}
