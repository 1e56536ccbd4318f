package match

import (
	"sort"

	"github.com/bilag-dev/bilag/internal/model"
)

// MatchSet maps a voucher ID to the document IDs resolved to it. This is
// the shape persisted between runs.
type MatchSet map[string][]string

// Clone returns a deep copy of the set.
func (m MatchSet) Clone() MatchSet {
	out := make(MatchSet, len(m))
	for vn, docs := range m {
		out[vn] = append([]string(nil), docs...)
	}
	return out
}

// VoucherIDs returns the matched voucher IDs in ascending order.
func (m MatchSet) VoucherIDs() []string {
	ids := make([]string, 0, len(m))
	for vn := range m {
		ids = append(ids, vn)
	}
	sort.Strings(ids)
	return ids
}

// State is the mutable matched/unmatched partition for one reconciliation
// run. The unmatched pools are derived from the match set at construction
// and narrowed as passes commit results; they are never persisted on their
// own. Single writer only.
type State struct {
	matches       MatchSet
	unmatchedVchr map[string]struct{}
	unmatchedDocs map[string]struct{}
}

// NewState derives a State from the full voucher and document collections
// and a previously persisted match set (may be nil on a first run).
func NewState(vouchers []model.Voucher, docs []model.Document, prior MatchSet) *State {
	st := &State{
		matches:       prior.Clone(),
		unmatchedVchr: make(map[string]struct{}, len(vouchers)),
		unmatchedDocs: make(map[string]struct{}, len(docs)),
	}
	claimed := make(map[string]struct{})
	for _, ds := range st.matches {
		for _, d := range ds {
			claimed[d] = struct{}{}
		}
	}
	for _, v := range vouchers {
		if _, done := st.matches[v.ID]; !done {
			st.unmatchedVchr[v.ID] = struct{}{}
		}
	}
	for _, d := range docs {
		if _, done := claimed[d.ID]; !done {
			st.unmatchedDocs[d.ID] = struct{}{}
		}
	}
	return st
}

// Matches returns the current match set. The map is shared; callers must
// not mutate it.
func (s *State) Matches() MatchSet {
	return s.matches
}

// VoucherUnmatched reports whether the voucher has no committed match.
func (s *State) VoucherUnmatched(id string) bool {
	_, ok := s.unmatchedVchr[id]
	return ok
}

// DocumentUnmatched reports whether the document is still unclaimed.
func (s *State) DocumentUnmatched(id string) bool {
	_, ok := s.unmatchedDocs[id]
	return ok
}

// UnmatchedVoucherCount returns the number of vouchers without a match.
func (s *State) UnmatchedVoucherCount() int {
	return len(s.unmatchedVchr)
}

// UnmatchedDocumentCount returns the number of unclaimed documents.
func (s *State) UnmatchedDocumentCount() int {
	return len(s.unmatchedDocs)
}

// Commit records a match and narrows the unmatched pools. It refuses a
// voucher that already has an entry, so re-running a pass over an updated
// set never rewrites earlier results. Returns whether the match was taken.
func (s *State) Commit(voucherID string, docIDs []string) bool {
	if _, done := s.matches[voucherID]; done {
		return false
	}
	s.matches[voucherID] = append([]string(nil), docIDs...)
	delete(s.unmatchedVchr, voucherID)
	for _, d := range docIDs {
		delete(s.unmatchedDocs, d)
	}
	return true
}
