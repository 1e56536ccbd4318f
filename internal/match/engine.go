// Package match implements the voucher/document reconciliation engine: a
// cascade of three auto-resolution passes over in-memory records, plus a
// scorer that ranks candidates for manual review. The engine performs no
// I/O; loading and persistence belong to the callers.
package match

import (
	"sort"

	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/model"
)

// CreditorLookup resolves a creditor ID from the catalog.
type CreditorLookup interface {
	Get(id int) (model.Creditor, bool)
}

// Options are the matching thresholds. Zero values fall back to the
// defaults the bookkeeping workflow was tuned with.
type Options struct {
	AliasWindowDays       int // pass B date window, default 15
	ScheduleToleranceDays int // pass C distance from an expected occurrence, default 7
}

const (
	defaultAliasWindowDays       = 15
	defaultScheduleToleranceDays = 7
)

func (o Options) withDefaults() Options {
	if o.AliasWindowDays == 0 {
		o.AliasWindowDays = defaultAliasWindowDays
	}
	if o.ScheduleToleranceDays == 0 {
		o.ScheduleToleranceDays = defaultScheduleToleranceDays
	}
	return o
}

// Engine runs the matching cascade. Construct one per catalog; it holds no
// per-run state.
type Engine struct {
	creditors CreditorLookup
	opts      Options
	log       *zap.Logger
}

// New creates an Engine. log must not be nil; use zap.NewNop() to discard.
func New(creditors CreditorLookup, opts Options, log *zap.Logger) *Engine {
	return &Engine{creditors: creditors, opts: opts.withDefaults(), log: log}
}

// Committed is one match taken during a pass.
type Committed struct {
	VoucherID   string
	DocumentIDs []string
}

// PassOutcome reports what a single pass committed.
type PassOutcome struct {
	Name      string
	Committed []Committed
}

// Result is the outcome of a full cascade run.
type Result struct {
	Passes []PassOutcome
}

// Total returns the number of new matches across all passes.
func (r Result) Total() int {
	n := 0
	for _, p := range r.Passes {
		n += len(p.Committed)
	}
	return n
}

// proposal is a candidate commit computed against the pre-pass snapshot.
type proposal struct {
	voucherID string
	docIDs    []string
}

// Run executes passes A, B, and C in order against st. Each pass proposes
// matches from the pools as they stood when the pass started, then commits
// them in ascending voucher-ID order so runs are deterministic. Running
// the cascade again over its own output commits nothing new.
func (e *Engine) Run(vouchers []model.Voucher, docs []model.Document, st *State) Result {
	passes := []struct {
		name string
		fn   func([]model.Voucher, []model.Document, *State) []proposal
	}{
		{"A", e.passA},
		{"B", e.passB},
		{"C", e.passC},
	}

	var result Result
	for _, p := range passes {
		proposals := p.fn(vouchers, docs, st)
		sort.Slice(proposals, func(i, j int) bool {
			return proposals[i].voucherID < proposals[j].voucherID
		})

		outcome := PassOutcome{Name: p.name}
		for _, prop := range proposals {
			if !st.Commit(prop.voucherID, prop.docIDs) {
				continue
			}
			outcome.Committed = append(outcome.Committed, Committed{
				VoucherID:   prop.voucherID,
				DocumentIDs: prop.docIDs,
			})
			e.log.Info("matched voucher",
				zap.String("pass", p.name),
				zap.String("voucher", prop.voucherID),
				zap.Strings("documents", prop.docIDs))
		}
		e.log.Info("pass finished",
			zap.String("pass", p.name),
			zap.Int("matched", len(outcome.Committed)),
			zap.Int("unmatched_vouchers", st.UnmatchedVoucherCount()),
			zap.Int("unmatched_documents", st.UnmatchedDocumentCount()))
		result.Passes = append(result.Passes, outcome)
	}
	return result
}

// unmatchedDocuments filters docs down to the still-unclaimed pool.
func unmatchedDocuments(docs []model.Document, st *State) []model.Document {
	var pool []model.Document
	for _, d := range docs {
		if st.DocumentUnmatched(d.ID) {
			pool = append(pool, d)
		}
	}
	return pool
}
