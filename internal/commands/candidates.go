package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bilag-dev/bilag/internal/config"
	"github.com/bilag-dev/bilag/internal/match"
	"github.com/bilag-dev/bilag/internal/model"
)

func newCandidatesCommand(opts *rootOptions) *cobra.Command {
	var all bool
	var top int

	cmd := &cobra.Command{
		Use:   "candidates <voucher>",
		Short: "Rank documents against an unmatched voucher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCandidates(opts, args[0], all, top)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include documents already matched to other vouchers")
	cmd.Flags().IntVar(&top, "top", 15, "number of candidates to show")

	return cmd
}

func runCandidates(opts *rootOptions, voucherID string, all bool, top int) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	in, err := loadInputs(cfg, log)
	if err != nil {
		return err
	}

	var voucher *model.Voucher
	for i := range in.vouchers {
		if in.vouchers[i].ID == voucherID {
			voucher = &in.vouchers[i]
			break
		}
	}
	if voucher == nil {
		return fmt.Errorf("voucher %s not found", voucherID)
	}

	st := match.NewState(in.vouchers, in.docs, in.prior)
	pool := in.docs
	if !all {
		pool = nil
		for _, d := range in.docs {
			if st.DocumentUnmatched(d.ID) {
				pool = append(pool, d)
			}
		}
	}

	var creditor *model.Creditor
	if voucher.HasCreditor() {
		if c, ok := in.catalog.Get(voucher.CreditorID); ok {
			creditor = &c
		}
	}

	candidates := match.ScoreCandidates(*voucher, pool, creditor)
	if len(candidates) == 0 {
		fmt.Println("no candidate documents")
		return nil
	}
	if top > 0 && len(candidates) > top {
		candidates = candidates[:top]
	}

	fmt.Printf("voucher %s  %s  %s\n", voucher.ID, voucher.Date.Format("2006-01-02"), voucher.Amount.StringFixed(2))
	for _, c := range candidates {
		line := ""
		if c.MatchedVendorLine != "" {
			line = "  (" + c.MatchedVendorLine + ")"
		}
		fmt.Printf("%4d  %s%s\n", c.Score, c.DocumentID, line)
	}
	return nil
}
