package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bilag-dev/bilag/internal/auditlog"
	"github.com/bilag-dev/bilag/internal/config"
	"github.com/bilag-dev/bilag/internal/match"
	"github.com/bilag-dev/bilag/internal/matchinfo"
)

func newMatchCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the automatic matching passes and save the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report matches without saving them")

	return cmd
}

func runMatch(opts *rootOptions, dryRun bool) error {
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

	st := match.NewState(in.vouchers, in.docs, in.prior)
	engine := match.New(in.catalog, match.Options{
		AliasWindowDays:       cfg.Matching.AliasWindowDays,
		ScheduleToleranceDays: cfg.Matching.ScheduleToleranceDays,
	}, log)

	result := engine.Run(in.vouchers, in.docs, st)

	for _, pass := range result.Passes {
		fmt.Printf("pass %s: %d matched\n", pass.Name, len(pass.Committed))
	}
	fmt.Printf("total: %d new matches, %d vouchers and %d documents still unmatched\n",
		result.Total(), st.UnmatchedVoucherCount(), st.UnmatchedDocumentCount())

	if dryRun {
		fmt.Println("dry run, nothing saved")
		return nil
	}

	if err := matchinfo.Save(cfg.Inputs.MatchInfo, st.Matches()); err != nil {
		return err
	}

	if err := auditlog.Append(cfg.LogDir, auditEntries(result)); err != nil {
		// The match set is already saved; a broken trail should not fail the run.
		fmt.Fprintf(os.Stderr, "warning: failed to write match log: %v\n", err)
	}

	return nil
}

func auditEntries(result match.Result) []auditlog.Entry {
	now := time.Now().UTC()
	var entries []auditlog.Entry
	for _, pass := range result.Passes {
		for _, c := range pass.Committed {
			for _, docID := range c.DocumentIDs {
				entries = append(entries, auditlog.Entry{
					Timestamp:  now,
					Pass:       pass.Name,
					VoucherID:  c.VoucherID,
					DocumentID: docID,
				})
			}
		}
	}
	return entries
}
