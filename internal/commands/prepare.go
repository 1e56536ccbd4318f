package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bilag-dev/bilag/internal/catalog"
	"github.com/bilag-dev/bilag/internal/config"
	"github.com/bilag-dev/bilag/internal/prepare"
)

func newPrepareCommand(opts *rootOptions) *cobra.Command {
	var creditOut string
	var debitOut string

	cmd := &cobra.Command{
		Use:   "prepare <statement.csv>",
		Short: "Split a raw bank statement into numbered voucher rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(opts, args[0], creditOut, debitOut)
		},
	}

	cmd.Flags().StringVar(&creditOut, "credit-out", "data/bank_kred.csv", "output CSV for expense rows")
	cmd.Flags().StringVar(&debitOut, "debit-out", "data/bank_deb.csv", "output CSV for income rows")

	return cmd
}

func runPrepare(opts *rootOptions, statementPath, creditOut, debitOut string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	cat, err := catalog.Load(cfg.Inputs.Creditors)
	if err != nil {
		return err
	}

	f, err := os.Open(statementPath)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	entries, err := prepare.ParseStatement(f, log)
	if err != nil {
		return err
	}

	svc := prepare.NewService(cat.All(), prepare.Options{}, log)
	result := svc.Process(entries)

	if err := writeRowsFile(creditOut, result.Credit); err != nil {
		return err
	}
	if err := writeRowsFile(debitOut, result.Debit); err != nil {
		return err
	}

	fmt.Printf("prepared %d expense and %d income rows\n", len(result.Credit), len(result.Debit))
	if result.Unmatched > 0 {
		fmt.Printf("%d expense rows have no creditor alias; fill in their accounts by hand\n", result.Unmatched)
	}
	return nil
}

func writeRowsFile(path string, rows []prepare.VoucherRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := prepare.WriteRows(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
