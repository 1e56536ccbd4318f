package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bilag-dev/bilag/internal/buildinfo"
	"github.com/bilag-dev/bilag/internal/catalog"
	"github.com/bilag-dev/bilag/internal/config"
	"github.com/bilag-dev/bilag/internal/importer"
	"github.com/bilag-dev/bilag/internal/match"
	"github.com/bilag-dev/bilag/internal/matchinfo"
	"github.com/bilag-dev/bilag/internal/model"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "bilag",
		Short:   "Voucher and document reconciliation for the bookkeeping",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "bilag.yaml", "path to bilag.yaml")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log informational messages")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newPrepareCommand(opts))
	rootCmd.AddCommand(newMatchCommand(opts))
	rootCmd.AddCommand(newCandidatesCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}

// newLogger builds the stderr logger the subcommands share. Warnings and
// errors always show; info requires --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}

// inputs bundles everything a matching run reads from disk.
type inputs struct {
	catalog  *catalog.Service
	vouchers []model.Voucher
	docs     []model.Document
	prior    match.MatchSet
}

func loadInputs(cfg *config.Config, log *zap.Logger) (*inputs, error) {
	cat, err := catalog.Load(cfg.Inputs.Creditors)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Inputs.BankCSV)
	if err != nil {
		return nil, fmt.Errorf("opening voucher CSV: %w", err)
	}
	defer f.Close()
	vouchers, err := importer.ParseVouchers(f, log)
	if err != nil {
		return nil, err
	}

	docs, err := importer.LoadDocuments(cfg.Inputs.DocumentData, log)
	if err != nil {
		return nil, err
	}

	prior, err := matchinfo.Load(cfg.Inputs.MatchInfo)
	if err != nil {
		return nil, err
	}

	return &inputs{catalog: cat, vouchers: vouchers, docs: docs, prior: prior}, nil
}
