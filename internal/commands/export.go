package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bilag-dev/bilag/internal/config"
	"github.com/bilag-dev/bilag/internal/exporter"
	"github.com/bilag-dev/bilag/internal/matchinfo"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy matched documents into the export directory under their voucher number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts)
		},
	}
	return cmd
}

func runExport(opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	matches, err := matchinfo.Load(cfg.Inputs.MatchInfo)
	if err != nil {
		return err
	}

	svc := exporter.NewService(cfg.Inputs.DocumentsDir, cfg.Export.Dir, log)
	copied, err := svc.Export(matches)
	if err != nil {
		return err
	}

	fmt.Printf("exported %d documents to %s\n", copied, cfg.Export.Dir)
	return nil
}
