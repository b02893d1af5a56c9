package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/jobtracker/internal/app"
	"github.com/templui/jobtracker/internal/config"
	"github.com/templui/jobtracker/internal/logger"
	"github.com/templui/jobtracker/internal/service"
)

func SweepCmd() *cobra.Command {
	var grace time.Duration
	var dryRun bool

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete stored attachment objects no live attachment references",
		Long: "Walks the attachment storage and removes objects older than the grace period\n" +
			"that no non-deleted attachment row references. Soft-deleted rows do not keep objects alive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flush := logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
			defer flush()

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.AttachmentService.Sweep(cmd.Context(), grace, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "removed"
			if dryRun {
				verb = "would remove"
			}
			for _, key := range report.Removed {
				fmt.Fprintf(out, "%s %s\n", verb, key)
			}
			fmt.Fprintf(out, "scanned=%d referenced=%d fresh=%d %s=%d\n",
				report.Scanned, report.Referenced, report.Fresh, verb, len(report.Removed))
			return nil
		},
	}

	sweepCmd.Flags().DurationVar(&grace, "grace", service.DefaultSweepGrace, "only consider objects older than this")
	sweepCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without deleting")

	return sweepCmd
}
