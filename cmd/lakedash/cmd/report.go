package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/backend"
	"github.com/lakedash/lakedash/internal/report"
	"github.com/lakedash/lakedash/internal/schedule"
)

var (
	reportOut   string
	reportEvery string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the dashboard as a static HTML snapshot",
	Long: `Fetch all three dashboard regions and render them into a single
self-contained HTML file. A region whose fetch fails renders its error
inline; the snapshot is still written.

With --every, keeps running and re-renders on the given cron schedule
(five-field syntax, e.g. "*/15 * * * *") until interrupted. The file is
replaced atomically, so a browser refreshing it never sees a partial
page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := reportOut
		if out == "" {
			out = cfg.Report.Out
		}
		every := reportEvery
		if every == "" {
			every = cfg.Report.Schedule
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		q := backend.Query{Limit: backend.DefaultLimit}
		renderOnce := func(ctx context.Context) error {
			d := report.Gather(ctx, client, q, cfg.UI.PreviewRows)
			if err := report.WriteFile(out, d); err != nil {
				return err
			}
			logger.Info("report written", "path", out)
			return nil
		}

		if every == "" {
			if err := renderOnce(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", out)
			return nil
		}

		if err := schedule.ValidateExpr(every); err != nil {
			return err
		}

		runner := schedule.New(renderOnce).WithLogger(logger)
		if err := runner.SetSchedule(every); err != nil {
			return err
		}
		runner.Start()

		// First snapshot immediately; later ones follow the schedule.
		if err := runner.Trigger(); err != nil {
			return err
		}

		fmt.Printf("Rendering %s on schedule %q. Press Ctrl+C to stop.\n", out, every)
		<-cmd.Context().Done()

		drained := runner.Stop()
		<-drained.Done()
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default from config)")
	reportCmd.Flags().StringVar(&reportEvery, "every", "", "cron schedule for periodic re-render")
	rootCmd.AddCommand(reportCmd)
}
