package commands

import (
	"bytes"
	"fmt"

	"github.com/de-tools/goal-master/pkg/runtime/terminal/export"
	"github.com/de-tools/goal-master/pkg/services/analytics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	env      Env
	reporter *export.Reporter
	input    string
	user     string
	period   string
	limit    int
	output   string
}

func NewReportCmd(env Env, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a progress report for one user",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.input, "input", "", "JSON snapshot file to read goals from instead of the database")
	cmd.Flags().StringVar(&rc.user, "user", "", "User whose goals are reported")
	cmd.Flags().StringVar(&rc.period, "period", "all", "Reporting period: 1month, 3months, 6months, 1year or all")
	cmd.Flags().IntVar(&rc.limit, "limit", analytics.DefaultRankingLimit, "Number of goals in the top and low rankings")
	cmd.Flags().StringVar(&rc.output, "output", "", "Write the report to a file or s3://bucket/key instead of stdout")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dest, err := export.ParseDestination(rc.output)
	if err != nil {
		return err
	}

	snapshots, err := rc.env.loadGoals(ctx, rc.input, rc.user)
	if err != nil {
		return err
	}

	report := analytics.BuildReport(rc.user, snapshots, analytics.ParsePeriod(rc.period), rc.env.now(), rc.limit)

	var buf bytes.Buffer
	if err := rc.reporter.Render(&buf, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := dest.Write(ctx, buf.Bytes(), cmd.OutOrStdout(), rc.env.NewUploader); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("destination", dest.String()).Int("goals", len(snapshots)).Msg("report written")
	return nil
}
