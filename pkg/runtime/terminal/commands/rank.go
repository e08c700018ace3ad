package commands

import (
	"fmt"

	"github.com/de-tools/goal-master/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type RankCmd struct {
	env   Env
	input string
	user  string
	sort  string
	limit int
}

func NewRankCmd(env Env) *cobra.Command {
	rc := &RankCmd{env: env}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "List the most or least advanced goals of a user",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.input, "input", "", "JSON snapshot file to read goals from instead of the database")
	cmd.Flags().StringVar(&rc.user, "user", "", "User whose goals are ranked")
	cmd.Flags().StringVar(&rc.sort, "sort", "top", "Ranking direction: top or low")
	cmd.Flags().IntVar(&rc.limit, "limit", analytics.DefaultRankingLimit, "Maximum number of goals to list")

	return cmd
}

func (rc *RankCmd) run(cmd *cobra.Command, _ []string) error {
	snapshots, err := rc.env.loadGoals(cmd.Context(), rc.input, rc.user)
	if err != nil {
		return err
	}

	ranked := analytics.Rank(snapshots, analytics.ParseSortDirection(rc.sort), rc.limit)
	if len(ranked) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No measurable goals found")
		return nil
	}

	for i, r := range ranked {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %-40s %3d%%  %s\n", i+1, r.Goal.Title, r.ProgressPercentage, r.Goal.Status)
	}
	return nil
}
