package commands

import (
	"fmt"

	"github.com/de-tools/goal-master/pkg/adapters"
	"github.com/de-tools/goal-master/pkg/store/goals"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	env     Env
	input   string
	user    string
	replace bool
}

func NewImportCmd(env Env) *cobra.Command {
	ic := &ImportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load goals from a JSON snapshot file into the database",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.input, "input", "", "JSON snapshot file to import")
	cmd.Flags().StringVar(&ic.user, "user", "", "Assign every imported goal to this user")
	cmd.Flags().BoolVar(&ic.replace, "replace", false, "Delete the user's existing goals first (requires --user)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	if ic.replace && ic.user == "" {
		return fmt.Errorf("--replace requires --user")
	}

	snapshots, err := LoadSnapshotFile(ic.input)
	if err != nil {
		return err
	}

	return ic.env.withStore(ctx, func(s goals.Store) error {
		if ic.replace {
			deleted, err := s.DeleteUserGoals(ctx, ic.user)
			if err != nil {
				return fmt.Errorf("failed to clear goals of %s: %w", ic.user, err)
			}
			logger.Info().Str("user", ic.user).Int64("deleted", deleted).Msg("existing goals removed")
		}

		for _, snapshot := range snapshots {
			if ic.user != "" {
				snapshot.UserID = ic.user
			}
			if snapshot.UserID == "" {
				return fmt.Errorf("goal %s has no user, pass --user", snapshot.ID)
			}
			if err := s.SaveGoal(ctx, adapters.MapDomainGoalToStore(snapshot)); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d goals from %s\n", len(snapshots), ic.input)
		return nil
	})
}
