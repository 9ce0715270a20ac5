package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/progress"
)

func newCMCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cm",
		Short: "Work with course modules (activities)",
	}
	cmd.AddCommand(newCMCompleteCmd(app))
	return cmd
}

func newCMCompleteCmd(app *App) *cobra.Command {
	var userID int64
	var stateStr string

	cmd := &cobra.Command{
		Use:   "complete <cmid>",
		Short: "Record a user's completion of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("module", args[0])
			if err != nil {
				return err
			}
			if userID <= 0 {
				return fmt.Errorf("--user is required")
			}
			snap, err := app.Completions.SetState(cmd.Context(), id, userID, domain.CompletionState(stateStr))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Activity %d is %s for user %d\n", id, stateStr, userID)

			sections, err := app.Content.Progress(cmd.Context(), snap.CourseID(), userID)
			if err != nil {
				return err
			}
			cm, _ := snap.CM(id)
			root, err := progress.ResolveRoot(snap.Sections(), cm.SectionID)
			if err != nil {
				return err
			}
			for _, p := range sections {
				if p.Section.ID == root && p.Percent >= 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d%% (%d/%d)\n", p.Name, p.Percent, p.Completed, p.Total)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id")
	cmd.Flags().StringVar(&stateStr, "state", string(domain.StateComplete), "incomplete, complete, complete_pass or complete_fail")
	return cmd
}
