package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/cli/formatter"
)

func newProgressCmd(app *App) *cobra.Command {
	var userID int64
	var html bool

	cmd := &cobra.Command{
		Use:   "progress <course>",
		Short: "Show a user's progress per section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			course, err := resolveCourse(ctx, app, args[0])
			if err != nil {
				return err
			}

			if html {
				page, err := app.Content.CoursePage(ctx, course.ID, userID, false)
				if err != nil {
					return err
				}
				defer page.Close()
				fmt.Fprintln(cmd.OutOrStdout(), page.Rendered.HTML)
				return nil
			}

			progress, err := app.Content.Progress(ctx, course.ID, userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgress(course, userID, progress))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id; 0 renders the guest view")
	cmd.Flags().BoolVar(&html, "html", false, "Print the rendered course page instead")
	return cmd
}
