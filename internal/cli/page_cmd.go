package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/service"
)

func newPageCmd(app *App) *cobra.Command {
	var (
		userID  int64
		section int
		tab     int64
		editing bool
	)

	cmd := &cobra.Command{
		Use:   "page <course>",
		Short: "Print the rendered course page",
		Long: "Print the rendered course page. --section renders one section with links to\n" +
			"its neighbours; --tab renders a custom field tab instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			course, err := resolveCourse(ctx, app, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("tab") {
				page, err := app.Content.TabPage(ctx, course.ID, tab)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), page.Rendered.HTML)
				return nil
			}

			var page *service.CoursePage
			if cmd.Flags().Changed("section") {
				page, err = app.Content.SectionPage(ctx, course.ID, section, userID)
			} else {
				page, err = app.Content.CoursePage(ctx, course.ID, userID, editing)
			}
			if err != nil {
				return err
			}
			defer page.Close()
			fmt.Fprintln(cmd.OutOrStdout(), page.Rendered.HTML)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User id; 0 renders the guest view")
	cmd.Flags().IntVar(&section, "section", 0, "Section number to show on its own")
	cmd.Flags().Int64Var(&tab, "tab", 0, "Custom field category to show as a tab")
	cmd.Flags().BoolVar(&editing, "editing", false, "Render the editing view")
	cmd.MarkFlagsMutuallyExclusive("section", "tab")
	cmd.MarkFlagsMutuallyExclusive("section", "editing")
	return cmd
}
