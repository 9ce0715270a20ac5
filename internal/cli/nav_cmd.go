package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/cli/formatter"
)

func newNavCmd(app *App) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "nav <cmid>",
		Short: "Show the navigation links of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("module", args[0])
			if err != nil {
				return err
			}
			nav, err := app.Navigation.ModuleNavigation(cmd.Context(), id)
			if err != nil {
				return err
			}
			if html {
				fmt.Fprintln(cmd.OutOrStdout(), nav.Rendered.HTML)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNavigation(nav))
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Print the rendered navigation markup")
	return cmd
}
