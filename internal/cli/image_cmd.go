package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newImageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage section images",
	}

	cmd.AddCommand(
		newImageSetCmd(app),
		newImageURLCmd(app),
		newImageDefaultCmd(app),
	)

	return cmd
}

func newImageSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <section> <file>",
		Short: "Set the image of a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening image: %w", err)
			}
			defer f.Close()

			stored, err := app.Images.SetSectionImage(cmd.Context(), id, filepath.Base(args[1]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%s, %d bytes)\n", stored.FileName, stored.MimeType, stored.Size)
			return nil
		},
	}
}

func newImageURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "url <section>",
		Short: "Print the image URL of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			url, err := app.Images.SectionImageURL(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newImageDefaultCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "default <file>",
		Short: "Set the site-wide default section image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening image: %w", err)
			}
			defer f.Close()

			stored, err := app.Images.SetDefaultImage(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored default image %s\n", stored.FileName)
			return nil
		},
	}
}
