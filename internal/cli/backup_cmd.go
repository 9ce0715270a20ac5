package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/cli/formatter"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore section images",
	}

	cmd.AddCommand(
		newBackupCreateCmd(app),
		newBackupRestoreCmd(app),
	)

	return cmd
}

func newBackupCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <course> <dir>",
		Short: "Write a course archive to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := resolveCourse(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			m, err := app.Backups.Create(cmd.Context(), course.ID, args[1])
			if err != nil {
				return err
			}
			var images int
			for _, s := range m.Sections {
				images += len(s.Images)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archive %s: %d sections, %d images\n", m.ArchiveID, len(m.Sections), images)
			return nil
		},
	}
}

func newBackupRestoreCmd(app *App) *cobra.Command {
	var createMissing bool

	cmd := &cobra.Command{
		Use:   "restore <dir> <course>",
		Short: "Restore an archive's section images into a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := resolveCourse(cmd.Context(), app, args[1])
			if err != nil {
				return err
			}
			report, err := app.Backups.Restore(cmd.Context(), args[0], course.ID, backup.RestoreOptions{
				CreateMissingSections: createMissing,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRestoreReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&createMissing, "create-missing", false, "Create sections the target course lacks")
	return cmd
}
