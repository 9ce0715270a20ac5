package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/cli/formatter"
	"github.com/alexanderramin/mawang/internal/service"
)

func newCourseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}

	cmd.AddCommand(
		newCourseImportCmd(app),
		newCourseListCmd(app),
		newCourseShowCmd(app),
	)

	return cmd
}

func newCourseImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a course from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported course %s [%s] (id %d): %d sections, %d activities, %d teachers, %d custom fields, %d completions\n",
				result.Course.FullName, result.Course.ShortName, result.Course.ID,
				result.SectionCount, result.ModuleCount, result.TeacherCount, result.FieldCount, result.CompletionCount)
			return nil
		},
	}
}

func newCourseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := app.Courses.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCourseList(courses))
			return nil
		},
	}
}

func newCourseShowCmd(app *App) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "show <course>",
		Short: "Show the section tree of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			course, err := resolveCourse(ctx, app, args[0])
			if err != nil {
				return err
			}
			tree, err := app.Courses.Tree(ctx, course.ID)
			if err != nil {
				return err
			}
			var progress []service.SectionProgress
			if userID > 0 {
				if progress, err = app.Content.Progress(ctx, course.ID, userID); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCourseTree(course, tree, progress))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Show progress bars for this user")
	return cmd
}
