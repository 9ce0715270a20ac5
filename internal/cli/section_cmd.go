package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/service"
)

func newSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Manage course sections",
	}

	cmd.AddCommand(
		newSectionAddCmd(app),
		newSectionEditCmd(app),
		newSectionActionCmd(app),
	)

	return cmd
}

func newSectionAddCmd(app *App) *cobra.Command {
	var name string
	var parentID int64

	cmd := &cobra.Command{
		Use:   "add <course>",
		Short: "Add a section, or a subsection with --parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			course, err := resolveCourse(ctx, app, args[0])
			if err != nil {
				return err
			}
			sec, err := app.Sections.Add(ctx, course.ID, parentID, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added section %d %q (id %d)\n", sec.Number, app.Sections.Name(sec), sec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Section name")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent section id")
	return cmd
}

func newSectionEditCmd(app *App) *cobra.Command {
	var (
		name, summary, image string
		removeImage, prompt  bool
		layout               layoutFlag
	)

	cmd := &cobra.Command{
		Use:   "edit <section>",
		Short: "Edit a section's name, summary, layout and image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			sec, err := app.Sections.GetByID(ctx, id)
			if err != nil {
				return err
			}

			values := sectionFormValues{Name: sec.Name, Summary: sec.Summary, Layout: sec.Layout.String()}
			flags := cmd.Flags()
			if flags.Changed("name") {
				values.Name = name
			}
			if flags.Changed("summary") {
				values.Summary = summary
			}
			if flags.Changed("layout") {
				values.Layout = layout.String()
			}
			values.Image = image

			if prompt {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if err := sectionEditForm(&values).Run(); err != nil {
					return err
				}
			}

			form := service.SectionForm{
				Name:        values.Name,
				Summary:     values.Summary,
				Layout:      values.Layout,
				RemoveImage: removeImage,
			}
			if values.Image != "" {
				f, err := os.Open(values.Image)
				if err != nil {
					return fmt.Errorf("opening image: %w", err)
				}
				defer f.Close()
				form.ImageName = filepath.Base(values.Image)
				form.Image = f
			}

			sec, err = app.Sections.Edit(ctx, id, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated section %d %q\n", sec.Number, app.Sections.Name(sec))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Section name (blank for the default)")
	cmd.Flags().StringVar(&summary, "summary", "", "Section summary")
	cmd.Flags().Var(&layout, "layout", "Section layout: card or expanded")
	cmd.Flags().StringVar(&image, "image", "", "Image file to use for the section")
	cmd.Flags().BoolVar(&removeImage, "remove-image", false, "Remove the section image")
	cmd.Flags().BoolVarP(&prompt, "interactive", "i", false, "Edit in an interactive form")
	cmd.MarkFlagsMutuallyExclusive("image", "remove-image")
	return cmd
}

func newSectionActionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "action <section> <action>",
		Short:     "Run a section action: setmarker, removemarker, showexpanded, showcollapsed, hide, show",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"setmarker", "removemarker", "showexpanded", "showcollapsed", "hide", "show"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			action, err := service.ParseSectionAction(args[1])
			if err != nil {
				return err
			}
			sec, err := app.Sections.Action(cmd.Context(), id, action)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", app.Sections.Name(sec), action)
			return nil
		},
	}
}
