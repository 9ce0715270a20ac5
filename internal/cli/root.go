package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/mawang/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Courses     service.CourseService
	Sections    service.SectionService
	Completions service.CompletionService
	Content     service.ContentService
	Navigation  service.NavigationService
	Images      service.ImageService
	Backups     service.BackupService
	Import      service.ImportService

	// IsInteractive reports whether prompts can be shown. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "mawang" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mawang",
		Short:         "Card and tile course format with section progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCourseCmd(app),
		newSectionCmd(app),
		newCMCmd(app),
		newProgressCmd(app),
		newPageCmd(app),
		newImageCmd(app),
		newBackupCmd(app),
		newNavCmd(app),
	)

	return root
}
