package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/mawang/internal/cli/formatter"
	"github.com/alexanderramin/mawang/internal/domain"
)

func mawangHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// sectionFormValues are the fields the interactive editor fills in.
type sectionFormValues struct {
	Name    string
	Summary string
	Layout  string
	Image   string
}

// sectionEditForm prompts for the editable section fields, prefilled with
// the current values.
func sectionEditForm(v *sectionFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Section name").
				Description("Blank uses the default name").
				CharLimit(255).
				Value(&v.Name),
			huh.NewText().
				Title("Summary").
				Value(&v.Summary),
			huh.NewSelect[string]().
				Title("Layout").
				Options(
					huh.NewOption("Card", domain.LayoutCard.String()),
					huh.NewOption("Expanded", domain.LayoutExpanded.String()),
				).
				Value(&v.Layout),
			huh.NewInput().
				Title("Image file").
				Description("Path to a .jpg, .png, .gif or .svg; blank keeps the current image").
				Value(&v.Image),
		),
	).WithTheme(mawangHuhTheme()).WithShowHelp(false)
}
