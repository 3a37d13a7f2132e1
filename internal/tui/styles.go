// Package tui provides the terminal user interface for Brewdesk.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brewdesk/brewdesk/internal/config"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	PrimaryColor    lipgloss.Color
	SecondaryColor  lipgloss.Color
	AccentColor     lipgloss.Color
	BackgroundColor lipgloss.Color
	ErrorColor      lipgloss.Color
	WarningColor    lipgloss.Color
	SuccessColor    lipgloss.Color
	MutedColor      lipgloss.Color

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Box      lipgloss.Style
	Selected lipgloss.Style
	Focused  lipgloss.Style
	Disabled lipgloss.Style

	// Toast bar, one style per notice kind
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowAlt lipgloss.Style

	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style
	MenuItemDisabled lipgloss.Style

	StatusBar     lipgloss.Style
	StatusKey     lipgloss.Style
	StatusValue   lipgloss.Style
	StatusDivider lipgloss.Style
}

// NewTheme creates a new theme based on the color scheme configuration.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeAmber:
		return buildTheme(
			lipgloss.Color("#FFAA00"), lipgloss.Color("#AA7700"), lipgloss.Color("#FFCC66"),
			lipgloss.Color("#000000"), lipgloss.Color("#664400"),
			lipgloss.Color("#FF4444"), lipgloss.Color("#FFFF00"), lipgloss.Color("#FFAA00"),
		)
	case config.ColorSchemeWhite:
		return buildTheme(
			lipgloss.Color("#FFFFFF"), lipgloss.Color("#AAAAAA"), lipgloss.Color("#FFFFFF"),
			lipgloss.Color("#000000"), lipgloss.Color("#666666"),
			lipgloss.Color("#FF4444"), lipgloss.Color("#FFAA00"), lipgloss.Color("#00FF00"),
		)
	default:
		return buildTheme(
			lipgloss.Color("#00FF00"), lipgloss.Color("#00AA00"), lipgloss.Color("#66FF66"),
			lipgloss.Color("#000000"), lipgloss.Color("#006600"),
			lipgloss.Color("#FF4444"), lipgloss.Color("#FFAA00"), lipgloss.Color("#00FF00"),
		)
	}
}

func buildTheme(primary, secondary, accent, background, muted, errorColor, warningColor, successColor lipgloss.Color) *Theme {
	t := &Theme{
		PrimaryColor:    primary,
		SecondaryColor:  secondary,
		AccentColor:     accent,
		BackgroundColor: background,
		MutedColor:      muted,
		ErrorColor:      errorColor,
		WarningColor:    warningColor,
		SuccessColor:    successColor,
	}

	t.Primary = lipgloss.NewStyle().Foreground(primary)
	t.Secondary = lipgloss.NewStyle().Foreground(secondary)
	t.Accent = lipgloss.NewStyle().Foreground(accent)
	t.Error = lipgloss.NewStyle().Foreground(errorColor)
	t.Warning = lipgloss.NewStyle().Foreground(warningColor)
	t.Success = lipgloss.NewStyle().Foreground(successColor)
	t.Muted = lipgloss.NewStyle().Foreground(muted)

	t.Header = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(0, 1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().
		Foreground(secondary)

	t.Value = lipgloss.NewStyle().
		Foreground(primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondary).
		Padding(0, 1)

	t.Selected = lipgloss.NewStyle().
		Foreground(background).
		Background(primary).
		Bold(true)

	t.Focused = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.Disabled = lipgloss.NewStyle().
		Foreground(muted)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Padding(0, 1)

	t.ToastWarning = lipgloss.NewStyle().
		Foreground(warningColor).
		Bold(true).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true).
		Padding(0, 1)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(0, 1)

	t.TableRow = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 1)

	t.TableRowAlt = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.MenuItem = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 2)

	t.MenuItemSelected = lipgloss.NewStyle().
		Foreground(background).
		Background(primary).
		Bold(true).
		Padding(0, 2)

	t.MenuItemDisabled = lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 2)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(secondary).
		Background(lipgloss.Color("#001100")).
		Padding(0, 1)

	t.StatusKey = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.StatusValue = lipgloss.NewStyle().
		Foreground(primary)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(muted).
		SetString(" │ ")

	return t
}

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Secondary.Render(strings.Repeat("─", width))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat("═", width))
}
