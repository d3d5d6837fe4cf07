package component

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - focus and accents
	colorWhite = lipgloss.Color("255") // Bright white - content
	colorGray  = lipgloss.Color("245") // Gray - chrome
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Theme
// =============================================================================

// Theme bundles the styles the built-in set paints with. Styling is a
// client-side choice; the protocol never carries colors.
type Theme struct {
	// Text renders text content.
	Text lipgloss.Style

	// Muted renders placeholders and secondary text.
	Muted lipgloss.Style

	// Border styles box borders drawn with BorderRunes.
	Border      lipgloss.Style
	BorderRunes lipgloss.Border

	// Button states.
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Input states.
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Scrim dims whatever an overlay covers.
	Scrim lipgloss.Style
}

// DefaultTheme returns the stock terminal theme.
func DefaultTheme() Theme {
	return Theme{
		Text:           lipgloss.NewStyle().Foreground(colorWhite),
		Muted:          lipgloss.NewStyle().Foreground(colorDim),
		Border:         lipgloss.NewStyle().Foreground(colorGray),
		BorderRunes:    lipgloss.NormalBorder(),
		Button:         lipgloss.NewStyle().Foreground(colorWhite),
		ButtonFocused:  lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		ButtonDisabled: lipgloss.NewStyle().Foreground(colorDim),
		Input:          lipgloss.NewStyle().Foreground(colorWhite),
		InputFocused:   lipgloss.NewStyle().Foreground(colorCyan),
		Scrim:          lipgloss.NewStyle().Foreground(colorDim),
	}
}
