// ABOUTME: Lipgloss styles shared by the printer, table, and stream view
// ABOUTME: Plain returns unstyled variants for non-terminal output

package display

import "github.com/charmbracelet/lipgloss"

// Styles is the CLI palette.
type Styles struct {
	Header lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
}

// DefaultStyles returns the colored palette.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Error: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1")).
			PaddingLeft(1).
			Foreground(lipgloss.Color("1")),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Muted: plain, Accent: plain, Error: plain, Status: plain}
}
