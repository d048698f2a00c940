package render

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Underline(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// ErrorState is the fragment shown in place of a listing that failed to load.
func ErrorState(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

// Alert styles a one-line message for the user.
func Alert(msg string) string {
	return alertStyle.Render("! " + msg)
}

func Success(msg string) string {
	return okStyle.Render("✓ " + msg)
}

func Link(s string) string {
	return linkStyle.Render(s)
}
