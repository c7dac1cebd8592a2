package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

// CommonModel is embedded by all views.
type CommonModel struct {
	sess *session.Session

	Width  int
	Height int
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	padded       = lipgloss.NewStyle().Padding(1)
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func statusLine(status string, err error) string {
	if err != nil {
		return errorStyle.Render("Error: "+err.Error()) + "\n"
	}

	if status == "" {
		return ""
	}

	return faintStyle.Render(status) + "\n"
}
