package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/flashbank/pkg/models"
)

// Card colors
var (
	ColorBackground = lipgloss.Color("#B1DDC6")
	ColorFront      = lipgloss.Color("#FFFFFF")
	ColorBack       = lipgloss.Color("#91C2AF")
	ColorInk        = lipgloss.Color("#1E1E1E")
	ColorMuted      = lipgloss.Color("#636B78")
	ColorRed        = lipgloss.Color("#E06C75")
	ColorGreen      = lipgloss.Color("#2E7D32")
)

var (
	cardStyle = lipgloss.NewStyle().
			Width(40).
			Height(7).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBack).
			Foreground(ColorInk).
			Bold(true)

	FrontStyle = cardStyle.Background(ColorFront)

	BackStyle = cardStyle.Background(ColorBack)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	statNameStyle = lipgloss.NewStyle().
			Width(14).
			Foreground(ColorMuted)

	statValueStyle = lipgloss.NewStyle().
			Width(8).
			Align(lipgloss.Right).
			Foreground(ColorGreen)
)

// RenderStats renders bank statistics as a small boxed table
func RenderStats(s models.BankStats) string {
	rows := []struct {
		name  string
		value string
	}{
		{"Words", fmt.Sprint(s.Total)},
		{"Mastered", fmt.Sprint(s.Mastered)},
		{"Learning", fmt.Sprint(s.Learning)},
		{"Unattempted", fmt.Sprint(s.Unattempted)},
		{"Correct", fmt.Sprint(s.Correct)},
		{"Incorrect", fmt.Sprint(s.Incorrect)},
		{"Accuracy", fmt.Sprintf("%.0f%%", s.Accuracy()*100)},
		{"Threshold", fmt.Sprintf("%.0f%%", s.Threshold*100)},
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			statNameStyle.Render(row.name),
			statValueStyle.Render(row.value))
	}
	return StatsStyle.Render(strings.Join(lines, "\n"))
}
