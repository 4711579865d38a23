package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	statusStyles = map[Level]lipgloss.Style{
		Info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		Failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// Styled renders with lipgloss borders and colors.
type Styled struct{}

func (Styled) Panel(title, body string) string {
	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	return panelStyle.Render(content) + "\n"
}

func (Styled) Table(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	out := t.Render() + "\n"
	if title != "" {
		out = titleStyle.Render(title) + "\n" + out
	}
	return out
}

func (Styled) Status(level Level, text string) string {
	return statusStyles[level].Render(text) + "\n"
}
