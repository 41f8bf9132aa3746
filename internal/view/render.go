package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/rota/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	onStyle = cellStyle.
		Foreground(lipgloss.Color("42")).
		Bold(true)

	offStyle = cellStyle.Foreground(lipgloss.Color("240"))

	currentStyle = cellStyle.Background(lipgloss.Color("236"))
)

// Render draws the roster as a table. The row of the current week, if set
// and present, is highlighted.
func Render(r Roster, current models.WeekKey) string {
	if len(r.Schedule) == 0 {
		return "No weeks scheduled."
	}

	headers := append([]string{"Week"}, r.Developers...)
	rows := make([][]string, 0, len(r.Schedule)+1)
	for _, row := range r.Schedule {
		rows = append(rows, append([]string{row.DateRange}, row.Cells(r.Developers)...))
	}

	totals := make([]string, 0, len(r.Developers)+1)
	totals = append(totals, "Total")
	for _, name := range r.Developers {
		totals = append(totals, fmt.Sprintf("%d", r.Totals[name]))
	}
	rows = append(rows, totals)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < len(r.Schedule) && r.Schedule[row].Week == current && current != "":
				return currentStyle
			case col == 0 || row >= len(r.Schedule):
				return cellStyle
			case rows[row][col] == On:
				return onStyle
			default:
				return offStyle
			}
		})

	return t.String()
}

// Plain renders the roster as fixed-width text with "O" for on-support and
// "." for off, suitable for logs and non-terminal output.
func Plain(r Roster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s", "Week")
	for _, name := range r.Developers {
		fmt.Fprintf(&b, " %*s", width(name), name)
	}
	b.WriteString("\n")

	for _, row := range r.Schedule {
		fmt.Fprintf(&b, "%-10s", row.Week)
		for _, name := range r.Developers {
			mark := "."
			if row.Assignments[name] == On {
				mark = "O"
			}
			fmt.Fprintf(&b, " %*s", width(name), mark)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func width(name string) int {
	return max(len(name), 3)
}
