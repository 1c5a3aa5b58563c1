package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/evds-ng/internal/frame"
)

const maxCellWidth = 18

// RenderPreview formats the first n rows of df as a bordered table.
// Lipgloss only colors the output; the layout is plain string formatting.
func RenderPreview(df *frame.DataFrame, n int) string {
	columns := df.Columns()
	if len(columns) == 0 {
		return HintStyle.Render("(no data)")
	}
	rows := df.Len()
	if n > rows || n <= 0 {
		n = rows
	}

	widths := make([]int, len(columns))
	for i, name := range columns {
		widths[i] = lipgloss.Width(truncate(name))
	}
	cells := make([][]string, n)
	for r := 0; r < n; r++ {
		row := df.Row(r)
		cells[r] = make([]string, len(row))
		for i, c := range row {
			text := truncate(c.Render())
			cells[r][i] = text
			if w := lipgloss.Width(text); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 1
	for _, w := range widths {
		total += w + 3
	}
	separator := strings.Repeat("─", total-2)

	var b strings.Builder
	b.WriteString(BorderLineStyle.Render("┌"+separator+"┐") + "\n")

	b.WriteString(BorderLineStyle.Render("│"))
	for i, name := range columns {
		b.WriteString(" " + HeaderCellStyle.Render(pad(truncate(name), widths[i])) + " ")
		b.WriteString(BorderLineStyle.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(BorderLineStyle.Render("├"+separator+"┤") + "\n")

	for r := 0; r < n; r++ {
		row := df.Row(r)
		b.WriteString(BorderLineStyle.Render("│"))
		for i, text := range cells[r] {
			style := NormalStyle
			if row[i].IsNull() {
				style = NullCellStyle
			}
			b.WriteString(" " + style.Render(pad(text, widths[i])) + " ")
			b.WriteString(BorderLineStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(BorderLineStyle.Render("└" + separator + "┘"))
	if n < rows {
		b.WriteString("\n" + HintStyle.Render(fmt.Sprintf("%d of %d rows", n, rows)))
	}
	return b.String()
}

// PrintPreview prints the first n rows of df
func PrintPreview(df *frame.DataFrame, n int) {
	fmt.Fprintln(Output, RenderPreview(df, n))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxCellWidth {
		return string(r[:maxCellWidth-3]) + "..."
	}
	return s
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
