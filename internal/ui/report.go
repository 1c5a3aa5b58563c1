package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Output is where reports are printed
var Output io.Writer = os.Stdout

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(Output, SuccessStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintln(Output, ErrorStyle.Render("Error: "+message))
}

// PrintInfo prints an informational message
func PrintInfo(message string) {
	fmt.Fprintln(Output, InfoStyle.Render(message))
}

// PrintHeader prints the title shown before each series is processed
func PrintHeader(index string, n, total int) {
	fmt.Fprintln(Output)
	fmt.Fprintln(Output, AccentStyle.Render(fmt.Sprintf("[%d/%d] %s", n, total, index)))
}

// PrintSummary prints the outcome of a run
func PrintSummary(written []string, failed []string) {
	fmt.Fprintln(Output)
	fmt.Fprintln(Output, TitleStyle.Render(fmt.Sprintf("Summary: %d written, %d failed", len(written), len(failed))))
	for _, path := range written {
		fmt.Fprintln(Output, SuccessStyle.Render("  ✓ ")+RenderNormal(path))
	}
	for _, index := range failed {
		fmt.Fprintln(Output, ErrorStyle.Render("  ✗ ")+RenderNormal(index))
	}
}

// PrintKeyValues prints aligned "key: value" lines
func PrintKeyValues(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	for _, p := range pairs {
		key := p[0] + ":" + strings.Repeat(" ", width-len(p[0]))
		fmt.Fprintf(Output, "%s %s\n", HintStyle.Render(key), RenderNormal(p[1]))
	}
}
