package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/folio"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - headings
	colorGreen = lipgloss.Color("35")  // Green - success
	colorAmber = lipgloss.Color("220") // Amber - warnings
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - labels
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleLine    = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorDim).PaddingLeft(1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
)

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printMeasurement renders a text layout as a labeled summary followed by
// one row per line.
func printMeasurement(w io.Writer, m folio.Measurement) {
	fmt.Fprintln(w, styleTitle.Render("Layout"))
	printKeyValue(w, "size", fmt.Sprintf("%.2f x %.2f", m.Width, m.Height))
	printKeyValue(w, "baseline", fmt.Sprintf("%.2f", m.Baseline))
	printKeyValue(w, "lines", fmt.Sprintf("%d", len(m.Lines)))
	if m.OffsetX != 0 || m.OffsetY != 0 {
		printKeyValue(w, "offset", fmt.Sprintf("%.2f, %.2f", m.OffsetX, m.OffsetY))
	}

	rows := make([]string, len(m.Lines))
	for i, l := range m.Lines {
		pos := styleDim.Render(fmt.Sprintf("%3d  @%7.2f,%7.2f  w=%7.2f", i+1, l.Left, l.Top, l.Width))
		rows[i] = pos + "  " + styleValue.Render(l.Text)
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, styleLine.Render(strings.Join(rows, "\n")))
	}
	if m.HasOverflow {
		printWarning(w, "text overflows its box")
	}
}

// printMatrix prints an affine matrix as two rows.
func printMatrix(w io.Writer, m folio.Matrix) {
	fmt.Fprintln(w, styleTitle.Render("Transform"))
	fmt.Fprintln(w, styleNumber.Render(fmt.Sprintf("  [%10.4f %10.4f %10.4f]", m[0], m[2], m[4])))
	fmt.Fprintln(w, styleNumber.Render(fmt.Sprintf("  [%10.4f %10.4f %10.4f]", m[1], m[3], m[5])))
}
