package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dockgrid/pkg/core/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // parts, operation names
	colorGreen  = lipgloss.Color("35")  // active activities and views
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // ids and values
	colorGray   = lipgloss.Color("245") // idle activities, labels
	colorDim    = lipgloss.Color("240") // revisions, titles, hints
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders grid headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders operation names and workspace names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders ids and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleActive   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleInactive = lipgloss.NewStyle().Foreground(colorGray)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconActive  = "●"
	iconIdle    = "○"
)

// activeMark renders the filled or hollow activity dot.
func activeMark(active bool) string {
	if active {
		return styleActive.Render(iconActive)
	}
	return styleInactive.Render(iconIdle)
}

// activeView renders a view id, starred and highlighted when active.
func activeView(id string, active bool) string {
	if active {
		return styleActive.Render(id + "*")
	}
	return id
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printError writes to stderr so it never mixes with exported layouts on
// stdout.
func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printApplied reports an operation and the revision it produced.
func printApplied(op string, revision uint64) {
	printSuccess("Applied %s %s", StyleHighlight.Render(op), StyleDim.Render(fmt.Sprintf("(revision %d)", revision)))
}

// printChange reports one part's active-view transition.
func printChange(ch layout.ActiveViewChange) {
	printDetail("%s: %s %s %s", ch.PartID, orNone(ch.Previous), iconArrow, orNone(ch.Current))
}
