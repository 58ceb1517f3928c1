package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pathrank/pkg/pipeline"
)

// Terminal palette, 256-color codes.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the ranking table, the export summary and the score
// browser.
var (
	// StyleTitle marks headings and the top-ranked article.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight marks article names inside running text.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim is for separators, hints and labels.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue is for article names and file paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber is for scores.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarning is for skipped records and malformed sequences.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusLine writes msg prefixed with a colored icon.
func statusLine(w io.Writer, icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(w, icon.Render(glyph)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) {
	statusLine(w, styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	statusLine(w, styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	statusLine(w, styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	statusLine(w, styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail writes an indented, dimmed line under a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile writes the path of a written export.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue writes one row of the `rank --stats` block.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printGraphSummary writes the size of the transition graph and whether the
// result came from cache, e.g. "3 articles · 2 links · 1 dead end · cached".
func printGraphSummary(w io.Writer, s pipeline.Stats, cached bool) {
	parts := []string{
		plural(s.Nodes, "article", "articles"),
		plural(s.Edges, "link", "links"),
	}
	if s.Dangling > 0 {
		parts = append(parts, plural(s.Dangling, "dead end", "dead ends"))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
