// Package ui provides styled terminal output for the trafficgen CLI.
// It uses the Charm.sh ecosystem for styling with automatic fallback to
// plain text for non-TTY environments, so summary lines stay greppable
// when output is piped to a file or a log collector.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// UI holds the terminal state and provides styled output methods.
type UI struct {
	IsTTY   bool
	Width   int
	NoColor bool
}

// KV represents a key-value pair for summary displays.
type KV struct {
	Key   string
	Value string
}

// noColorEnv is the standard environment variable to disable colors.
var noColorEnv = os.Getenv("NO_COLOR") != ""

// New creates a new UI instance with TTY detection.
func New() *UI {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	width := 80
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	return &UI{
		IsTTY:   isTTY,
		Width:   width,
		NoColor: noColorEnv,
	}
}

// SetNoColor disables colors and animations.
func (u *UI) SetNoColor(noColor bool) {
	u.NoColor = noColor
}

// shouldStyle returns true if we should use styled output.
func (u *UI) shouldStyle() bool {
	return u.IsTTY && !u.NoColor
}

// Header renders a bordered header box.
func (u *UI) Header(title string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("=== %s ===", title)
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 2)

	return style.Render(title)
}

// KeyValue renders a styled key-value pair for the startup block.
func (u *UI) KeyValue(key, value string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("%-16s %s", key+":", value)
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(16)
	valueStyle := lipgloss.NewStyle().
		Bold(true)

	return "  " + keyStyle.Render(key) + " " + valueStyle.Render(value)
}

// Success renders a success message with a green checkmark.
func (u *UI) Success(msg string) string {
	if !u.shouldStyle() {
		return "[OK] " + msg
	}

	return StyleSuccess.Render(SymbolSuccess+" ") + msg
}

// Error renders an error message with a red X.
func (u *UI) Error(msg string) string {
	if !u.shouldStyle() {
		return "[FAILED] " + msg
	}

	return StyleError.Render(SymbolError + " " + msg)
}

// Warning renders a warning message.
func (u *UI) Warning(msg string) string {
	if !u.shouldStyle() {
		return "[WARN] " + msg
	}

	return StyleWarning.Render(SymbolWarning + " " + msg)
}

// Muted renders muted/dim text.
func (u *UI) Muted(msg string) string {
	if !u.shouldStyle() {
		return msg
	}

	return StyleMuted.Render(msg)
}

// Bold renders bold text.
func (u *UI) Bold(msg string) string {
	if !u.shouldStyle() {
		return msg
	}

	return lipgloss.NewStyle().Bold(true).Render(msg)
}

// StatLine styles one periodic summary line. The leading label (the
// first word, SUMMARY or FINAL) gets the accent; the counters after the
// first pipe stay plain so the line remains machine-greppable.
func (u *UI) StatLine(line string) string {
	if !u.shouldStyle() {
		return line
	}

	label, rest, found := strings.Cut(line, " ")
	if !found {
		return line
	}
	style := StyleSummaryLabel
	if label == "FINAL" {
		style = StyleFinalLabel
	}
	return style.Render(label) + " " + rest
}

// SummaryBox renders a bordered summary section. A "Verdict" entry is
// colored by its content: healthy in green, degraded in amber, anything
// mentioning fail in red.
func (u *UI) SummaryBox(title string, items []KV) string {
	if !u.shouldStyle() {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("\n=== %s ===\n", title))
		for _, item := range items {
			sb.WriteString(fmt.Sprintf("%-16s %s\n", item.Key+":", item.Value))
		}
		return sb.String()
	}

	maxKeyWidth := 0
	for _, item := range items {
		if len(item.Key) > maxKeyWidth {
			maxKeyWidth = len(item.Key)
		}
	}

	var lines []string
	for _, item := range items {
		keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(maxKeyWidth + 2)
		value := item.Value

		if item.Key == "Verdict" {
			lower := strings.ToLower(value)
			switch {
			case strings.Contains(lower, "healthy"):
				value = StyleSuccess.Render(SymbolSuccess + " " + value)
			case strings.Contains(lower, "degraded"):
				value = StyleWarning.Render(SymbolWarning + " " + value)
			case strings.Contains(lower, "fail"):
				value = StyleError.Render(SymbolError + " " + value)
			default:
				value = lipgloss.NewStyle().Bold(true).Render(value)
			}
		} else {
			value = lipgloss.NewStyle().Bold(true).Render(value)
		}

		lines = append(lines, "  "+keyStyle.Render(item.Key)+" "+value)
	}
	content := strings.Join(lines, "\n")

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)

	return "\n" + titleStyle.Render("  "+title) + "\n" + boxStyle.Render(content)
}

// EndpointRow renders one probe result row: the endpoint name, its
// outcome, and a pass/fail marker.
func (u *UI) EndpointRow(name, result string, ok bool) string {
	if !u.shouldStyle() {
		marker := "ok"
		if !ok {
			marker = "FAILED"
		}
		return fmt.Sprintf("  %-12s %-8s %s", name, marker, result)
	}

	nameStyle := lipgloss.NewStyle().Width(12)
	if ok {
		return fmt.Sprintf("  %s %s %s",
			StyleSuccess.Render(SymbolSuccess), nameStyle.Render(name), result)
	}
	return fmt.Sprintf("  %s %s %s",
		StyleError.Render(SymbolError), nameStyle.Render(name), StyleError.Render(result))
}
