package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - adaptive colors that hold up in light and dark terminals.
var (
	// Primary accent for headers and the spinner
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#58A6FF"}

	// Healthy green for 2xx-dominated summaries and completed probes
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008000", Dark: "#3FB950"}

	// Error red for transport failures
	ColorError = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#F85149"}

	// Warning amber for degraded results and reload problems
	ColorWarning = lipgloss.AdaptiveColor{Light: "#CC6600", Dark: "#D29922"}

	// Muted gray for secondary information
	ColorMuted = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8B949E"}
)

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolArrow   = "→"
)

// Styles for common output elements.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	// Summary line labels: SUMMARY stays quiet, FINAL stands out.
	StyleSummaryLabel = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleFinalLabel   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)
