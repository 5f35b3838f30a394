package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette: pit wall at night
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.
// Tuned for dark terminals; the accent is the league's racing red.

var (
	// Base
	colorBgPanel   = lipgloss.Color("#161b22")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorRed    = lipgloss.Color("#e5383b")
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorYellow = lipgloss.Color("#d29922")
	colorGold   = lipgloss.Color("#f2c94c")
	colorSilver = lipgloss.Color("#c0c7d1")
	colorBronze = lipgloss.Color("#cd7f32")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#6a040f")
)

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Navigation bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorRed)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	navItemStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(0, 1)

	navActiveStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Underline(true).
			Padding(0, 1)
)

// Dashboard cards
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDivider).
			Background(colorBgPanel).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	cardFigureStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	cardMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Tab strip
var (
	tabStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorHighlight).
			Bold(true).
			Padding(0, 2)

	tabRuleStyle = lipgloss.NewStyle().
			Foreground(colorDivider)
)

// Panel chrome
var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.Border{
			Top:    "─",
			Bottom: "",
			Left:   "",
			Right:  "",
		}).
		BorderForeground(colorDivider)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)

// Event cards
var (
	eventItemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	eventSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true).
				Padding(0, 1)

	statusOpenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	statusRunningStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	statusClosedStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(1, 2)
)

// Event detail
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Width(14)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(colorText)

	detailSectionStyle = lipgloss.NewStyle().
				Foreground(colorTextDim).
				Bold(true)
)

// Standings table
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorTextDim).
				Bold(true)

	tableRowStyle = lipgloss.NewStyle().
			Foreground(colorText)

	tableOwnRowStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	pickerStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Background(colorBgSurface).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	hintSepStyle = lipgloss.NewStyle().
			Foreground(colorDivider)
)

// positionStyle colors podium finishes.
func positionStyle(pos int) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch pos {
	case 1:
		return s.Foreground(colorGold)
	case 2:
		return s.Foreground(colorSilver)
	case 3:
		return s.Foreground(colorBronze)
	default:
		return s.Foreground(colorText)
	}
}
