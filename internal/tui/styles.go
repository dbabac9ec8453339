package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/myjellybean/jellybean/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	taglineStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	optionSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	categoryStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	dangerBannerStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorRed).
				Bold(true).
				Padding(0, 1)

	replyStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Italic(true)

	reportStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

var riskStyles = map[model.RiskBand]lipgloss.Style{
	model.RiskLow:    lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	model.RiskMedium: lipgloss.NewStyle().Foreground(colorOrange).Bold(true),
	model.RiskHigh:   lipgloss.NewStyle().Foreground(colorRed).Bold(true),
}

func riskStyle(b model.RiskBand) lipgloss.Style {
	if s, ok := riskStyles[b]; ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(colorYellow)
}
