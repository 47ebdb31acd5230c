package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/mythchaser/internal/verdict"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	factColor    = lipgloss.Color("#22c55e")
	mythColor    = lipgloss.Color("#f97316")
	scamColor    = lipgloss.Color("#ef4444")
	neutralColor = lipgloss.Color("#ffffff")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	modalBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	alertBoxStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(scamColor).Padding(1, 3)
	dragBoxStyle       = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(2, 6)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	verdictBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	verdictLabelStyle  = lipgloss.NewStyle().Bold(true)
	composerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 1)
	composerBusyStyle  = composerBoxStyle.Copy().BorderForeground(lipgloss.Color("240")).Faint(true)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"█▀▄▀█ █▄█ ▀█▀ █ █   █▀▀ █ █ ▄▀█ █▀ █▀▀ █▀█",
		"█ ▀ █  █   █  █▀█   █▄▄ █▀█ █▀█ ▄█ ██▄ █▀▄",
	}
)

func toneColor(tone verdict.Tone) lipgloss.Color {
	switch tone {
	case verdict.ToneFact:
		return factColor
	case verdict.ToneMyth:
		return mythColor
	case verdict.ToneScam:
		return scamColor
	default:
		return neutralColor
	}
}
