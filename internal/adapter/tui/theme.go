package tui

import (
	"github.com/charmbracelet/lipgloss"

	"verdict-game/internal/domain"
)

type theme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	clock       lipgloss.Style
	clockUrgent lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	inputPanel  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	helpText    lipgloss.Style
	narration   lipgloss.Style
	verdict     lipgloss.Style
	speakers    map[string]lipgloss.Style
}

func newTheme() theme {
	crimson := lipgloss.Color("#e63946")
	brass := lipgloss.Color("#e9c46a")
	teal := lipgloss.Color("#2a9d8f")
	steel := lipgloss.Color("#8ecae6")
	bg := lipgloss.Color("#14110f")
	panelBg := lipgloss.Color("#1f1a17")
	text := lipgloss.Color("#f1faee")
	muted := lipgloss.Color("#a8a29e")

	return theme{
		root: lipgloss.NewStyle().
			Background(bg).
			Foreground(text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(brass).
			Padding(0, 1),
		clock:       lipgloss.NewStyle().Foreground(brass).Bold(true),
		clockUrgent: lipgloss.NewStyle().Foreground(crimson).Bold(true),
		tabActive: lipgloss.NewStyle().
			Background(brass).
			Foreground(lipgloss.Color("#1d1306")).
			Bold(true).
			Padding(0, 1),
		tabInactive: lipgloss.NewStyle().
			Background(lipgloss.Color("#2b2420")).
			Foreground(muted).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(steel).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(teal).
			Bold(true),
		inputPanel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(teal).
			Padding(0, 1),
		footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(steel).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(crimson).Bold(true),
		helpText:    lipgloss.NewStyle().Foreground(muted),
		narration:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		verdict: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(crimson).
			Padding(1, 2),
		speakers: map[string]lipgloss.Style{
			domain.RoleUser:        lipgloss.NewStyle().Foreground(teal).Bold(true),
			domain.PersonaDelivery: lipgloss.NewStyle().Foreground(brass).Bold(true),
			domain.PersonaPatrol:   lipgloss.NewStyle().Foreground(steel).Bold(true),
			domain.PersonaSecurity: lipgloss.NewStyle().Foreground(crimson).Bold(true),
		},
	}
}

func (t theme) speaker(key string) lipgloss.Style {
	if style, ok := t.speakers[key]; ok {
		return style
	}
	return t.helpText
}
