package tui

import (
	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

var stateStyles = map[models.SyncState]lipgloss.Style{
	models.Synced:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	models.PendingCreate: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	models.PendingUpdate: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	models.PendingDelete: lipgloss.NewStyle().Faint(true),
	models.Failed:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

func stateBadge(state models.SyncState) string {
	style, ok := stateStyles[state]
	if !ok {
		style = helpStyle
	}
	return style.Render("[" + string(state) + "]")
}
