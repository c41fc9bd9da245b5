package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halyard-io/courier/history"
)

// StatsModel is a Bubble Tea model for probe history stats.
type StatsModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewStatsModel creates a new stats model.
func NewStatsModel(viewType string, data any) StatsModel {
	return StatsModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "stats_probes":
		content = m.renderProbeStats()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m StatsModel) renderProbeStats() string {
	data, ok := m.data.(*history.Stats)
	if !ok {
		return "Invalid data type for stats_probes"
	}

	var up, degraded, down int
	for _, e := range data.Endpoints {
		up += e.Up
		degraded += e.Degraded
		down += e.Down
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Probe History"))
	b.WriteString("\n\n")

	boxes := []string{
		m.renderStatBox("Probes", data.Records, highlightColor),
		m.renderStatBox("Up", up, successColor),
		m.renderStatBox("Degraded", degraded, warningColor),
		m.renderStatBox("Down", down, errorColor),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	for _, e := range data.Endpoints {
		b.WriteString("\n\n")

		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor).
			Render(fmt.Sprintf("Endpoint: %s", e.Endpoint)))
		b.WriteString("\n")

		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Probes:"),
			ValueStyle.Render(fmt.Sprintf("%d", e.Probes))))
		b.WriteString(fmt.Sprintf("%s %s / %s / %s\n",
			LabelStyle.Render("Up/Deg/Down:"),
			SuccessStyle.Render(fmt.Sprintf("%d", e.Up)),
			WarningStyle.Render(fmt.Sprintf("%d", e.Degraded)),
			ErrorStyle.Render(fmt.Sprintf("%d", e.Down))))
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Mean Latency:"),
			ValueStyle.Render(fmt.Sprintf("%dms", e.MeanLatencyMs))))
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Last State:"),
			StateStyle(string(e.LastState)).Render(string(e.LastState))))
		if e.LastProbe != "" {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Last Probe:"),
				ValueStyle.Render(e.LastProbe)))
		}
	}

	return b.String()
}

func (m StatsModel) renderStatBox(label string, value int, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunStatsTUI runs the stats TUI.
func RunStatsTUI(viewType string, data any) error {
	model := NewStatsModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatsStatic renders stats data without full TUI (for fallback).
func RenderStatsStatic(viewType string, data any) string {
	model := NewStatsModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
