package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halyard-io/courier/cli/config"
)

// EndpointsModel is a Bubble Tea model for the endpoints view.
type EndpointsModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewEndpointsModel creates a new endpoints model.
func NewEndpointsModel(viewType string, data any) EndpointsModel {
	return EndpointsModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m EndpointsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m EndpointsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (m EndpointsModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "inspect_endpoints":
		content = m.renderEndpoints()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m EndpointsModel) renderEndpoints() string {
	data, ok := m.data.(config.EndpointListings)
	if !ok {
		return "Invalid data type for inspect_endpoints"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Configured Endpoints"))
	b.WriteString("\n")

	if len(data) == 0 {
		b.WriteString(ValueStyle.Render("(no endpoints configured)"))
		return b.String()
	}

	for i, e := range data {
		if i > 0 {
			b.WriteString("\n")
		}

		var box strings.Builder
		box.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor).
			Render(e.Name))
		box.WriteString("\n\n")

		box.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("URL:"),
			ValueStyle.Render(e.URL)))
		box.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Auth:"),
			ValueStyle.Render(e.Auth)))
		if e.TokenName != "" {
			box.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Token Param:"),
				ValueStyle.Render(e.TokenName)))
		}
		box.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Params:"),
			ValueStyle.Render(fmt.Sprintf("%d", e.Params))))
		box.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Headers:"),
			ValueStyle.Render(fmt.Sprintf("%d", e.Headers))))
		box.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Extras:"),
			ValueStyle.Render(fmt.Sprintf("%d", e.Extras))))

		b.WriteString(BoxStyle.Render(box.String()))
	}

	return b.String()
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunEndpointsTUI runs the endpoints TUI.
func RunEndpointsTUI(viewType string, data any) error {
	model := NewEndpointsModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderEndpointsStatic renders endpoint data without full TUI (for fallback).
func RenderEndpointsStatic(viewType string, data any) string {
	model := NewEndpointsModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
