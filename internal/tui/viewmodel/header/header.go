package header

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
)

type Model struct {
	w, h       int
	homeserver string
	viewer     string
	theme      shared.Theme
	permalink  string
}

func New(w, h int, homeserver, viewer, permalink string, theme shared.Theme) *Model {
	return &Model{
		w:          w,
		h:          h,
		homeserver: homeserver,
		viewer:     viewer,
		theme:      theme,
		permalink:  permalink,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m *Model) View() string {
	leftPart := lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.theme.Header.Title.Render("lazycerulean"),
		" in ",
		m.theme.Header.Host.Render(m.homeserver),
	)

	viewer := "guest"
	if m.viewer != "" {
		viewer = m.viewer
	}
	if m.permalink != "" {
		viewer = m.permalink + "  " + viewer
	}

	rightPart := m.theme.Header.Username.
		Width(max(m.w-lipgloss.Width(leftPart)-1, 0)).
		Align(lipgloss.Right).
		Render(viewer)

	return lipgloss.NewStyle().Height(m.h).Width(m.w).Render(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			leftPart,
			rightPart,
		),
	)
}
