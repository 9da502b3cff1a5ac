package shared

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette
type Colors struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
}

// BorderStyles defines border styling for components
type BorderStyles struct {
	Normal  lipgloss.Style
	Focused lipgloss.Style
}

// HeaderStyles defines styling for header component
type HeaderStyles struct {
	Title    lipgloss.Style
	Host     lipgloss.Style
	Username lipgloss.Style
}

// TimelineStyles defines styling for the user timeline
type TimelineStyles struct {
	DisplayName lipgloss.Style
	UserID      lipgloss.Style
	ActiveTab   lipgloss.Style
	Tab         lipgloss.Style
	Empty       lipgloss.Style
	Error       lipgloss.Style
	Time        lipgloss.Style
	Separator   lipgloss.Style
}

// ComposerStyles defines styling for the post composer
type ComposerStyles struct {
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Button       lipgloss.Style
	File         lipgloss.Style
	Loader       lipgloss.Style
}

// PreviewStyles defines styling for preview component
type PreviewStyles struct {
	Title lipgloss.Style
	Meta  lipgloss.Style
}

// StatusStyles defines styling for the status line
type StatusStyles struct {
	Info  lipgloss.Style
	Error lipgloss.Style
}

// Theme aggregates all style definitions
type Theme struct {
	Colors   Colors
	Border   BorderStyles
	Header   HeaderStyles
	Timeline TimelineStyles
	Composer ComposerStyles
	Preview  PreviewStyles
	Status   StatusStyles
}

// DefaultTheme returns the default color scheme
func DefaultTheme() Theme {
	colors := Colors{
		Primary: lipgloss.Color("39"),
		Accent:  lipgloss.Color("240"),
		Muted:   lipgloss.Color("240"),
		Border:  lipgloss.Color("39"),
		Error:   lipgloss.Color("196"),
	}

	tab := lipgloss.NewStyle().Padding(0, 1)

	return Theme{
		Colors: colors,
		Border: BorderStyles{
			Normal:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
			Focused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colors.Border),
		},
		Header: HeaderStyles{
			Title:    lipgloss.NewStyle().Bold(true).Italic(true),
			Host:     lipgloss.NewStyle().Bold(true),
			Username: lipgloss.NewStyle().Bold(true),
		},
		Timeline: TimelineStyles{
			DisplayName: lipgloss.NewStyle().Foreground(colors.Primary).Bold(true),
			UserID:      lipgloss.NewStyle().Foreground(colors.Muted),
			ActiveTab:   tab.Foreground(colors.Primary).Bold(true).Underline(true),
			Tab:         tab.Foreground(colors.Muted),
			Empty:       lipgloss.NewStyle().Foreground(colors.Muted).Italic(true),
			Error:       lipgloss.NewStyle().Foreground(colors.Error),
			Time:        lipgloss.NewStyle().Foreground(colors.Accent).PaddingRight(1),
			Separator:   lipgloss.NewStyle().Foreground(colors.Muted),
		},
		Composer: ComposerStyles{
			Label:        lipgloss.NewStyle().Foreground(colors.Muted),
			FocusedLabel: lipgloss.NewStyle().Foreground(colors.Primary).Bold(true),
			Button:       lipgloss.NewStyle().Foreground(colors.Primary).Bold(true),
			File:         lipgloss.NewStyle().Italic(true),
			Loader:       lipgloss.NewStyle().Foreground(colors.Muted).Italic(true),
		},
		Preview: PreviewStyles{
			Title: lipgloss.NewStyle().Bold(true),
			Meta:  lipgloss.NewStyle().Foreground(colors.Muted),
		},
		Status: StatusStyles{
			Info:  lipgloss.NewStyle().Foreground(colors.Muted),
			Error: lipgloss.NewStyle().Foreground(colors.Error).Bold(true),
		},
	}
}

// WithBorder applies border style based on focus state
func (t Theme) WithBorder(content string, focused bool) string {
	if focused {
		return t.Border.Focused.Render(content)
	}
	return t.Border.Normal.Render(content)
}
