package usertimeline

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
)

func newListDelegate(theme shared.Theme) list.ItemDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(theme.Colors.Primary).
		BorderForeground(theme.Colors.Primary)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(theme.Colors.Primary).
		BorderForeground(theme.Colors.Primary)

	return d
}
