package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazycerulean/internal/routing"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
	"github.com/ras0q/lazycerulean/internal/tui/viewmodel/composer"
	"github.com/ras0q/lazycerulean/internal/tui/viewmodel/header"
	"github.com/ras0q/lazycerulean/internal/tui/viewmodel/preview"
	"github.com/ras0q/lazycerulean/internal/tui/viewmodel/usertimeline"
)

// Client is everything the screens below need from the homeserver.
type Client interface {
	usertimeline.Client
	composer.Client
}

type Params struct {
	Homeserver string
	// Viewer is the logged-in user, empty for guests.
	Viewer        string
	UserID        string
	WithReplies   bool
	PermalinkBase string
	PageSize      int
	Client        Client
	Logger        *slog.Logger
	Debug         bool
}

type AppModel struct {
	theme    shared.Theme
	client   Client
	logger   *slog.Logger
	debug    bool
	header   *header.Model
	timeline *usertimeline.Model
	composer *composer.Model
	preview  *preview.Model
	Errors   []error

	w       int
	focus   focusArea
	status  string
	failure bool
}

type focusArea int

const (
	focusAreaTimeline focusArea = iota + 1
	focusAreaComposer
	focusAreaPreview
)

func NewAppModel(w, h int, params Params) *AppModel {
	if params.Debug {
		h -= 2
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Layout calculation
	// ---------------------
	// |       header      |
	// |-------------------|
	// |          | preview|
	// | timeline |        |
	// |          |--------|
	// |          |composer|
	// |-------------------|
	// status
	// ---------------------

	headerHeight := 3
	statusHeight := 1
	mainHeight := h - headerHeight - statusHeight
	previewHeight := mainHeight * 6 / 10
	composerHeight := mainHeight - previewHeight

	timelineWidth := w / 2
	sideWidth := w - timelineWidth
	padding := 2

	theme := shared.DefaultTheme()

	permalink := ""
	if params.PermalinkBase != "" {
		permalink = routing.PermalinkForUser(params.PermalinkBase, params.UserID)
	}

	return &AppModel{
		theme:  theme,
		client: params.Client,
		logger: logger,
		debug:  params.Debug,
		header: header.New(
			w-padding,
			headerHeight-padding,
			params.Homeserver,
			params.Viewer,
			permalink,
			theme,
		),
		timeline: usertimeline.New(
			timelineWidth-padding,
			mainHeight-padding,
			usertimeline.Params{
				UserID:        params.UserID,
				WithReplies:   params.WithReplies,
				Viewer:        params.Viewer,
				PermalinkBase: params.PermalinkBase,
				PageSize:      params.PageSize,
				Client:        params.Client,
				Logger:        logger,
				Theme:         theme,
			},
		),
		composer: composer.New(
			sideWidth-padding,
			composerHeight-padding,
			params.Client,
			theme,
		),
		preview: preview.New(
			sideWidth-padding,
			previewHeight-padding,
			params.Client,
			theme,
		),
		Errors: make([]error, 0, 10),
		w:      w,
		focus:  focusAreaTimeline,
	}
}

var _ tea.Model = (*AppModel)(nil)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.header.Init(),
		m.timeline.Init(),
		m.composer.Init(),
		m.preview.Init(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 10)

	if m.debug {
		t := fmt.Sprintf("%T", msg)
		if msg, ok := msg.(fmt.Stringer); ok {
			t = fmt.Sprintf("%s (%s)", t, msg.String())
		}
		if t != "tea.printLineMessage" {
			cmds = append(cmds, tea.Printf("%s", t))
		}
	}

	switch msg := msg.(type) {
	case shared.ErrorMsg:
		m.logger.Error("operation failed", "error", msg.Err)
		m.Errors = append(m.Errors, msg)
		m.setStatus(msg.Error(), true)

	case shared.ReturnToTimelineMsg:
		m.focus = focusAreaTimeline

	case shared.PostedMsg:
		m.focus = focusAreaTimeline
		m.setStatus("Posted.", false)
		cmds = append(cmds, m.updateTimeline(msg))

	case shared.PlayMsg:
		m.focus = focusAreaPreview
		cmds = append(cmds, m.updatePreview(msg))

	case shared.OpenPermalinkMsg:
		m.setStatus("Permalink: "+msg.URL, false)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

		if m.focus == focusAreaComposer {
			cmds = append(cmds, m.updateComposer(msg))
			break
		}

		switch msg.String() {
		case "q":
			return m, m.quit()

		case "n":
			if m.client.AccessToken() == "" {
				m.setStatus("Log in with ceruleanlogin to post.", true)
				break
			}

			m.focus = focusAreaComposer
			cmds = append(cmds, m.updateComposer(shared.FocusComposerMsg{}))

		case "p":
			m.focus = focusAreaPreview

		case "esc":
			m.focus = focusAreaTimeline

		default:
			switch m.focus {
			case focusAreaTimeline:
				cmds = append(cmds, m.updateTimeline(msg))

			case focusAreaPreview:
				cmds = append(cmds, m.updatePreview(msg))
			}
		}

	default:
		_header, cmd := m.header.Update(msg)
		m.header = _header.(*header.Model)
		cmds = append(cmds, cmd)

		cmds = append(cmds,
			m.updateTimeline(msg),
			m.updateComposer(msg),
			m.updatePreview(msg),
		)
	}

	return m, tea.Batch(cmds...)
}

func (m *AppModel) View() string {
	status := m.theme.Status.Info
	if m.failure {
		status = m.theme.Status.Error
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.WithBorder(m.header.View(), false),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.theme.WithBorder(m.timeline.View(), m.focus == focusAreaTimeline),
			lipgloss.JoinVertical(
				lipgloss.Left,
				m.theme.WithBorder(m.preview.View(), m.focus == focusAreaPreview),
				m.theme.WithBorder(m.composer.View(), m.focus == focusAreaComposer),
			),
		),
		status.MaxWidth(m.w).Render(m.status),
	)
}

// Status returns the text shown on the status line.
func (m *AppModel) Status() string {
	return m.status
}

func (m *AppModel) setStatus(s string, failure bool) {
	m.status = s
	m.failure = failure
}

func (m *AppModel) quit() tea.Cmd {
	m.timeline.Stop()
	m.composer.Stop()
	m.preview.Stop()

	return tea.Quit
}

func (m *AppModel) updateTimeline(msg tea.Msg) tea.Cmd {
	_timeline, cmd := m.timeline.Update(msg)
	m.timeline = _timeline.(*usertimeline.Model)

	return cmd
}

func (m *AppModel) updateComposer(msg tea.Msg) tea.Cmd {
	_composer, cmd := m.composer.Update(msg)
	m.composer = _composer.(*composer.Model)

	return cmd
}

func (m *AppModel) updatePreview(msg tea.Msg) tea.Cmd {
	_preview, cmd := m.preview.Update(msg)
	m.preview = _preview.(*preview.Model)

	return cmd
}
