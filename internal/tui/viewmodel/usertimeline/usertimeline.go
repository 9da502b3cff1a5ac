//go:generate go run go.uber.org/mock/mockgen -source=usertimeline.go -destination=../../../mocks/mock_timeline_client.go -package=mocks -mock_names=Client=MockTimelineClient
package usertimeline

import (
	"context"
	"image"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/routing"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
)

// Client is the part of the homeserver client a timeline page needs.
type Client interface {
	FollowUser(ctx context.Context, userID string) (string, error)
	GetTimeline(ctx context.Context, roomID string, limit int, onPage func([]matrix.Event)) error
	WaitForMessageEventInRoom(ctx context.Context, roomIDs []string, from string) (string, error)
	GetProfile(ctx context.Context, userID string) (*matrix.Profile, error)
	ThumbnailLink(ref, method string, width, height int) string
	Thumbnail(ctx context.Context, link string) (image.Image, error)
}

const (
	DefaultPageSize = 100

	avatarWidth  = 8
	avatarHeight = 4
	headerHeight = avatarHeight + 2
)

type Params struct {
	// UserID owns the timeline room shown.
	UserID      string
	WithReplies bool
	// Viewer is the logged-in user, used to word the empty state.
	Viewer        string
	PermalinkBase string
	PageSize      int
	Client        Client
	Logger        *slog.Logger
	Theme         shared.Theme
}

type State struct {
	Loading     bool
	Err         string
	ShowReplies bool
	Events      []matrix.Event
	RoomID      string
	Profile     *matrix.Profile
}

type Model struct {
	w, h   int
	params Params
	client Client
	logger *slog.Logger
	theme  shared.Theme
	list   list.Model

	ctx         context.Context
	cancel      context.CancelFunc
	cycleCtx    context.Context
	cancelCycle context.CancelFunc
	stopped     bool

	cycle  int
	watch  watchState
	cursor string
	avatar string

	state State
}

var _ tea.Model = (*Model)(nil)

func New(w, h int, params Params) *Model {
	if params.PageSize <= 0 {
		params.PageSize = DefaultPageSize
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := list.New([]list.Item{}, newListDelegate(params.Theme), w, max(h-headerHeight-1, 1))
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		w:      w,
		h:      h,
		params: params,
		client: params.Client,
		logger: logger.With("component", "usertimeline"),
		theme:  params.Theme,
		list:   l,
		ctx:    ctx,
		cancel: cancel,
		state: State{
			ShowReplies: params.WithReplies,
		},
	}
}

// Init loads the timeline. The watcher for new events starts once that
// first load has finished.
func (m *Model) Init() tea.Cmd {
	return m.LoadEvents()
}

// Stop cancels in-flight requests. Results arriving afterwards are dropped.
func (m *Model) Stop() {
	m.stopped = true
	m.cancel()
}

// State returns a snapshot of the page state.
func (m *Model) State() State {
	return m.state
}

func (m *Model) UserID() string {
	return m.params.UserID
}

func (m *Model) IsMe() bool {
	return m.params.Viewer != "" && m.params.Viewer == m.params.UserID
}

// Posts returns the entries currently shown.
func (m *Model) Posts() []matrix.Event {
	return SelectPosts(m.state.Events, m.params.UserID, m.state.ShowReplies)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.stopped {
		return m, nil
	}

	switch msg := msg.(type) {
	case followedMsg:
		if msg.cycle != m.cycle {
			return m, nil
		}

		return m, m.handleFollowed(msg)

	case pageMsg:
		if msg.cycle != m.cycle {
			return m, msg.next
		}

		return m, m.handlePage(msg)

	case loadFinishedMsg:
		if msg.cycle != m.cycle {
			return m, nil
		}

		return m, m.finishCycle(msg.err)

	case newEventMsg:
		return m, m.handleNewEvent(msg)

	case profileLoadedMsg:
		return m, m.handleProfileLoaded(msg)

	case avatarLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to render avatar", "error", msg.err)
			return m, nil
		}

		m.avatar = msg.rendered

	case shared.PostedMsg:
		return m, m.LoadEvents()

	case tea.KeyMsg:
		switch msg.String() {
		case "1":
			m.ShowPostsOnly()

		case "2":
			m.ShowPostsAndReplies()

		case "tab":
			if m.state.ShowReplies {
				m.ShowPostsOnly()
			} else {
				m.ShowPostsAndReplies()
			}

		case "enter":
			ev, ok := m.selectedEvent()
			if !ok {
				return m, nil
			}

			return m, m.SelectMessage(ev)

		case "o":
			ev, ok := m.selectedEvent()
			if !ok {
				return m, nil
			}

			return m, m.openPermalink(ev)

		case "r":
			return m, m.LoadEvents()

		default:
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)

			return m, cmd
		}
	}

	return m, nil
}

// SelectMessage hands ev to the player together with every post currently
// shown.
func (m *Model) SelectMessage(ev matrix.Event) tea.Cmd {
	msg := shared.PlayMsg{
		Event:  ev,
		Events: m.Posts(),
		Source: m.state.Profile,
	}

	return func() tea.Msg {
		return msg
	}
}

func (m *Model) ShowPostsOnly() {
	m.state.ShowReplies = false
	m.refreshList()
}

func (m *Model) ShowPostsAndReplies() {
	m.state.ShowReplies = true
	m.refreshList()
}

func (m *Model) openPermalink(ev matrix.Event) tea.Cmd {
	link := routing.PermalinkForTimelineEvent(m.params.PermalinkBase, ev)
	if link == "" {
		return nil
	}

	return func() tea.Msg {
		return shared.OpenPermalinkMsg{URL: link}
	}
}

func (m *Model) selectedEvent() (matrix.Event, bool) {
	item, ok := m.list.SelectedItem().(postItem)
	if !ok {
		return matrix.Event{}, false
	}

	return item.event, true
}

func (m *Model) refreshList() {
	posts := m.Posts()

	items := make([]list.Item, 0, len(posts))
	for _, ev := range posts {
		items = append(items, postItem{event: ev})
	}

	m.list.SetItems(items)
}

func (m *Model) View() string {
	return lipgloss.NewStyle().
		Width(m.w).
		Height(m.h).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.headerView(),
			m.tabsView(),
			m.bodyView(),
		))
}

func (m *Model) headerView() string {
	info := make([]string, 0, 2)
	if m.state.Profile != nil && m.state.Profile.DisplayName != "" {
		info = append(info, m.theme.Timeline.DisplayName.Render(m.state.Profile.DisplayName))
	}
	info = append(info, m.theme.Timeline.UserID.Render(m.params.UserID))

	block := lipgloss.JoinVertical(lipgloss.Left, info...)
	if m.avatar != "" {
		block = lipgloss.JoinHorizontal(lipgloss.Center, m.avatar, " ", block)
	}

	return lipgloss.NewStyle().Height(headerHeight).Render(block)
}

func (m *Model) tabsView() string {
	posts, replies := m.theme.Timeline.ActiveTab, m.theme.Timeline.Tab
	if m.state.ShowReplies {
		posts, replies = replies, posts
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		posts.Render("Posts"),
		replies.Render("Posts and replies"),
	)
}

func (m *Model) bodyView() string {
	switch {
	case m.state.Loading:
		return m.theme.Timeline.Empty.Render("Loading posts...")

	case m.state.Err != "":
		return m.theme.Timeline.Error.Width(m.w).Render(m.state.Err)

	case len(m.list.Items()) == 0:
		if m.IsMe() {
			return m.theme.Timeline.Empty.Render("No posts yet.")
		}

		return m.theme.Timeline.Empty.Render("This user hasn't posted anything yet.")

	default:
		return m.list.View()
	}
}
