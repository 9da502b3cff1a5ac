package usertimeline

import (
	"context"
	"fmt"
	"image"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
)

const avatarSize = 64

type (
	followedMsg struct {
		cycle  int
		roomID string
		err    error
	}

	// pageMsg carries one page of a timeline fetch. next receives the
	// following message of the same fetch.
	pageMsg struct {
		cycle  int
		events []matrix.Event
		next   tea.Cmd
	}

	loadFinishedMsg struct {
		cycle int
		err   error
	}

	newEventMsg struct {
		cursor string
		err    error
	}

	profileLoadedMsg struct {
		profile *matrix.Profile
		err     error
	}

	avatarLoadedMsg struct {
		rendered string
		err      error
	}
)

type watchState int

const (
	watchIdle watchState = iota
	watchWaiting
	watchReloading
	watchDead
)

// LoadEvents starts a load cycle. It returns nil while a cycle is loading
// or after Stop.
func (m *Model) LoadEvents() tea.Cmd {
	if m.state.Loading || m.stopped {
		return nil
	}

	m.state.Loading = true
	m.cycle++

	if m.cancelCycle != nil {
		m.cancelCycle()
	}

	m.cycleCtx, m.cancelCycle = context.WithCancel(m.ctx)

	ctx := m.cycleCtx
	cycle := m.cycle
	client := m.client
	userID := m.params.UserID

	return func() tea.Msg {
		roomID, err := client.FollowUser(ctx, userID)
		return followedMsg{cycle: cycle, roomID: roomID, err: err}
	}
}

func (m *Model) handleFollowed(msg followedMsg) tea.Cmd {
	if msg.err != nil {
		return m.finishCycle(fmt.Errorf("follow %s: %w", m.params.UserID, msg.err))
	}

	m.state.Err = ""
	m.state.Events = nil
	m.state.RoomID = msg.roomID
	m.refreshList()

	return tea.Batch(
		m.loadProfileCmd(),
		m.fetchTimelineCmd(msg.roomID),
	)
}

// fetchTimelineCmd streams the pages of a timeline fetch back to Update one
// message at a time, ending with a loadFinishedMsg.
func (m *Model) fetchTimelineCmd(roomID string) tea.Cmd {
	ctx := m.cycleCtx
	cycle := m.cycle
	client := m.client
	limit := m.params.PageSize

	msgs := make(chan tea.Msg)
	receive := func() tea.Msg {
		msg, ok := <-msgs
		if !ok {
			return nil
		}

		return msg
	}

	send := func(msg tea.Msg) {
		select {
		case msgs <- msg:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(msgs)

		err := client.GetTimeline(ctx, roomID, limit, func(events []matrix.Event) {
			send(pageMsg{cycle: cycle, events: events, next: receive})
		})
		send(loadFinishedMsg{cycle: cycle, err: err})
	}()

	return receive
}

func (m *Model) handlePage(msg pageMsg) tea.Cmd {
	m.state.Events = append(m.state.Events, msg.events...)
	m.state.Loading = false
	m.refreshList()

	return msg.next
}

func (m *Model) finishCycle(err error) tea.Cmd {
	m.state.Loading = false

	if err != nil {
		m.state.Err = err.Error()
		m.logger.Warn("failed to load timeline", "user_id", m.params.UserID, "error", err)
	}

	switch m.watch {
	case watchIdle, watchReloading:
		return m.watchCmd()
	default:
		return nil
	}
}

// watchCmd waits for the next message event in the timeline room.
func (m *Model) watchCmd() tea.Cmd {
	m.watch = watchWaiting

	ctx := m.ctx
	client := m.client
	roomIDs := []string{m.state.RoomID}
	from := m.cursor

	return func() tea.Msg {
		cursor, err := client.WaitForMessageEventInRoom(ctx, roomIDs, from)
		return newEventMsg{cursor: cursor, err: err}
	}
}

func (m *Model) handleNewEvent(msg newEventMsg) tea.Cmd {
	if msg.err != nil {
		m.watch = watchDead
		m.logger.Warn("stopped watching timeline", "user_id", m.params.UserID, "error", msg.err)

		return nil
	}

	m.cursor = msg.cursor

	cmd := m.LoadEvents()
	if cmd == nil {
		return m.watchCmd()
	}

	m.watch = watchReloading

	return cmd
}

func (m *Model) loadProfileCmd() tea.Cmd {
	ctx := m.ctx
	client := m.client
	userID := m.params.UserID

	return func() tea.Msg {
		profile, err := client.GetProfile(ctx, userID)
		if err != nil {
			return profileLoadedMsg{err: err}
		}

		if profile.AvatarURL != "" {
			profile.AvatarURL = client.ThumbnailLink(profile.AvatarURL, "scale", avatarSize, avatarSize)
		}

		return profileLoadedMsg{profile: profile}
	}
}

func (m *Model) handleProfileLoaded(msg profileLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("failed to fetch user profile, might not be set yet", "user_id", m.params.UserID, "error", msg.err)
		return nil
	}

	m.state.Profile = msg.profile

	if msg.profile.AvatarURL == "" {
		return nil
	}

	return m.loadAvatarCmd(msg.profile.AvatarURL)
}

func (m *Model) loadAvatarCmd(link string) tea.Cmd {
	ctx := m.ctx
	client := m.client

	return func() tea.Msg {
		img, err := client.Thumbnail(ctx, link)
		if err != nil {
			return avatarLoadedMsg{err: fmt.Errorf("load avatar: %w", err)}
		}

		rendered, err := shared.RenderImages([]image.Image{img}, 1, avatarWidth, avatarHeight)
		if err != nil {
			return avatarLoadedMsg{err: err}
		}

		return avatarLoadedMsg{rendered: rendered}
	}
}
