package usertimeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/mocks"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
	"github.com/ras0q/lazycerulean/internal/tui/viewmodel/usertimeline"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	bob   = "@bob:example.org"
	alice = "@alice:example.org"
	room  = "!timeline:example.org"
)

var errGone = errors.New("gone")

func post(id, sender string, root bool) matrix.Event {
	content := fmt.Sprintf(`{"msgtype":"m.text","body":"post %s","org.matrix.cerulean.event_id":"$%s","org.matrix.cerulean.room_id":"!thread-%s:example.org"`, id, id, id)
	if root {
		content += `,"org.matrix.cerulean.root":true`
	}
	content += "}"

	return matrix.Event{
		Type:    matrix.EventTypeMessage,
		Sender:  sender,
		EventID: "$timeline-" + id,
		Content: json.RawMessage(content),
	}
}

func plain(id, sender string) matrix.Event {
	return matrix.Event{
		Type:    matrix.EventTypeMessage,
		Sender:  sender,
		EventID: "$" + id,
		Content: json.RawMessage(`{"msgtype":"m.text","body":"hi"}`),
	}
}

func newTimeline(t *testing.T, params usertimeline.Params) (*usertimeline.Model, *mocks.MockTimelineClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mocks.NewMockTimelineClient(ctrl)

	if params.UserID == "" {
		params.UserID = bob
	}
	params.Client = client
	params.Logger = slog.New(slog.DiscardHandler)
	params.Theme = shared.DefaultTheme()

	m := usertimeline.New(80, 30, params)
	t.Cleanup(m.Stop)

	return m, client
}

// drain runs cmd and every command produced while handling its messages,
// feeding each message back into m. It returns all messages seen.
func drain(t *testing.T, m *usertimeline.Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	var (
		queue = []tea.Cmd{cmd}
		seen  []tea.Msg
	)

	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "commands did not settle")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		if msg == nil {
			continue
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}

		seen = append(seen, msg)

		_, follow := m.Update(msg)
		queue = append(queue, follow)
	}

	return seen
}

func pages(pages ...[]matrix.Event) func(context.Context, string, int, func([]matrix.Event)) error {
	return func(_ context.Context, _ string, _ int, onPage func([]matrix.Event)) error {
		for _, p := range pages {
			onPage(p)
		}

		return nil
	}
}

func TestInit_AppendsPagesInOrder(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	first := []matrix.Event{post("1", bob, true), post("2", bob, false), plain("3", bob)}
	second := []matrix.Event{post("4", bob, true), post("5", alice, true)}

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(nil, errGone)
	client.EXPECT().GetTimeline(gomock.Any(), room, usertimeline.DefaultPageSize, gomock.Any()).DoAndReturn(pages(first, second))
	client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), []string{room}, "").Return("", errGone)

	drain(t, m, m.Init())

	state := m.State()
	require.False(t, state.Loading)
	require.Empty(t, state.Err)
	require.Equal(t, room, state.RoomID)
	require.Nil(t, state.Profile)
	require.Equal(t, append(first, second...), state.Events)

	view := m.View()
	require.Contains(t, view, "post 1")
	require.Contains(t, view, "post 4")
	require.NotContains(t, view, "post 2")
}

func TestLoadEvents_NoopWhileLoading(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil).Times(1)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{}, nil).Times(1)
	client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).Return(nil).Times(1)
	client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errGone)

	cmd := m.LoadEvents()
	require.NotNil(t, cmd)
	require.True(t, m.State().Loading)

	require.Nil(t, m.LoadEvents())

	drain(t, m, cmd)
	require.False(t, m.State().Loading)
}

func TestView_EmptyTimeline(t *testing.T) {
	tests := []struct {
		name   string
		viewer string
		want   string
	}{
		{"someone else", alice, "This user hasn't posted anything yet."},
		{"own page", bob, "No posts yet."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, client := newTimeline(t, usertimeline.Params{Viewer: tt.viewer})

			client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil)
			client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{}, nil)
			client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).Return(nil)
			client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errGone)

			cmd := m.Init()
			require.Contains(t, m.View(), "Loading posts...")

			drain(t, m, cmd)

			view := m.View()
			require.Contains(t, view, tt.want)
			require.NotContains(t, view, "Loading posts...")
		})
	}
}

func TestInit_FollowFails(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	client.EXPECT().FollowUser(gomock.Any(), bob).Return("", errors.New("M_FORBIDDEN"))
	client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), []string{""}, "").Return("", errGone)

	drain(t, m, m.Init())

	state := m.State()
	require.False(t, state.Loading)
	require.Contains(t, state.Err, "M_FORBIDDEN")
	require.Contains(t, m.View(), "M_FORBIDDEN")
}

func TestInit_TimelineFailsAfterPage(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{}, nil)
	client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ int, onPage func([]matrix.Event)) error {
			onPage([]matrix.Event{post("1", bob, true)})
			return errGone
		},
	)
	client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errGone)

	drain(t, m, m.Init())

	state := m.State()
	require.Len(t, state.Events, 1)
	require.Equal(t, errGone.Error(), state.Err)
	require.False(t, state.Loading)
}

func TestWatcher_ReloadsOnceThenStops(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil).Times(2)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{DisplayName: "Bob"}, nil).Times(2)

	gomock.InOrder(
		client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).
			DoAndReturn(pages([]matrix.Event{post("1", bob, true)})),
		client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), []string{room}, "").Return("s1", nil),
		client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).
			DoAndReturn(pages([]matrix.Event{post("2", bob, true), post("1", bob, true)})),
		client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), []string{room}, "s1").Return("", errGone),
	)

	drain(t, m, m.Init())

	state := m.State()
	require.Len(t, state.Events, 2)
	require.Equal(t, "$timeline-2", state.Events[0].EventID)
	require.False(t, state.Loading)
	require.Empty(t, state.Err)
}

func TestProfile_AvatarIsThumbnailed(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{
		AvatarURL:   "mxc://example.org/avatar",
		DisplayName: "Bob",
	}, nil)
	client.EXPECT().ThumbnailLink("mxc://example.org/avatar", "scale", 64, 64).Return("https://example.org/thumb")
	client.EXPECT().Thumbnail(gomock.Any(), "https://example.org/thumb").Return(nil, errGone)
	client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).Return(nil)
	client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errGone)

	drain(t, m, m.Init())

	profile := m.State().Profile
	require.NotNil(t, profile)
	require.Equal(t, "https://example.org/thumb", profile.AvatarURL)
	require.Contains(t, m.View(), "Bob")
}

func loaded(t *testing.T, params usertimeline.Params, events ...matrix.Event) (*usertimeline.Model, *mocks.MockTimelineClient) {
	t.Helper()

	m, client := newTimeline(t, params)

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{DisplayName: "Bob"}, nil)
	client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).DoAndReturn(pages(events))
	client.EXPECT().WaitForMessageEventInRoom(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errGone)

	drain(t, m, m.Init())

	return m, client
}

func TestSelectMessage(t *testing.T) {
	events := []matrix.Event{post("1", bob, true), post("2", bob, false), post("3", bob, true)}
	m, _ := loaded(t, usertimeline.Params{}, events...)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	play, ok := cmd().(shared.PlayMsg)
	require.True(t, ok)
	require.Equal(t, events[0], play.Event)
	require.Equal(t, []matrix.Event{events[0], events[2]}, play.Events)
	require.NotNil(t, play.Source)
	require.Equal(t, "Bob", play.Source.DisplayName)
}

func TestTabs_FilterWithoutReload(t *testing.T) {
	events := []matrix.Event{post("1", bob, true), post("2", bob, false)}
	m, _ := loaded(t, usertimeline.Params{}, events...)

	require.Len(t, m.Posts(), 1)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	require.Nil(t, cmd)
	require.True(t, m.State().ShowReplies)
	require.Len(t, m.Posts(), 2)
	require.Contains(t, m.View(), "post 2")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Nil(t, cmd)
	require.False(t, m.State().ShowReplies)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.State().ShowReplies)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	require.False(t, m.State().ShowReplies)
}

func TestPermalink(t *testing.T) {
	m, _ := loaded(t, usertimeline.Params{PermalinkBase: "https://cerulean.example.org"}, post("1", bob, true))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	require.Equal(t, shared.OpenPermalinkMsg{
		URL: "https://cerulean.example.org/" + bob + "/!thread-1:example.org/$1",
	}, cmd())
}

func TestPostedMsg_Reloads(t *testing.T) {
	m, client := loaded(t, usertimeline.Params{}, post("1", bob, true))

	client.EXPECT().FollowUser(gomock.Any(), bob).Return(room, nil)
	client.EXPECT().GetProfile(gomock.Any(), bob).Return(&matrix.Profile{}, nil)
	client.EXPECT().GetTimeline(gomock.Any(), room, gomock.Any(), gomock.Any()).
		DoAndReturn(pages([]matrix.Event{post("2", bob, true), post("1", bob, true)}))

	_, cmd := m.Update(shared.PostedMsg{})
	drain(t, m, cmd)

	require.Len(t, m.State().Events, 2)
}

func TestStop_DropsLateResults(t *testing.T) {
	m, client := newTimeline(t, usertimeline.Params{})

	client.EXPECT().FollowUser(gomock.Any(), bob).DoAndReturn(func(ctx context.Context, _ string) (string, error) {
		require.ErrorIs(t, ctx.Err(), context.Canceled)
		return room, nil
	})

	cmd := m.Init()
	m.Stop()

	drain(t, m, cmd)

	state := m.State()
	require.Empty(t, state.RoomID)
	require.Empty(t, state.Events)
	require.Nil(t, m.LoadEvents())
}

func TestSelectPosts(t *testing.T) {
	events := []matrix.Event{
		post("root", bob, true),
		post("reply", bob, false),
		plain("plain", bob),
		post("other", alice, true),
		{Type: "m.room.member", Sender: bob, Content: json.RawMessage(`{"org.matrix.cerulean.event_id":"$x","org.matrix.cerulean.root":true}`)},
		{Type: matrix.EventTypeMessage, Sender: bob, Content: json.RawMessage(`{"org.matrix.cerulean.event_id":"","org.matrix.cerulean.root":true}`)},
	}

	postsOnly := usertimeline.SelectPosts(events, bob, false)
	withReplies := usertimeline.SelectPosts(events, bob, true)

	require.Equal(t, []matrix.Event{events[0]}, postsOnly)
	require.Equal(t, []matrix.Event{events[0], events[1]}, withReplies)
	require.Subset(t, withReplies, postsOnly)

	for _, ev := range withReplies {
		require.True(t, ev.IsPost())
	}

	require.Empty(t, usertimeline.SelectPosts(nil, bob, true))
}
