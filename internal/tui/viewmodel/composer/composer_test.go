package composer_test

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/mocks"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
	"github.com/ras0q/lazycerulean/internal/tui/viewmodel/composer"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newComposer(t *testing.T) (*composer.Model, *mocks.MockComposerClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mocks.NewMockComposerClient(ctrl)

	return composer.New(60, 12, client, shared.DefaultTheme()), client
}

func send(m *composer.Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		_, _ = m.Update(msg)
	}
}

// finish runs a submit command and applies its result, returning the
// message sent upward, if any.
func finish(t *testing.T, m *composer.Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)

	_, next := m.Update(cmd())
	if next == nil {
		return nil
	}

	return next()
}

func TestSubmit_EmptyDraft(t *testing.T) {
	m, _ := newComposer(t)

	cmd := m.Submit()
	require.True(t, m.Draft().Submitting)

	upward := finish(t, m, cmd)
	require.Nil(t, upward)
	require.False(t, m.Draft().Submitting)
}

func TestSubmit_PostsText(t *testing.T) {
	m, client := newComposer(t)

	client.EXPECT().
		PostNewThread(gomock.Any(), matrix.NewThread{
			Text:     "hello",
			Title:    "Song",
			MediaURL: "https://example.org/song.mp3",
		}).
		Return(nil).
		Times(1)

	send(m,
		composer.TextChanged("hello"),
		composer.TitleChanged("Song"),
		composer.MediaURLChanged("https://example.org/song.mp3"),
	)

	upward := finish(t, m, m.Submit())
	require.Equal(t, shared.PostedMsg{}, upward)

	draft := m.Draft()
	require.Empty(t, draft.Text)
	require.False(t, draft.Submitting)
	require.Equal(t, "Song", draft.Title)
}

func TestSubmit_UploadsStagedFile(t *testing.T) {
	m, client := newComposer(t)

	gomock.InOrder(
		client.EXPECT().UploadFile(gomock.Any(), "/tmp/cat.png").Return("mxc://example.org/cat", nil),
		client.EXPECT().PostNewThread(gomock.Any(), matrix.NewThread{
			Text:    "look",
			DataURI: "mxc://example.org/cat",
		}).Return(nil),
	)

	send(m, composer.FileSelected{Path: "/tmp/cat.png"}, composer.TextChanged("look"))
	require.NotNil(t, m.Draft().File)

	cmd := m.Submit()
	require.Nil(t, m.Draft().File)

	require.Equal(t, shared.PostedMsg{}, finish(t, m, cmd))
	require.Nil(t, m.Draft().File)
}

func TestSubmit_FileWithoutText(t *testing.T) {
	m, client := newComposer(t)

	client.EXPECT().UploadFile(gomock.Any(), "/tmp/cat.png").Return("mxc://example.org/cat", nil)

	send(m, composer.FileSelected{Path: "/tmp/cat.png"})

	require.Nil(t, finish(t, m, m.Submit()))
	require.Nil(t, m.Draft().File)
	require.False(t, m.Draft().Submitting)
}

func TestSubmit_UploadFails(t *testing.T) {
	m, client := newComposer(t)

	errUpload := errors.New("disk on fire")
	client.EXPECT().UploadFile(gomock.Any(), "/tmp/cat.png").Return("", errUpload)

	send(m, composer.FileSelected{Path: "/tmp/cat.png"}, composer.TextChanged("look"))

	upward := finish(t, m, m.Submit())

	errMsg, ok := upward.(shared.ErrorMsg)
	require.True(t, ok)
	require.ErrorIs(t, errMsg, errUpload)

	draft := m.Draft()
	require.Nil(t, draft.File)
	require.False(t, draft.Submitting)
	require.Equal(t, "look", draft.Text)
}

func TestSubmit_PostFails(t *testing.T) {
	m, client := newComposer(t)

	errPost := errors.New("forbidden")
	client.EXPECT().PostNewThread(gomock.Any(), gomock.Any()).Return(errPost)

	send(m, composer.TextChanged("hello"))

	upward := finish(t, m, m.Submit())

	errMsg, ok := upward.(shared.ErrorMsg)
	require.True(t, ok)
	require.ErrorIs(t, errMsg, errPost)
	require.Equal(t, "hello", m.Draft().Text)
	require.False(t, m.Draft().Submitting)
}

func TestSubmit_StopCancelsUpload(t *testing.T) {
	m, client := newComposer(t)

	client.EXPECT().
		UploadFile(gomock.Any(), "/tmp/cat.png").
		DoAndReturn(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	send(m, composer.TextChanged("cat"), composer.FileSelected{Path: "/tmp/cat.png"})

	cmd := m.Submit()
	m.Stop()

	upward := finish(t, m, cmd)
	errMsg, ok := upward.(shared.ErrorMsg)
	require.True(t, ok)
	require.ErrorIs(t, errMsg, context.Canceled)
	require.False(t, m.Draft().Submitting)
}

func TestSubmit_IgnoredWhileSubmitting(t *testing.T) {
	m, _ := newComposer(t)

	require.NotNil(t, m.Submit())
	require.Nil(t, m.Submit())
}

func TestUpdate_EnterSubmits(t *testing.T) {
	m, client := newComposer(t)

	client.EXPECT().PostNewThread(gomock.Any(), matrix.NewThread{Text: "hi"}).Return(nil)

	send(m, shared.FocusComposerMsg{}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	require.Equal(t, "hi", m.Draft().Text)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Draft().Submitting)

	require.Equal(t, shared.PostedMsg{}, finish(t, m, cmd))
	require.Empty(t, m.Draft().Text)
}

func TestUpdate_TabMovesBetweenFields(t *testing.T) {
	m, _ := newComposer(t)

	send(m,
		shared.FocusComposerMsg{},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("https://a")},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("A")},
		tea.KeyMsg{Type: tea.KeyShiftTab},
		tea.KeyMsg{Type: tea.KeyShiftTab},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("body")},
	)

	draft := m.Draft()
	require.Equal(t, "https://a", draft.MediaURL)
	require.Equal(t, "A", draft.Title)
	require.Equal(t, "body", draft.Text)
}

func TestUpdate_EscReturnsToTimeline(t *testing.T) {
	m, _ := newComposer(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.Equal(t, shared.ReturnToTimelineMsg{}, cmd())
}

func TestView(t *testing.T) {
	t.Run("button needs an access token", func(t *testing.T) {
		m, client := newComposer(t)
		client.EXPECT().AccessToken().Return("")

		require.NotContains(t, m.View(), "[ Add ]")
	})

	t.Run("button shown when logged in", func(t *testing.T) {
		m, client := newComposer(t)
		client.EXPECT().AccessToken().Return("secret")

		require.Contains(t, m.View(), "[ Add ]")
	})

	t.Run("loader while submitting", func(t *testing.T) {
		m, _ := newComposer(t)
		_ = m.Submit()

		view := m.View()
		require.Contains(t, view, "Loading...")
		require.NotContains(t, view, "[ Add ]")
	})
}
