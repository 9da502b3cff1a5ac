package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"image"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
	"golang.org/x/sync/errgroup"
)

const imageHeight = 8

// Client fetches the image attached to a post.
type Client interface {
	ThumbnailLink(ref, method string, width, height int) string
	Thumbnail(ctx context.Context, link string) (image.Image, error)
}

type renderedMsg struct {
	eventID string
	content string
	image   string
	err     error
}

type Model struct {
	w, h     int
	client   Client
	viewport viewport.Model
	renderer *glamour.TermRenderer
	theme    shared.Theme

	ctx    context.Context
	cancel context.CancelFunc

	play          *shared.PlayMsg
	index         int
	renderedImage string
}

var _ tea.Model = (*Model)(nil)

func New(w, h int, client Client, theme shared.Theme) *Model {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(w),
	)
	if err != nil {
		slog.Warn("markdown renderer unavailable, showing raw post bodies", "error", err)
		renderer = nil
	}

	vp := viewport.New(w, max(h-imageHeight-2, 1))
	vp.SetContent("No post selected.")

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		w:        w,
		h:        h,
		client:   client,
		viewport: vp,
		renderer: renderer,
		theme:    theme,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Stop cancels image fetches still in flight.
func (m *Model) Stop() {
	m.cancel()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.PlayMsg:
		m.play = &msg
		m.index = slices.IndexFunc(msg.Events, func(ev matrix.Event) bool {
			return ev.EventID == msg.Event.EventID
		})

		return m, m.show(msg.Event)

	case renderedMsg:
		if m.play == nil || m.play.Event.EventID != msg.eventID {
			break
		}

		m.viewport.SetContent(msg.content)
		m.renderedImage = msg.image

		if msg.err != nil {
			return m, func() tea.Msg {
				return shared.ErrorMsg{Err: msg.err}
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			return m, m.skip(1)
		case "[":
			return m, m.skip(-1)
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.play == nil {
		return lipgloss.NewStyle().Width(m.w).Height(m.h).Render(m.viewport.View())
	}

	ev := m.play.Event

	title := ev.Title()
	if title == "" {
		title = "Untitled"
	}

	return lipgloss.NewStyle().Width(m.w).Height(m.h).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Preview.Title.Render(title),
		m.theme.Preview.Meta.Render(m.meta()),
		m.viewport.View(),
		lipgloss.NewStyle().Height(imageHeight).Render(m.renderedImage),
	))
}

func (m *Model) meta() string {
	ev := m.play.Event

	author := ev.Sender
	if m.play.Source != nil && m.play.Source.DisplayName != "" {
		author = m.play.Source.DisplayName
	}

	parts := []string{"by " + author}

	if m.index >= 0 && len(m.play.Events) > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.index+1, len(m.play.Events)))
	}

	if mediaURL := ev.MediaURL(); mediaURL != "" {
		parts = append(parts, mediaURL)
	}

	if roomID := ev.ThreadRoomID(); roomID != "" {
		parts = append(parts, "thread "+roomID)
	}

	return strings.Join(parts, " · ")
}

// skip moves through the queue handed over with the last PlayMsg.
func (m *Model) skip(delta int) tea.Cmd {
	if m.play == nil || m.index < 0 {
		return nil
	}

	next := m.index + delta
	if next < 0 || next >= len(m.play.Events) {
		return nil
	}

	m.index = next
	m.play.Event = m.play.Events[next]

	return m.show(m.play.Event)
}

func (m *Model) show(ev matrix.Event) tea.Cmd {
	m.viewport.SetContent("Loading...")
	m.viewport.GotoTop()
	m.renderedImage = ""

	return m.renderEventCmd(ev)
}

func (m *Model) renderEventCmd(ev matrix.Event) tea.Cmd {
	ctx := m.ctx
	client := m.client
	renderer := m.renderer

	return func() tea.Msg {
		var (
			renderedContent = ev.Body()
			renderedImage   string
			imageErr        error
		)

		eg := errgroup.Group{}

		eg.Go(func() error {
			if renderer == nil {
				return nil
			}

			s, err := renderer.Render(ev.Body())
			if err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}

			renderedContent = s

			return nil
		})

		// Image failures travel with the rendered body.
		eg.Go(func() error {
			ref := ev.String("url")
			if ev.MsgType() != matrix.MsgTypeImage || ref == "" {
				return nil
			}

			link := client.ThumbnailLink(ref, "scale", 320, 240)
			img, err := client.Thumbnail(ctx, link)
			if err != nil {
				imageErr = fmt.Errorf("load attached image: %w", err)
				return nil
			}

			s, err := shared.RenderImages([]image.Image{img}, 1, imageHeight*2, imageHeight)
			if err != nil {
				imageErr = err
				return nil
			}

			renderedImage = s

			return nil
		})

		err := eg.Wait()

		return renderedMsg{
			eventID: ev.EventID,
			content: renderedContent,
			image:   renderedImage,
			err:     errors.Join(err, imageErr),
		}
	}
}
