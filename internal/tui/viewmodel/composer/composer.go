//go:generate go run go.uber.org/mock/mockgen -source=composer.go -destination=../../../mocks/mock_composer_client.go -package=mocks -mock_names=Client=MockComposerClient
package composer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/tui/shared"
)

// Client is the part of the homeserver client the composer needs.
type Client interface {
	AccessToken() string
	UploadFile(ctx context.Context, path string) (string, error)
	PostNewThread(ctx context.Context, thread matrix.NewThread) error
}

// ImageTypes are the extensions offered by the file picker.
var ImageTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

type field int

const (
	fieldText field = iota
	fieldMediaURL
	fieldTitle
	fieldCount
)

type Model struct {
	w, h   int
	client Client
	theme  shared.Theme

	text     textarea.Model
	mediaURL textinput.Model
	title    textinput.Model
	picker   filepicker.Model
	picking  bool
	focus    field

	draft Draft

	ctx    context.Context
	cancel context.CancelFunc
}

var _ tea.Model = (*Model)(nil)

func New(w, h int, client Client, theme shared.Theme) *Model {
	text := textarea.New()
	text.Placeholder = "Message"
	text.ShowLineNumbers = false
	text.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys("alt+enter"),
		key.WithHelp("alt+enter", "insert newline"),
	)
	text.SetWidth(w)
	text.SetHeight(max(h-5, 1))

	mediaURL := textinput.New()
	mediaURL.Prompt = "URL   "
	mediaURL.Placeholder = "https://"
	mediaURL.Width = w - len(mediaURL.Prompt) - 1

	title := textinput.New()
	title.Prompt = "Title "
	title.Placeholder = "Title"
	title.Width = w - len(title.Prompt) - 1

	picker := filepicker.New()
	picker.AllowedTypes = ImageTypes
	picker.AutoHeight = false
	picker.SetHeight(max(h-1, 1))
	if home, err := os.UserHomeDir(); err == nil {
		picker.CurrentDirectory = home
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		w:        w,
		h:        h,
		client:   client,
		theme:    theme,
		text:     text,
		mediaURL: mediaURL,
		title:    title,
		picker:   picker,
		focus:    fieldText,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Stop cancels an upload or post still in flight.
func (m *Model) Stop() {
	m.cancel()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Draft returns a copy of the current form state.
func (m *Model) Draft() Draft {
	return m.draft
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)

	switch msg := msg.(type) {
	case submittedMsg:
		m.draft.Submitting = false

		if msg.err != nil {
			err := msg.err
			return m, func() tea.Msg {
				return shared.ErrorMsg{Err: err}
			}
		}

		m.draft.Text = ""
		m.text.Reset()

		if msg.posted {
			cmds = append(cmds, func() tea.Msg {
				return shared.PostedMsg{}
			})
		}

	case FieldUpdate:
		msg.apply(&m.draft)
		m.syncInputs()

	case shared.FocusComposerMsg:
		cmds = append(cmds, m.focusField(fieldText))

	case tea.KeyMsg:
		if m.draft.Submitting {
			break
		}

		if m.picking {
			cmds = append(cmds, m.updatePicker(msg))
			break
		}

		switch msg.String() {
		case "enter":
			cmds = append(cmds, m.Submit())

		case "tab":
			cmds = append(cmds, m.focusField((m.focus+1)%fieldCount))

		case "shift+tab":
			cmds = append(cmds, m.focusField((m.focus+fieldCount-1)%fieldCount))

		case "ctrl+o":
			m.picking = true
			cmds = append(cmds, m.picker.Init())

		case "esc":
			m.blurAll()
			cmds = append(cmds, func() tea.Msg {
				return shared.ReturnToTimelineMsg{}
			})

		default:
			cmds = append(cmds, m.updateFocused(msg))
		}

	default:
		if m.picking {
			cmds = append(cmds, m.updatePicker(msg))
			break
		}

		cmds = append(cmds, m.updateFocused(msg))
	}

	return m, tea.Batch(cmds...)
}

// Submit starts posting the draft. The staged file is dropped right away,
// so it is never uploaded twice.
func (m *Model) Submit() tea.Cmd {
	if m.draft.Submitting {
		return nil
	}

	m.draft.Submitting = true
	draft := m.draft
	m.draft.File = nil

	ctx := m.ctx
	client := m.client

	return func() tea.Msg {
		return submit(ctx, client, draft)
	}
}

func (m *Model) View() string {
	style := lipgloss.NewStyle().Width(m.w).Height(m.h)

	if m.draft.Submitting {
		return style.Render(m.theme.Composer.Loader.Render("Loading..."))
	}

	if m.picking {
		return style.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Composer.Label.Render("Attach an image (esc to cancel)"),
			m.picker.View(),
		))
	}

	label := m.theme.Composer.Label
	if m.focus == fieldText && m.text.Focused() {
		label = m.theme.Composer.FocusedLabel
	}

	file := m.theme.Composer.Label.Render("ctrl+o: attach image")
	if m.draft.File != nil {
		file = m.theme.Composer.File.Render("attached: " + filepath.Base(m.draft.File.Path))
	}

	rows := []string{
		label.Render("New post"),
		m.text.View(),
		m.mediaURL.View(),
		m.title.View(),
		file,
	}

	if m.client.AccessToken() != "" {
		rows = append(rows, m.theme.Composer.Button.Render("[ Add ]"))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch m.focus {
	case fieldText:
		m.text, cmd = m.text.Update(msg)
		TextChanged(m.text.Value()).apply(&m.draft)

	case fieldMediaURL:
		m.mediaURL, cmd = m.mediaURL.Update(msg)
		MediaURLChanged(m.mediaURL.Value()).apply(&m.draft)

	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
		TitleChanged(m.title.Value()).apply(&m.draft)
	}

	return cmd
}

func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.picking = false
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		FileSelected{Path: path}.apply(&m.draft)
	}

	return cmd
}

func (m *Model) focusField(f field) tea.Cmd {
	m.blurAll()
	m.focus = f

	switch f {
	case fieldMediaURL:
		return m.mediaURL.Focus()
	case fieldTitle:
		return m.title.Focus()
	default:
		return m.text.Focus()
	}
}

func (m *Model) blurAll() {
	m.text.Blur()
	m.mediaURL.Blur()
	m.title.Blur()
}

// syncInputs copies draft fields set from outside back into the widgets.
func (m *Model) syncInputs() {
	if m.text.Value() != m.draft.Text {
		m.text.SetValue(m.draft.Text)
	}

	if m.mediaURL.Value() != m.draft.MediaURL {
		m.mediaURL.SetValue(m.draft.MediaURL)
	}

	if m.title.Value() != m.draft.Title {
		m.title.SetValue(m.draft.Title)
	}
}
