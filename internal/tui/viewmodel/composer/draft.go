package composer

import (
	"context"
	"fmt"

	"github.com/ras0q/lazycerulean/internal/matrix"
)

// StagedFile is a local file waiting to be uploaded with the next post.
type StagedFile struct {
	Path string
}

// Draft is the transient state of the composer form.
type Draft struct {
	Text       string
	MediaURL   string
	Title      string
	File       *StagedFile
	Submitting bool
}

// FieldUpdate changes a single draft field. It is also a tea.Msg, so a
// parent model may fill the form by sending one.
type FieldUpdate interface {
	apply(d *Draft)
}

type (
	TextChanged     string
	MediaURLChanged string
	TitleChanged    string
	FileSelected    StagedFile
)

func (v TextChanged) apply(d *Draft)     { d.Text = string(v) }
func (v MediaURLChanged) apply(d *Draft) { d.MediaURL = string(v) }
func (v TitleChanged) apply(d *Draft)    { d.Title = string(v) }

func (v FileSelected) apply(d *Draft) {
	f := StagedFile(v)
	d.File = &f
}

type submittedMsg struct {
	posted bool
	err    error
}

// submit uploads the staged file, if any, and posts the text, if any.
func submit(ctx context.Context, client Client, draft Draft) submittedMsg {
	var dataURI string
	if draft.File != nil {
		uri, err := client.UploadFile(ctx, draft.File.Path)
		if err != nil {
			return submittedMsg{err: fmt.Errorf("upload file: %w", err)}
		}

		dataURI = uri
	}

	if len(draft.Text) == 0 {
		return submittedMsg{}
	}

	err := client.PostNewThread(ctx, matrix.NewThread{
		Text:     draft.Text,
		DataURI:  dataURI,
		Title:    draft.Title,
		MediaURL: draft.MediaURL,
	})
	if err != nil {
		return submittedMsg{err: fmt.Errorf("post new thread: %w", err)}
	}

	return submittedMsg{posted: true}
}
