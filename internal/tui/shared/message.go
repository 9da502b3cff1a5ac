package shared

import (
	"github.com/ras0q/lazycerulean/internal/matrix"
)

type (
	ErrorMsg struct {
		Err error
	}

	ReturnToTimelineMsg struct{}

	FocusComposerMsg struct{}

	// PostedMsg is sent by the composer after a post reached the homeserver.
	PostedMsg struct{}

	// PlayMsg is sent when a post is selected on a timeline. Events holds
	// the posts visible on that timeline so the receiver can queue them.
	PlayMsg struct {
		Event  matrix.Event
		Events []matrix.Event
		Source *matrix.Profile
	}

	OpenPermalinkMsg struct {
		URL string
	}
)

func (msg ErrorMsg) Error() string {
	if msg.Err == nil {
		return "unknown error"
	}

	return msg.Err.Error()
}

func (msg ErrorMsg) Unwrap() error {
	return msg.Err
}
