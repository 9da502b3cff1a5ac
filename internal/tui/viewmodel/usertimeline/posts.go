package usertimeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/samber/lo"
)

// SelectPosts returns the timeline entries userID posted, in timeline order.
// Replies are kept only when showReplies is set.
func SelectPosts(events []matrix.Event, userID string, showReplies bool) []matrix.Event {
	return lo.Filter(events, func(ev matrix.Event, _ int) bool {
		if ev.Type != matrix.EventTypeMessage || ev.Sender != userID {
			return false
		}

		if !ev.IsPost() {
			return false
		}

		return showReplies || ev.IsThreadRoot()
	})
}

// postItem implements list.DefaultItem.
type postItem struct {
	event matrix.Event
}

func (i postItem) Title() string {
	if title := i.event.Title(); title != "" {
		return title
	}

	body, _, _ := strings.Cut(strings.TrimSpace(i.event.Body()), "\n")
	if body == "" {
		return "(no text)"
	}

	return body
}

func (i postItem) Description() string {
	parts := make([]string, 0, 3)

	if ts := i.event.OriginServerTS; ts > 0 {
		parts = append(parts, time.UnixMilli(ts).Local().Format("2006/01/02 15:04"))
	}

	if i.event.IsThreadRoot() {
		parts = append(parts, "post")
	} else {
		parts = append(parts, "reply")
	}

	if i.event.MsgType() == matrix.MsgTypeImage {
		parts = append(parts, "image")
	}

	if mediaURL := i.event.MediaURL(); mediaURL != "" {
		parts = append(parts, fmt.Sprintf("♪ %s", mediaURL))
	}

	return strings.Join(parts, " · ")
}

func (i postItem) FilterValue() string {
	return i.event.Body()
}
