package routing

import (
	"strings"

	"github.com/ras0q/lazycerulean/internal/matrix"
)

// PermalinkForTimelineEvent links to the thread a timeline entry points at.
// It returns "" when the entry lacks the sender or thread fields.
func PermalinkForTimelineEvent(base string, ev matrix.Event) string {
	sender := ev.Sender
	roomID := ev.ThreadRoomID()
	eventID := ev.ThreadEventID()

	if sender == "" || roomID == "" || eventID == "" {
		return ""
	}

	return strings.Join([]string{strings.TrimRight(base, "/"), sender, roomID, eventID}, "/")
}

// PermalinkForUser links to a user's timeline page.
func PermalinkForUser(base, userID string) string {
	if userID == "" {
		return ""
	}

	return strings.TrimRight(base, "/") + "/" + userID
}
