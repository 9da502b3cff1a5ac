package routing

import (
	"encoding/json"
	"testing"

	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/stretchr/testify/require"
)

func TestPermalinkForTimelineEvent(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		sender  string
		content string
		want    string
	}{
		{
			name:    "timeline entry",
			base:    "https://cerulean.example.org/",
			sender:  "@bob:example.org",
			content: `{"org.matrix.cerulean.event_id":"$root","org.matrix.cerulean.room_id":"!thread:example.org"}`,
			want:    "https://cerulean.example.org/@bob:example.org/!thread:example.org/$root",
		},
		{
			name:    "empty base",
			sender:  "@bob:example.org",
			content: `{"org.matrix.cerulean.event_id":"$root","org.matrix.cerulean.room_id":"!thread:example.org"}`,
			want:    "/@bob:example.org/!thread:example.org/$root",
		},
		{
			name:    "missing room",
			sender:  "@bob:example.org",
			content: `{"org.matrix.cerulean.event_id":"$root"}`,
		},
		{
			name:    "missing sender",
			content: `{"org.matrix.cerulean.event_id":"$root","org.matrix.cerulean.room_id":"!thread:example.org"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := matrix.Event{
				Type:    matrix.EventTypeMessage,
				Sender:  tt.sender,
				Content: json.RawMessage(tt.content),
			}
			require.Equal(t, tt.want, PermalinkForTimelineEvent(tt.base, ev))
		})
	}
}

func TestPermalinkForUser(t *testing.T) {
	require.Equal(t, "https://cerulean.example.org/@bob:example.org", PermalinkForUser("https://cerulean.example.org", "@bob:example.org"))
	require.Empty(t, PermalinkForUser("https://cerulean.example.org", ""))
}
