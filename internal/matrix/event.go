package matrix

import (
	"encoding/json"

	"github.com/go-faster/jx"
)

const (
	EventTypeMessage = "m.room.message"

	MsgTypeText  = "m.text"
	MsgTypeImage = "m.image"

	// Content fields written by Cerulean clients.
	FieldEventID  = "org.matrix.cerulean.event_id"
	FieldRoomID   = "org.matrix.cerulean.room_id"
	FieldRoot     = "org.matrix.cerulean.root"
	FieldTitle    = "org.matrix.cerulean.title"
	FieldMediaURL = "org.matrix.cerulean.media_url"
)

// Event is a room event as returned by the client-server API. Content is kept
// raw and inspected lazily since Cerulean posts carry application fields
// next to the usual message fields.
type Event struct {
	Type           string          `json:"type"`
	Sender         string          `json:"sender"`
	EventID        string          `json:"event_id"`
	RoomID         string          `json:"room_id,omitempty"`
	OriginServerTS int64           `json:"origin_server_ts,omitempty"`
	Content        json.RawMessage `json:"content"`
}

// Field returns the raw value of a top-level content field.
func (e Event) Field(name string) (jx.Raw, bool) {
	if len(e.Content) == 0 {
		return nil, false
	}

	var (
		value jx.Raw
		found bool
	)

	d := jx.DecodeBytes(e.Content)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if found || string(key) != name {
			return d.Skip()
		}

		raw, err := d.Raw()
		if err != nil {
			return err
		}

		value = raw
		found = true

		return nil
	})
	if err != nil {
		return nil, false
	}

	return value, found
}

// Truthy reports whether the content field holds a value other than
// null, false, 0 or the empty string.
func (e Event) Truthy(name string) bool {
	raw, ok := e.Field(name)
	if !ok {
		return false
	}

	d := jx.DecodeBytes(raw)
	switch raw.Type() {
	case jx.String:
		s, err := d.Str()
		return err == nil && s != ""
	case jx.Bool:
		b, err := d.Bool()
		return err == nil && b
	case jx.Number:
		f, err := d.Float64()
		return err == nil && f != 0
	case jx.Array, jx.Object:
		return true
	default:
		return false
	}
}

// String returns the content field as a string. Non-string values are
// returned in their JSON form.
func (e Event) String(name string) string {
	raw, ok := e.Field(name)
	if !ok {
		return ""
	}

	switch raw.Type() {
	case jx.String:
		s, err := jx.DecodeBytes(raw).Str()
		if err != nil {
			return ""
		}
		return s
	case jx.Null:
		return ""
	default:
		return raw.String()
	}
}

func (e Event) Body() string {
	return e.String("body")
}

func (e Event) MsgType() string {
	return e.String("msgtype")
}

// IsPost reports whether the event is a Cerulean timeline entry.
func (e Event) IsPost() bool {
	return e.Truthy(FieldEventID)
}

// IsThreadRoot reports whether the event starts a thread rather than
// replying to one.
func (e Event) IsThreadRoot() bool {
	return e.Truthy(FieldRoot)
}

func (e Event) ThreadEventID() string {
	return e.String(FieldEventID)
}

func (e Event) ThreadRoomID() string {
	return e.String(FieldRoomID)
}

func (e Event) Title() string {
	return e.String(FieldTitle)
}

func (e Event) MediaURL() string {
	return e.String(FieldMediaURL)
}

// NewThread is the payload of a new top-level post.
type NewThread struct {
	Text     string
	DataURI  string
	Title    string
	MediaURL string
}

// rootContent encodes the event posted into the thread room.
func (t NewThread) rootContent() []byte {
	var e jx.Encoder
	e.ObjStart()
	t.encodeFields(&e)
	e.ObjEnd()

	return e.Bytes()
}

// timelineContent encodes the copy of the root event posted into the
// author's timeline room, pointing back at the thread.
func (t NewThread) timelineContent(threadEventID, threadRoomID string) []byte {
	var e jx.Encoder
	e.ObjStart()
	t.encodeFields(&e)
	e.FieldStart(FieldEventID)
	e.Str(threadEventID)
	e.FieldStart(FieldRoomID)
	e.Str(threadRoomID)
	e.ObjEnd()

	return e.Bytes()
}

func (t NewThread) encodeFields(e *jx.Encoder) {
	e.FieldStart("msgtype")
	if t.DataURI != "" {
		e.Str(MsgTypeImage)
		e.FieldStart("url")
		e.Str(t.DataURI)
	} else {
		e.Str(MsgTypeText)
	}

	e.FieldStart("body")
	e.Str(t.Text)

	e.FieldStart(FieldRoot)
	e.Bool(true)

	if t.Title != "" {
		e.FieldStart(FieldTitle)
		e.Str(t.Title)
	}

	if t.MediaURL != "" {
		e.FieldStart(FieldMediaURL)
		e.Str(t.MediaURL)
	}
}

// syncFilter builds a /sync filter that only returns message events of the
// given rooms.
func syncFilter(roomIDs []string) string {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("presence", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("types", func(e *jx.Encoder) {
					e.ArrEmpty()
				})
			})
		})
		e.Field("account_data", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("types", func(e *jx.Encoder) {
					e.ArrEmpty()
				})
			})
		})
		e.Field("room", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("rooms", func(e *jx.Encoder) {
					e.ArrStart()
					for _, roomID := range roomIDs {
						e.Str(roomID)
					}
					e.ArrEnd()
				})
				e.Field("timeline", func(e *jx.Encoder) {
					e.Obj(func(e *jx.Encoder) {
						e.Field("types", func(e *jx.Encoder) {
							e.ArrStart()
							e.Str(EventTypeMessage)
							e.ArrEnd()
						})
						e.Field("limit", func(e *jx.Encoder) {
							e.Int(1)
						})
					})
				})
			})
		})
	})

	return string(e.Bytes())
}
