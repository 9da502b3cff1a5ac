package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// UploadFile stores a local file in the media repository and returns its
// mxc:// content URI.
func (c *Client) UploadFile(ctx context.Context, path string) (contentURI string, err error) {
	defer wrapf(&err, "upload %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	type uploadResponse struct {
		ContentURI string `json:"content_uri"`
	}

	res, err := c.r(ctx).
		SetHeader("Content-Type", mimetype.Detect(data).String()).
		SetQueryParam("filename", filepath.Base(path)).
		SetBody(data).
		SetResult(&uploadResponse{}).
		Post("/_matrix/media/v3/upload")
	if err := checkResponse(res, err); err != nil {
		return "", err
	}

	contentURI = res.Result().(*uploadResponse).ContentURI
	if contentURI == "" {
		return "", errors.New("homeserver returned an empty content uri")
	}

	return contentURI, nil
}

// PostNewThread creates a thread room holding the post and mirrors the post
// into the author's timeline room.
func (c *Client) PostNewThread(ctx context.Context, thread NewThread) (err error) {
	defer wrapf(&err, "post new thread")

	userID := c.UserID()
	if userID == "" {
		return errors.New("user id is unknown")
	}

	threadRoomID, err := c.createRoom(ctx, createRoomRequest{
		Preset:       "public_chat",
		Name:         fmt.Sprintf("%s's thread", userID),
		InitialState: worldReadable(),
	})
	if err != nil {
		return err
	}

	threadEventID, err := c.sendMessage(ctx, threadRoomID, thread.rootContent())
	if err != nil {
		return err
	}

	timelineRoomID, err := c.ownTimelineRoom(ctx)
	if err != nil {
		return err
	}

	if _, err := c.sendMessage(ctx, timelineRoomID, thread.timelineContent(threadEventID, threadRoomID)); err != nil {
		return err
	}

	c.logger.Debug("posted new thread",
		slog.String("thread_room_id", threadRoomID),
		slog.String("thread_event_id", threadEventID),
	)

	return nil
}

// ownTimelineRoom resolves the logged-in user's timeline room, creating it
// when the alias does not exist yet.
func (c *Client) ownTimelineRoom(ctx context.Context) (string, error) {
	c.mu.Lock()
	roomID, userID := c.timelineRoomID, c.userID
	c.mu.Unlock()

	if roomID != "" {
		return roomID, nil
	}

	roomID, err := c.resolveAlias(ctx, TimelineAlias(userID))
	if err != nil {
		if !IsNotFound(err) {
			return "", err
		}

		localpart, _, _ := strings.Cut(strings.TrimPrefix(userID, "@"), ":")
		roomID, err = c.createRoom(ctx, createRoomRequest{
			Preset:        "public_chat",
			Name:          fmt.Sprintf("%s's timeline", userID),
			RoomAliasName: "@" + localpart,
			InitialState:  worldReadable(),
		})
		if err != nil {
			return "", fmt.Errorf("create timeline room: %w", err)
		}
	}

	c.mu.Lock()
	c.timelineRoomID = roomID
	c.mu.Unlock()

	return roomID, nil
}

func (c *Client) resolveAlias(ctx context.Context, alias string) (string, error) {
	type directoryResponse struct {
		RoomID string `json:"room_id"`
	}

	res, err := c.r(ctx).
		SetPathParam("alias", alias).
		SetResult(&directoryResponse{}).
		Get("/_matrix/client/v3/directory/room/{alias}")
	if err := checkResponse(res, err); err != nil {
		return "", fmt.Errorf("resolve alias %s: %w", alias, err)
	}

	return res.Result().(*directoryResponse).RoomID, nil
}

type stateEvent struct {
	Type     string         `json:"type"`
	StateKey string         `json:"state_key"`
	Content  map[string]any `json:"content"`
}

type createRoomRequest struct {
	Preset        string       `json:"preset,omitempty"`
	Name          string       `json:"name,omitempty"`
	RoomAliasName string       `json:"room_alias_name,omitempty"`
	InitialState  []stateEvent `json:"initial_state,omitempty"`
}

func worldReadable() []stateEvent {
	return []stateEvent{
		{
			Type:    "m.room.history_visibility",
			Content: map[string]any{"history_visibility": "world_readable"},
		},
	}
}

func (c *Client) createRoom(ctx context.Context, request createRoomRequest) (string, error) {
	type createRoomResponse struct {
		RoomID string `json:"room_id"`
	}

	res, err := c.r(ctx).
		SetBody(request).
		SetResult(&createRoomResponse{}).
		Post("/_matrix/client/v3/createRoom")
	if err := checkResponse(res, err); err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}

	return res.Result().(*createRoomResponse).RoomID, nil
}

func (c *Client) sendMessage(ctx context.Context, roomID string, content []byte) (string, error) {
	type sendResponse struct {
		EventID string `json:"event_id"`
	}

	res, err := c.r(ctx).
		SetPathParam("roomID", roomID).
		SetPathParam("txnID", uuid.NewString()).
		SetHeader("Content-Type", "application/json").
		SetBody(content).
		SetResult(&sendResponse{}).
		Put("/_matrix/client/v3/rooms/{roomID}/send/m.room.message/{txnID}")
	if err := checkResponse(res, err); err != nil {
		return "", fmt.Errorf("send message to %s: %w", roomID, err)
	}

	return res.Result().(*sendResponse).EventID, nil
}
