package matrix

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// maxPageSize caps a single /messages request.
const maxPageSize = 50

// TimelineAlias is the alias of the room holding a user's posts.
func TimelineAlias(userID string) string {
	return "#" + userID
}

// FollowUser joins the timeline room of userID and returns its room ID.
// Joining a room twice is a no-op on the homeserver.
func (c *Client) FollowUser(ctx context.Context, userID string) (roomID string, err error) {
	defer wrapf(&err, "follow %s", userID)

	type joinResponse struct {
		RoomID string `json:"room_id"`
	}

	res, err := c.r(ctx).
		SetPathParam("alias", TimelineAlias(userID)).
		SetBody(struct{}{}).
		SetResult(&joinResponse{}).
		Post("/_matrix/client/v3/join/{alias}")
	if err := checkResponse(res, err); err != nil {
		return "", err
	}

	return res.Result().(*joinResponse).RoomID, nil
}

// GetTimeline fetches up to limit events of a room, newest first, calling
// onPage once per page received from the homeserver.
func (c *Client) GetTimeline(ctx context.Context, roomID string, limit int, onPage func([]Event)) (err error) {
	defer wrapf(&err, "get timeline of %s", roomID)

	type messagesResponse struct {
		Start string  `json:"start"`
		End   string  `json:"end"`
		Chunk []Event `json:"chunk"`
	}

	from := ""
	fetched := 0

	for fetched < limit {
		req := c.r(ctx).
			SetPathParam("roomID", roomID).
			SetQueryParam("dir", "b").
			SetQueryParam("limit", strconv.Itoa(min(limit-fetched, maxPageSize))).
			SetResult(&messagesResponse{})
		if from != "" {
			req.SetQueryParam("from", from)
		}

		res, err := req.Get("/_matrix/client/v3/rooms/{roomID}/messages")
		if err := checkResponse(res, err); err != nil {
			return err
		}

		page := res.Result().(*messagesResponse)
		if len(page.Chunk) == 0 {
			return nil
		}

		fetched += len(page.Chunk)
		onPage(page.Chunk)

		if page.End == "" || page.End == from {
			return nil
		}

		from = page.End
	}

	return nil
}

type syncResponse struct {
	NextBatch string `json:"next_batch"`
	Rooms     struct {
		Join map[string]struct {
			Timeline struct {
				Events []Event `json:"events"`
			} `json:"timeline"`
		} `json:"join"`
	} `json:"rooms"`
}

// WaitForMessageEventInRoom long-polls /sync from the given cursor until a
// message event shows up in one of roomIDs and returns the cursor to resume
// from. An empty cursor starts from the present.
func (c *Client) WaitForMessageEventInRoom(ctx context.Context, roomIDs []string, from string) (_ string, err error) {
	defer wrapf(&err, "wait for message event in %v", roomIDs)

	filter := syncFilter(roomIDs)

	if from == "" {
		res, err := c.sync(ctx, filter, "", 0)
		if err != nil {
			return "", err
		}

		from = res.NextBatch
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		res, err := c.sync(ctx, filter, from, c.syncTimeout)
		if err != nil {
			return "", err
		}

		if res.NextBatch != "" {
			from = res.NextBatch
		}

		for _, roomID := range roomIDs {
			room, ok := res.Rooms.Join[roomID]
			if !ok {
				continue
			}

			if lo.ContainsBy(room.Timeline.Events, func(e Event) bool {
				return e.Type == EventTypeMessage
			}) {
				return from, nil
			}
		}
	}
}

func (c *Client) sync(ctx context.Context, filter, since string, timeout time.Duration) (*syncResponse, error) {
	req := c.r(ctx).
		SetQueryParam("filter", filter).
		SetQueryParam("timeout", strconv.FormatInt(timeout.Milliseconds(), 10)).
		SetResult(&syncResponse{})
	if since != "" {
		req.SetQueryParam("since", since)
	}

	res, err := req.Get("/_matrix/client/v3/sync")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}

	return res.Result().(*syncResponse), nil
}
