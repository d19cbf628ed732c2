package provider

import (
	"context"
	"fmt"
	"net/url"

	"seam/internal/httputil"
	"seam/internal/jsontree"
	"seam/internal/media"
)

const yqs173URL = "https://www.173.com/room/getVieoUrl"

// yqs173LiveStatus is the data.status value reported while broadcasting.
const yqs173LiveStatus = 2

// YQS173 implements the Provider interface for www.173.com.
// The platform answers a single form POST with a status and one stream URL;
// it exposes no room-init step and no metadata.
type YQS173 struct {
	client *httputil.Client
	url    string
}

// NewYQS173 creates a new 173 provider.
func NewYQS173(client *httputil.Client) *YQS173 {
	return &YQS173{client: client, url: yqs173URL}
}

func (y *YQS173) Name() string { return "173" }

// Resolve posts the room id and reads data.status and data.url.
func (y *YQS173) Resolve(ctx context.Context, roomID string, headers map[string]string) (*media.Node, error) {
	if err := httputil.ValidateRoomID(roomID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoom, err)
	}

	body, err := y.client.PostFormJSON(ctx, y.url, url.Values{"roomId": {roomID}}, headers)
	if err != nil {
		return nil, fmt.Errorf("video url: %w", err)
	}

	root, err := jsontree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("video url: %w", err)
	}

	status, err := root.At("data", "status").Int()
	if err != nil {
		return nil, fmt.Errorf("video url: %w", err)
	}
	if status != yqs173LiveStatus {
		return nil, fmt.Errorf("room %s (status %d): %w", roomID, status, ErrNotLive)
	}

	streamURL, err := root.At("data", "url").Str()
	if err != nil {
		return nil, fmt.Errorf("video url: %w", err)
	}

	urls := make([]string, 0, 1)
	if streamURL != "" {
		urls = append(urls, streamURL)
	}

	return &media.Node{RoomID: roomID, URLs: urls}, nil
}
