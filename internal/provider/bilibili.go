package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"seam/internal/httputil"
	"seam/internal/jsontree"
	"seam/internal/log"
	"seam/internal/media"
)

const (
	bilibiliInitURL = "https://api.live.bilibili.com/room/v1/Room/room_init"
	bilibiliPlayURL = "https://api.live.bilibili.com/xlive/web-room/v2/index/getRoomPlayInfo"
	bilibiliInfoURL = "https://api.live.bilibili.com/xlive/web-room/v1/index/getInfoByRoom"
)

// bilibiliLiveStatus is the only live_status value that means "broadcasting".
// 0 is offline and 2 is a replay loop; anything else is treated as not live too.
const bilibiliLiveStatus = 1

var bilibiliHeaders = map[string]string{
	"Referer": "https://live.bilibili.com/",
	"Origin":  "https://live.bilibili.com",
}

// Bilibili implements the Provider interface for live.bilibili.com.
// Without a logged-in Cookie header the platform caps quality at 480P.
type Bilibili struct {
	client  *httputil.Client
	initURL string
	playURL string
	infoURL string
}

// NewBilibili creates a new Bilibili provider.
func NewBilibili(client *httputil.Client) *Bilibili {
	return &Bilibili{
		client:  client,
		initURL: bilibiliInitURL,
		playURL: bilibiliPlayURL,
		infoURL: bilibiliInfoURL,
	}
}

func (b *Bilibili) Name() string { return "bilibili" }

// PlaybackHeaders returns the headers the bilibili CDN checks on stream requests.
func (b *Bilibili) PlaybackHeaders() map[string]string {
	return map[string]string{"Referer": bilibiliHeaders["Referer"]}
}

// Resolve performs room-init, quality negotiation, URL extraction and
// metadata enrichment, in that order.
func (b *Bilibili) Resolve(ctx context.Context, roomID string, headers map[string]string) (*media.Node, error) {
	if err := httputil.ValidateRoomID(roomID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoom, err)
	}
	headers = httputil.MergeHeaders(bilibiliHeaders, headers)

	rid, err := b.roomInit(ctx, roomID, headers)
	if err != nil {
		return nil, err
	}

	n := negotiator{fetch: func(ctx context.Context, qn uint64) (jsontree.Value, error) {
		return b.playInfo(ctx, rid, qn, headers)
	}}
	streams, err := n.run(ctx)
	if err != nil {
		return nil, fmt.Errorf("negotiating quality for room %s: %w", rid, err)
	}

	urls, err := extractURLs(streams)
	if err != nil {
		return nil, fmt.Errorf("extracting stream URLs for room %s: %w", rid, err)
	}

	node := &media.Node{RoomID: rid, URLs: urls}
	b.enrich(ctx, node, headers)
	return node, nil
}

// roomInit resolves a display id to the canonical room id and checks liveness.
func (b *Bilibili) roomInit(ctx context.Context, roomID string, headers map[string]string) (string, error) {
	body, err := b.client.GetJSON(ctx, b.initURL, url.Values{"id": {roomID}}, headers)
	if err != nil {
		return "", fmt.Errorf("room init: %w", err)
	}

	root, err := jsontree.Parse(body)
	if err != nil {
		return "", fmt.Errorf("room init: %w", err)
	}
	if err := checkEnvelope(root); err != nil {
		return "", fmt.Errorf("room init: %w", err)
	}

	status, err := root.At("data", "live_status").Int()
	if err != nil {
		return "", fmt.Errorf("room init: %w", err)
	}
	if status != bilibiliLiveStatus {
		return "", fmt.Errorf("room %s (live_status %d): %w", roomID, status, ErrNotLive)
	}

	rid, err := root.At("data", "room_id").Uint()
	if err != nil {
		return "", fmt.Errorf("room init: %w", err)
	}

	return strconv.FormatUint(rid, 10), nil
}

// playInfo fetches the stream descriptor (data.playurl_info.playurl.stream) at tier qn.
func (b *Bilibili) playInfo(ctx context.Context, rid string, qn uint64, headers map[string]string) (jsontree.Value, error) {
	query := url.Values{
		"room_id":  {rid},
		"protocol": {"0,1"},
		"format":   {"0,1,2"},
		"codec":    {"0,1"},
		"qn":       {strconv.FormatUint(qn, 10)},
		"platform": {"h5"},
		"ptype":    {"8"},
	}

	body, err := b.client.GetJSON(ctx, b.playURL, query, headers)
	if err != nil {
		return jsontree.Value{}, fmt.Errorf("play info (qn=%d): %w", qn, err)
	}

	root, err := jsontree.Parse(body)
	if err != nil {
		return jsontree.Value{}, fmt.Errorf("play info (qn=%d): %w", qn, err)
	}
	if err := checkEnvelope(root); err != nil {
		return jsontree.Value{}, fmt.Errorf("play info (qn=%d): %w", qn, err)
	}

	return root.At("data", "playurl_info", "playurl", "stream"), nil
}

// enrich fills title, cover and anchor fields. Failures leave them empty.
func (b *Bilibili) enrich(ctx context.Context, node *media.Node, headers map[string]string) {
	body, err := b.client.GetJSON(ctx, b.infoURL, url.Values{"room_id": {node.RoomID}}, headers)
	if err != nil {
		log.Warnf("bilibili: metadata for room %s unavailable: %v", node.RoomID, err)
		return
	}

	root, err := jsontree.Parse(body)
	if err != nil {
		log.Warnf("bilibili: metadata for room %s unreadable: %v", node.RoomID, err)
		return
	}

	data := root.Get("data")
	node.Title = data.At("room_info", "title").StrOr("")
	node.Cover = data.At("room_info", "cover").StrOr("")
	node.Anchor = data.At("anchor_info", "base_info", "uname").StrOr("")
	node.Avatar = data.At("anchor_info", "base_info", "face").StrOr("")
}
