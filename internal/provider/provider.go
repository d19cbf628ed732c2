// Package provider defines the interface for live-streaming platforms
// and their implementations.
package provider

import (
	"context"

	"seam/internal/media"
)

// Provider is the interface that platform integrations must implement.
type Provider interface {
	// Name returns the registry key, e.g. "bilibili".
	Name() string

	// Resolve turns a room id, possibly a vanity or short id, into a Node.
	// headers may be nil; they are merged over the platform's default headers.
	// A room that is not broadcasting yields ErrNotLive and a nil Node.
	Resolve(ctx context.Context, roomID string, headers map[string]string) (*media.Node, error)
}

// PlaybackHeaderer is implemented by providers whose stream CDNs expect
// specific request headers (typically a Referer) from the player.
type PlaybackHeaderer interface {
	PlaybackHeaders() map[string]string
}
