// Package media defines the platform-independent records shared across seam.
package media

import "time"

// Node is the normalized description of a live broadcast.
// A Node is only built once the room was confirmed to be broadcasting.
type Node struct {
	Platform string   `json:"platform"`          // Registry key of the provider
	RoomID   string   `json:"room_id"`           // Resolved (canonical) room id
	Title    string   `json:"title"`             // Empty when the platform omits it
	Cover    string   `json:"cover_url"`         // Cover image URL
	Anchor   string   `json:"anchor_name"`       // Streamer display name
	Avatar   string   `json:"anchor_avatar_url"` // Streamer avatar URL
	URLs     []string `json:"stream_urls"`       // Playable URLs in platform order
}

// FirstURL returns the first playable URL, or "" when none was supplied.
func (n *Node) FirstURL() string {
	if n == nil || len(n.URLs) == 0 {
		return ""
	}
	return n.URLs[0]
}

// Lookup is one entry of the lookup log. Stream URLs are never stored.
type Lookup struct {
	ID         int64
	Platform   string
	InputID    string // Room id as typed by the user
	RoomID     string // Resolved room id, empty when not live
	Title      string
	Anchor     string
	Live       bool
	ResolvedAt time.Time
}
