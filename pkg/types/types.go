// Package types defines core domain types used throughout the application.
package types

// ListItem is a lightweight movie stub from the "recently updated" listing.
// The upstream sends more fields than these; only the ones the sync loop
// needs are decoded.
type ListItem struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Pagination is the paging metadata attached to a listing page.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// ListResponse is one page of the upstream "recently updated" listing.
type ListResponse struct {
	Status     bool       `json:"status"`
	Items      []ListItem `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Episode is a single playable episode within a server group.
type Episode struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Filename  string `json:"filename"`
	LinkEmbed string `json:"link_embed"`
	LinkM3U8  string `json:"link_m3u8"`
}

// ServerGroup is one hosting server's ordered episode list. The upstream
// appends a new group whenever a title moves to a new host, so order is
// meaningful and must be preserved.
type ServerGroup struct {
	ServerName string    `json:"server_name"`
	ServerData []Episode `json:"server_data"`
}

// DetailResponse is the raw upstream detail payload for a single movie.
// The movie document is kept as a generic map: the upstream schema is wide
// and drifts over time, and every field it sends must survive the round trip
// into the store unchanged.
type DetailResponse struct {
	Status   bool           `json:"status"`
	Message  string         `json:"msg"`
	Movie    map[string]any `json:"movie"`
	Episodes []ServerGroup  `json:"episodes"`
}

// CanonicalRecord is the sanitized, length-bounded form of a detail payload.
// It is the unit of both storage and equality comparison: two records are
// the same iff their sorted-key JSON serializations are byte-identical.
type CanonicalRecord struct {
	Status   bool           `json:"status"`
	Message  string         `json:"msg"`
	Movie    map[string]any `json:"movie"`
	Episodes []ServerGroup  `json:"episodes"`
}

// StreamLink describes one playable stream for an episode.
type StreamLink struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default bool   `json:"default"`
	URL     string `json:"url"`
}

// StreamDescriptor is the derived per-episode document stored under a
// stream key, independently diffed from the primary record.
type StreamDescriptor struct {
	StreamLinks []StreamLink `json:"stream_links"`
}
