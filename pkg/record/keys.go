package record

import (
	"fmt"

	"movie-sync-go/pkg/types"
)

const (
	keyPrefix = "movieapp:"

	// TrackingSetKey is the store set holding every key this job has ever
	// written, used to preload the local read cache.
	TrackingSetKey = keyPrefix + "precached_keys"

	// trailingServerWindow is how many of the most recent server groups get
	// stream keys. Older servers rotate out of upstream hosting and are
	// never indexed for streaming.
	trailingServerWindow = 20
)

// PrimaryKey is the store key for a movie's canonical record.
func PrimaryKey(slug string) string {
	return keyPrefix + "movie_" + slug
}

// AliasKey is the store key mapping a movie's stable identifier to its
// current slug.
func AliasKey(id string) string {
	return keyPrefix + "id_to_slug_" + id
}

// StreamKey is the store key for one episode's stream descriptor.
func StreamKey(streamID string) string {
	return keyPrefix + "stream_detail_" + streamID
}

// DerivedStream pairs a stream store key with the descriptor to write
// under it.
type DerivedStream struct {
	Key        string
	Descriptor types.StreamDescriptor
}

// StreamKeys derives the stream descriptors a canonical record implies.
// Only the trailing window of server groups is indexed; within it, stream
// identifiers are positional: "{id}_{serverIndex}_{episodeIndex}" with both
// indices 0-based inside the window. Records with no episodes derive
// nothing.
func StreamKeys(id string, episodes []types.ServerGroup) []DerivedStream {
	window := episodes
	if len(window) > trailingServerWindow {
		window = window[len(window)-trailingServerWindow:]
	}

	var derived []DerivedStream
	for s, server := range window {
		for e, episode := range server.ServerData {
			streamID := fmt.Sprintf("%s_%d_%d", id, s, e)
			name := episode.Name
			if name == "" {
				name = fmt.Sprintf("Episode %d", e+1)
			}
			derived = append(derived, DerivedStream{
				Key: StreamKey(streamID),
				Descriptor: types.StreamDescriptor{
					StreamLinks: []types.StreamLink{{
						ID:      "default_" + streamID,
						Name:    name,
						Type:    "hls",
						Default: false,
						URL:     episode.LinkM3U8,
					}},
				},
			})
		}
	}
	return derived
}
