// Package record implements the core of the sync job: building canonical
// records from raw detail payloads, diffing them against stored versions,
// and deriving the store keys a record implies.
package record

import (
	"movie-sync-go/pkg/sanitize"
	"movie-sync-go/pkg/types"
)

const (
	// synopsisMaxRunes bounds the movie synopsis, in code points.
	synopsisMaxRunes = 1000
	// truncationMarker is appended when the synopsis is cut off.
	truncationMarker = "..."
)

// sanitizedMovieFields are the movie document fields that carry
// human-readable text and must be canonicalized before storage.
var sanitizedMovieFields = []string{"content", "name", "origin_name", "trailer_url", "filename"}

// ValidationError reports a raw movie document that cannot become a
// canonical record. Items failing validation are skipped, never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid movie record: " + e.Reason
}

// Validate checks that a raw movie document has everything a canonical
// record needs: non-empty _id, name, slug and content, list-typed category
// and country when present (an explicit null is not a list), and at least
// one image URL. Required fields may be any non-empty value, not just
// strings; sanitization stringifies them later.
func Validate(movie map[string]any) error {
	for _, field := range []string{"_id", "name", "slug", "content"} {
		if !truthy(movie[field]) {
			return &ValidationError{Reason: "missing " + field}
		}
	}
	for _, field := range []string{"category", "country"} {
		if v, ok := movie[field]; ok {
			if _, isList := v.([]any); !isList {
				return &ValidationError{Reason: field + " is not a list"}
			}
		}
	}
	if !truthy(movie["poster_url"]) && !truthy(movie["thumb_url"]) {
		return &ValidationError{Reason: "no poster or thumbnail URL"}
	}
	return nil
}

// Build validates and sanitizes a raw detail payload into a canonical
// record. The movie document is copied, not mutated; unknown upstream fields
// pass through unchanged. Episode ordering is preserved.
func Build(detail *types.DetailResponse) (*types.CanonicalRecord, error) {
	if err := Validate(detail.Movie); err != nil {
		return nil, err
	}

	movie := make(map[string]any, len(detail.Movie))
	for k, v := range detail.Movie {
		movie[k] = v
	}
	for _, field := range sanitizedMovieFields {
		if _, ok := movie[field]; ok {
			movie[field] = sanitize.Text(movie[field])
		}
	}
	if content, ok := movie["content"].(string); ok {
		movie["content"] = sanitize.Truncate(content, synopsisMaxRunes, truncationMarker)
	}

	episodes := make([]types.ServerGroup, len(detail.Episodes))
	for i, server := range detail.Episodes {
		episodes[i] = types.ServerGroup{
			ServerName: server.ServerName,
			ServerData: make([]types.Episode, len(server.ServerData)),
		}
		for j, ep := range server.ServerData {
			ep.Name = sanitize.Text(ep.Name)
			ep.Filename = sanitize.Text(ep.Filename)
			episodes[i].ServerData[j] = ep
		}
	}

	return &types.CanonicalRecord{
		Status:   detail.Status,
		Message:  detail.Message,
		Movie:    movie,
		Episodes: episodes,
	}, nil
}

// truthy reports whether a decoded JSON value counts as present: non-empty
// strings and collections, non-zero numbers, true. Absent keys and explicit
// nulls both come through as nil.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
