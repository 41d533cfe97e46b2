// Package interfaces defines the core abstractions for the sync job's two
// external collaborators: the upstream catalog API and the key-value store.
// The orchestrator depends only on these, making both sides swappable in
// tests.
package interfaces

import (
	"context"
	"net/http"

	"movie-sync-go/pkg/types"
)

// CatalogAPI is the upstream catalog client.
type CatalogAPI interface {
	// ListUpdated fetches one page of the "recently updated" listing.
	ListUpdated(ctx context.Context, page int) (*types.ListResponse, error)

	// FetchDetail fetches the full detail payload for a movie slug.
	FetchDetail(ctx context.Context, slug string) (*types.DetailResponse, error)
}

// KeyValueStore is the persistent document store the sync job writes into.
// Values are opaque byte payloads; callers own (de)serialization so that a
// corrupt stored document surfaces on their side, distinct from absence.
type KeyValueStore interface {
	// Get returns the stored value for key, or store.ErrNotFound when the
	// key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set persists value under key without expiry.
	Set(ctx context.Context, key string, value []byte) error

	// Track adds key to the membership set of keys this job has written,
	// used to preload the local cache on the next run.
	Track(ctx context.Context, key string) error

	// TrackedKeys returns every key in the membership set.
	TrackedKeys(ctx context.Context) ([]string, error)

	// Close releases network resources.
	Close() error
}

// HTTPClient abstracts HTTP operations for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
