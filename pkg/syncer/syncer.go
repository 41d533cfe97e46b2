// Package syncer drives the incremental synchronization run: it walks the
// upstream "recently updated" listing page by page, reconciles each item
// against the store, and stops as soon as it reaches already-synchronized
// territory.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"movie-sync-go/pkg/config"
	"movie-sync-go/pkg/interfaces"
	"movie-sync-go/pkg/logging"
	"movie-sync-go/pkg/record"
	"movie-sync-go/pkg/store"
	"movie-sync-go/pkg/types"
)

// itemOutcome is how a single listing item ended up.
type itemOutcome int

const (
	itemCached itemOutcome = iota
	itemSkipped
	itemFailed
)

// Result summarizes a completed run.
type Result struct {
	Pages   int
	Cached  int
	Skipped int
	Failed  int
	Aborted bool
}

// Syncer orchestrates one synchronization run.
type Syncer struct {
	api   interfaces.CatalogAPI
	store interfaces.KeyValueStore
	log   *logging.Logger

	maxPages    int
	detailPacer *rate.Limiter
	pagePacer   *rate.Limiter
}

// New creates a Syncer. Pacing limiters are derived from the configured
// delays; a zero delay disables waiting (useful in tests) but the limiters
// themselves are always in place.
func New(api interfaces.CatalogAPI, st interfaces.KeyValueStore, cfg *config.Config, log *logging.Logger) *Syncer {
	return &Syncer{
		api:         api,
		store:       st,
		log:         log.WithComponent("syncer"),
		maxPages:    cfg.MaxPages,
		detailPacer: rate.NewLimiter(rate.Every(cfg.DetailDelay), 1),
		pagePacer:   rate.NewLimiter(rate.Every(cfg.PageDelay), 1),
	}
}

// Run walks the listing from page 1 until a stop condition: the upstream
// reports end-of-data, the page bound is reached, or an item comes back
// unchanged. Upstream listings are freshness-ordered, so the first item
// already matching the store means everything beyond it was synchronized by
// an earlier run.
//
// All failures are contained at item or page granularity. The only run-level
// abort is a fetch failure on the very first page, without which no progress
// is possible.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	for page := 1; ; page++ {
		if err := s.pagePacer.Wait(ctx); err != nil {
			return result, err
		}

		listing, err := s.api.ListUpdated(ctx, page)
		if err != nil {
			if page == 1 {
				result.Aborted = true
				return result, fmt.Errorf("first listing page: %w", err)
			}
			s.log.Warn("listing page failed, stopping", "page", page, "error", err)
			break
		}
		if !listing.Status {
			s.log.Info("listing reports end of data", "page", page)
			break
		}
		if len(listing.Items) == 0 {
			s.log.Info("empty listing page", "page", page)
			break
		}

		result.Pages++
		stop := false
		for _, item := range listing.Items {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			outcome := s.syncItem(ctx, item)
			switch outcome {
			case itemCached:
				result.Cached++
			case itemSkipped:
				result.Skipped++
				// First unchanged item: everything after it is already
				// synchronized.
				s.log.Info("reached synchronized territory, stopping run", "slug", item.Slug)
				stop = true
			case itemFailed:
				result.Failed++
			}
			if stop {
				break
			}
		}
		if stop {
			break
		}

		if page >= listing.Pagination.TotalPages {
			break
		}
		if s.maxPages > 0 && page >= s.maxPages {
			s.log.Info("page bound reached", "max_pages", s.maxPages)
			break
		}
	}

	return result, nil
}

// syncItem fetches, normalizes, diffs and writes a single listing item.
// Every failure is logged and contained here.
func (s *Syncer) syncItem(ctx context.Context, item types.ListItem) itemOutcome {
	log := s.log.WithSlug(item.Slug)

	if item.Slug == "" || item.ID == "" {
		log.Warn("listing item missing slug or id")
		return itemFailed
	}

	if err := s.detailPacer.Wait(ctx); err != nil {
		return itemFailed
	}

	detail, err := s.api.FetchDetail(ctx, item.Slug)
	if err != nil {
		log.Warn("detail fetch failed", "error", err)
		return itemFailed
	}
	if !detail.Status {
		log.Warn("upstream rejected detail request")
		return itemFailed
	}

	rec, err := record.Build(detail)
	if err != nil {
		var verr *record.ValidationError
		if errors.As(err, &verr) {
			log.Warn("invalid movie record", "reason", verr.Reason)
		} else {
			log.Warn("failed to build record", "error", err)
		}
		return itemFailed
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Error("failed to serialize record", "error", err)
		return itemFailed
	}

	// Validation guarantees both fields are present; numeric ids are
	// stringified the same way they would appear in a URL.
	movieID := fmt.Sprint(rec.Movie["_id"])
	slug := fmt.Sprint(rec.Movie["slug"])
	primaryKey := record.PrimaryKey(slug)

	stored := s.read(ctx, primaryKey, log)
	if s.diff(payload, stored, primaryKey, log) == record.OutcomeUnchanged {
		log.Info("skipped unchanged movie")
		return itemSkipped
	}

	if err := s.write(ctx, primaryKey, payload); err != nil {
		log.Error("failed to write movie record", "error", err)
		return itemFailed
	}
	if err := s.write(ctx, record.AliasKey(movieID), []byte(slug)); err != nil {
		log.Error("failed to write alias key", "error", err)
		return itemFailed
	}
	log.Info("cached movie")

	s.syncStreams(ctx, movieID, rec.Episodes, log)
	return itemCached
}

// syncStreams writes the stream descriptors a record implies, diffing each
// one independently so unchanged descriptors are left untouched. A failed
// stream write skips that key only.
func (s *Syncer) syncStreams(ctx context.Context, movieID string, episodes []types.ServerGroup, log *logging.Logger) {
	written := 0
	for _, ds := range record.StreamKeys(movieID, episodes) {
		payload, err := json.Marshal(ds.Descriptor)
		if err != nil {
			log.Error("failed to serialize stream descriptor", "key", ds.Key, "error", err)
			continue
		}

		stored := s.read(ctx, ds.Key, log)
		if s.diff(payload, stored, ds.Key, log) == record.OutcomeUnchanged {
			continue
		}

		if err := s.write(ctx, ds.Key, payload); err != nil {
			log.Warn("failed to write stream descriptor", "key", ds.Key, "error", err)
			continue
		}
		written++
	}
	if written > 0 {
		log.Info("updated stream descriptors", "written", written)
	}
}

// diff compares a candidate payload against the stored bytes. A non-empty
// stored value that still diffs as new failed to parse; that gets a warning
// before the key is rewritten.
func (s *Syncer) diff(payload, stored []byte, key string, log *logging.Logger) record.Outcome {
	outcome := record.Compare(payload, stored)
	if outcome == record.OutcomeNew && len(stored) > 0 {
		log.Warn("stored value is corrupt, rewriting", "key", key)
	}
	return outcome
}

// read fetches the stored value for key, treating both absence and read
// failures as cache-absent. A read failure must never fail the item: the
// diff simply sees nothing stored and rewrites the key.
func (s *Syncer) read(ctx context.Context, key string, log *logging.Logger) []byte {
	val, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("store read failed, treating as absent", "key", key, "error", err)
		}
		return nil
	}
	return val
}

// write persists a value and tracks its key in the membership set. Tracking
// failures are logged but do not fail the write: the key set only feeds the
// next run's cache preload.
func (s *Syncer) write(ctx context.Context, key string, value []byte) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}
	if err := s.store.Track(ctx, key); err != nil {
		s.log.Warn("failed to track key", "key", key, "error", err)
	}
	return nil
}
