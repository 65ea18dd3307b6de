package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/services"
	"github.com/desertthunder/solify/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Enricher replaces transformed track stubs with authoritative public API records.
type Enricher struct {
	tracks    services.TrackFetcher
	batchSize int
}

// NewEnricher creates an enricher fetching [services.MaxTracksPerRequest] ids per call.
func NewEnricher(tracks services.TrackFetcher) *Enricher {
	return &Enricher{tracks: tracks, batchSize: services.MaxTracksPerRequest}
}

// Enrich fetches every non-empty stub id in concurrent batches and merges the
// results by id. The output has the same length and order as stubs.
//
// If any batch fails, the first failure in batch order is returned as
// [shared.EnrichmentError] and no tracks are returned.
func (e *Enricher) Enrich(ctx context.Context, stubs []models.Track, token string) ([]models.Track, error) {
	ids := make([]string, 0, len(stubs))
	for _, s := range stubs {
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}

	out := make([]models.Track, len(stubs))
	copy(out, stubs)
	if len(ids) == 0 {
		return out, nil
	}

	batches := chunk(ids, e.batchSize)
	results := make([][]*models.Track, len(batches))
	errs := make([]error, len(batches))

	// Batches run to completion; a failure does not cancel its siblings.
	var g errgroup.Group
	for i, batch := range batches {
		g.Go(func() error {
			tracks, err := e.tracks.SeveralTracks(ctx, token, batch)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = tracks
			return nil
		})
	}

	if g.Wait() != nil {
		for i, err := range errs {
			if err == nil {
				continue
			}
			status, body, _ := shared.UpstreamStatus(err)
			return nil, &shared.EnrichmentError{
				Batch:      i,
				Batches:    len(batches),
				StatusCode: status,
				Body:       body,
				Err:        fmt.Errorf("fetching %d tracks: %w", len(batches[i]), err),
			}
		}
	}

	byID := make(map[string]models.Track, len(ids))
	for _, batch := range results {
		for _, t := range batch {
			if t == nil || t.ID == "" {
				continue
			}
			byID[t.ID] = *t
		}
	}

	for i, s := range out {
		if full, ok := byID[s.ID]; ok && s.ID != "" {
			out[i] = full
		}
	}
	return out, nil
}

// chunk splits ids into contiguous slices of at most size elements.
func chunk(ids []string, size int) [][]string {
	n := (len(ids) + size - 1) / size
	batches := make([][]string, 0, n)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
