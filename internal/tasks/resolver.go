package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/services"
	"github.com/desertthunder/solify/internal/shared"
	"github.com/desertthunder/solify/internal/transform"
)

// DefaultRecommendationLimit is used when a caller passes a non-positive limit.
const DefaultRecommendationLimit = 5

// PlaylistResolver resolves playlist ids into public schema track listings.
type PlaylistResolver interface {
	FetchPlaylist(ctx context.Context, id string) (*models.PlaylistTracks, error)
	FetchPlaylistFull(ctx context.Context, id string, creds models.Credentials, limit int) (*models.PlaylistTracks, error)
}

// RecommendationResolver resolves a seed track id into recommendations.
type RecommendationResolver interface {
	FetchRecommendations(ctx context.Context, id string, limit int) (*models.Recommendations, error)
	FetchRecommendationsFull(ctx context.Context, id string, limit int, creds models.Credentials) (*models.Recommendations, error)
}

var (
	_ PlaylistResolver       = (*Resolver)(nil)
	_ RecommendationResolver = (*Resolver)(nil)
)

// Resolver drives the partner API, the schema transform and optional
// enrichment for playlists and recommendations.
type Resolver struct {
	tokens      services.TokenSource
	credentials services.CredentialsTokenSource
	partner     services.PartnerAPI
	enricher    *Enricher
	logger      *log.Logger
}

// NewResolver wires a resolver. A nil logger discards output.
func NewResolver(
	tokens services.TokenSource,
	credentials services.CredentialsTokenSource,
	partner services.PartnerAPI,
	tracks services.TrackFetcher,
	logger *log.Logger,
) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		tokens:      tokens,
		credentials: credentials,
		partner:     partner,
		enricher:    NewEnricher(tracks),
		logger:      logger,
	}
}

// run tracks one operation's stage transitions.
type run struct {
	ctx    context.Context
	op     string
	stage  Stage
	logger *log.Logger
}

func (r *Resolver) begin(ctx context.Context, op, id string) *run {
	rn := &run{ctx: ctx, op: op, logger: r.logger.With("op", op, "id", id)}
	rn.enter(Start, "")
	return rn
}

func (rn *run) enter(stage Stage, detail string) {
	rn.stage = stage
	rn.logger.Debug("stage", "stage", stage, "detail", detail)
	sendProgress(rn.ctx, stageUpdate(rn.op, stage, detail))
}

// fail records the failure and wraps err with the stage it occurred in.
func (rn *run) fail(err error) error {
	failed := rn.stage
	rn.logger.Debug("stage", "stage", Failed, "from", failed, "err", err)
	sendProgress(rn.ctx, stageUpdate(rn.op, Failed, failed.String()))
	return &ResolveError{Stage: failed, Err: err}
}

// FetchPlaylist returns the transformed playlist without enrichment.
func (r *Resolver) FetchPlaylist(ctx context.Context, id string) (*models.PlaylistTracks, error) {
	rn := r.begin(ctx, "playlist", id)

	result, err := r.playlist(rn, id)
	if err != nil {
		return nil, rn.fail(err)
	}

	rn.enter(Done, fmt.Sprintf("%d tracks", result.Total))
	return &result, nil
}

// FetchPlaylistFull returns the playlist with every track replaced by its
// public API record. A positive limit truncates the listing before enrichment.
func (r *Resolver) FetchPlaylistFull(ctx context.Context, id string, creds models.Credentials, limit int) (*models.PlaylistTracks, error) {
	rn := r.begin(ctx, "playlist_full", id)
	if !creds.Complete() {
		return nil, rn.fail(fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials))
	}

	result, err := r.playlist(rn, id)
	if err != nil {
		return nil, rn.fail(err)
	}

	stubs := result.Tracks
	if limit > 0 && len(stubs) > limit {
		stubs = stubs[:limit]
	}

	tracks, err := r.enrich(rn, stubs, creds)
	if err != nil {
		return nil, rn.fail(err)
	}

	rn.enter(Done, fmt.Sprintf("%d tracks", len(tracks)))
	return &models.PlaylistTracks{Tracks: tracks, Total: len(tracks)}, nil
}

// FetchRecommendations returns transformed recommendations for a seed track.
func (r *Resolver) FetchRecommendations(ctx context.Context, id string, limit int) (*models.Recommendations, error) {
	rn := r.begin(ctx, "recommendations", id)

	result, err := r.recommendations(rn, id, limit)
	if err != nil {
		return nil, rn.fail(err)
	}

	rn.enter(Done, fmt.Sprintf("%d tracks", len(result.Tracks)))
	return &result, nil
}

// FetchRecommendationsFull returns enriched recommendations. Seed pool sizes
// are recomputed from the enriched track count.
func (r *Resolver) FetchRecommendationsFull(ctx context.Context, id string, limit int, creds models.Credentials) (*models.Recommendations, error) {
	rn := r.begin(ctx, "recommendations_full", id)
	if !creds.Complete() {
		return nil, rn.fail(fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials))
	}

	result, err := r.recommendations(rn, id, limit)
	if err != nil {
		return nil, rn.fail(err)
	}

	tracks, err := r.enrich(rn, result.Tracks, creds)
	if err != nil {
		return nil, rn.fail(err)
	}

	seeds := result.Seeds
	if len(seeds) > 0 {
		seeds = []models.Seed{models.NewSeed(id, len(tracks))}
	}

	rn.enter(Done, fmt.Sprintf("%d tracks", len(tracks)))
	return &models.Recommendations{Seeds: seeds, Tracks: tracks}, nil
}

func (r *Resolver) playlist(rn *run, id string) (models.PlaylistTracks, error) {
	token, err := r.tokens.Token(rn.ctx)
	if err != nil {
		return models.PlaylistTracks{}, err
	}
	rn.enter(TokenAcquired, "")

	resp, err := r.partner.Playlist(rn.ctx, token.AccessToken, id)
	if err != nil {
		return models.PlaylistTracks{}, err
	}
	rn.enter(UpstreamCalled, "")

	result := transform.Playlist(resp)
	rn.enter(Transformed, fmt.Sprintf("%d tracks", result.Total))
	return result, nil
}

func (r *Resolver) recommendations(rn *run, id string, limit int) (models.Recommendations, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	token, err := r.tokens.Token(rn.ctx)
	if err != nil {
		return models.Recommendations{}, err
	}
	rn.enter(TokenAcquired, "")

	resp, err := r.partner.Recommendations(rn.ctx, token.AccessToken, id, limit)
	if err != nil {
		return models.Recommendations{}, err
	}
	rn.enter(UpstreamCalled, "")

	result := transform.Recommendations(resp, id)
	rn.enter(Transformed, fmt.Sprintf("%d tracks", len(result.Tracks)))
	return result, nil
}

func (r *Resolver) enrich(rn *run, stubs []models.Track, creds models.Credentials) ([]models.Track, error) {
	token, err := r.credentials.Token(rn.ctx, creds)
	if err != nil {
		return nil, err
	}

	tracks, err := r.enricher.Enrich(rn.ctx, stubs, token.AccessToken)
	if err != nil {
		return nil, err
	}
	rn.enter(Enriched, fmt.Sprintf("%d tracks", len(tracks)))
	return tracks, nil
}
