// package services defines the upstream clients for the partner and public APIs
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
)

// TokenSource provides the shared anonymous bearer token.
type TokenSource interface {
	Token(ctx context.Context) (models.Token, error)
}

// CredentialsTokenSource exchanges caller credentials for a public API token.
type CredentialsTokenSource interface {
	Token(ctx context.Context, creds models.Credentials) (models.Token, error)
}

// PartnerAPI queries the internal graph API.
type PartnerAPI interface {
	Playlist(ctx context.Context, token, playlistID string) (*models.PartnerPlaylistResponse, error)
	Recommendations(ctx context.Context, token, trackID string, limit int) (*models.PartnerRecommendationsResponse, error)
}

// TrackFetcher fetches authoritative track records by id. Entries for ids the
// API does not know are nil.
type TrackFetcher interface {
	SeveralTracks(ctx context.Context, token string, ids []string) ([]*models.Track, error)
}

var (
	_ TokenSource            = (*TokenCache)(nil)
	_ CredentialsTokenSource = (*ClientCredentialsProvider)(nil)
	_ PartnerAPI             = (*PartnerService)(nil)
	_ TrackFetcher           = (*WebAPIService)(nil)
)

// doRequest executes req with a bearer token and returns the response body.
//
// Any non-2xx status is reported as [shared.UpstreamAPIError] carrying the status and body.
func doRequest(client *http.Client, req *http.Request, endpoint, token string) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &shared.UpstreamAPIError{Endpoint: endpoint, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &shared.UpstreamAPIError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &shared.UpstreamAPIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func orDefaultClient(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}
