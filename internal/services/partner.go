package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
)

const PartnerQueryURL = "https://api-partner.spotify.com/pathfinder/v2/query"

const (
	playlistOperation        = "fetchPlaylist"
	playlistQueryHash        = "bb67e0af06e8d6f52b531f97468ee4acd44cd0f82b988e15c2ea47b1148efc77"
	recommendationsOperation = "internalLinkRecommenderTrack"
	recommendationsQueryHash = "c77098ee9d6ee8ad3eb844938722db60570d040b49f41f5ec6e7be9160a7c86b"
)

type playlistVariables struct {
	URI                       string `json:"uri"`
	EnableWatchFeedEntrypoint bool   `json:"enableWatchFeedEntrypoint"`
}

type recommendationsVariables struct {
	URI   string `json:"uri"`
	Limit int    `json:"limit"`
}

// PartnerService sends persisted queries to the internal graph API.
type PartnerService struct {
	baseURL    string
	httpClient *http.Client
}

// NewPartnerService creates a client for baseURL, defaulting to [PartnerQueryURL].
func NewPartnerService(baseURL string, client *http.Client) *PartnerService {
	if baseURL == "" {
		baseURL = PartnerQueryURL
	}
	return &PartnerService{baseURL: baseURL, httpClient: orDefaultClient(client)}
}

// Playlist runs fetchPlaylist for the playlist id.
func (s *PartnerService) Playlist(ctx context.Context, token, playlistID string) (*models.PartnerPlaylistResponse, error) {
	var resp models.PartnerPlaylistResponse
	vars := playlistVariables{URI: models.URI(models.TypePlaylist, playlistID)}
	if err := s.query(ctx, token, playlistOperation, playlistQueryHash, vars, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Recommendations runs internalLinkRecommenderTrack for the seed track id.
func (s *PartnerService) Recommendations(ctx context.Context, token, trackID string, limit int) (*models.PartnerRecommendationsResponse, error) {
	var resp models.PartnerRecommendationsResponse
	vars := recommendationsVariables{URI: models.URI(models.TypeTrack, trackID), Limit: limit}
	if err := s.query(ctx, token, recommendationsOperation, recommendationsQueryHash, vars, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *PartnerService) query(ctx context.Context, token, operation, hash string, vars, out any) error {
	payload, err := json.Marshal(models.PartnerQuery{
		Variables:     vars,
		OperationName: operation,
		Extensions: models.PartnerExtensions{
			PersistedQuery: models.PersistedQuery{Version: 1, Sha256Hash: hash},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s query: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return &shared.UpstreamAPIError{Endpoint: s.baseURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := doRequest(s.httpClient, req, s.baseURL, token)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &shared.UpstreamAPIError{Endpoint: s.baseURL, Err: fmt.Errorf("failed to decode %s response: %w", operation, err)}
	}
	return nil
}
