package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
)

// MaxTracksPerRequest is the public API's limit on ids per tracks call.
const MaxTracksPerRequest = 50

// WebAPIService is a client for the public REST API.
type WebAPIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewWebAPIService creates a client rooted at baseURL, defaulting to [models.WebAPIBaseURL].
func NewWebAPIService(baseURL string, client *http.Client) *WebAPIService {
	if baseURL == "" {
		baseURL = models.WebAPIBaseURL
	}
	return &WebAPIService{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: orDefaultClient(client)}
}

// SeveralTracks fetches up to [MaxTracksPerRequest] tracks in one call.
// The result is positionally aligned with ids; unknown ids come back nil.
func (s *WebAPIService) SeveralTracks(ctx context.Context, token string, ids []string) ([]*models.Track, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one track id is required", shared.ErrInvalidArgument)
	}
	if len(ids) > MaxTracksPerRequest {
		return nil, fmt.Errorf("%w: %d track ids exceeds limit of %d", shared.ErrInvalidArgument, len(ids), MaxTracksPerRequest)
	}

	endpoint := s.baseURL + "/tracks"
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &shared.UpstreamAPIError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	body, err := doRequest(s.httpClient, req, endpoint, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tracks []*models.Track `json:"tracks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &shared.UpstreamAPIError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode tracks response: %w", err)}
	}
	return resp.Tracks, nil
}
