package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const ClientTokenURL = "https://accounts.spotify.com/api/token"

// ClientCredentialsProvider exchanges per-request client credentials for a
// public API token. It holds no token state.
type ClientCredentialsProvider struct {
	tokenURL   string
	httpClient *http.Client
}

// NewClientCredentialsProvider creates a provider posting to tokenURL,
// defaulting to [ClientTokenURL].
func NewClientCredentialsProvider(tokenURL string, client *http.Client) *ClientCredentialsProvider {
	if tokenURL == "" {
		tokenURL = ClientTokenURL
	}
	return &ClientCredentialsProvider{tokenURL: tokenURL, httpClient: orDefaultClient(client)}
}

// Token performs one client-credentials exchange: HTTP Basic auth with the
// pair and a form body of grant_type=client_credentials.
func (p *ClientCredentialsProvider) Token(ctx context.Context, creds models.Credentials) (models.Token, error) {
	if !creds.Complete() {
		return models.Token{}, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     p.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := config.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return models.Token{}, &shared.UpstreamAuthError{
				Endpoint:   p.tokenURL,
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				Err:        err,
			}
		}
		return models.Token{}, &shared.UpstreamAuthError{Endpoint: p.tokenURL, Err: err}
	}

	return models.Token{AccessToken: token.AccessToken, ExpiresAt: token.Expiry}, nil
}
