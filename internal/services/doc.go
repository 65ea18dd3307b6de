// Package services implements the upstream clients the resolver depends on.
//
// # Token Sources
//
// [TokenCache] holds the process-wide anonymous bearer token. It returns the
// cached token until it enters its trailing safety margin ([TokenSafetyMargin]),
// then fetches a new one through an [AnonymousTokenFetcher] such as
// [TokenEndpoint]. The clock and fetcher are injected so freshness can be
// tested without sleeping. Concurrent refreshes are not serialized: every
// refresh yields an interchangeable anonymous token and the last write wins.
//
// [ClientCredentialsProvider] exchanges a caller's client id/secret for a
// public API token on every call using the OAuth2 client-credentials grant
// ([clientcredentials.Config]). Tokens are never cached because credentials
// differ per caller.
//
// # Upstream APIs
//
// [PartnerService] posts persisted queries to the internal graph API and
// decodes the raw nested payload into [models.PartnerPlaylistResponse] or
// [models.PartnerRecommendationsResponse].
//
// [WebAPIService] fetches authoritative track records from the public REST API
// in requests of at most [MaxTracksPerRequest] ids.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client id or secret absent
//   - [shared.UpstreamAuthError] : token endpoint unreachable or rejected the request
//   - [shared.UpstreamAPIError] : graph or REST call failed, with status and body
//
// No call is retried.
package services
