// Package tasks resolves playlists and recommendations from the partner API
// into the public track schema.
//
// # Operations
//
// [Resolver] implements [PlaylistResolver] and [RecommendationResolver]:
//
//  1. [Resolver.FetchPlaylist] and [Resolver.FetchRecommendations]
//     - Acquire the cached anonymous token
//     - Run the persisted query and transform the response
//
//  2. [Resolver.FetchPlaylistFull] and [Resolver.FetchRecommendationsFull]
//     - Require caller credentials before any network call
//     - Exchange them for a public API token
//     - Replace each stub with its public API record via [Enricher]
//
// # Stages
//
// Each operation moves through [Start], [TokenAcquired], [UpstreamCalled],
// [Transformed], optionally [Enriched], and [Done]. Any failure is returned
// as a [ResolveError] naming the last stage reached; the cause stays
// reachable with errors.Is and errors.As.
//
// Transitions are logged at debug level. A channel attached with
// [WithProgress] also receives them as [ProgressUpdate] values. Sends use
// select with default so reporting never blocks a request.
//
// # Enrichment
//
// [Enricher] splits ids into batches of [services.MaxTracksPerRequest] and
// fetches all batches concurrently. One failed batch fails the whole
// enrichment with [shared.EnrichmentError].
package tasks
