// Package models defines the data shapes exchanged by the resolver.
//
// The package contains two categories of types:
//
// 1. Public schema: the stable, flat response format returned to callers
//   - [Track] : Track with denormalized [Album] and ordered [Artist] list
//   - [PlaylistTracks] : Playlist track listing
//   - [Recommendations] : Recommended tracks plus a single [Seed]
//
// 2. Partner wire shapes: the nested, GraphQL-shaped payloads returned by the
// internal persisted-query API. Every field is optional because the vendor
// varies response shapes between query variants.
//   - [PartnerPlaylistResponse]
//   - [PartnerRecommendationsResponse]
//
// Link fields (href, external_urls) are derived from ids with [APIHref] and
// [OpenURL]. Fields the internal API cannot know are pointers so they
// serialize as explicit null instead of fabricated zero values.
package models
