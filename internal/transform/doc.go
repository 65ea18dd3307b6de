// Package transform maps internal-API payloads onto the public track schema.
//
// # Shape Variance
//
// The internal API returns different shapes for different persisted queries.
// Every field that varies is read through an ordered chain of [Lookup]
// strategies, tried in priority order with [FirstOf]. A chain that finds
// nothing yields "absent", never an error:
//   - recommendation collection: internalLinkRecommenderTrack, then seoRecommendedTrack
//   - recommendation item: content.data, then data
//   - playlist item: itemV2.data
//
// Items whose __typename is not "Track" (episodes, local placeholders) are
// dropped. A missing collection yields an empty result.
//
// # Identity
//
// Ids are the third colon-delimited segment of a vendor URI, see [IDFromURI].
// A malformed URI yields an empty id.
//
// All functions are pure: the same payload always produces the same output.
package transform
