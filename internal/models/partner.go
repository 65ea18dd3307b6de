// Partner (internal persisted-query API) response shapes.
//
// Pointers mark presence: a nil wrapper means the vendor omitted it.
package models

// PartnerQuery is the persisted-query request envelope.
type PartnerQuery struct {
	Variables     any               `json:"variables"`
	OperationName string            `json:"operationName"`
	Extensions    PartnerExtensions `json:"extensions"`
}

type PartnerExtensions struct {
	PersistedQuery PersistedQuery `json:"persistedQuery"`
}

type PersistedQuery struct {
	Version    int    `json:"version"`
	Sha256Hash string `json:"sha256Hash"`
}

type PartnerImage struct {
	URL    *string `json:"url"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

type PartnerProfile struct {
	Name *string `json:"name"`
}

type PartnerArtist struct {
	URI     *string         `json:"uri"`
	Profile *PartnerProfile `json:"profile"`
}

type PartnerCoverArt struct {
	Sources []PartnerImage `json:"sources"`
}

type PartnerAlbum struct {
	URI      *string          `json:"uri"`
	Name     *string          `json:"name"`
	CoverArt *PartnerCoverArt `json:"coverArt"`
}

type PartnerContentRating struct {
	Label *string `json:"label"`
}

type PartnerDuration struct {
	TotalMilliseconds *int `json:"totalMilliseconds"`
}

type PartnerPlayability struct {
	Playable *bool `json:"playable"`
}

type PartnerArtists struct {
	Items []PartnerArtist `json:"items"`
}

// PartnerTrack is the track payload shared by playlist and recommendation items.
type PartnerTrack struct {
	TypeName      string                `json:"__typename"`
	URI           *string               `json:"uri"`
	Name          *string               `json:"name"`
	AlbumOfTrack  *PartnerAlbum         `json:"albumOfTrack"`
	Artists       *PartnerArtists       `json:"artists"`
	DiscNumber    *int                  `json:"discNumber"`
	TrackNumber   *int                  `json:"trackNumber"`
	TrackDuration *PartnerDuration      `json:"trackDuration"`
	ContentRating *PartnerContentRating `json:"contentRating"`
	Playability   *PartnerPlayability   `json:"playability"`
}

// PartnerData wraps a track payload as { data: ... }.
type PartnerData struct {
	Data *PartnerTrack `json:"data"`
}

// PartnerPlaylistItem is one playlist entry; the track lives under itemV2.data.
type PartnerPlaylistItem struct {
	ItemV2 *PartnerData `json:"itemV2"`
}

type PartnerPlaylistContent struct {
	Items []PartnerPlaylistItem `json:"items"`
}

type PartnerPlaylist struct {
	Content *PartnerPlaylistContent `json:"content"`
}

// PartnerPlaylistResponse is the fetchPlaylist response body.
type PartnerPlaylistResponse struct {
	Data *PartnerPlaylistData `json:"data"`
}

type PartnerPlaylistData struct {
	PlaylistV2 *PartnerPlaylist `json:"playlistV2"`
}

// PartnerRecommendationItem is wrapped either as { content: { data } } or as
// { data } depending on the persisted query.
type PartnerRecommendationItem struct {
	Content *PartnerData  `json:"content"`
	Data    *PartnerTrack `json:"data"`
}

type PartnerRecommendationList struct {
	Items []PartnerRecommendationItem `json:"items"`
}

// PartnerRecommendationsResponse is the recommender response body. Items live
// under internalLinkRecommenderTrack or, for some queries, seoRecommendedTrack.
type PartnerRecommendationsResponse struct {
	Data *PartnerRecommendationsData `json:"data"`
}

type PartnerRecommendationsData struct {
	InternalLinkRecommenderTrack *PartnerRecommendationList `json:"internalLinkRecommenderTrack"`
	SeoRecommendedTrack          *PartnerRecommendationList `json:"seoRecommendedTrack"`
}
