package models

import (
	"fmt"
	"time"
)

const (
	WebAPIBaseURL = "https://api.spotify.com/v1"
	OpenBaseURL   = "https://open.spotify.com"
)

// Entity types used in URIs and derived links.
const (
	TypeTrack    = "track"
	TypeAlbum    = "album"
	TypeArtist   = "artist"
	TypePlaylist = "playlist"
)

// ExternalURLs holds links to the vendor's web player.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Image is album artwork. Dimensions are unknown for some sources.
type Image struct {
	URL    string `json:"url"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
}

// Artist is the public artist schema.
type Artist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// Album is the public album schema.
type Album struct {
	AlbumType            string       `json:"album_type"`
	Artists              []Artist     `json:"artists"`
	AvailableMarkets     []string     `json:"available_markets"`
	ExternalURLs         ExternalURLs `json:"external_urls"`
	Href                 string       `json:"href"`
	ID                   string       `json:"id"`
	Images               []Image      `json:"images"`
	Name                 string       `json:"name"`
	ReleaseDate          *string      `json:"release_date"`
	ReleaseDatePrecision *string      `json:"release_date_precision"`
	TotalTracks          *int         `json:"total_tracks"`
	Type                 string       `json:"type"`
	URI                  string       `json:"uri"`
}

// Track is the public track schema. A Track produced from the internal API is
// a stub until it has been replaced by the public API record.
type Track struct {
	Album            Album             `json:"album"`
	Artists          []Artist          `json:"artists"`
	AvailableMarkets []string          `json:"available_markets"`
	DiscNumber       int               `json:"disc_number"`
	DurationMS       int               `json:"duration_ms"`
	Explicit         bool              `json:"explicit"`
	ExternalIDs      map[string]string `json:"external_ids"`
	ExternalURLs     ExternalURLs      `json:"external_urls"`
	Href             string            `json:"href"`
	ID               string            `json:"id"`
	IsLocal          bool              `json:"is_local"`
	IsPlayable       bool              `json:"is_playable"`
	Name             string            `json:"name"`
	Popularity       *int              `json:"popularity"`
	PreviewURL       *string           `json:"preview_url"`
	TrackNumber      int               `json:"track_number"`
	Type             string            `json:"type"`
	URI              string            `json:"uri"`
}

// Seed describes the track a recommendation set was generated from.
//
// Pool sizes are derived from the returned track count.
type Seed struct {
	AfterFilteringSize int    `json:"afterFilteringSize"`
	AfterRelinkingSize int    `json:"afterRelinkingSize"`
	Href               string `json:"href"`
	ID                 string `json:"id"`
	InitialPoolSize    int    `json:"initialPoolSize"`
	Type               string `json:"type"`
}

// PlaylistTracks is the playlist response. Total always equals len(Tracks).
type PlaylistTracks struct {
	Tracks []Track `json:"tracks"`
	Total  int     `json:"total"`
}

// Recommendations is the recommendation response.
type Recommendations struct {
	Seeds  []Seed  `json:"seeds"`
	Tracks []Track `json:"tracks"`
}

// Token is a bearer token with its expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// ValidAt reports whether the token can still be used at now, keeping margin
// free before expiry.
func (t Token) ValidAt(now time.Time, margin time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-margin))
}

// Credentials is a caller-supplied client id/secret pair.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Complete reports whether both halves of the pair are present.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// APIHref returns the public API link for an entity.
func APIHref(kind, id string) string {
	return fmt.Sprintf("%s/%ss/%s", WebAPIBaseURL, kind, id)
}

// OpenURL returns the web player link for an entity.
func OpenURL(kind, id string) ExternalURLs {
	return ExternalURLs{Spotify: fmt.Sprintf("%s/%s/%s", OpenBaseURL, kind, id)}
}

// URI builds a vendor URI of the form spotify:<kind>:<id>.
func URI(kind, id string) string {
	return fmt.Sprintf("spotify:%s:%s", kind, id)
}

// NewSeed builds the single seed for a recommendation set of size n.
func NewSeed(trackID string, n int) Seed {
	return Seed{
		AfterFilteringSize: n,
		AfterRelinkingSize: n,
		Href:               APIHref(TypeTrack, trackID),
		ID:                 trackID,
		InitialPoolSize:    n,
		Type:               TypeTrack,
	}
}
