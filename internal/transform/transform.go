package transform

import (
	"slices"

	"github.com/desertthunder/solify/internal/models"
)

const (
	trackTypeName = "Track"
	explicitNone  = "NONE"
	albumType     = "album"
)

// Release date precision reported for albums of each source. The internal
// API never returns a release date, so the value only mirrors what each
// endpoint historically emitted.
const (
	playlistPrecision       = "day"
	recommendationPrecision = "year"
)

// Playlist reshapes a fetchPlaylist response into the public schema.
func Playlist(resp *models.PartnerPlaylistResponse) models.PlaylistTracks {
	items, ok := FirstOf(playlistItems(resp))
	if !ok {
		return models.PlaylistTracks{Tracks: []models.Track{}, Total: 0}
	}

	tracks := collect(items, playlistTrack, playlistPrecision)
	return models.PlaylistTracks{Tracks: tracks, Total: len(tracks)}
}

// Recommendations reshapes a recommender response into the public schema,
// synthesizing a single seed for seedTrackID.
func Recommendations(resp *models.PartnerRecommendationsResponse, seedTrackID string) models.Recommendations {
	items, ok := FirstOf(
		internalLinkItems(resp),
		seoRecommendedItems(resp),
	)
	if !ok {
		return models.Recommendations{Seeds: []models.Seed{}, Tracks: []models.Track{}}
	}

	tracks := collect(items, recommendationTrack, recommendationPrecision)
	return models.Recommendations{
		Seeds:  []models.Seed{models.NewSeed(seedTrackID, len(tracks))},
		Tracks: tracks,
	}
}

func playlistItems(resp *models.PartnerPlaylistResponse) Lookup[[]models.PartnerPlaylistItem] {
	return func() ([]models.PartnerPlaylistItem, bool) {
		if resp == nil || resp.Data == nil || resp.Data.PlaylistV2 == nil || resp.Data.PlaylistV2.Content == nil {
			return nil, false
		}
		items := resp.Data.PlaylistV2.Content.Items
		return items, items != nil
	}
}

func internalLinkItems(resp *models.PartnerRecommendationsResponse) Lookup[[]models.PartnerRecommendationItem] {
	return func() ([]models.PartnerRecommendationItem, bool) {
		if resp == nil || resp.Data == nil || resp.Data.InternalLinkRecommenderTrack == nil {
			return nil, false
		}
		items := resp.Data.InternalLinkRecommenderTrack.Items
		return items, items != nil
	}
}

func seoRecommendedItems(resp *models.PartnerRecommendationsResponse) Lookup[[]models.PartnerRecommendationItem] {
	return func() ([]models.PartnerRecommendationItem, bool) {
		if resp == nil || resp.Data == nil || resp.Data.SeoRecommendedTrack == nil {
			return nil, false
		}
		items := resp.Data.SeoRecommendedTrack.Items
		return items, items != nil
	}
}

func playlistTrack(item models.PartnerPlaylistItem) (*models.PartnerTrack, bool) {
	return FirstOf(
		present(func() *models.PartnerTrack {
			if item.ItemV2 == nil {
				return nil
			}
			return item.ItemV2.Data
		}),
	)
}

func recommendationTrack(item models.PartnerRecommendationItem) (*models.PartnerTrack, bool) {
	return FirstOf(
		present(func() *models.PartnerTrack {
			if item.Content == nil {
				return nil
			}
			return item.Content.Data
		}),
		present(func() *models.PartnerTrack { return item.Data }),
	)
}

// collect locates the track payload of every item, drops non-tracks and
// builds public tracks in item order.
func collect[I any](items []I, locate func(I) (*models.PartnerTrack, bool), precision string) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		data, ok := locate(item)
		if !ok || data.TypeName != trackTypeName {
			continue
		}
		tracks = append(tracks, buildTrack(data, precision))
	}
	return tracks
}

func buildTrack(t *models.PartnerTrack, precision string) models.Track {
	uri := stringOr(t.URI, "")
	id := IDFromURI(uri)
	artists := buildArtists(t.Artists)

	var duration *int
	if t.TrackDuration != nil {
		duration = t.TrackDuration.TotalMilliseconds
	}

	var playable *bool
	if t.Playability != nil {
		playable = t.Playability.Playable
	}

	return models.Track{
		Album:            buildAlbum(t.AlbumOfTrack, slices.Clone(artists), precision),
		Artists:          artists,
		AvailableMarkets: []string{},
		DiscNumber:       intOr(t.DiscNumber, 0),
		DurationMS:       intOr(duration, 0),
		Explicit:         isExplicit(t.ContentRating),
		ExternalIDs:      map[string]string{},
		ExternalURLs:     models.OpenURL(models.TypeTrack, id),
		Href:             models.APIHref(models.TypeTrack, id),
		ID:               id,
		IsLocal:          false,
		IsPlayable:       boolOr(playable, false),
		Name:             stringOr(t.Name, ""),
		Popularity:       nil,
		PreviewURL:       nil,
		TrackNumber:      intOr(t.TrackNumber, 0),
		Type:             models.TypeTrack,
		URI:              uri,
	}
}

// isExplicit treats every label other than the literal "NONE", including a
// missing one, as explicit.
func isExplicit(rating *models.PartnerContentRating) bool {
	if rating == nil || rating.Label == nil {
		return true
	}
	return *rating.Label != explicitNone
}

func buildAlbum(a *models.PartnerAlbum, artists []models.Artist, precision string) models.Album {
	if a == nil {
		a = &models.PartnerAlbum{}
	}
	uri := stringOr(a.URI, "")
	id := IDFromURI(uri)

	images := []models.Image{}
	if a.CoverArt != nil {
		for _, src := range a.CoverArt.Sources {
			images = append(images, models.Image{
				URL:    stringOr(src.URL, ""),
				Width:  cloneInt(src.Width),
				Height: cloneInt(src.Height),
			})
		}
	}

	return models.Album{
		AlbumType:            albumType,
		Artists:              artists,
		AvailableMarkets:     []string{},
		ExternalURLs:         models.OpenURL(models.TypeAlbum, id),
		Href:                 models.APIHref(models.TypeAlbum, id),
		ID:                   id,
		Images:               images,
		Name:                 stringOr(a.Name, ""),
		ReleaseDate:          nil,
		ReleaseDatePrecision: &precision,
		TotalTracks:          nil,
		Type:                 models.TypeAlbum,
		URI:                  uri,
	}
}

func buildArtists(list *models.PartnerArtists) []models.Artist {
	if list == nil {
		return []models.Artist{}
	}
	artists := make([]models.Artist, 0, len(list.Items))
	for _, a := range list.Items {
		uri := stringOr(a.URI, "")
		id := IDFromURI(uri)
		name := ""
		if a.Profile != nil {
			name = stringOr(a.Profile.Name, "")
		}
		artists = append(artists, models.Artist{
			ExternalURLs: models.OpenURL(models.TypeArtist, id),
			Href:         models.APIHref(models.TypeArtist, id),
			ID:           id,
			Name:         name,
			Type:         models.TypeArtist,
			URI:          uri,
		})
	}
	return artists
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
