// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Response builds an [http.Response] with the given status and body.
func Response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// Clock is a settable time source for code that takes a func() time.Time.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// PartnerTrackJSON renders an internal-API track payload. An empty label
// omits contentRating entirely.
func PartnerTrackJSON(id, name, label string) string {
	rating := ""
	if label != "" {
		rating = fmt.Sprintf(`"contentRating": {"label": %q},`, label)
	}
	return fmt.Sprintf(`{
		"__typename": "Track",
		"uri": "spotify:track:%[1]s",
		"name": %[2]q,
		%[3]s
		"discNumber": 1,
		"trackNumber": 3,
		"trackDuration": {"totalMilliseconds": 215000},
		"playability": {"playable": true},
		"albumOfTrack": {
			"uri": "spotify:album:album%[1]s",
			"name": "Album %[2]s",
			"coverArt": {"sources": [
				{"url": "https://i.scdn.co/image/large", "width": 640, "height": 640},
				{"url": "https://i.scdn.co/image/small"}
			]}
		},
		"artists": {"items": [
			{"uri": "spotify:artist:artist%[1]s", "profile": {"name": "Artist %[2]s"}}
		]}
	}`, id, name, rating)
}

// PartnerEpisodeJSON renders a non-track item payload.
func PartnerEpisodeJSON(id string) string {
	return fmt.Sprintf(`{"__typename": "Episode", "uri": "spotify:episode:%s", "name": "An Episode"}`, id)
}

// PartnerPlaylistJSON wraps payloads as playlistV2.content.items[].itemV2.data.
func PartnerPlaylistJSON(payloads ...string) string {
	items := make([]string, len(payloads))
	for i, p := range payloads {
		items[i] = fmt.Sprintf(`{"itemV2": {"data": %s}}`, p)
	}
	return fmt.Sprintf(`{"data": {"playlistV2": {"content": {"items": [%s]}}}}`, strings.Join(items, ","))
}

// PartnerRecommendationsJSON wraps payloads under the given collection field
// (internalLinkRecommenderTrack or seoRecommendedTrack). Items are wrapped as
// { content: { data } } unless flat is set, in which case they are { data }.
func PartnerRecommendationsJSON(field string, flat bool, payloads ...string) string {
	items := make([]string, len(payloads))
	for i, p := range payloads {
		if flat {
			items[i] = fmt.Sprintf(`{"data": %s}`, p)
		} else {
			items[i] = fmt.Sprintf(`{"content": {"data": %s}}`, p)
		}
	}
	return fmt.Sprintf(`{"data": {%q: {"items": [%s]}}}`, field, strings.Join(items, ","))
}

// WebAPITrackJSON renders a public API track record.
func WebAPITrackJSON(id string, popularity int) string {
	return fmt.Sprintf(`{
		"id": %[1]q,
		"uri": "spotify:track:%[1]s",
		"name": "Full %[1]s",
		"popularity": %[2]d,
		"preview_url": null,
		"duration_ms": 200000,
		"explicit": false,
		"is_local": false,
		"disc_number": 1,
		"track_number": 1,
		"type": "track",
		"available_markets": ["US", "DE"],
		"external_ids": {"isrc": "USRC1%[1]s"},
		"external_urls": {"spotify": "https://open.spotify.com/track/%[1]s"},
		"href": "https://api.spotify.com/v1/tracks/%[1]s",
		"album": {
			"id": "album%[1]s",
			"name": "Full Album",
			"album_type": "album",
			"release_date": "2020-01-01",
			"release_date_precision": "day",
			"total_tracks": 10,
			"images": [],
			"artists": [],
			"type": "album",
			"uri": "spotify:album:album%[1]s"
		},
		"artists": []
	}`, id, popularity)
}
