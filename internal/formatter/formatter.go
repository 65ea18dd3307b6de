// package formatter renders resolved track listings as JSON, CSV or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/solify/internal/models"
	"github.com/desertthunder/solify/internal/shared"
)

// Format is an output format name.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatJSON, FormatText, FormatCSV}

// ParseFormat validates a format name; "" means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText, "text":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q (use json, txt or csv)", shared.ErrInvalidArgument, s)
	}
}

// Listing is a resolved result ready for rendering. Value is encoded as is for
// JSON; Tracks drive the CSV and text renderings.
type Listing struct {
	Title  string
	Value  any
	Tracks []models.Track
}

// Render encodes listing in the given format.
func Render(listing Listing, format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := shared.MarshalJSON(listing.Value, pretty)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCSV:
		return ExportToCSV(listing.Tracks)
	case FormatText:
		return ExportToText(listing.Title, listing.Tracks)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// Write renders listing to w.
func Write(w io.Writer, listing Listing, format Format, pretty bool) error {
	data, err := Render(listing, format, pretty)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile renders listing to path.
func WriteFile(path string, listing Listing, format Format, pretty bool) error {
	data, err := Render(listing, format, pretty)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExportToCSV converts tracks to CSV with columns: ID, Name, Artists, Album, Duration, Explicit, ISRC, Popularity
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Album", "Duration", "Explicit", "ISRC", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		popularity := ""
		if track.Popularity != nil {
			popularity = strconv.Itoa(*track.Popularity)
		}
		record := []string{
			track.ID,
			track.Name,
			artistNames(track.Artists),
			track.Album.Name,
			FormatDuration(track.DurationMS),
			strconv.FormatBool(track.Explicit),
			track.ExternalIDs["isrc"],
			popularity,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to a numbered plain text listing
func ExportToText(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		fmt.Fprintf(&buf, "%s\n", title)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))

	for i, track := range tracks {
		explicit := ""
		if track.Explicit {
			explicit = " [E]"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s (%s)\n", i+1, artistNames(track.Artists), track.Name, explicit, FormatDuration(track.DurationMS))
	}

	return buf.Bytes(), nil
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func artistNames(artists []models.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
