package filter

import (
	"time"

	"github.com/s0up4200/plexwalk/plex"
)

// Record is the flattened view of a leaf record that filter expressions see.
type Record struct {
	Type      string
	Title     string
	Key       string
	RatingKey string
	Year      int
	Summary   string
	Genres    []string
	Directors []string
	AddedAt   time.Time
	Duration  time.Duration
	ViewCount int
	// Library is the section title, or the compound key the record was found under.
	Library string
}

// FromMetadatum flattens a section leaf record.
func FromMetadatum(m plex.Metadatum, library string) Record {
	c := m.Common()
	return Record{
		Type:      string(m.Type),
		Title:     c.Title,
		Key:       c.Key,
		RatingKey: c.RatingKey,
		Year:      int(c.Year),
		Summary:   c.Summary,
		Genres:    tagNames(c.Genres),
		Directors: tagNames(c.Directors),
		AddedAt:   unixTime(int64(c.AddedAt)),
		Duration:  time.Duration(c.Duration) * time.Millisecond,
		ViewCount: int(c.ViewCount),
		Library:   library,
	}
}

// FromSearchResult flattens a search hit.
func FromSearchResult(r plex.SearchResult) Record {
	return Record{
		Type:      r.Type,
		Title:     r.Title,
		Key:       r.Key,
		RatingKey: r.RatingKey,
		Year:      int(r.Year),
		Summary:   r.Summary,
		Genres:    tagNames(r.Genre),
		Directors: tagNames(r.Director),
		AddedAt:   unixTime(r.AddedAt),
		Library:   r.LibrarySectionTitle,
	}
}

func tagNames(tags []plex.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Tag
	}
	return names
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
