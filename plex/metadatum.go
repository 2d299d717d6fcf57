package plex

import (
	"encoding/json"
	"fmt"
)

// MetadatumType is the discriminant carried in a Metadatum's type field.
type MetadatumType string

const (
	MetadatumArtist  MetadatumType = "artist"
	MetadatumAlbum   MetadatumType = "album"
	MetadatumTrack   MetadatumType = "track"
	MetadatumEpisode MetadatumType = "episode"
	MetadatumMovie   MetadatumType = "movie"
	MetadatumShow    MetadatumType = "show"
	MetadatumFolder  MetadatumType = "folder"
)

// Tag is a named label such as a genre, director or country.
type Tag struct {
	Tag string `json:"tag"`
}

// ArtistMetadatum is a music artist.
type ArtistMetadatum struct {
	RatingKey    string `json:"ratingKey"`
	Key          string `json:"key"`
	GUID         string `json:"guid"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	Index        uint64 `json:"index"`
	Thumb        string `json:"thumb,omitempty"`
	Art          string `json:"art,omitempty"`
	AddedAt      uint64 `json:"addedAt"`
	UpdatedAt    uint64 `json:"updatedAt,omitempty"`
	LastViewedAt uint64 `json:"lastViewedAt,omitempty"`
	Genre        []Tag  `json:"Genre,omitempty"`
	Country      []Tag  `json:"Country,omitempty"`
	TitleSort    string `json:"titleSort,omitempty"`
	ViewCount    uint64 `json:"viewCount,omitempty"`
}

// AlbumMetadatum is a music album.
type AlbumMetadatum struct {
	AllowSync               bool   `json:"allowSync,omitempty"`
	LibrarySectionID        int64  `json:"librarySectionID,omitempty"`
	LibrarySectionTitle     string `json:"librarySectionTitle,omitempty"`
	LibrarySectionUUID      string `json:"librarySectionUUID,omitempty"`
	RatingKey               string `json:"ratingKey"`
	Key                     string `json:"key"`
	ParentKey               string `json:"parentKey"`
	ParentRatingKey         string `json:"parentRatingKey"`
	GUID                    string `json:"guid"`
	ParentGUID              string `json:"parentGuid"`
	Title                   string `json:"title"`
	ParentTitle             string `json:"parentTitle"`
	Summary                 string `json:"summary"`
	Index                   uint64 `json:"index"`
	Thumb                   string `json:"thumb,omitempty"`
	ParentThumb             string `json:"parentThumb,omitempty"`
	AddedAt                 uint64 `json:"addedAt"`
	UpdatedAt               uint64 `json:"updatedAt,omitempty"`
	LastViewedAt            uint64 `json:"lastViewedAt,omitempty"`
	OriginallyAvailableAt   string `json:"originallyAvailableAt,omitempty"`
	Genre                   []Tag  `json:"Genre,omitempty"`
	Director                []Tag  `json:"Director,omitempty"`
	Collection              []Tag  `json:"Collection,omitempty"`
	TitleSort               string `json:"titleSort,omitempty"`
	Art                     string `json:"art,omitempty"`
	ViewCount               uint64 `json:"viewCount,omitempty"`
	Studio                  string `json:"studio,omitempty"`
	Year                    uint64 `json:"year,omitempty"`
	LeafCount               uint64 `json:"leafCount,omitempty"`
	ViewedLeafCount         uint64 `json:"viewedLeafCount,omitempty"`
	LoudnessAnalysisVersion string `json:"loudnessAnalysisVersion,omitempty"`
}

// TrackMetadatum is a music track.
type TrackMetadatum struct {
	RatingKey            string  `json:"ratingKey"`
	Key                  string  `json:"key"`
	ParentRatingKey      string  `json:"parentRatingKey"`
	GrandparentRatingKey string  `json:"grandparentRatingKey"`
	GUID                 string  `json:"guid"`
	ParentGUID           string  `json:"parentGuid"`
	GrandparentGUID      string  `json:"grandparentGuid"`
	Title                string  `json:"title"`
	TitleSort            string  `json:"titleSort,omitempty"`
	GrandparentKey       string  `json:"grandparentKey"`
	ParentKey            string  `json:"parentKey"`
	GrandparentTitle     string  `json:"grandparentTitle"`
	ParentTitle          string  `json:"parentTitle"`
	OriginalTitle        string  `json:"originalTitle,omitempty"`
	Summary              string  `json:"summary"`
	Index                *uint64 `json:"index,omitempty"`
	ParentIndex          uint64  `json:"parentIndex"`
	Thumb                string  `json:"thumb,omitempty"`
	Art                  string  `json:"art,omitempty"`
	ParentThumb          string  `json:"parentThumb,omitempty"`
	ParentArt            string  `json:"parentArt,omitempty"`
	GrandparentThumb     string  `json:"grandparentThumb,omitempty"`
	GrandparentArt       string  `json:"grandparentArt,omitempty"`
	Duration             uint64  `json:"duration,omitempty"`
	AddedAt              uint64  `json:"addedAt"`
	UpdatedAt            uint64  `json:"updatedAt"`
	ViewCount            uint64  `json:"viewCount,omitempty"`
	LastViewedAt         uint64  `json:"lastViewedAt,omitempty"`
	Media                []Media `json:"Media,omitempty"`
}

// EpisodeMetadatum is a television episode.
type EpisodeMetadatum struct {
	RatingKey             string  `json:"ratingKey"`
	Key                   string  `json:"key"`
	ParentRatingKey       string  `json:"parentRatingKey"`
	GrandparentRatingKey  string  `json:"grandparentRatingKey"`
	GUID                  string  `json:"guid"`
	ParentGUID            string  `json:"parentGuid"`
	GrandparentGUID       string  `json:"grandparentGuid"`
	Title                 string  `json:"title"`
	TitleSort             string  `json:"titleSort,omitempty"`
	GrandparentKey        string  `json:"grandparentKey"`
	ParentKey             string  `json:"parentKey"`
	GrandparentTitle      string  `json:"grandparentTitle"`
	ParentTitle           string  `json:"parentTitle"`
	OriginalTitle         string  `json:"originalTitle,omitempty"`
	ContentRating         string  `json:"contentRating,omitempty"`
	Summary               string  `json:"summary"`
	Index                 *uint64 `json:"index,omitempty"`
	ParentIndex           uint64  `json:"parentIndex"`
	Thumb                 string  `json:"thumb,omitempty"`
	Art                   string  `json:"art,omitempty"`
	ParentThumb           string  `json:"parentThumb,omitempty"`
	ParentArt             string  `json:"parentArt,omitempty"`
	GrandparentThumb      string  `json:"grandparentThumb,omitempty"`
	GrandparentArt        string  `json:"grandparentArt,omitempty"`
	GrandparentTheme      string  `json:"grandparentTheme,omitempty"`
	Duration              uint64  `json:"duration,omitempty"`
	Rating                float64 `json:"rating,omitempty"`
	Year                  uint64  `json:"year,omitempty"`
	OriginallyAvailableAt string  `json:"originallyAvailableAt,omitempty"`
	AddedAt               uint64  `json:"addedAt"`
	UpdatedAt             uint64  `json:"updatedAt"`
	ChapterSource         string  `json:"chapterSource,omitempty"`
	ViewCount             uint64  `json:"viewCount,omitempty"`
	LastViewedAt          uint64  `json:"lastViewedAt,omitempty"`
	Media                 []Media `json:"Media,omitempty"`
	Writer                []Tag   `json:"Writer,omitempty"`
}

// MovieMetadatum is a film.
type MovieMetadatum struct {
	RatingKey             string  `json:"ratingKey"`
	Key                   string  `json:"key"`
	GUID                  string  `json:"guid"`
	Studio                string  `json:"studio,omitempty"`
	Title                 string  `json:"title"`
	TitleSort             string  `json:"titleSort,omitempty"`
	OriginalTitle         string  `json:"originalTitle,omitempty"`
	ContentRating         string  `json:"contentRating,omitempty"`
	Summary               string  `json:"summary"`
	Rating                float64 `json:"rating,omitempty"`
	AudienceRating        float64 `json:"audienceRating,omitempty"`
	Year                  uint64  `json:"year"`
	Tagline               string  `json:"tagline,omitempty"`
	Thumb                 string  `json:"thumb,omitempty"`
	Art                   string  `json:"art,omitempty"`
	Duration              uint64  `json:"duration,omitempty"`
	OriginallyAvailableAt string  `json:"originallyAvailableAt,omitempty"`
	AddedAt               uint64  `json:"addedAt"`
	UpdatedAt             uint64  `json:"updatedAt,omitempty"`
	AudienceRatingImage   string  `json:"audienceRatingImage,omitempty"`
	PrimaryExtraKey       string  `json:"primaryExtraKey,omitempty"`
	RatingImage           string  `json:"ratingImage,omitempty"`
	ChapterSource         string  `json:"chapterSource,omitempty"`
	Media                 []Media `json:"Media,omitempty"`
	Genre                 []Tag   `json:"Genre,omitempty"`
	Director              []Tag   `json:"Director,omitempty"`
	Writer                []Tag   `json:"Writer,omitempty"`
	Country               []Tag   `json:"Country,omitempty"`
	Collection            []Tag   `json:"Collection,omitempty"`
	Role                  []Tag   `json:"Role,omitempty"`
	ViewCount             uint64  `json:"viewCount,omitempty"`
}

// ShowMetadatum is a television series.
type ShowMetadatum struct {
	RatingKey             string  `json:"ratingKey"`
	Key                   string  `json:"key"`
	GUID                  string  `json:"guid"`
	Studio                string  `json:"studio,omitempty"`
	Title                 string  `json:"title"`
	TitleSort             string  `json:"titleSort,omitempty"`
	OriginalTitle         string  `json:"originalTitle,omitempty"`
	ContentRating         string  `json:"contentRating,omitempty"`
	Summary               string  `json:"summary"`
	Index                 uint64  `json:"index"`
	Rating                float64 `json:"rating,omitempty"`
	AudienceRating        float64 `json:"audienceRating,omitempty"`
	Year                  uint64  `json:"year,omitempty"`
	Thumb                 string  `json:"thumb,omitempty"`
	Art                   string  `json:"art,omitempty"`
	Banner                string  `json:"banner,omitempty"`
	Theme                 string  `json:"theme,omitempty"`
	Duration              uint64  `json:"duration,omitempty"`
	OriginallyAvailableAt string  `json:"originallyAvailableAt,omitempty"`
	LeafCount             uint64  `json:"leafCount"`
	ViewedLeafCount       uint64  `json:"viewedLeafCount"`
	ChildCount            uint64  `json:"childCount"`
	AddedAt               uint64  `json:"addedAt"`
	UpdatedAt             uint64  `json:"updatedAt,omitempty"`
	AudienceRatingImage   string  `json:"audienceRatingImage,omitempty"`
	PrimaryExtraKey       string  `json:"primaryExtraKey,omitempty"`
	RatingImage           string  `json:"ratingImage,omitempty"`
	Genre                 []Tag   `json:"Genre,omitempty"`
	Role                  []Tag   `json:"Role,omitempty"`
}

var metadatumShapes = map[MetadatumType]*shape{
	MetadatumArtist:  shapeOf(ArtistMetadatum{}),
	MetadatumAlbum:   shapeOf(AlbumMetadatum{}),
	MetadatumTrack:   shapeOf(TrackMetadatum{}),
	MetadatumEpisode: shapeOf(EpisodeMetadatum{}),
	MetadatumMovie:   shapeOf(MovieMetadatum{}),
	MetadatumShow:    shapeOf(ShowMetadatum{}),
}

// Metadatum is a leaf content record. Type selects the variant; exactly
// the matching pointer is set, except for folder which has no payload.
type Metadatum struct {
	Type    MetadatumType
	Artist  *ArtistMetadatum
	Album   *AlbumMetadatum
	Track   *TrackMetadatum
	Episode *EpisodeMetadatum
	Movie   *MovieMetadatum
	Show    *ShowMetadatum
}

// Common holds the attributes most variants share. Fields a variant does not
// carry are left zero.
type Common struct {
	RatingKey string
	Key       string
	GUID      string
	Title     string
	Summary   string
	Year      uint64
	AddedAt   uint64
	Duration  uint64
	ViewCount uint64
	Genres    []Tag
	Directors []Tag
}

// Common returns the shared attributes of the active variant.
func (m Metadatum) Common() Common {
	switch {
	case m.Artist != nil:
		a := m.Artist
		return Common{RatingKey: a.RatingKey, Key: a.Key, GUID: a.GUID, Title: a.Title, Summary: a.Summary,
			AddedAt: a.AddedAt, ViewCount: a.ViewCount, Genres: a.Genre}
	case m.Album != nil:
		a := m.Album
		return Common{RatingKey: a.RatingKey, Key: a.Key, GUID: a.GUID, Title: a.Title, Summary: a.Summary,
			Year: a.Year, AddedAt: a.AddedAt, ViewCount: a.ViewCount, Genres: a.Genre, Directors: a.Director}
	case m.Track != nil:
		t := m.Track
		return Common{RatingKey: t.RatingKey, Key: t.Key, GUID: t.GUID, Title: t.Title, Summary: t.Summary,
			AddedAt: t.AddedAt, Duration: t.Duration, ViewCount: t.ViewCount}
	case m.Episode != nil:
		e := m.Episode
		return Common{RatingKey: e.RatingKey, Key: e.Key, GUID: e.GUID, Title: e.Title, Summary: e.Summary,
			Year: e.Year, AddedAt: e.AddedAt, Duration: e.Duration, ViewCount: e.ViewCount}
	case m.Movie != nil:
		mv := m.Movie
		return Common{RatingKey: mv.RatingKey, Key: mv.Key, GUID: mv.GUID, Title: mv.Title, Summary: mv.Summary,
			Year: mv.Year, AddedAt: mv.AddedAt, Duration: mv.Duration, ViewCount: mv.ViewCount,
			Genres: mv.Genre, Directors: mv.Director}
	case m.Show != nil:
		s := m.Show
		return Common{RatingKey: s.RatingKey, Key: s.Key, GUID: s.GUID, Title: s.Title, Summary: s.Summary,
			Year: s.Year, AddedAt: s.AddedAt, Duration: s.Duration, Genres: s.Genre}
	}
	return Common{}
}

// Key returns the record's key, or "" for a folder.
func (m Metadatum) Key() string { return m.Common().Key }

// Title returns the record's title, or "" for a folder.
func (m Metadatum) Title() string { return m.Common().Title }

// RatingKey returns the record's rating key, or "" for a folder.
func (m Metadatum) RatingKey() string { return m.Common().RatingKey }

// Media returns the playable media of tracks, episodes and movies.
func (m Metadatum) Media() []Media {
	switch {
	case m.Track != nil:
		return m.Track.Media
	case m.Episode != nil:
		return m.Episode.Media
	case m.Movie != nil:
		return m.Movie.Media
	}
	return nil
}

func (m *Metadatum) UnmarshalJSON(data []byte) error {
	fields, err := objectFields("Metadatum", data)
	if err != nil {
		return err
	}

	raw, ok := fields["type"]
	if !ok || kindOf(raw) == kindNull {
		return &DecodeError{Family: "Metadatum", Fields: fieldNames(fields), Err: ErrMissingTag}
	}

	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return &DecodeError{Family: "Metadatum", Value: string(raw), Err: ErrUnknownTag}
	}

	out := Metadatum{Type: MetadatumType(tag)}
	var target any
	switch out.Type {
	case MetadatumArtist:
		out.Artist = &ArtistMetadatum{}
		target = out.Artist
	case MetadatumAlbum:
		out.Album = &AlbumMetadatum{}
		target = out.Album
	case MetadatumTrack:
		out.Track = &TrackMetadatum{}
		target = out.Track
	case MetadatumEpisode:
		out.Episode = &EpisodeMetadatum{}
		target = out.Episode
	case MetadatumMovie:
		out.Movie = &MovieMetadatum{}
		target = out.Movie
	case MetadatumShow:
		out.Show = &ShowMetadatum{}
		target = out.Show
	case MetadatumFolder:
		*m = out
		return nil
	default:
		return &DecodeError{Family: "Metadatum", Value: tag, Err: ErrUnknownTag}
	}

	if missing := metadatumShapes[out.Type].missing(fields); len(missing) > 0 {
		return &DecodeError{Family: "Metadatum", Value: tag, Fields: missing, Err: ErrMissingFields}
	}
	if err := json.Unmarshal(data, target); err != nil {
		de := asDecodeError("Metadatum", err)
		if de.Family == "Metadatum" {
			de.Value = tag
		}
		return de
	}

	*m = out
	return nil
}

func (m Metadatum) MarshalJSON() ([]byte, error) {
	tag := map[string]MetadatumType{"type": m.Type}

	var payload any
	switch m.Type {
	case MetadatumArtist:
		payload = m.Artist
	case MetadatumAlbum:
		payload = m.Album
	case MetadatumTrack:
		payload = m.Track
	case MetadatumEpisode:
		payload = m.Episode
	case MetadatumMovie:
		payload = m.Movie
	case MetadatumShow:
		payload = m.Show
	case MetadatumFolder:
		return json.Marshal(tag)
	default:
		return nil, fmt.Errorf("plex: unknown metadatum type %q", m.Type)
	}
	return mergeObjects(tag, payload)
}
