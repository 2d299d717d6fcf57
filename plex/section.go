package plex

import (
	"encoding/json"
	"slices"
)

// DirectoryType is the content kind of a library section.
type DirectoryType string

const (
	DirectoryTypeMovie  DirectoryType = "movie"
	DirectoryTypeArtist DirectoryType = "artist"
	DirectoryTypeShow   DirectoryType = "show"
)

var directoryTypes = []DirectoryType{DirectoryTypeMovie, DirectoryTypeArtist, DirectoryTypeShow}

func (t *DirectoryType) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum("DirectoryType", data, directoryTypes)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ViewGroup is the presentation hint of a LibrarySection.
type ViewGroup string

const (
	ViewGroupAlbum     ViewGroup = "album"
	ViewGroupSecondary ViewGroup = "secondary"
	ViewGroupArtist    ViewGroup = "artist"
	ViewGroupMovie     ViewGroup = "movie"
	ViewGroupShow      ViewGroup = "show"
	ViewGroupTrack     ViewGroup = "track"
	ViewGroupEpisode   ViewGroup = "episode"
	ViewGroupAlbums    ViewGroup = "albums"
)

var viewGroups = []ViewGroup{
	ViewGroupAlbum, ViewGroupSecondary, ViewGroupArtist, ViewGroupMovie,
	ViewGroupShow, ViewGroupTrack, ViewGroupEpisode, ViewGroupAlbums,
}

func (g *ViewGroup) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum("ViewGroup", data, viewGroups)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// decodeEnum decodes a string enumeration; null decodes to the zero value
func decodeEnum[T ~string](family string, data []byte, allowed []T) (T, error) {
	if kindOf(data) == kindNull {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", &DecodeError{Family: family, Err: err}
	}
	if !slices.Contains(allowed, T(s)) {
		return "", &DecodeError{Family: family, Value: s, Err: ErrUnknownValue}
	}
	return T(s), nil
}

// Location is a filesystem root of a library section.
type Location struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// LibrarySections is the root listing of library sections.
type LibrarySections struct {
	Size            int64       `json:"size"`
	AllowSync       bool        `json:"allowSync"`
	Identifier      string      `json:"identifier"`
	MediaTagPrefix  string      `json:"mediaTagPrefix"`
	MediaTagVersion int64       `json:"mediaTagVersion"`
	Title1          string      `json:"title1"`
	Directories     []Directory `json:"Directory"`
}

// Paging describes a partial listing. It is present only when the server
// reports both totalSize and offset.
type Paging struct {
	TotalSize uint64 `json:"totalSize"`
	Offset    uint64 `json:"offset"`
}

var pagingShape = shapeOf(Paging{})

// LibrarySection is the expanded content of one section or node.
type LibrarySection struct {
	Size                int64       `json:"size"`
	Paging              *Paging     `json:"-"`
	AllowSync           bool        `json:"allowSync"`
	Art                 string      `json:"art,omitempty"`
	Content             string      `json:"content,omitempty"`
	Identifier          string      `json:"identifier"`
	LibrarySectionID    int64       `json:"librarySectionID,omitempty"`
	LibrarySectionTitle string      `json:"librarySectionTitle,omitempty"`
	LibrarySectionUUID  string      `json:"librarySectionUUID,omitempty"`
	MediaTagPrefix      string      `json:"mediaTagPrefix"`
	MediaTagVersion     uint64      `json:"mediaTagVersion"`
	NoCache             *bool       `json:"nocache,omitempty"`
	Thumb               string      `json:"thumb,omitempty"`
	Title               string      `json:"title1"`
	Secondary           string      `json:"title2,omitempty"`
	ViewGroup           ViewGroup   `json:"viewGroup,omitempty"`
	ViewMode            uint64      `json:"viewMode,omitempty"`
	MixedParents        bool        `json:"mixedParents,omitempty"`
	Directory           []Directory `json:"Directory,omitempty"`
	Metadata            []Metadatum `json:"Metadata,omitempty"`
}

func (s *LibrarySection) UnmarshalJSON(data []byte) error {
	type plain LibrarySection

	fields, err := objectFields("LibrarySection", data)
	if err != nil {
		return err
	}

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return asDecodeError("LibrarySection", err)
	}

	if pagingShape.satisfiedBy(fields) {
		p.Paging = &Paging{}
		if err := json.Unmarshal(data, p.Paging); err != nil {
			return asDecodeError("LibrarySection", err)
		}
	}

	*s = LibrarySection(p)
	return nil
}

func (s LibrarySection) MarshalJSON() ([]byte, error) {
	type plain LibrarySection
	return mergeObjects(plain(s), s.Paging)
}
