package plex

import (
	"encoding/json"
	"fmt"
)

// DirectoryKind names the variant a Directory holds.
type DirectoryKind string

const (
	DirectorySearch  DirectoryKind = "search"
	DirectoryFolder  DirectoryKind = "folder"
	DirectorySection DirectoryKind = "section"
	DirectoryGenre   DirectoryKind = "genre"
)

// DirectoryMatchOrder is the order in which Directory variants are tried
// against an object. A variant is viable when its required fields are
// present and the object decodes into it. Among viable variants, one whose
// required fields strictly contain another's takes precedence over it.
// Next, one whose known fields cover a strict superset of another's present
// fields wins. Remaining ties go to the earlier entry here.
var DirectoryMatchOrder = []DirectoryKind{
	DirectorySearch,
	DirectoryFolder,
	DirectorySection,
	DirectoryGenre,
}

// SearchDirectory is a search prompt entry.
type SearchDirectory struct {
	Prompt string `json:"prompt"`
	Search bool   `json:"search"`
	Key    string `json:"key"`
	Title  string `json:"title"`
}

// FolderDirectory is a plain navigable folder or filter.
type FolderDirectory struct {
	Key       string  `json:"key"`
	Title     string  `json:"title"`
	Secondary bool    `json:"secondary,omitempty"`
	Size      *uint64 `json:"size,omitempty"`
}

// SectionDirectory describes a library section.
type SectionDirectory struct {
	AllowSync        bool          `json:"allowSync"`
	Art              string        `json:"art"`
	Composite        string        `json:"composite"`
	Filters          bool          `json:"filters"`
	Refreshing       bool          `json:"refreshing"`
	Thumb            string        `json:"thumb"`
	Key              string        `json:"key"`
	Type             DirectoryType `json:"type"`
	Title            string        `json:"title"`
	Agent            string        `json:"agent"`
	Scanner          string        `json:"scanner"`
	Language         string        `json:"language"`
	UUID             string        `json:"uuid"`
	UpdatedAt        *uint64       `json:"updatedAt,omitempty"`
	CreatedAt        uint64        `json:"createdAt"`
	Content          bool          `json:"content"`
	Directory        bool          `json:"directory"`
	ContentChangedAt uint64        `json:"contentChangedAt"`
	Hidden           int64         `json:"hidden"`
	Location         []Location    `json:"Location"`
	ScannedAt        *uint64       `json:"scannedAt,omitempty"`
}

// GenreDirectory is a genre or decade entry.
type GenreDirectory struct {
	FastKey string `json:"fastKey"`
	Key     string `json:"key"`
	Title   string `json:"title"`
	Type    string `json:"type,omitempty"`
	Thumb   string `json:"thumb,omitempty"`
}

var directoryShapes = map[DirectoryKind]*shape{
	DirectorySearch:  shapeOf(SearchDirectory{}),
	DirectoryFolder:  shapeOf(FolderDirectory{}),
	DirectorySection: shapeOf(SectionDirectory{}),
	DirectoryGenre:   shapeOf(GenreDirectory{}),
}

// Directory is a navigable child node. Exactly one of the variant fields is
// set, matching Kind.
type Directory struct {
	Kind    DirectoryKind
	Search  *SearchDirectory
	Folder  *FolderDirectory
	Section *SectionDirectory
	Genre   *GenreDirectory
}

// Key returns the key of the active variant.
func (d Directory) Key() string {
	switch d.Kind {
	case DirectorySearch:
		return d.Search.Key
	case DirectoryFolder:
		return d.Folder.Key
	case DirectorySection:
		return d.Section.Key
	case DirectoryGenre:
		return d.Genre.Key
	}
	return ""
}

// Title returns the title of the active variant.
func (d Directory) Title() string {
	switch d.Kind {
	case DirectorySearch:
		return d.Search.Title
	case DirectoryFolder:
		return d.Folder.Title
	case DirectorySection:
		return d.Section.Title
	case DirectoryGenre:
		return d.Genre.Title
	}
	return ""
}

func (d *Directory) UnmarshalJSON(data []byte) error {
	fields, err := objectFields("Directory", data)
	if err != nil {
		return err
	}

	var candidates []directoryCandidate
	for _, kind := range DirectoryMatchOrder {
		s := directoryShapes[kind]
		if !s.satisfiedBy(fields) {
			continue
		}

		dir, err := decodeDirectory(kind, data)
		if err != nil {
			continue
		}
		candidates = append(candidates, directoryCandidate{
			dir:      dir,
			required: s.requiredSet(),
			covers:   s.coverage(fields),
		})
	}

	candidates = mostSpecific(candidates, func(c directoryCandidate) map[string]bool { return c.required })
	candidates = mostSpecific(candidates, func(c directoryCandidate) map[string]bool { return c.covers })
	if len(candidates) > 0 {
		*d = candidates[0].dir
		return nil
	}

	return &DecodeError{Family: "Directory", Fields: fieldNames(fields), Err: ErrNoVariant}
}

type directoryCandidate struct {
	dir      Directory
	required map[string]bool
	covers   map[string]bool
}

// mostSpecific drops every candidate whose field set is a strict subset of
// another candidate's, keeping the input order of the rest
func mostSpecific(candidates []directoryCandidate, set func(directoryCandidate) map[string]bool) []directoryCandidate {
	var out []directoryCandidate
next:
	for _, c := range candidates {
		for _, other := range candidates {
			if strictSuperset(set(other), set(c)) {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

func decodeDirectory(kind DirectoryKind, data []byte) (Directory, error) {
	d := Directory{Kind: kind}
	var err error
	switch kind {
	case DirectorySearch:
		d.Search = &SearchDirectory{}
		err = json.Unmarshal(data, d.Search)
	case DirectoryFolder:
		d.Folder = &FolderDirectory{}
		err = json.Unmarshal(data, d.Folder)
	case DirectorySection:
		d.Section = &SectionDirectory{}
		err = json.Unmarshal(data, d.Section)
	case DirectoryGenre:
		d.Genre = &GenreDirectory{}
		err = json.Unmarshal(data, d.Genre)
	default:
		err = fmt.Errorf("unknown directory kind %q", kind)
	}
	return d, err
}

func (d Directory) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DirectorySearch:
		return json.Marshal(d.Search)
	case DirectoryFolder:
		return json.Marshal(d.Folder)
	case DirectorySection:
		return json.Marshal(d.Section)
	case DirectoryGenre:
		return json.Marshal(d.Genre)
	}
	return nil, fmt.Errorf("plex: directory has no variant set (kind %q)", d.Kind)
}
