package plex

// SearchResults is the payload of a search query.
type SearchResults struct {
	Size            int64          `json:"size"`
	Identifier      string         `json:"identifier"`
	MediaTagPrefix  string         `json:"mediaTagPrefix"`
	MediaTagVersion int64          `json:"mediaTagVersion"`
	Results         []SearchResult `json:"Metadata"`
	Providers       []Provider     `json:"Provider"`
}

// SearchResult is a single search hit. Unlike Metadatum it is not split by
// type; Type carries the raw discriminant.
type SearchResult struct {
	AllowSync             bool   `json:"allowSync"`
	LibrarySectionID      int64  `json:"librarySectionID"`
	LibrarySectionTitle   string `json:"librarySectionTitle"`
	LibrarySectionUUID    string `json:"librarySectionUUID"`
	Personal              bool   `json:"personal"`
	SourceTitle           string `json:"sourceTitle"`
	RatingKey             string `json:"ratingKey"`
	Key                   string `json:"key"`
	ParentRatingKey       string `json:"parentRatingKey"`
	GUID                  string `json:"guid"`
	ParentGUID            string `json:"parentGuid"`
	Studio                string `json:"studio"`
	Type                  string `json:"type"`
	Title                 string `json:"title"`
	ParentKey             string `json:"parentKey"`
	ParentTitle           string `json:"parentTitle"`
	Summary               string `json:"summary"`
	Index                 int64  `json:"index"`
	Year                  int64  `json:"year"`
	Thumb                 string `json:"thumb"`
	Art                   string `json:"art"`
	ParentThumb           string `json:"parentThumb"`
	OriginallyAvailableAt string `json:"originallyAvailableAt"`
	AddedAt               int64  `json:"addedAt"`
	UpdatedAt             int64  `json:"updatedAt"`
	Genre                 []Tag  `json:"Genre"`
	Director              []Tag  `json:"Director"`
	TitleSort             string `json:"titleSort,omitempty"`
}

// Provider is an additional search source offered by the server.
type Provider struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}
