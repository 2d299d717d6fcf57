package plex

import "encoding/json"

// Media is one playable encoding of a leaf record. Audio and Video are
// optional facets flattened into the same JSON object; each is set when all
// of its required fields are present.
type Media struct {
	ID              uint64      `json:"id"`
	Duration        uint64      `json:"duration,omitempty"`
	Bitrate         uint64      `json:"bitrate,omitempty"`
	Container       string      `json:"container,omitempty"`
	Has64bitOffsets *bool       `json:"has64bitOffsets,omitempty"`
	Parts           []Part      `json:"Part"`
	Audio           *AudioMedia `json:"-"`
	Video           *VideoMedia `json:"-"`
}

// AudioMedia holds the audio attributes of a Media.
type AudioMedia struct {
	AudioChannels uint64 `json:"audioChannels"`
	AudioCodec    string `json:"audioCodec"`
	AudioProfile  string `json:"audioProfile,omitempty"`
}

// VideoMedia holds the video attributes of a Media.
type VideoMedia struct {
	Width                 uint64  `json:"width"`
	Height                uint64  `json:"height"`
	AspectRatio           float64 `json:"aspectRatio,omitempty"`
	VideoCodec            string  `json:"videoCodec"`
	VideoResolution       string  `json:"videoResolution"`
	VideoFrameRate        string  `json:"videoFrameRate"`
	VideoProfile          string  `json:"videoProfile"`
	OptimizedForStreaming uint64  `json:"optimizedForStreaming,omitempty"`
	DisplayOffset         *int64  `json:"displayOffset,omitempty"`
}

// Part is a file backing a Media.
type Part struct {
	ID                    uint64 `json:"id"`
	Key                   string `json:"key"`
	Duration              uint64 `json:"duration,omitempty"`
	File                  string `json:"file"`
	Size                  uint64 `json:"size"`
	Container             string `json:"container,omitempty"`
	AudioProfile          string `json:"audioProfile,omitempty"`
	VideoProfile          string `json:"videoProfile,omitempty"`
	HasThumbnail          string `json:"hasThumbnail,omitempty"`
	HasChapterVideoStream bool   `json:"hasChapterVideoStream,omitempty"`
	Has64bitOffsets       *bool  `json:"has64bitOffsets,omitempty"`
	OptimizedForStreaming bool   `json:"optimizedForStreaming,omitempty"`
	PacketLength          uint64 `json:"packetLength,omitempty"`
}

var (
	mediaShape = shapeOf(Media{})
	audioShape = shapeOf(AudioMedia{})
	videoShape = shapeOf(VideoMedia{})
	partShape  = shapeOf(Part{})
)

func (m *Media) UnmarshalJSON(data []byte) error {
	type plain Media

	fields, err := objectFields("Media", data)
	if err != nil {
		return err
	}
	if missing := mediaShape.missing(fields); len(missing) > 0 {
		return &DecodeError{Family: "Media", Fields: missing, Err: ErrMissingFields}
	}

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return asDecodeError("Media", err)
	}

	if audioShape.satisfiedBy(fields) {
		p.Audio = &AudioMedia{}
		if err := json.Unmarshal(data, p.Audio); err != nil {
			return asDecodeError("Media", err)
		}
	}
	if videoShape.satisfiedBy(fields) {
		p.Video = &VideoMedia{}
		if err := json.Unmarshal(data, p.Video); err != nil {
			return asDecodeError("Media", err)
		}
	}

	*m = Media(p)
	return nil
}

func (m Media) MarshalJSON() ([]byte, error) {
	type plain Media
	return mergeObjects(plain(m), m.Audio, m.Video)
}

func (p *Part) UnmarshalJSON(data []byte) error {
	type plain Part

	var out plain
	if err := decodeRequired("Part", partShape, data, &out); err != nil {
		return asDecodeError("Part", err)
	}
	*p = Part(out)
	return nil
}
