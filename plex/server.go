package plex

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// ServerInfo is the root descriptor returned by the server's base URL.
type ServerInfo struct {
	Size                          int64           `json:"size"`
	AllowSync                     bool            `json:"allowSync"`
	FriendlyName                  string          `json:"friendlyName"`
	MachineIdentifier             string          `json:"machineIdentifier"`
	Version                       string          `json:"version"`
	Platform                      string          `json:"platform"`
	PlatformVersion               string          `json:"platformVersion"`
	MyPlex                        bool            `json:"myPlex"`
	MyPlexUsername                string          `json:"myPlexUsername,omitempty"`
	TranscoderActiveVideoSessions int64           `json:"transcoderActiveVideoSessions"`
	UpdatedAt                     int64           `json:"updatedAt"`
	Features                      []ServerFeature `json:"Directory,omitempty"`
}

// ServerFeature is an endpoint advertised by the server root.
type ServerFeature struct {
	Count int64  `json:"count"`
	Key   string `json:"key"`
	Title string `json:"title"`
}

// SemVer parses the server version. Plex versions carry four numeric
// components and a build hash (1.40.1.8227-c0dd5a73e); only the first three
// are kept.
func (s *ServerInfo) SemVer() (semver.Version, error) {
	return ParseVersion(s.Version)
}

// AtLeast reports whether the server version is greater than or equal to min.
func (s *ServerInfo) AtLeast(min string) (bool, error) {
	have, err := s.SemVer()
	if err != nil {
		return false, err
	}
	want, err := ParseVersion(min)
	if err != nil {
		return false, err
	}
	return have.GTE(want), nil
}

// ParseVersion parses a Plex version string. Components after the third and
// any build suffix are dropped, so "1.40.1.8227-c0dd5a73e" becomes 1.40.1.
// Short forms such as "1.32" or "v1.40" are accepted.
func ParseVersion(v string) (semver.Version, error) {
	core := v
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}

	parsed, err := semver.ParseTolerant(strings.Join(parts, "."))
	if err != nil {
		return semver.Version{}, fmt.Errorf("parse server version %q: %w", v, err)
	}
	return parsed, nil
}
