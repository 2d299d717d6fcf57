package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Plex    PlexConfig    `mapstructure:"plex"`
	Walk    WalkConfig    `mapstructure:"walk"`
	Server  ServerConfig  `mapstructure:"server"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Update  UpdateConfig  `mapstructure:"update"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlexConfig holds the media server connection details
type PlexConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WalkConfig controls the breadth-first traversal
type WalkConfig struct {
	Levels      int    `mapstructure:"levels"`
	Concurrency int    `mapstructure:"concurrency"`
	Separator   string `mapstructure:"separator"`
}

// ServerConfig holds checks made against the server descriptor
type ServerConfig struct {
	// MinVersion is compared with the reported server version when set.
	MinVersion string `mapstructure:"min_version"`
}

// FilterConfig maps preset names to filter expressions
type FilterConfig map[string]string

// UpdateConfig configures self-update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
