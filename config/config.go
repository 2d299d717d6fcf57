package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/s0up4200/plexwalk/plex"
)

// EnvPrefix prefixes every environment override, e.g. PLEXWALK_PLEX_TOKEN.
const EnvPrefix = "PLEXWALK"

// flagKeys binds command-line flags to configuration keys
var flagKeys = map[string]string{
	"url":   "plex.url",
	"token": "plex.token",
}

// Load loads the configuration from file, .env, environment and flags.
// Later sources win. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".plexwalk"))
		}
		v.AddConfigPath("/etc/plexwalk/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path must exist, a searched one may not
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of an optional .env file.
// Variables already set in the environment are kept.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// keys without a default are invisible to AutomaticEnv during Unmarshal
	v.SetDefault("plex.url", "")
	v.SetDefault("plex.token", "")
	v.SetDefault("plex.timeout", 30*time.Second)

	v.SetDefault("walk.levels", 3)
	v.SetDefault("walk.concurrency", 1)
	v.SetDefault("walk.separator", "/")

	v.SetDefault("server.min_version", "")
	v.SetDefault("update.repository", "s0up4200/plexwalk")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Plex.URL == "" {
		return fmt.Errorf("plex.url is required")
	}
	if cfg.Plex.Token == "" || cfg.Plex.Token == "your-plex-token" {
		return fmt.Errorf("plex.token must be set to a valid token")
	}
	if cfg.Plex.Timeout <= 0 {
		return fmt.Errorf("plex.timeout must be positive, got %s", cfg.Plex.Timeout)
	}

	if cfg.Walk.Levels < 1 {
		return fmt.Errorf("walk.levels must be at least 1, got %d", cfg.Walk.Levels)
	}
	if cfg.Walk.Concurrency < 1 {
		return fmt.Errorf("walk.concurrency must be at least 1, got %d", cfg.Walk.Concurrency)
	}
	if cfg.Walk.Separator == "" {
		return fmt.Errorf("walk.separator must not be empty")
	}

	if cfg.Server.MinVersion != "" {
		if _, err := plex.ParseVersion(cfg.Server.MinVersion); err != nil {
			return fmt.Errorf("invalid server.min_version %q: %w", cfg.Server.MinVersion, err)
		}
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter %q has an empty expression", name)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
