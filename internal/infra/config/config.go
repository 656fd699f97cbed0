// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/osa030/19queue/internal/domain/track"
)

// Config represents the application configuration.
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Playlist PlaylistConfig `yaml:"playlist"`
	Log      LogConfig      `yaml:"log"`
}

// PlaybackConfig represents queue generation settings.
type PlaybackConfig struct {
	Shuffle bool   `yaml:"shuffle"`
	Loop    bool   `yaml:"loop"`
	Seed    uint64 `yaml:"seed"` // 0 means randomly seeded
}

// PlaylistConfig represents the initial playlist.
type PlaylistConfig struct {
	Name   string           `yaml:"name" default:"Playlist" validate:"required"`
	Tracks []map[string]any `yaml:"tracks"`
}

// LogConfig represents logger configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stderr"`
}

// TrackConfig represents a single track entry of the initial playlist.
type TrackConfig struct {
	ID       string        `mapstructure:"id"`
	Name     string        `mapstructure:"name" validate:"required"`
	Artists  []string      `mapstructure:"artists"`
	Duration time.Duration `mapstructure:"duration" validate:"gte=0"`
}

// Default returns a configuration with only default values set.
func Default() *Config {
	var cfg Config
	// defaults.Set only fails on malformed tags
	_ = defaults.Set(&cfg)
	return &cfg
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for playback settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// LoadOrDefault loads configuration from a YAML file.
// When the file does not exist, defaults are used; environment overrides
// apply either way.
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse parses configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() error {
	if v := os.Getenv("PLAYLIST_SHUFFLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "invalid PLAYLIST_SHUFFLE")
		}
		c.Playback.Shuffle = b
	}
	if v := os.Getenv("PLAYLIST_LOOP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "invalid PLAYLIST_LOOP")
		}
		c.Playback.Loop = b
	}
	if v := os.Getenv("PLAYLIST_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid PLAYLIST_SEED")
		}
		c.Playback.Seed = n
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	// Track entries are free-form maps; decode them to catch bad entries early
	if _, err := c.trackConfigs(); err != nil {
		return err
	}

	return nil
}

// Tracks decodes the configured track entries.
// Entries without an ID get a random UUID.
func (c *Config) Tracks() ([]track.Track, error) {
	configs, err := c.trackConfigs()
	if err != nil {
		return nil, err
	}

	tracks := make([]track.Track, 0, len(configs))
	for _, tc := range configs {
		if tc.ID == "" {
			tc.ID = uuid.New().String()
		}
		tracks = append(tracks, track.Track{
			ID:       tc.ID,
			Name:     tc.Name,
			Artists:  tc.Artists,
			Duration: tc.Duration,
		})
	}

	return tracks, nil
}

// trackConfigs decodes and validates the track entries as written.
func (c *Config) trackConfigs() ([]TrackConfig, error) {
	validate := validator.New()
	configs := make([]TrackConfig, 0, len(c.Playlist.Tracks))

	for i, settings := range c.Playlist.Tracks {
		var tc TrackConfig
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
			Result:      &tc,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create decoder")
		}
		if err := decoder.Decode(settings); err != nil {
			return nil, errors.Wrapf(err, "failed to decode track (index %d)", i)
		}
		if err := validate.Struct(tc); err != nil {
			return nil, errors.Wrapf(err, "invalid track (index %d)", i)
		}
		configs = append(configs, tc)
	}

	return configs, nil
}
