// Package config loads wordtower settings from a TOML or YAML file with
// environment overrides.
//
// Every section has working defaults, so a missing config file is not an
// error. The token is usually supplied through WORDTOWER_TOKEN rather than
// written to disk.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wordtower/pkg/builder"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
)

// AppName names the XDG subdirectories.
const AppName = "wordtower"

// Environment overrides.
const (
	EnvToken   = "WORDTOWER_TOKEN"
	EnvBaseURL = "WORDTOWER_BASE_URL"
)

// DefaultBaseURL is the public test server of the game.
const DefaultBaseURL = "https://games-test.datsteam.dev"

// Config is the full settings tree.
type Config struct {
	API     APIConfig     `toml:"api" yaml:"api"`
	Builder BuilderConfig `toml:"builder" yaml:"builder"`
	Play    PlayConfig    `toml:"play" yaml:"play"`
	Journal JournalConfig `toml:"journal" yaml:"journal"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// APIConfig locates the game service.
type APIConfig struct {
	BaseURL string        `toml:"base_url" yaml:"base_url"`
	Token   string        `toml:"token" yaml:"token"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
	Retries int           `toml:"retries" yaml:"retries"`
}

// BuilderConfig holds the builder options and the vertical convention.
type BuilderConfig struct {
	builder.Options `yaml:",inline"`

	VerticalStep int `toml:"vertical_step" yaml:"vertical_step"`
}

// Convention returns the configured vertical convention.
func (b BuilderConfig) Convention() geom.Convention {
	return geom.Convention{VerticalStep: b.VerticalStep}.OrDefault()
}

// PlayConfig drives the game loop.
type PlayConfig struct {
	// SendRequests submits built towers. When false the loop only builds
	// and scores locally.
	SendRequests bool `toml:"send_requests" yaml:"send_requests"`

	// WordsFile, if set, replaces the words endpoint with a local file.
	WordsFile string `toml:"words_file" yaml:"words_file"`

	Interval     time.Duration `toml:"interval" yaml:"interval"`
	ErrorBackoff time.Duration `toml:"error_backoff" yaml:"error_backoff"`

	// Rounds stops the loop after this many turns. Zero runs until
	// cancelled.
	Rounds int `toml:"rounds" yaml:"rounds"`

	// Shuffle requests a new inventory when no tower can be built.
	Shuffle bool `toml:"shuffle" yaml:"shuffle"`

	// Explore tries every base word and keeps the best tower.
	Explore bool `toml:"explore" yaml:"explore"`
}

// JournalConfig controls the exchange journal.
type JournalConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	Dir      string `toml:"dir" yaml:"dir"`
	Limit    int    `toml:"limit" yaml:"limit"`
}

// CacheConfig selects the cache backend. RedisAddr takes precedence over
// Dir.
type CacheConfig struct {
	Disabled      bool          `toml:"disabled" yaml:"disabled"`
	Dir           string        `toml:"dir" yaml:"dir"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
}

// HistoryConfig locates the tower history database.
type HistoryConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	Path     string `toml:"path" yaml:"path"`
}

// ServerConfig configures wordtower serve.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 10 * time.Second,
			Retries: 3,
		},
		Builder: BuilderConfig{VerticalStep: geom.Downward.VerticalStep},
		Play: PlayConfig{
			Interval:     350 * time.Millisecond,
			ErrorBackoff: 5 * time.Second,
			Shuffle:      true,
		},
		Journal: JournalConfig{
			Dir:   filepath.Join(DataDir(), "journal"),
			Limit: 100,
		},
		Cache: CacheConfig{
			Dir: CacheDir(),
			TTL: 24 * time.Hour,
		},
		History: HistoryConfig{
			Path: filepath.Join(DataDir(), "history.db"),
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path on top of the defaults and applies environment
// overrides. An empty path means DefaultPath, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, werrors.Wrap(werrors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return werrors.Wrap(werrors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
		}
	default:
		return werrors.New(werrors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
	return nil
}

// ApplyEnv overrides the token and base URL from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvToken); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
}

// Validate checks every section. The token is not required here; see
// RequireToken.
func (c Config) Validate() error {
	if err := werrors.ValidateURL(c.API.BaseURL); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidConfig, err, "api.base_url")
	}
	if c.API.Timeout <= 0 {
		return werrors.New(werrors.ErrCodeInvalidConfig, "api.timeout must be positive")
	}
	if c.API.Retries < 0 {
		return werrors.New(werrors.ErrCodeInvalidConfig, "api.retries cannot be negative")
	}
	if c.Builder.VerticalStep != 0 {
		if err := c.Builder.Convention().Validate(); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidConfig, err, "builder.vertical_step")
		}
	}
	opts := c.Builder.Options
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidConfig, err, "builder")
	}
	if c.Play.Interval < 0 || c.Play.ErrorBackoff < 0 {
		return werrors.New(werrors.ErrCodeInvalidConfig, "play durations cannot be negative")
	}
	if c.Play.Rounds < 0 {
		return werrors.New(werrors.ErrCodeInvalidConfig, "play.rounds cannot be negative")
	}
	if c.Journal.Limit < 0 {
		return werrors.New(werrors.ErrCodeInvalidConfig, "journal.limit cannot be negative")
	}
	if !c.Journal.Disabled && c.Journal.Dir == "" {
		return werrors.New(werrors.ErrCodeInvalidConfig, "journal.dir is required")
	}
	if !c.History.Disabled && c.History.Path == "" {
		return werrors.New(werrors.ErrCodeInvalidConfig, "history.path is required")
	}
	return nil
}

// RequireToken reports an UNAUTHORIZED error when no usable token is set.
func (c Config) RequireToken() error {
	if err := werrors.ValidateToken(c.API.Token); err != nil {
		return werrors.Wrap(werrors.ErrCodeUnauthorized, err, "set %s or api.token", EnvToken)
	}
	return nil
}
