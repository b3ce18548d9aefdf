package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marocz/scoreboard/pkg/types"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultBaseURL           = "https://sheets.googleapis.com"
	DefaultSourceTimeout     = 10 * time.Second
	DefaultPollInterval      = 3 * time.Second
	DefaultRotateInterval    = 10 * time.Second
	DefaultBroadcastInterval = 5 * time.Second
	DefaultHTTPPort          = 8080
	DefaultLogLevel          = "info"
)

// Config is the top-level scoreboard configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Display DisplayConfig `yaml:"display"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// SourceConfig describes the spreadsheet the display polls.
type SourceConfig struct {
	// SpreadsheetID is the id segment of the spreadsheet URL.
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// BaseURL is the Sheets API root. Overridable for tests and proxies.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single fetch.
	Timeout time.Duration `yaml:"timeout"`

	// Auth configures how requests to the sheet are authorised.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig specifies the authentication mode for the data source.
type AuthConfig struct {
	// Mode is one of: apikey | bearer | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the API key,
	// sent as the "key" query parameter. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// TokenEnv is the name of the environment variable that holds an OAuth
	// access token. Used when Mode == "bearer".
	TokenEnv string `yaml:"token_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// DisplayConfig holds the rotation cycle and timing.
type DisplayConfig struct {
	// PollInterval controls how often the active page's source is fetched.
	PollInterval time.Duration `yaml:"poll_interval"`

	// RotateInterval controls how often the display advances to the next page.
	RotateInterval time.Duration `yaml:"rotate_interval"`

	// InitialMode is the ranking mode at startup: total | percent.
	InitialMode string `yaml:"initial_mode"`

	// Pages is the ordered rotation cycle.
	Pages []PageConfig `yaml:"pages"`
}

// PageConfig describes one page of the rotation cycle.
type PageConfig struct {
	// ID is a unique, human-readable page identifier.
	ID string `yaml:"id"`

	// Range is the A1-notation range read for this page, e.g. "Awards!A:C".
	Range string `yaml:"range"`

	// Type is the display type: chart | list.
	Type string `yaml:"type"`

	// Header is the title shown above the page.
	Header string `yaml:"header"`

	// AccentColor is the page's secondary color, passed through to renderers.
	AccentColor string `yaml:"accent_color"`

	// Optional marks the page viewers may drop from the cycle. At most one.
	Optional bool `yaml:"optional"`
}

// ServerConfig holds the HTTP side of the display.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval is how often the hub re-sends the display view to
	// every client even when nothing changed.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// UIDir optionally serves a pre-built renderer from this directory.
	UIDir string `yaml:"ui_dir"`

	// Auth guards the operator control endpoints.
	Auth ServerAuthConfig `yaml:"auth"`
}

// ServerAuthConfig configures control-endpoint authentication.
type ServerAuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable holding the expected API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header the key is read from. Defaults to "X-API-Key".
	Header string `yaml:"header"`
}

// Key returns the expected control API key resolved from the environment.
func (a ServerAuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Check reports an apikey mode whose key did not resolve, which would
// otherwise leave the control endpoints open.
func (a ServerAuthConfig) Check() error {
	if a.Mode != "apikey" {
		return nil
	}
	if a.KeyEnv == "" {
		return fmt.Errorf("config: server.auth.mode is apikey but server.auth.key_env is empty")
	}
	if a.Key() == "" {
		return fmt.Errorf("config: server.auth.mode is apikey but env var %s is unset or empty", a.KeyEnv)
	}
	return nil
}

// EffectiveHeader returns the configured header name, or the default "X-API-Key".
func (a ServerAuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "X-API-Key"
}

// LogConfig controls logging. Level is the only setting applied on hot reload.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level. Unknown values map to info;
// validate rejects them before they get here.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PageTable converts the configured pages into the runtime page table.
func (d DisplayConfig) PageTable() types.PageTable {
	out := make(types.PageTable, 0, len(d.Pages))
	for _, p := range d.Pages {
		out = append(out, types.Page{
			ID:            types.PageID(p.ID),
			SourceLocator: p.Range,
			DisplayType:   types.DisplayType(p.Type),
			Header:        p.Header,
			AccentColor:   p.AccentColor,
			Optional:      p.Optional,
		})
	}
	return out
}

// Mode returns the configured initial ranking mode.
func (d DisplayConfig) Mode() types.RankingMode {
	return types.RankingMode(d.InitialMode)
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config content.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultSourceTimeout,
		},
		Display: DisplayConfig{
			PollInterval:   DefaultPollInterval,
			RotateInterval: DefaultRotateInterval,
			InitialMode:    string(types.ModeTotal),
		},
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Source.SpreadsheetID == "" {
		return fmt.Errorf("source.spreadsheet_id is required")
	}
	if cfg.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url must not be empty")
	}
	if cfg.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	switch cfg.Source.Auth.Mode {
	case "apikey", "bearer", "none", "":
	default:
		return fmt.Errorf("source.auth.mode %q unknown: want apikey|bearer|none", cfg.Source.Auth.Mode)
	}

	if cfg.Display.PollInterval <= 0 {
		return fmt.Errorf("display.poll_interval must be positive")
	}
	if cfg.Display.RotateInterval <= 0 {
		return fmt.Errorf("display.rotate_interval must be positive")
	}
	if _, err := types.ParseRankingMode(cfg.Display.InitialMode); err != nil {
		return fmt.Errorf("display.initial_mode: %w", err)
	}
	if len(cfg.Display.Pages) == 0 {
		return fmt.Errorf("display.pages: at least one page is required")
	}
	seen := make(map[string]bool, len(cfg.Display.Pages))
	optional := 0
	for i, p := range cfg.Display.Pages {
		if p.ID == "" {
			return fmt.Errorf("pages[%d]: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("pages[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if p.Range == "" {
			return fmt.Errorf("pages[%d] %q: range is required", i, p.ID)
		}
		if !types.DisplayType(p.Type).Valid() {
			return fmt.Errorf("pages[%d] %q: unknown type %q", i, p.ID, p.Type)
		}
		if p.Optional {
			optional++
		}
	}
	if optional > 1 {
		return fmt.Errorf("display.pages: at most one page may be optional, got %d", optional)
	}

	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	return nil
}
