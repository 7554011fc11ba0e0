package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Lexicon Lexicon       `yaml:"lexicon" mapstructure:"lexicon"`
}

// ServerConfig controls the HTTP API listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `yaml:"allow_origins" mapstructure:"allow_origins"`
}

// Backend kinds
const (
	BackendNone   = ""
	BackendHTTP   = "http"
	BackendOpenAI = "openai"
)

// BackendConfig selects the optional external scoring backend.
// An empty Kind with a non-empty URL means BackendHTTP.
type BackendConfig struct {
	Kind    string        `yaml:"kind" mapstructure:"kind"`         // "", "http", "openai"
	URL     string        `yaml:"url" mapstructure:"url"`           // HTTP backend address (POST {url})
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`   // Bound on the whole delegation attempt
	APIKey  string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model   string        `yaml:"model" mapstructure:"model"`       // OpenAI model name
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"` // OpenAI-compatible endpoint override
}

// EffectiveKind resolves the backend kind, inferring "http" from a bare URL
func (b BackendConfig) EffectiveKind() string {
	if b.Kind != BackendNone {
		return b.Kind
	}
	if b.URL != "" {
		return BackendHTTP
	}
	return BackendNone
}

// HTTPConfig controls outbound article fetching
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS       bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per host, 0 disables
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls the in-memory article cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// BrowserUserAgent is sent with article fetches so publishers serve the regular page
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowOrigins:    []string{"*"},
		},
		Backend: BackendConfig{
			Timeout: 15 * time.Second,
			Model:   "gpt-4o-mini",
		},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    BrowserUserAgent,
			MaxBodyBytes: 5_000_000,
			Burst:        5,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Lexicon: DefaultLexicon(),
	}
}
