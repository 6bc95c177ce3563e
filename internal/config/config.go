package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/docker/go-units"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/router"
)

const (
	// ConfigBaseName is the file name, without extension, Find looks for.
	ConfigBaseName = "parkdash"

	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "PARKDASH_"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultModel is the default assistant model.
	DefaultModel = "gemini-2.5-flash"
)

// Extensions lists the supported config file extensions in lookup order.
var Extensions = []string{".json", ".toml", ".yaml", ".yml"}

// Config is the complete parkdash configuration.
type Config struct {
	// Server contains HTTP server and routing configuration.
	Server ServerConfig `json:"server" toml:"server" yaml:"server" envPrefix:"SERVER_"`

	// Locale is the default UI language (e.g., "en", "de"). Browsers may
	// override it with Accept-Language.
	Locale string `json:"locale,omitempty" toml:"locale,omitempty" yaml:"locale,omitempty" env:"LOCALE"`

	// Owners selects the owners API store.
	Owners OwnersConfig `json:"owners" toml:"owners" yaml:"owners" envPrefix:"OWNERS_"`

	// Assets selects where static assets are read from.
	Assets AssetsConfig `json:"assets" toml:"assets" yaml:"assets" envPrefix:"ASSETS_"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `json:"metrics" toml:"metrics" yaml:"metrics" envPrefix:"METRICS_"`

	// Telemetry configures trace export.
	Telemetry TelemetryConfig `json:"telemetry" toml:"telemetry" yaml:"telemetry" envPrefix:"TELEMETRY_"`

	// Assistant configures the console assistant.
	Assistant AssistantConfig `json:"assistant" toml:"assistant" yaml:"assistant" envPrefix:"ASSISTANT_"`

	// Logging configures the process logger.
	Logging LoggingConfig `json:"logging" toml:"logging" yaml:"logging" envPrefix:"LOG_"`

	path string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" toml:"host,omitempty" yaml:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" toml:"port,omitempty" yaml:"port,omitempty" env:"PORT"`

	// Base is the path the app is mounted under (e.g., "/parking").
	Base string `json:"base,omitempty" toml:"base,omitempty" yaml:"base,omitempty" env:"BASE"`

	// History is the history mode: "web", "hash" or "memory".
	History string `json:"history,omitempty" toml:"history,omitempty" yaml:"history,omitempty" env:"HISTORY"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdown_timeout,omitempty" toml:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty" env:"SHUTDOWN_TIMEOUT"`

	// NotFound selects the unmatched-path behavior.
	NotFound NotFoundConfig `json:"not_found" toml:"not_found" yaml:"not_found" envPrefix:"NOT_FOUND_"`
}

// Not-found modes.
const (
	NotFoundPage     = "page"
	NotFoundRedirect = "redirect"
)

// NotFoundConfig selects what an unmatched path does.
type NotFoundConfig struct {
	// Mode is "page" (render the not-found view with 404) or "redirect"
	// (replace the location with the Redirect route).
	Mode string `json:"mode,omitempty" toml:"mode,omitempty" yaml:"mode,omitempty" env:"MODE"`

	// Redirect is the route name used in redirect mode.
	Redirect string `json:"redirect,omitempty" toml:"redirect,omitempty" yaml:"redirect,omitempty" env:"REDIRECT"`
}

// Owner store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// OwnersConfig selects the owners store.
type OwnersConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `json:"driver,omitempty" toml:"driver,omitempty" yaml:"driver,omitempty" env:"DRIVER"`

	// DSN is the SQLite data source name (file path or ":memory:").
	DSN string `json:"dsn,omitempty" toml:"dsn,omitempty" yaml:"dsn,omitempty" env:"DSN"`
}

// Asset sources.
const (
	SourceEmbed = "embed"
	SourceS3    = "s3"
)

// AssetsConfig selects the static asset source.
type AssetsConfig struct {
	// Source is "embed" or "s3".
	Source string `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty" env:"SOURCE"`

	// MaxSize is the largest asset served, in human form (e.g., "5MB").
	MaxSize string `json:"max_size,omitempty" toml:"max_size,omitempty" yaml:"max_size,omitempty" env:"MAX_SIZE"`

	// S3 configures the S3 source.
	S3 S3Config `json:"s3" toml:"s3" yaml:"s3" envPrefix:"S3_"`

	maxSizeBytes int64
}

// S3Config configures the S3 asset source.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty" toml:"bucket,omitempty" yaml:"bucket,omitempty" env:"BUCKET"`
	Prefix          string `json:"prefix,omitempty" toml:"prefix,omitempty" yaml:"prefix,omitempty" env:"PREFIX"`
	Region          string `json:"region,omitempty" toml:"region,omitempty" yaml:"region,omitempty" env:"REGION"`
	Endpoint        string `json:"endpoint,omitempty" toml:"endpoint,omitempty" yaml:"endpoint,omitempty" env:"ENDPOINT"`
	AccessKeyID     string `json:"access_key_id,omitempty" toml:"access_key_id,omitempty" yaml:"access_key_id,omitempty" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `json:"-" toml:"-" yaml:"-" env:"SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `json:"use_path_style,omitempty" toml:"use_path_style,omitempty" yaml:"use_path_style,omitempty" env:"USE_PATH_STYLE"`
}

// MetricsConfig configures the Prometheus collectors served on /metrics.
type MetricsConfig struct {
	// Namespace prefixes every metric name (default "parkdash").
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty" yaml:"namespace,omitempty" env:"NAMESPACE"`

	Subsystem string `json:"subsystem,omitempty" toml:"subsystem,omitempty" yaml:"subsystem,omitempty" env:"SUBSYSTEM"`

	// Buckets are the navigation duration buckets in seconds, ascending.
	// Empty selects the Prometheus defaults.
	Buckets []float64 `json:"buckets,omitempty" toml:"buckets,omitempty" yaml:"buckets,omitempty" env:"BUCKETS" envSeparator:","`

	// Labels are constant labels added to every metric
	// (env form: "lot:north,zone:a").
	Labels map[string]string `json:"labels,omitempty" toml:"labels,omitempty" yaml:"labels,omitempty" env:"LABELS"`
}

// TelemetryConfig configures OTLP trace export. Tracing is off when
// OTLPEndpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string `json:"otlp_endpoint,omitempty" toml:"otlp_endpoint,omitempty" yaml:"otlp_endpoint,omitempty" env:"OTLP_ENDPOINT"`
	Insecure     bool   `json:"insecure,omitempty" toml:"insecure,omitempty" yaml:"insecure,omitempty" env:"INSECURE"`
	ServiceName  string `json:"service_name,omitempty" toml:"service_name,omitempty" yaml:"service_name,omitempty" env:"SERVICE_NAME"`
}

// AssistantConfig configures the console assistant.
type AssistantConfig struct {
	// APIKey is the Gemini API key. Never written to config files.
	APIKey string `json:"-" toml:"-" yaml:"-" env:"API_KEY"`

	// Model is the model name.
	Model string `json:"model,omitempty" toml:"model,omitempty" yaml:"model,omitempty" env:"MODEL"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" toml:"level,omitempty" yaml:"level,omitempty" env:"LEVEL"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" toml:"format,omitempty" yaml:"format,omitempty" env:"FORMAT"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the file at path (if path is non-empty), applies the process
// environment and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, env.ToMap(os.Environ()))
}

// LoadWithEnv is Load with an explicit environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := New()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(environ); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first parkdash.{json,toml,yaml,yml} in dir, or "" if
// there is none.
func Find(dir string) string {
	for _, ext := range Extensions {
		p := filepath.Join(dir, ConfigBaseName+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file at " + path).
				WithSuggestion("Pass an existing file with --config or omit the flag to use defaults")
		}
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		err = json.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return errors.New(errors.CodeConfigParse).
			WithDetailf("unsupported config extension %q", ext).
			WithSuggestion("Use a .json, .toml or .yaml file")
	}
	if err != nil {
		return errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax")
	}
	c.path = path
	return nil
}

// ApplyEnv overrides fields from PARKDASH_* variables in environ.
func (c *Config) ApplyEnv(environ map[string]string) error {
	err := env.ParseWithOptions(c, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("environment: " + err.Error())
	}
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.History == "" {
		c.Server.History = router.HistoryWeb.String()
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Server.NotFound.Mode == "" {
		c.Server.NotFound.Mode = NotFoundPage
	}
	if c.Server.NotFound.Mode == NotFoundRedirect && c.Server.NotFound.Redirect == "" {
		c.Server.NotFound.Redirect = "dashboard"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.Owners.Driver == "" {
		c.Owners.Driver = DriverMemory
	}
	if c.Owners.Driver == DriverSQLite && c.Owners.DSN == "" {
		c.Owners.DSN = "parkdash.db"
	}
	if c.Assets.Source == "" {
		c.Assets.Source = SourceEmbed
	}
	if c.Assets.MaxSize == "" {
		c.Assets.MaxSize = "5MB"
	}
	if c.Assets.S3.Region == "" {
		c.Assets.S3.Region = "us-east-1"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "parkdash"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "parkdash"
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = DefaultModel
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks the configuration. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(detail, suggestion string) {
		errs = append(errs, errors.New(errors.CodeConfigInvalid).
			WithDetail(detail).WithSuggestion(suggestion))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		invalid("server.port must be between 0 and 65535", "")
	}
	if _, err := router.ParseHistoryMode(c.Server.History); err != nil {
		invalid("server.history: "+err.Error(), `Use "web", "hash" or "memory"`)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		invalid("server.shutdown_timeout: "+err.Error(), `Use a Go duration such as "10s"`)
	}
	switch c.Server.NotFound.Mode {
	case NotFoundPage, NotFoundRedirect:
	default:
		invalid("server.not_found.mode "+strconv.Quote(c.Server.NotFound.Mode), `Use "page" or "redirect"`)
	}
	switch c.Owners.Driver {
	case DriverMemory, DriverSQLite:
	default:
		invalid("owners.driver "+strconv.Quote(c.Owners.Driver), `Use "memory" or "sqlite"`)
	}
	switch c.Assets.Source {
	case SourceEmbed:
	case SourceS3:
		if c.Assets.S3.Bucket == "" {
			invalid("assets.s3.bucket is required for the s3 source", "Set PARKDASH_ASSETS_S3_BUCKET")
		}
	default:
		invalid("assets.source "+strconv.Quote(c.Assets.Source), `Use "embed" or "s3"`)
	}
	size, err := units.FromHumanSize(c.Assets.MaxSize)
	switch {
	case err != nil:
		invalid("assets.max_size: "+err.Error(), `Use a size such as "5MB"`)
	case size <= 0:
		invalid("assets.max_size must be positive", "")
	default:
		c.Assets.maxSizeBytes = size
	}
	for i := 1; i < len(c.Metrics.Buckets); i++ {
		if c.Metrics.Buckets[i] <= c.Metrics.Buckets[i-1] {
			invalid("metrics.buckets must be strictly ascending", "Use a list such as [0.001, 0.01, 0.1, 1]")
			break
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		invalid("logging.format "+strconv.Quote(c.Logging.Format), `Use "text" or "json"`)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		invalid("logging.level: "+err.Error(), `Use "debug", "info", "warn" or "error"`)
	}

	return errors.Join(errs...)
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// HistoryMode returns the parsed history mode.
func (s ServerConfig) HistoryMode() router.HistoryMode {
	mode, _ := router.ParseHistoryMode(s.History)
	return mode
}

// Shutdown returns the graceful shutdown timeout.
func (s ServerConfig) Shutdown() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// MaxSizeBytes returns the validated asset size limit in bytes.
func (a AssetsConfig) MaxSizeBytes() int64 {
	if a.maxSizeBytes > 0 {
		return a.maxSizeBytes
	}
	size, err := units.FromHumanSize(a.MaxSize)
	if err != nil {
		return 0
	}
	return size
}
