package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/observability"
)

// Config holds all client configuration
type Config struct {
	// Database connection
	Connection ConnectionConfig `yaml:"connection"`

	// Hosted agent and GFL endpoints
	Agents AgentsConfig `yaml:"agents"`

	// Authorization API client
	RBAC RBACConfig `yaml:"rbac"`

	// Logging, metrics and tracing
	Observability ObservabilityConfig `yaml:"observability"`
}

// ConnectionConfig holds database connection settings
type ConnectionConfig struct {
	URL               string            `yaml:"url"`
	APIKey            string            `yaml:"api_key"`
	OIDCClientID      string            `yaml:"oidc_client_id"`
	OIDCClientSecret  string            `yaml:"oidc_client_secret"`
	OIDCScopes        []string          `yaml:"oidc_scopes"`
	AdditionalHeaders map[string]string `yaml:"additional_headers"`
	RequestTimeout    time.Duration     `yaml:"request_timeout"`
}

// AgentsConfig holds agent client settings
type AgentsConfig struct {
	Host                  string        `yaml:"host"`
	GFLHost               string        `yaml:"gfl_host"`
	QueryTimeout          time.Duration `yaml:"query_timeout"`
	TransformationTimeout time.Duration `yaml:"transformation_timeout"`
	Concurrency           int           `yaml:"concurrency"`
}

// RBACConfig holds authorization client settings
type RBACConfig struct {
	// RoleCacheTTL of zero disables the role cache
	RoleCacheTTL  time.Duration `yaml:"role_cache_ttl"`
	RoleCacheSize int           `yaml:"role_cache_size"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`

	// MetricsPushURL is a Prometheus Pushgateway that receives the client
	// metrics when a command finishes
	MetricsPushURL string `yaml:"metrics_push_url"`

	// OpenTelemetry export is enabled when OTelEndpoint is set
	OTelEndpoint    string `yaml:"otel_endpoint"`
	OTelServiceName string `yaml:"otel_service_name"`
	OTelInsecure    bool   `yaml:"otel_insecure"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Connection: ConnectionConfig{
			RequestTimeout: connection.DefaultTimeout,
		},
		Agents: AgentsConfig{
			Host:                  "https://api.agents.weaviate.io",
			GFLHost:               "https://gfl.labs.weaviate.io",
			QueryTimeout:          60 * time.Second,
			TransformationTimeout: 40 * time.Second,
			Concurrency:           1,
		},
		RBAC: RBACConfig{
			RoleCacheSize: 128,
		},
		Observability: ObservabilityConfig{
			LogLevel:        "info",
			OTelServiceName: "weavekit",
		},
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads the YAML file at path (if any) over the defaults, then applies
// environment variables, then overrides in order, then validates.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	conn := &c.Connection
	conn.URL = getEnv("WEAVIATE_URL", conn.URL)
	conn.APIKey = getEnv("WEAVIATE_API_KEY", conn.APIKey)
	conn.OIDCClientID = getEnv("WEAVIATE_OIDC_CLIENT_ID", conn.OIDCClientID)
	conn.OIDCClientSecret = getEnv("WEAVIATE_OIDC_CLIENT_SECRET", conn.OIDCClientSecret)
	conn.OIDCScopes = getEnvList("WEAVIATE_OIDC_SCOPES", conn.OIDCScopes)
	conn.RequestTimeout = getEnvDuration("WEAVIATE_REQUEST_TIMEOUT", conn.RequestTimeout)
	if headers := getEnvMap("WEAVIATE_HEADERS"); len(headers) > 0 {
		if conn.AdditionalHeaders == nil {
			conn.AdditionalHeaders = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			conn.AdditionalHeaders[k] = v
		}
	}

	agents := &c.Agents
	agents.Host = getEnv("WEAVIATE_AGENTS_HOST", agents.Host)
	agents.GFLHost = getEnv("WEAVIATE_GFL_HOST", agents.GFLHost)
	agents.QueryTimeout = getEnvDuration("WEAVIATE_QUERY_TIMEOUT", agents.QueryTimeout)
	agents.TransformationTimeout = getEnvDuration("WEAVIATE_TRANSFORMATION_TIMEOUT", agents.TransformationTimeout)
	agents.Concurrency = getEnvInt("WEAVIATE_AGENTS_CONCURRENCY", agents.Concurrency)

	c.RBAC.RoleCacheTTL = getEnvDuration("WEAVIATE_ROLE_CACHE_TTL", c.RBAC.RoleCacheTTL)
	c.RBAC.RoleCacheSize = getEnvInt("WEAVIATE_ROLE_CACHE_SIZE", c.RBAC.RoleCacheSize)

	obs := &c.Observability
	obs.LogLevel = getEnv("WEAVIATE_LOG_LEVEL", obs.LogLevel)
	obs.MetricsEnabled = getEnvBool("WEAVIATE_METRICS_ENABLED", obs.MetricsEnabled)
	obs.MetricsPushURL = getEnv("WEAVIATE_METRICS_PUSH_URL", obs.MetricsPushURL)
	obs.OTelEndpoint = getEnv("WEAVIATE_OTEL_ENDPOINT", obs.OTelEndpoint)
	obs.OTelServiceName = getEnv("WEAVIATE_OTEL_SERVICE_NAME", obs.OTelServiceName)
	obs.OTelInsecure = getEnvBool("WEAVIATE_OTEL_INSECURE", obs.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate connection config
	if c.Connection.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	if u, err := url.Parse(c.Connection.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid database URL: %s", c.Connection.URL)
	}
	if c.Connection.APIKey != "" && c.Connection.OIDCClientID != "" {
		return fmt.Errorf("API key and OIDC client credentials are mutually exclusive")
	}
	if c.Connection.OIDCClientID != "" && c.Connection.OIDCClientSecret == "" {
		return fmt.Errorf("OIDC client secret is required when a client ID is set")
	}

	// Validate timeouts
	timeouts := map[string]time.Duration{
		"request":        c.Connection.RequestTimeout,
		"query":          c.Agents.QueryTimeout,
		"transformation": c.Agents.TransformationTimeout,
		"role cache TTL": c.RBAC.RoleCacheTTL,
	}
	for name, d := range timeouts {
		if d < 0 {
			return fmt.Errorf("%s timeout must not be negative", name)
		}
	}

	if c.Agents.Concurrency < 1 {
		return fmt.Errorf("agent concurrency must be at least 1")
	}
	if c.RBAC.RoleCacheSize < 0 {
		return fmt.Errorf("role cache size must not be negative")
	}

	if c.Observability.MetricsPushURL != "" && !c.Observability.MetricsEnabled {
		return fmt.Errorf("metrics push URL requires metrics to be enabled")
	}

	if !validLogLevel(c.Observability.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn or error)", c.Observability.LogLevel)
	}

	return nil
}

// LogLevel returns the configured logrus level
func (c *Config) LogLevel() logrus.Level {
	return observability.ParseLogLevel(c.Observability.LogLevel)
}

// ConnectionOptions builds the connection configuration
func (c *Config) ConnectionOptions(log logrus.FieldLogger, metrics *observability.ClientMetrics) connection.Config {
	cfg := connection.Config{
		URL:               c.Connection.URL,
		APIKey:            c.Connection.APIKey,
		AdditionalHeaders: c.Connection.AdditionalHeaders,
		Timeout:           c.Connection.RequestTimeout,
		Metrics:           metrics,
		Logger:            log,
	}
	if c.Connection.OIDCClientID != "" {
		cfg.ClientCredentials = &connection.ClientCredentials{
			ClientID:     c.Connection.OIDCClientID,
			ClientSecret: c.Connection.OIDCClientSecret,
			Scopes:       c.Connection.OIDCScopes,
		}
	}
	return cfg
}

// TelemetryOptions builds the OpenTelemetry export configuration
func (c *Config) TelemetryOptions(version string) observability.TelemetryConfig {
	return observability.TelemetryConfig{
		Endpoint:       c.Observability.OTelEndpoint,
		ServiceName:    c.Observability.OTelServiceName,
		ServiceVersion: version,
		Insecure:       c.Observability.OTelInsecure,
	}
}

func validLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ErrInvalidHeader is returned by ParseHeaders for an entry without "="
var ErrInvalidHeader = errors.New("invalid header, expected name=value")

// ParseHeaders parses comma separated name=value pairs
func ParseHeaders(raw string) (map[string]string, error) {
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, part)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvMap returns name=value pairs from an environment variable,
// ignoring malformed input
func getEnvMap(key string) map[string]string {
	headers, err := ParseHeaders(os.Getenv(key))
	if err != nil {
		return nil
	}
	return headers
}
