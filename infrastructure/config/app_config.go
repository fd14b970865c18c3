package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/ca-srg/opday/domain/service"
	"github.com/ca-srg/opday/domain/valueobject"
)

// Offset source types
const (
	SourceTypeHTTP         = "http"
	SourceTypeLaunchDarkly = "launchdarkly"
	SourceTypeSSM          = "ssm"
	SourceTypeSQLite       = "sqlite"
	SourceTypeStatic       = "static"
)

// OffsetConfig holds the cutover cache configuration
type OffsetConfig struct {
	// Source selects the configuration backend (http, launchdarkly, ssm, sqlite, static)
	Source string `json:"source,omitempty" env:"OPDAY_OFFSET_SOURCE"`

	// CacheTTLSec is how long a fetched cutover is served without re-fetching
	CacheTTLSec int `json:"cache_ttl_seconds,omitempty" env:"OPDAY_OFFSET_CACHE_TTL_SECONDS"`

	// FetchTimeoutSec bounds a single fetch from the backend
	FetchTimeoutSec int `json:"fetch_timeout_seconds,omitempty" env:"OPDAY_OFFSET_FETCH_TIMEOUT_SECONDS"`

	// Default is the cutover used when nothing has ever been fetched successfully
	Default string `json:"default,omitempty" env:"OPDAY_OFFSET_DEFAULT"`

	// WeekAlignment selects how week starts are found (operating-day, calendar).
	// The operating-day default departs from the legacy behavior for instants
	// between Monday 00:00 and the cutover: they belong to the previous week.
	// calendar restores the legacy raw-weekday result.
	WeekAlignment string `json:"week_alignment,omitempty" env:"OPDAY_WEEK_ALIGNMENT"`
}

// HTTPSourceConfig holds the HTTP configuration endpoint settings
type HTTPSourceConfig struct {
	// URL returns the cutover either as plain text or as a JSON object
	URL string `json:"url,omitempty" env:"OPDAY_HTTP_URL"`

	// BearerToken is sent as an Authorization header when set
	BearerToken string `json:"bearer_token,omitempty" env:"OPDAY_HTTP_BEARER_TOKEN"`

	// JSONField is the member holding the cutover in JSON responses
	JSONField string `json:"json_field,omitempty" env:"OPDAY_HTTP_JSON_FIELD"`

	// TokenURL enables the OAuth2 client credentials flow; BearerToken is ignored when set
	TokenURL     string `json:"token_url,omitempty" env:"OPDAY_HTTP_TOKEN_URL"`
	ClientID     string `json:"client_id,omitempty" env:"OPDAY_HTTP_CLIENT_ID"`
	ClientSecret string `json:"client_secret,omitempty" env:"OPDAY_HTTP_CLIENT_SECRET"`

	// Scopes is a comma-separated list of OAuth2 scopes
	Scopes string `json:"scopes,omitempty" env:"OPDAY_HTTP_SCOPES"`
}

// LaunchDarklySourceConfig holds the LaunchDarkly flag settings
type LaunchDarklySourceConfig struct {
	SDKKey string `json:"sdk_key,omitempty" env:"OPDAY_LD_SDK_KEY"`

	// FlagKey is a string flag whose variation is the cutover
	FlagKey string `json:"flag_key,omitempty" env:"OPDAY_LD_FLAG_KEY"`

	ContextKind string `json:"context_kind,omitempty" env:"OPDAY_LD_CONTEXT_KIND"`
	ContextKey  string `json:"context_key,omitempty" env:"OPDAY_LD_CONTEXT_KEY"`

	// ConnectTimeoutSec is how long client start-up waits for flag data
	ConnectTimeoutSec int `json:"connect_timeout_seconds,omitempty" env:"OPDAY_LD_CONNECT_TIMEOUT_SECONDS"`
}

// SSMSourceConfig holds AWS Systems Manager Parameter Store settings
type SSMSourceConfig struct {
	ParameterName string `json:"parameter_name,omitempty" env:"OPDAY_SSM_PARAMETER_NAME"`
	Region        string `json:"region,omitempty" env:"OPDAY_SSM_REGION"`

	// AWSProfile is the shared-config profile to use (optional)
	AWSProfile string `json:"aws_profile,omitempty" env:"OPDAY_SSM_AWS_PROFILE"`
}

// SQLiteSourceConfig holds the local settings database location
type SQLiteSourceConfig struct {
	// Path is the database file; empty means ~/.config/opday/opday.db
	Path string `json:"path,omitempty" env:"OPDAY_SQLITE_PATH"`

	// Key is the settings row holding the cutover
	Key string `json:"key,omitempty" env:"OPDAY_SQLITE_KEY"`
}

// StaticSourceConfig pins the cutover in configuration
type StaticSourceConfig struct {
	Offset string `json:"offset,omitempty" env:"OPDAY_STATIC_OFFSET"`
}

// PrometheusConfig holds Prometheus remote write configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL
	RemoteWriteURL string `json:"remote_write_url,omitempty" env:"OPDAY_PROMETHEUS_REMOTE_WRITE_URL"`

	// RemoteWriteUsername is the username for Remote Write authentication
	RemoteWriteUsername string `json:"remote_write_username,omitempty" env:"OPDAY_PROMETHEUS_REMOTE_WRITE_USERNAME"`

	// RemoteWritePassword is the password for Remote Write authentication
	RemoteWritePassword string `json:"remote_write_password,omitempty" env:"OPDAY_PROMETHEUS_REMOTE_WRITE_PASSWORD"`

	// HostLabel is the host label value for metrics
	HostLabel string `json:"host_label,omitempty" env:"OPDAY_PROMETHEUS_HOST_LABEL"`

	// IntervalSec is the interval in seconds between metric pushes in serve mode
	IntervalSec int `json:"interval_seconds,omitempty" env:"OPDAY_PROMETHEUS_INTERVAL_SECONDS"`

	// TimeoutSec is the timeout in seconds for metric pushes
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"OPDAY_PROMETHEUS_TIMEOUT_SECONDS"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Promtail push endpoint URL; empty disables log shipping
	URL string `json:"url,omitempty" env:"OPDAY_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username,omitempty" env:"OPDAY_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password,omitempty" env:"OPDAY_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"OPDAY_LOKI_BATCH_WAIT_SECONDS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" env:"OPDAY_LOG_LEVEL"`

	// Debug tees shipped logs to the console
	Debug bool `json:"debug,omitempty" env:"OPDAY_LOG_DEBUG"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	Offset       *OffsetConfig             `json:"offset,omitempty"`
	HTTP         *HTTPSourceConfig         `json:"http,omitempty"`
	LaunchDarkly *LaunchDarklySourceConfig `json:"launchdarkly,omitempty"`
	SSM          *SSMSourceConfig          `json:"ssm,omitempty"`
	SQLite       *SQLiteSourceConfig       `json:"sqlite,omitempty"`
	Static       *StaticSourceConfig       `json:"static,omitempty"`
	Prometheus   *PrometheusConfig         `json:"prometheus,omitempty"`
	Logging      *LoggingConfig            `json:"logging,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

// envKeys maps tracked field paths to the environment variable overriding them
var envKeys = map[string]string{
	"Offset.Source":                  "OPDAY_OFFSET_SOURCE",
	"Offset.CacheTTLSec":             "OPDAY_OFFSET_CACHE_TTL_SECONDS",
	"Offset.FetchTimeoutSec":         "OPDAY_OFFSET_FETCH_TIMEOUT_SECONDS",
	"Offset.Default":                 "OPDAY_OFFSET_DEFAULT",
	"Offset.WeekAlignment":           "OPDAY_WEEK_ALIGNMENT",
	"HTTP.URL":                       "OPDAY_HTTP_URL",
	"HTTP.BearerToken":               "OPDAY_HTTP_BEARER_TOKEN",
	"HTTP.JSONField":                 "OPDAY_HTTP_JSON_FIELD",
	"HTTP.TokenURL":                  "OPDAY_HTTP_TOKEN_URL",
	"HTTP.ClientID":                  "OPDAY_HTTP_CLIENT_ID",
	"HTTP.ClientSecret":              "OPDAY_HTTP_CLIENT_SECRET",
	"HTTP.Scopes":                    "OPDAY_HTTP_SCOPES",
	"LaunchDarkly.SDKKey":            "OPDAY_LD_SDK_KEY",
	"LaunchDarkly.FlagKey":           "OPDAY_LD_FLAG_KEY",
	"LaunchDarkly.ContextKind":       "OPDAY_LD_CONTEXT_KIND",
	"LaunchDarkly.ContextKey":        "OPDAY_LD_CONTEXT_KEY",
	"LaunchDarkly.ConnectTimeoutSec": "OPDAY_LD_CONNECT_TIMEOUT_SECONDS",
	"SSM.ParameterName":              "OPDAY_SSM_PARAMETER_NAME",
	"SSM.Region":                     "OPDAY_SSM_REGION",
	"SSM.AWSProfile":                 "OPDAY_SSM_AWS_PROFILE",
	"SQLite.Path":                    "OPDAY_SQLITE_PATH",
	"SQLite.Key":                     "OPDAY_SQLITE_KEY",
	"Static.Offset":                  "OPDAY_STATIC_OFFSET",
	"Prometheus.RemoteWriteURL":      "OPDAY_PROMETHEUS_REMOTE_WRITE_URL",
	"Prometheus.RemoteWriteUsername": "OPDAY_PROMETHEUS_REMOTE_WRITE_USERNAME",
	"Prometheus.RemoteWritePassword": "OPDAY_PROMETHEUS_REMOTE_WRITE_PASSWORD",
	"Prometheus.HostLabel":           "OPDAY_PROMETHEUS_HOST_LABEL",
	"Prometheus.IntervalSec":         "OPDAY_PROMETHEUS_INTERVAL_SECONDS",
	"Prometheus.TimeoutSec":          "OPDAY_PROMETHEUS_TIMEOUT_SECONDS",
	"Logging.Level":                  "OPDAY_LOG_LEVEL",
	"Logging.Debug":                  "OPDAY_LOG_DEBUG",
	"Promtail.URL":                   "OPDAY_LOKI_URL",
	"Promtail.Username":              "OPDAY_LOKI_USERNAME",
	"Promtail.Password":              "OPDAY_LOKI_PASSWORD",
	"Promtail.BatchWaitSeconds":      "OPDAY_LOKI_BATCH_WAIT_SECONDS",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1,
		Offset: &OffsetConfig{
			Source:          SourceTypeHTTP,
			CacheTTLSec:     300, // 5 minutes
			FetchTimeoutSec: 10,
			Default:         valueobject.DefaultOffsetString,
			WeekAlignment:   string(service.WeekAlignmentOperatingDay),
		},
		HTTP: &HTTPSourceConfig{
			URL:       "", // must be set via environment variable or config.json
			JSONField: "value",
		},
		LaunchDarkly: &LaunchDarklySourceConfig{
			FlagKey:           "daily_cutover_time",
			ContextKind:       "service",
			ContextKey:        "opday",
			ConnectTimeoutSec: 5,
		},
		SSM: &SSMSourceConfig{
			ParameterName: "/opday/daily-cutover-time",
			Region:        "us-east-1",
		},
		SQLite: &SQLiteSourceConfig{
			Path: "",
			Key:  "daily_cutover_time",
		},
		Static: &StaticSourceConfig{
			Offset: valueobject.DefaultOffsetString,
		},
		Prometheus: &PrometheusConfig{
			IntervalSec: 60,
			TimeoutSec:  10,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				BatchWaitSeconds: 1,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// LoadConfig loads configuration from defaults and environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()
	config.MarkDefaults()

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv overrides configuration with environment variables using Netflix/go-env.
// Unset variables leave the current value untouched.
func (c *AppConfig) LoadFromEnv() error {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	sections := []struct {
		name   string
		target interface{}
	}{
		{"Offset", c.Offset},
		{"HTTP", c.HTTP},
		{"LaunchDarkly", c.LaunchDarkly},
		{"SSM", c.SSM},
		{"SQLite", c.SQLite},
		{"Static", c.Static},
		{"Prometheus", c.Prometheus},
		{"Logging", c.Logging},
	}
	if c.Logging != nil && c.Logging.Promtail != nil {
		sections = append(sections, struct {
			name   string
			target interface{}
		}{"Promtail", c.Logging.Promtail})
	}

	for _, section := range sections {
		if isNilSection(section.target) {
			continue
		}
		if _, err := env.UnmarshalFromEnviron(section.target); err != nil {
			return fmt.Errorf("failed to unmarshal %s environment variables: %w", section.name, err)
		}
	}

	for field, key := range envKeys {
		if _, ok := os.LookupEnv(key); ok {
			c.ConfigSources[field] = SourceEnvironment
		}
	}

	return nil
}

func isNilSection(v interface{}) bool {
	switch s := v.(type) {
	case *OffsetConfig:
		return s == nil
	case *HTTPSourceConfig:
		return s == nil
	case *LaunchDarklySourceConfig:
		return s == nil
	case *SSMSourceConfig:
		return s == nil
	case *SQLiteSourceConfig:
		return s == nil
	case *StaticSourceConfig:
		return s == nil
	case *PrometheusConfig:
		return s == nil
	case *LoggingConfig:
		return s == nil
	case *PromtailConfig:
		return s == nil
	default:
		return v == nil
	}
}

// MarkDefaults marks all tracked configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}
	c.ConfigSources["Version"] = SourceDefault
	for field := range envKeys {
		c.ConfigSources[field] = SourceDefault
	}
}

// CacheTTL returns the cutover cache TTL
func (c *OffsetConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// FetchTimeout returns the per-fetch timeout
func (c *OffsetConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if c.Offset == nil {
		return fmt.Errorf("offset configuration is required")
	}

	if err := c.validateOffset(); err != nil {
		return err
	}

	if err := c.validateSource(); err != nil {
		return err
	}

	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}

	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	return nil
}

// validateOffset validates cache and cutover settings
func (c *AppConfig) validateOffset() error {
	if c.Offset.CacheTTLSec < 1 {
		return fmt.Errorf("offset cache TTL must be at least 1 second")
	}

	if c.Offset.FetchTimeoutSec < 1 {
		return fmt.Errorf("offset fetch timeout must be at least 1 second")
	}

	if _, err := valueobject.ParseOffset(c.Offset.Default); err != nil {
		return fmt.Errorf("default offset is invalid: %w", err)
	}

	if _, err := service.ParseWeekAlignment(c.Offset.WeekAlignment); err != nil {
		return fmt.Errorf("week alignment is invalid: %w", err)
	}

	return nil
}

// validateSource validates the section of the selected offset source
func (c *AppConfig) validateSource() error {
	switch strings.ToLower(c.Offset.Source) {
	case SourceTypeHTTP:
		// Skip validation if URL is empty (initial configuration)
		if c.HTTP == nil || c.HTTP.URL == "" {
			return nil
		}
		parsed, err := url.Parse(c.HTTP.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("http source URL must be an absolute http(s) URL: %s", c.HTTP.URL)
		}
		if c.HTTP.TokenURL != "" {
			parsed, err := url.Parse(c.HTTP.TokenURL)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
				return fmt.Errorf("http source token URL must be an absolute http(s) URL: %s", c.HTTP.TokenURL)
			}
			if c.HTTP.ClientID == "" {
				return fmt.Errorf("http source client ID is required when a token URL is set")
			}
		}
	case SourceTypeLaunchDarkly:
		if c.LaunchDarkly == nil || c.LaunchDarkly.SDKKey == "" {
			return fmt.Errorf("launchdarkly SDK key is required when the launchdarkly source is selected")
		}
		if c.LaunchDarkly.FlagKey == "" {
			return fmt.Errorf("launchdarkly flag key cannot be empty")
		}
		if c.LaunchDarkly.ConnectTimeoutSec < 1 {
			return fmt.Errorf("launchdarkly connect timeout must be at least 1 second")
		}
	case SourceTypeSSM:
		if c.SSM == nil || c.SSM.ParameterName == "" {
			return fmt.Errorf("ssm parameter name is required when the ssm source is selected")
		}
		if c.SSM.Region == "" {
			return fmt.Errorf("ssm region cannot be empty")
		}
	case SourceTypeSQLite:
		if c.SQLite == nil || c.SQLite.Key == "" {
			return fmt.Errorf("sqlite settings key cannot be empty")
		}
	case SourceTypeStatic:
		if c.Static == nil {
			return fmt.Errorf("static offset is required when the static source is selected")
		}
		if _, err := valueobject.ParseOffset(c.Static.Offset); err != nil {
			return fmt.Errorf("static offset is invalid: %w", err)
		}
	default:
		return fmt.Errorf("unknown offset source: %s (must be http, launchdarkly, ssm, sqlite, or static)", c.Offset.Source)
	}

	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	// Skip validation if RemoteWriteURL is empty (metrics disabled)
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	if c.Prometheus.IntervalSec < 10 {
		return fmt.Errorf("prometheus interval must be at least 10 seconds")
	}

	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}

	if c.Prometheus.TimeoutSec >= c.Prometheus.IntervalSec {
		return fmt.Errorf("prometheus timeout must be less than interval")
	}

	if (c.Prometheus.RemoteWriteUsername == "") != (c.Prometheus.RemoteWritePassword == "") {
		return fmt.Errorf("remote write username and password must be set together")
	}

	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	if c.Logging.Promtail != nil && c.Logging.Promtail.URL != "" {
		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}
	}

	return nil
}

// MergeJSONConfig merges non-zero values from a JSON file configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	if jsonConfig == nil {
		return
	}
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	if jsonConfig.Version != 0 {
		c.Version = jsonConfig.Version
		c.ConfigSources["Version"] = SourceJSONFile
	}

	if j := jsonConfig.Offset; j != nil {
		if c.Offset == nil {
			c.Offset = &OffsetConfig{}
		}
		c.mergeString("Offset.Source", &c.Offset.Source, j.Source)
		c.mergeInt("Offset.CacheTTLSec", &c.Offset.CacheTTLSec, j.CacheTTLSec)
		c.mergeInt("Offset.FetchTimeoutSec", &c.Offset.FetchTimeoutSec, j.FetchTimeoutSec)
		c.mergeString("Offset.Default", &c.Offset.Default, j.Default)
		c.mergeString("Offset.WeekAlignment", &c.Offset.WeekAlignment, j.WeekAlignment)
	}

	if j := jsonConfig.HTTP; j != nil {
		if c.HTTP == nil {
			c.HTTP = &HTTPSourceConfig{}
		}
		c.mergeString("HTTP.URL", &c.HTTP.URL, j.URL)
		c.mergeString("HTTP.BearerToken", &c.HTTP.BearerToken, j.BearerToken)
		c.mergeString("HTTP.JSONField", &c.HTTP.JSONField, j.JSONField)
		c.mergeString("HTTP.TokenURL", &c.HTTP.TokenURL, j.TokenURL)
		c.mergeString("HTTP.ClientID", &c.HTTP.ClientID, j.ClientID)
		c.mergeString("HTTP.ClientSecret", &c.HTTP.ClientSecret, j.ClientSecret)
		c.mergeString("HTTP.Scopes", &c.HTTP.Scopes, j.Scopes)
	}

	if j := jsonConfig.LaunchDarkly; j != nil {
		if c.LaunchDarkly == nil {
			c.LaunchDarkly = &LaunchDarklySourceConfig{}
		}
		c.mergeString("LaunchDarkly.SDKKey", &c.LaunchDarkly.SDKKey, j.SDKKey)
		c.mergeString("LaunchDarkly.FlagKey", &c.LaunchDarkly.FlagKey, j.FlagKey)
		c.mergeString("LaunchDarkly.ContextKind", &c.LaunchDarkly.ContextKind, j.ContextKind)
		c.mergeString("LaunchDarkly.ContextKey", &c.LaunchDarkly.ContextKey, j.ContextKey)
		c.mergeInt("LaunchDarkly.ConnectTimeoutSec", &c.LaunchDarkly.ConnectTimeoutSec, j.ConnectTimeoutSec)
	}

	if j := jsonConfig.SSM; j != nil {
		if c.SSM == nil {
			c.SSM = &SSMSourceConfig{}
		}
		c.mergeString("SSM.ParameterName", &c.SSM.ParameterName, j.ParameterName)
		c.mergeString("SSM.Region", &c.SSM.Region, j.Region)
		c.mergeString("SSM.AWSProfile", &c.SSM.AWSProfile, j.AWSProfile)
	}

	if j := jsonConfig.SQLite; j != nil {
		if c.SQLite == nil {
			c.SQLite = &SQLiteSourceConfig{}
		}
		c.mergeString("SQLite.Path", &c.SQLite.Path, j.Path)
		c.mergeString("SQLite.Key", &c.SQLite.Key, j.Key)
	}

	if j := jsonConfig.Static; j != nil {
		if c.Static == nil {
			c.Static = &StaticSourceConfig{}
		}
		c.mergeString("Static.Offset", &c.Static.Offset, j.Offset)
	}

	if j := jsonConfig.Prometheus; j != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergeString("Prometheus.RemoteWriteURL", &c.Prometheus.RemoteWriteURL, j.RemoteWriteURL)
		c.mergeString("Prometheus.RemoteWriteUsername", &c.Prometheus.RemoteWriteUsername, j.RemoteWriteUsername)
		c.mergeString("Prometheus.RemoteWritePassword", &c.Prometheus.RemoteWritePassword, j.RemoteWritePassword)
		c.mergeString("Prometheus.HostLabel", &c.Prometheus.HostLabel, j.HostLabel)
		c.mergeInt("Prometheus.IntervalSec", &c.Prometheus.IntervalSec, j.IntervalSec)
		c.mergeInt("Prometheus.TimeoutSec", &c.Prometheus.TimeoutSec, j.TimeoutSec)
	}

	if j := jsonConfig.Logging; j != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeString("Logging.Level", &c.Logging.Level, j.Level)
		if j.Debug {
			c.Logging.Debug = true
			c.ConfigSources["Logging.Debug"] = SourceJSONFile
		}
		if p := j.Promtail; p != nil {
			if c.Logging.Promtail == nil {
				c.Logging.Promtail = &PromtailConfig{}
			}
			c.mergeString("Promtail.URL", &c.Logging.Promtail.URL, p.URL)
			c.mergeString("Promtail.Username", &c.Logging.Promtail.Username, p.Username)
			c.mergeString("Promtail.Password", &c.Logging.Promtail.Password, p.Password)
			c.mergeInt("Promtail.BatchWaitSeconds", &c.Logging.Promtail.BatchWaitSeconds, p.BatchWaitSeconds)
		}
	}
}

func (c *AppConfig) mergeString(field string, dst *string, value string) {
	if value == "" {
		return
	}
	*dst = value
	c.ConfigSources[field] = SourceJSONFile
}

func (c *AppConfig) mergeInt(field string, dst *int, value int) {
	if value == 0 {
		return
	}
	*dst = value
	c.ConfigSources[field] = SourceJSONFile
}
