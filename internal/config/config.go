package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Stream authorization modes.
const (
	StreamAuthNone   = "none"
	StreamAuthToken  = "token"
	StreamAuthVerify = "verify"
)

// Config captures the full configuration surface for the application.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Five9     Five9Config     `mapstructure:"five9"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CORSConfig holds the origin allow-list. "*" allows any origin without credentials.
type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Vendor provider implementations.
const (
	ProviderFive9 = "five9"
	ProviderMock  = "mock"
)

type Five9Config struct {
	Provider       string        `mapstructure:"provider"`
	BaseURL        string        `mapstructure:"base_url"`
	ClientID       string        `mapstructure:"client_id"`
	ClientSecret   string        `mapstructure:"client_secret"`
	LoginTimeout   time.Duration `mapstructure:"login_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ErrorBodyLimit int           `mapstructure:"error_body_limit"`
	Mock           MockConfig    `mapstructure:"mock"`
}

// MockConfig drives the offline vendor simulation.
type MockConfig struct {
	Location string        `mapstructure:"location"`
	Latency  time.Duration `mapstructure:"latency"`
}

type StreamConfig struct {
	Path       string        `mapstructure:"path"`
	Unit       time.Duration `mapstructure:"unit"`
	Auth       string        `mapstructure:"auth"`
	StageLabel string        `mapstructure:"stage_label"`
	Lead       LeadConfig    `mapstructure:"lead"`
}

type LeadConfig struct {
	LocationID string `mapstructure:"location_id"`
	ContactID  string `mapstructure:"contact_id"`
}

type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	ClientID      string        `mapstructure:"client_id"`
	ActivityTopic string        `mapstructure:"activity_topic"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// Enabled reports whether activity publishing should reach a broker.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.ActivityTopic != ""
}

type TelemetryConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ServiceName     string        `mapstructure:"service_name"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration from file and environment variables. An empty path
// skips the file and uses defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("NUVIA")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	// Names used by the original deployment.
	_ = v.BindEnv("cors.allowed_origins", "NUVIA_CORS_ALLOWED_ORIGINS", "ALLOWED_ORIGIN")
	_ = v.BindEnv("five9.client_id", "NUVIA_FIVE9_CLIENT_ID", "FIVE9_CLIENT_ID")
	_ = v.BindEnv("five9.client_secret", "NUVIA_FIVE9_CLIENT_SECRET", "FIVE9_CLIENT_SECRET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Stream.Auth {
	case StreamAuthNone, StreamAuthToken, StreamAuthVerify:
	default:
		return fmt.Errorf("config: unknown stream.auth %q", c.Stream.Auth)
	}
	if c.Stream.Unit <= 0 {
		return fmt.Errorf("config: stream.unit must be positive")
	}
	if !strings.HasPrefix(c.Stream.Path, "/") {
		return fmt.Errorf("config: stream.path must start with /")
	}
	switch c.Five9.Provider {
	case ProviderFive9, ProviderMock:
	default:
		return fmt.Errorf("config: unknown five9.provider %q", c.Five9.Provider)
	}
	if c.Five9.BaseURL == "" {
		return fmt.Errorf("config: five9.base_url is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "nuvia-dialer")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "dev")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("cors.allowed_origins", "*")

	v.SetDefault("five9.provider", ProviderFive9)
	v.SetDefault("five9.mock.location", "Demo")
	v.SetDefault("five9.mock.latency", 50*time.Millisecond)
	v.SetDefault("five9.base_url", "https://api.five9.com")
	v.SetDefault("five9.client_id", "")
	v.SetDefault("five9.client_secret", "")
	v.SetDefault("five9.login_timeout", 12*time.Second)
	v.SetDefault("five9.request_timeout", 30*time.Second)
	v.SetDefault("five9.error_body_limit", 300)

	v.SetDefault("stream.path", "/ws")
	v.SetDefault("stream.unit", time.Second)
	v.SetDefault("stream.auth", StreamAuthNone)
	v.SetDefault("stream.stage_label", "Outbound – New Leads")
	v.SetDefault("stream.lead.location_id", "p9XK3Y7WZ")
	v.SetDefault("stream.lead.contact_id", "8a08b0a4-ff2f-46f4-bb40-57bb06b9dfd1")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.client_id", "nuvia-dialer")
	v.SetDefault("kafka.activity_topic", "")
	v.SetDefault("kafka.write_timeout", 5*time.Second)

	v.SetDefault("telemetry.endpoint", "localhost:4318")
	v.SetDefault("telemetry.service_name", "nuvia-dialer")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.tracing_enabled", false)
	v.SetDefault("telemetry.shutdown_timeout", 5*time.Second)
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
