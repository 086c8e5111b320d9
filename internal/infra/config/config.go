package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig aggregates all runtime settings for the phone-auth deployables.
type AppConfig struct {
	App          AppSettings          `mapstructure:"app"`
	HTTP         HTTPSettings         `mapstructure:"http"`
	AWS          AWSSettings          `mapstructure:"aws"`
	Cognito      CognitoSettings      `mapstructure:"cognito"`
	Dynamo       DynamoSettings       `mapstructure:"dynamo"`
	Redis        RedisSettings        `mapstructure:"redis"`
	Kafka        KafkaSettings        `mapstructure:"kafka"`
	Registration RegistrationSettings `mapstructure:"registration"`
	LocalAuth    LocalAuthSettings    `mapstructure:"local_auth"`
	Telemetry    TelemetrySettings    `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPSettings configures the development server listener.
type HTTPSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AWSSettings configures the SDK clients shared by the Lambda deployables.
type AWSSettings struct {
	Region      string `mapstructure:"region"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

// CognitoSettings identifies the user pool backing the custom auth flow.
type CognitoSettings struct {
	UserPoolID string `mapstructure:"user_pool_id"`
	ClientID   string `mapstructure:"client_id"`
}

// DynamoSettings configures the pending-registration table.
type DynamoSettings struct {
	PendingTable string `mapstructure:"pending_table"`
}

// RedisSettings configures the Redis connection used by the devserver store.
type RedisSettings struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	DB            int    `mapstructure:"db"`
	Password      string `mapstructure:"password"`
	TLSEnabled    bool   `mapstructure:"tls_enabled"`
	PendingPrefix string `mapstructure:"pending_prefix"`
}

// KafkaSettings configures the registration event producer.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// RegistrationSettings tunes the pre-registration handshake.
type RegistrationSettings struct {
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
}

// LocalAuthSettings configures the in-memory identity provider used by the
// devserver.
type LocalAuthSettings struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// TelemetrySettings configures metrics and tracing exporters.
type TelemetrySettings struct {
	ServiceName    string  `mapstructure:"service_name"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
}

// Load reads configuration from the environment with PHONEAUTH_ prefixed
// variables layered over defaults.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("PHONEAUTH")

	setDefaults(v)

	keys := []string{
		"app.name",
		"app.env",
		"http.host",
		"http.port",
		"aws.region",
		"aws.max_attempts",
		"cognito.user_pool_id",
		"cognito.client_id",
		"dynamo.pending_table",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.pending_prefix",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"registration.pending_ttl",
		"local_auth.jwt_secret",
		"local_auth.access_token_ttl",
		"telemetry.service_name",
		"telemetry.otlp_endpoint",
		"telemetry.sampling_rate",
		"telemetry.tracing_enabled",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "phone-auth")
	v.SetDefault("app.env", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)

	v.SetDefault("aws.region", "sa-east-1")
	v.SetDefault("aws.max_attempts", 2)

	v.SetDefault("dynamo.pending_table", "pending-registrations")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pending_prefix", "phoneauth:pending")

	v.SetDefault("kafka.topic_prefix", "auth")
	v.SetDefault("kafka.async", true)

	v.SetDefault("registration.pending_ttl", 5*time.Minute)

	v.SetDefault("local_auth.access_token_ttl", time.Hour)

	v.SetDefault("telemetry.service_name", "phone-auth")
	v.SetDefault("telemetry.sampling_rate", 0.1)
	v.SetDefault("telemetry.tracing_enabled", false)
}

func (c *AppConfig) validate() error {
	if c.Registration.PendingTTL <= 0 {
		return fmt.Errorf("registration.pending_ttl must be positive")
	}
	if c.Telemetry.TracingEnabled && c.Telemetry.OTLPEndpoint == "" {
		return fmt.Errorf("telemetry.otlp_endpoint is required when tracing is enabled")
	}
	return nil
}
