package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Plans      PlansConfig      `mapstructure:"plans"`
	Upload     UploadConfig     `mapstructure:"upload"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`

	// SlowQueryThreshold logs queries slower than this at warn level.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration. An empty address disables Redis.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds identity provider configuration.
type AuthConfig struct {
	Issuer   string        `mapstructure:"issuer"`
	Audience string        `mapstructure:"audience"`
	JWKSURL  string        `mapstructure:"jwks_url"`
	Leeway   time.Duration `mapstructure:"leeway"`
	// Disabled trusts the X-User-ID header instead of a bearer token.
	// Only meant for local development.
	Disabled bool `mapstructure:"disabled"`
}

// StorageConfig holds S3-compatible object storage configuration.
type StorageConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	Bucket          string        `mapstructure:"bucket"`
	UsePathStyle    bool          `mapstructure:"use_path_style"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// LLMConfig holds text generation provider configuration.
type LLMConfig struct {
	Provider         string        `mapstructure:"provider"` // openai, gemini
	OpenAIAPIKey     string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL    string        `mapstructure:"openai_base_url"`
	OpenAIModel      string        `mapstructure:"openai_model"`
	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	GeminiModel      string        `mapstructure:"gemini_model"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout"`
}

// JobsConfig holds job board search configuration. An empty API key
// disables job search.
type JobsConfig struct {
	Provider         string        `mapstructure:"provider"` // jsearch
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Host             string        `mapstructure:"host"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout"`
}

// HTTPClientConfig holds outbound HTTP connection pooling configuration.
type HTTPClientConfig struct {
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	KeepAlive           time.Duration `mapstructure:"keep_alive"`

	// ResponseTimeout bounds a whole request. Zero leaves it to the caller's context.
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`
}

// StripeConfig holds payment provider configuration.
type StripeConfig struct {
	SecretKey     string            `mapstructure:"secret_key"`
	WebhookSecret string            `mapstructure:"webhook_secret"`
	SuccessURL    string            `mapstructure:"success_url"`
	CancelURL     string            `mapstructure:"cancel_url"`
	Prices        map[string]string `mapstructure:"prices"` // plan -> price id
}

// PlanLimits holds per-operation monthly ceilings for one plan. -1 means unlimited.
type PlanLimits struct {
	ResumeScans        int   `mapstructure:"resume_scans"`
	CoverLetters       int   `mapstructure:"cover_letters"`
	InterviewQuestions int   `mapstructure:"interview_questions"`
	PriceCents         int64 `mapstructure:"price_cents"`
	JobSearch          bool  `mapstructure:"job_search"`
}

// PlansConfig holds the plan ceiling table.
type PlansConfig struct {
	Version string                `mapstructure:"version"`
	Tiers   map[string]PlanLimits `mapstructure:"tiers"`
}

// UploadConfig holds resume upload limits.
type UploadConfig struct {
	MaxBytes          int64    `mapstructure:"max_bytes"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// RateLimitConfig holds rate limiting configuration for generation endpoints.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// TracingConfig holds OpenTelemetry configuration.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	Endpoint    string  `mapstructure:"endpoint"` // empty exports to stdout
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/rezzy")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("REZZY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applySecretOverrides(&cfg)

	return &cfg, nil
}

// applySecretOverrides reads well-known provider variables that are usually
// injected without the REZZY prefix.
func applySecretOverrides(cfg *Config) {
	if password := os.Getenv("REZZY_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("REZZY_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" && cfg.Storage.AccessKeyID == "" {
		cfg.Storage.AccessKeyID = key
	}
	if key := os.Getenv("AWS_SECRET_ACCESS_KEY"); key != "" && cfg.Storage.SecretAccessKey == "" {
		cfg.Storage.SecretAccessKey = key
	}
	if bucket := os.Getenv("S3_BUCKET_NAME"); bucket != "" && cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = bucket
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.OpenAIAPIKey == "" {
		cfg.LLM.OpenAIAPIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.LLM.GeminiAPIKey == "" {
		cfg.LLM.GeminiAPIKey = key
	}
	if key := os.Getenv("RAPID_API_KEY"); key != "" && cfg.Jobs.APIKey == "" {
		cfg.Jobs.APIKey = key
	}
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" && cfg.Stripe.SecretKey == "" {
		cfg.Stripe.SecretKey = key
	}
	if secret := os.Getenv("STRIPE_WEBHOOK_SECRET"); secret != "" && cfg.Stripe.WebhookSecret == "" {
		cfg.Stripe.WebhookSecret = secret
	}
	if cfg.Stripe.Prices == nil {
		cfg.Stripe.Prices = make(map[string]string)
	}
	if price := os.Getenv("STRIPE_STARTER_PRICE_ID"); price != "" {
		cfg.Stripe.Prices["starter"] = price
	}
	if price := os.Getenv("STRIPE_PREMIUM_PRICE_ID"); price != "" {
		cfg.Stripe.Prices["premium"] = price
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "rezzy")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.slow_query_threshold", 200*time.Millisecond)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("auth.leeway", 30*time.Second)

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.presign_expiry", time.Hour)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.openai_model", "gpt-3.5-turbo")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.request_timeout", 60*time.Second)
	v.SetDefault("llm.failure_threshold", 5)
	v.SetDefault("llm.circuit_timeout", 60*time.Second)

	v.SetDefault("jobs.provider", "jsearch")
	v.SetDefault("jobs.base_url", "https://jsearch.p.rapidapi.com")
	v.SetDefault("jobs.host", "jsearch.p.rapidapi.com")
	v.SetDefault("jobs.request_timeout", 15*time.Second)
	v.SetDefault("jobs.failure_threshold", 5)
	v.SetDefault("jobs.circuit_timeout", 60*time.Second)

	v.SetDefault("http_client.max_idle_conns", 100)
	v.SetDefault("http_client.max_idle_conns_per_host", 20)
	v.SetDefault("http_client.max_conns_per_host", 50)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 10*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)

	v.SetDefault("stripe.success_url", "http://localhost:3000/dashboard?checkout=success")
	v.SetDefault("stripe.cancel_url", "http://localhost:3000/pricing?checkout=cancel")

	v.SetDefault("plans.version", "2024-01")
	v.SetDefault("plans.tiers", map[string]any{
		"free":    map[string]any{"resume_scans": 3, "cover_letters": 0, "interview_questions": 0, "price_cents": 0, "job_search": false},
		"starter": map[string]any{"resume_scans": -1, "cover_letters": 0, "interview_questions": 0, "price_cents": 900, "job_search": true},
		"premium": map[string]any{"resume_scans": -1, "cover_letters": -1, "interview_questions": -1, "price_cents": 1900, "job_search": true},
		"elite":   map[string]any{"resume_scans": -1, "cover_letters": -1, "interview_questions": -1, "price_cents": 0, "job_search": true},
	})

	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{".pdf", ".docx", ".doc"})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 20)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "rezzy-api")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
}
