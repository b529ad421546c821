package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider and driver names accepted by the config.
const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"

	MailProviderResend = "resend"
	MailProviderSES    = "ses"
	MailProviderNone   = "none"

	QueueDriverImmediate = "immediate"
	QueueDriverValkey    = "valkey"

	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Mail     MailConfig     `yaml:"mail"`
	Bonus    BonusConfig    `yaml:"bonus"`
	Queue    QueueConfig    `yaml:"queue"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
	Storage  StorageConfig  `yaml:"storage"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"logLevel"`
}

// IsDevelopment reports whether error details may be exposed to clients.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig selects and configures the chat model provider.
type LLMConfig struct {
	Provider     string        `yaml:"provider"`
	APIKey       string        `yaml:"apiKey"`
	BaseURL      string        `yaml:"baseUrl"`
	Model        string        `yaml:"model"`
	Temperature  float32       `yaml:"temperature"`
	MaxTokens    int           `yaml:"maxTokens"`
	Timeout      time.Duration `yaml:"timeout"`
	Referer      string        `yaml:"referer"`
	Title        string        `yaml:"title"`
	GeminiAPIKey string        `yaml:"geminiApiKey"`
}

// MailConfig selects the email provider.
type MailConfig struct {
	Provider     string `yaml:"provider"`
	From         string `yaml:"from"`
	ReplyTo      string `yaml:"replyTo"`
	ResendAPIKey string `yaml:"resendApiKey"`
	SESRegion    string `yaml:"sesRegion"`
}

// BonusConfig controls the bonus roadmap job.
type BonusConfig struct {
	RequireToken bool          `yaml:"requireToken"`
	TokenSecret  string        `yaml:"tokenSecret"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
	ClaimTTL     time.Duration `yaml:"claimTtl"`
}

// QueueConfig selects where background jobs run.
type QueueConfig struct {
	Driver string `yaml:"driver"`
	Key    string `yaml:"key"`
}

// ValkeyConfig contains connection information for the shared Valkey instance.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// StorageConfig points at the S3-compatible bucket used to archive PDFs.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// TracingConfig controls the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.App.Env, "APP_ENV")
	setString(&cfg.App.LogLevel, "LOG_LEVEL")

	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	setDuration(&cfg.HTTP.ReadTimeout, "HTTP_READ_TIMEOUT")
	setDuration(&cfg.HTTP.WriteTimeout, "HTTP_WRITE_TIMEOUT")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS")
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")
	setString(&cfg.LLM.Referer, "LLM_REFERER")
	setString(&cfg.LLM.GeminiAPIKey, "GEMINI_API_KEY")

	setString(&cfg.Mail.Provider, "MAIL_PROVIDER")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Mail.ReplyTo, "MAIL_REPLY_TO")
	setString(&cfg.Mail.ResendAPIKey, "RESEND_API_KEY")
	setString(&cfg.Mail.SESRegion, "AWS_REGION")

	setBool(&cfg.Bonus.RequireToken, "BONUS_REQUIRE_TOKEN")
	setString(&cfg.Bonus.TokenSecret, "BONUS_TOKEN_SECRET")
	setDuration(&cfg.Bonus.TokenTTL, "BONUS_TOKEN_TTL")
	setDuration(&cfg.Bonus.ClaimTTL, "BONUS_CLAIM_TTL")

	setString(&cfg.Queue.Driver, "QUEUE_DRIVER")
	setString(&cfg.Queue.Key, "QUEUE_KEY")

	setBool(&cfg.Valkey.Enabled, "VALKEY_ENABLED")
	setString(&cfg.Valkey.Addr, "VALKEY_ADDR")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}

	setBool(&cfg.Storage.Enabled, "STORAGE_ENABLED")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Region, "STORAGE_REGION")

	setBool(&cfg.Tracing.Enabled, "TRACING_ENABLED")
	setString(&cfg.Tracing.Exporter, "TRACING_EXPORTER")
	setString(&cfg.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "fitness-wizard",
			Env:      "production",
			LogLevel: "info",
		},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 150 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 10,
				Burst:             5,
			},
		},
		LLM: LLMConfig{
			Provider:    LLMProviderOpenAI,
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   10000,
			Timeout:     90 * time.Second,
			Title:       "Fitness Wizard",
		},
		Mail: MailConfig{
			Provider:  MailProviderResend,
			From:      "Fitness Wizard <hello@ramafit.xyz>",
			ReplyTo:   "hello@ramafit.xyz",
			SESRegion: "us-east-1",
		},
		Bonus: BonusConfig{
			TokenTTL: 24 * time.Hour,
			ClaimTTL: 24 * time.Hour,
		},
		Queue: QueueConfig{
			Driver: QueueDriverImmediate,
			Key:    "fitness:jobs",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Storage: StorageConfig{
			Region: "auto",
		},
		Tracing: TracingConfig{
			Exporter:    TracingExporterStdout,
			SampleRatio: 1,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		return errors.New("http timeouts must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}

	switch c.LLM.Provider {
	case LLMProviderOpenAI:
		if strings.TrimSpace(c.LLM.BaseURL) == "" {
			return errors.New("llm.baseUrl cannot be empty")
		}
	case LLMProviderGemini:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}

	switch c.Mail.Provider {
	case MailProviderResend, MailProviderSES, MailProviderNone:
	default:
		return fmt.Errorf("mail.provider %q is not supported", c.Mail.Provider)
	}
	if c.Mail.Provider != MailProviderNone && strings.TrimSpace(c.Mail.From) == "" {
		return errors.New("mail.from cannot be empty")
	}
	if c.Mail.Provider == MailProviderSES && strings.TrimSpace(c.Mail.SESRegion) == "" {
		return errors.New("mail.sesRegion cannot be empty when ses is selected")
	}

	if c.Bonus.RequireToken && strings.TrimSpace(c.Bonus.TokenSecret) == "" {
		return errors.New("bonus.tokenSecret cannot be empty when bonus.requireToken is set")
	}
	if c.Bonus.TokenTTL < 0 || c.Bonus.ClaimTTL < 0 {
		return errors.New("bonus ttl values cannot be negative")
	}

	switch c.Queue.Driver {
	case QueueDriverImmediate:
	case QueueDriverValkey:
		if !c.Valkey.Enabled {
			return errors.New("queue.driver valkey requires valkey.enabled")
		}
		if strings.TrimSpace(c.Queue.Key) == "" {
			return errors.New("queue.key cannot be empty")
		}
	default:
		return fmt.Errorf("queue.driver %q is not supported", c.Queue.Driver)
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Postgres.MinConns < 0 || (c.Postgres.MaxConns > 0 && c.Postgres.MinConns > c.Postgres.MaxConns) {
		return errors.New("postgres.minConns must be between 0 and maxConns")
	}
	if c.Storage.Enabled && (strings.TrimSpace(c.Storage.Endpoint) == "" || strings.TrimSpace(c.Storage.Bucket) == "") {
		return errors.New("storage.endpoint and storage.bucket are required when storage is enabled")
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case TracingExporterStdout, TracingExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter %q is not supported", c.Tracing.Exporter)
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			return errors.New("tracing.sampleRatio must be between 0 and 1")
		}
	}
	return nil
}
