package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/studio-automations/internal/render"
	"github.com/jwalitptl/studio-automations/pkg/messaging/redis"
	"github.com/jwalitptl/studio-automations/pkg/validator"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Automation AutomationConfig `mapstructure:"automation"`
	Email      EmailConfig      `mapstructure:"email"`
	Dispatch   DispatchConfig   `mapstructure:"dispatch"`
}

type AppConfig struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format" validate:"oneof=console json"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"gt=0"`
	TimeoutSeconds int      `mapstructure:"timeoutSeconds"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	RateLimit      float64  `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst      int      `mapstructure:"rate_burst" validate:"gte=0"`
}

type WorkerConfig struct {
	// Schedule is a standard five-field cron expression or descriptor.
	Schedule   string `mapstructure:"schedule" validate:"required"`
	HealthPort int    `mapstructure:"health_port" validate:"gt=0"`
	RunOnStart bool   `mapstructure:"run_on_start"`
	// PassTimeout bounds one pass; zero disables the bound.
	PassTimeout time.Duration `mapstructure:"pass_timeout"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" validate:"required"`
	Port         int    `mapstructure:"port" validate:"gt=0"`
	User         string `mapstructure:"user" validate:"required"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name" validate:"required"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	redis.Config `mapstructure:",squash"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type AutomationConfig struct {
	// AfterWindow bounds how long after the trigger instant an
	// after_project_date workflow may still fire.
	AfterWindow   time.Duration       `mapstructure:"after_window"`
	SubjectPrefix string              `mapstructure:"subject_prefix"`
	Format        render.FormatConfig `mapstructure:"format"`
}

type EmailConfig struct {
	Provider string         `mapstructure:"provider" validate:"oneof=smtp ses function none"`
	From     string         `mapstructure:"from" validate:"required_unless=Provider none,omitempty,email"`
	FromName string         `mapstructure:"from_name"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SES      SESConfig      `mapstructure:"ses"`
	Function FunctionConfig `mapstructure:"function"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SESConfig struct {
	Region string `mapstructure:"region"`
}

type FunctionConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DispatchConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gte=0"`
	Burst         int     `mapstructure:"burst" validate:"gte=0"`
}

// Secrets are read from the environment only and override file values.
type Secrets struct {
	DBPassword     string `envconfig:"DB_PASSWORD"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	JWTSecret      string `envconfig:"JWT_SECRET"`
	RedisURL       string `envconfig:"REDIS_URL"`
	FunctionAPIKey string `envconfig:"FUNCTION_API_KEY"`
}

const envPrefix = "STUDIO"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeoutSeconds", 30)
	v.SetDefault("server.rate_limit", 10)
	v.SetDefault("server.rate_burst", 20)

	v.SetDefault("worker.schedule", "*/5 * * * *")
	v.SetDefault("worker.health_port", 8081)
	v.SetDefault("worker.run_on_start", true)
	v.SetDefault("worker.pass_timeout", "10m")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "studio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", "100ms")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.issuer", "studio-automations")

	v.SetDefault("automation.after_window", "24h")
	v.SetDefault("automation.subject_prefix", "")
	v.SetDefault("automation.format.locale", render.DefaultFormatConfig().Locale)
	v.SetDefault("automation.format.timezone", render.DefaultFormatConfig().Timezone)
	v.SetDefault("automation.format.currency", render.DefaultFormatConfig().Currency)

	v.SetDefault("email.provider", "none")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.ses.region", "us-east-1")
	v.SetDefault("email.function.timeout", "15s")

	v.SetDefault("dispatch.rate_per_second", 2)
	v.SetDefault("dispatch.burst", 1)
}

// LoadConfig reads config.yaml from the given paths (or the default search
// paths), applies environment overrides and validates the result. A missing
// config file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var secrets Secrets
	if err := envconfig.Process(envPrefix, &secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets: %w", err)
	}
	config.applySecrets(secrets)

	if err := validator.New().Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applySecrets(s Secrets) {
	if s.DBPassword != "" {
		c.Database.Password = s.DBPassword
	}
	if s.SMTPPassword != "" {
		c.Email.SMTP.Password = s.SMTPPassword
	}
	if s.JWTSecret != "" {
		c.JWT.Secret = s.JWTSecret
	}
	if s.RedisURL != "" {
		c.Redis.URL = s.RedisURL
	}
	if s.FunctionAPIKey != "" {
		c.Email.Function.APIKey = s.FunctionAPIKey
	}
}
