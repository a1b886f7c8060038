package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is intentionally empty: every field names its variable in full.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Telegram     TelegramConfig
	Dashboard    DashboardConfig
	Session      SessionConfig
	Subscription SubscriptionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERLYY_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERLYY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORDERLYY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERLYY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ORDERLYY_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"ORDERLYY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERLYY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERLYY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERLYY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERLYY_REDIS_URL"`
	Address      string        `envconfig:"ORDERLYY_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERLYY_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERLYY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERLYY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERLYY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERLYY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERLYY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERLYY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type TelegramConfig struct {
	BotToken    string `envconfig:"ORDERLYY_TELEGRAM_BOT_TOKEN" required:"true"`
	BotUsername string `envconfig:"ORDERLYY_TELEGRAM_BOT_USERNAME"`
	// WebhookPath is where the gateway posts updates; the bot runner
	// ignores it and long-polls instead.
	WebhookPath string `envconfig:"ORDERLYY_TELEGRAM_WEBHOOK_PATH" default:"/telegram/webhook"`
}

type DashboardConfig struct {
	BaseURL         string `envconfig:"ORDERLYY_APP_BASE_URL" required:"true"`
	SupportUsername string `envconfig:"ORDERLYY_SUPPORT_USERNAME" default:"orderlyysupport"`
}

// Link returns the dashboard URL carrying the store's credential.
func (d DashboardConfig) Link(ownerToken string) string {
	return strings.TrimRight(d.BaseURL, "/") + "/?token=" + ownerToken
}

// SupportHandle returns the support username without a leading @.
func (d DashboardConfig) SupportHandle() string {
	u := strings.TrimPrefix(strings.TrimSpace(d.SupportUsername), "@")
	if u == "" {
		return "orderlyysupport"
	}
	return u
}

// SupportLink returns the t.me deep link to the support account.
func (d DashboardConfig) SupportLink() string {
	return "https://t.me/" + d.SupportHandle()
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"ORDERLYY_SESSION_TTL" default:"30m"`
}

type SubscriptionConfig struct {
	TrialDays int `envconfig:"ORDERLYY_SUBSCRIPTION_TRIAL_DAYS" default:"14"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDERLYY_AUTO_MIGRATE" default:"false"`
}
