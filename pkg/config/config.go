package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "neev"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "NEEV_APP_ENV"
	EnvPort          = "NEEV_APP_PORT"
	EnvDBDSN         = "NEEV_DB_DSN"
	EnvRedisURL      = "NEEV_REDIS_URL"
	EnvSessionSecret = "NEEV_SESSION_SECRET"
	EnvAdminPassword = "NEEV_ADMIN_PASSWORD"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Admin   AdminConfig
	Gateway GatewayConfig
	UPI     UPIConfig
	Cart    CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NEEV_APP_ENV" required:"true"`
	Port         string `envconfig:"NEEV_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NEEV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEEV_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"NEEV_AUTO_MIGRATE" default:"false"`
	SeedCatalog  bool   `envconfig:"NEEV_SEED_CATALOG" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NEEV_DB_DSN" required:"true"`
	Driver string `envconfig:"NEEV_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"NEEV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NEEV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NEEV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NEEV_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NEEV_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NEEV_REDIS_ADDR"`
	Password     string        `envconfig:"NEEV_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEEV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEEV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEEV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEEV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEEV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEEV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	Secret          string        `envconfig:"NEEV_SESSION_SECRET" required:"true"`
	CookieName      string        `envconfig:"NEEV_SESSION_COOKIE" default:"neev_session"`
	AdminCookieName string        `envconfig:"NEEV_ADMIN_COOKIE" default:"neev_admin"`
	AdminTTL        time.Duration `envconfig:"NEEV_ADMIN_SESSION_TTL" default:"12h"`
	CartTTL         time.Duration `envconfig:"NEEV_CART_TTL" default:"72h"`
}

type AdminConfig struct {
	Password        string        `envconfig:"NEEV_ADMIN_PASSWORD" default:"2468"`
	MaxAttempts     int           `envconfig:"NEEV_ADMIN_MAX_ATTEMPTS" default:"3"`
	AttemptWindow   time.Duration `envconfig:"NEEV_ADMIN_ATTEMPT_WINDOW" default:"15m"`
	LockoutDuration time.Duration `envconfig:"NEEV_ADMIN_LOCKOUT_DURATION" default:"15m"`
}

type GatewayConfig struct {
	KeyID           string        `envconfig:"NEEV_RAZORPAY_KEY_ID"`
	KeySecret       string        `envconfig:"NEEV_RAZORPAY_KEY_SECRET"`
	WebhookSecret   string        `envconfig:"NEEV_RAZORPAY_WEBHOOK_SECRET"`
	BaseURL         string        `envconfig:"NEEV_RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	Timeout         time.Duration `envconfig:"NEEV_RAZORPAY_TIMEOUT" default:"20s"`
	AllowTestBypass bool          `envconfig:"NEEV_WEBHOOK_TEST_BYPASS" default:"false"`
}

// Configured reports whether real gateway credentials are present. Without
// them order shells are mocked locally and webhook verification fails closed.
func (g GatewayConfig) Configured() bool {
	return g.KeyID != "" && g.KeySecret != ""
}

type UPIConfig struct {
	PayeeID      string `envconfig:"NEEV_UPI_ID" default:"neev@upi"`
	MerchantName string `envconfig:"NEEV_UPI_MERCHANT" default:"NEEV"`
	Currency     string `envconfig:"NEEV_CURRENCY" default:"INR"`
}

type CartConfig struct {
	PremiumSurcharge string `envconfig:"NEEV_PREMIUM_SURCHARGE" default:"999"`
}
