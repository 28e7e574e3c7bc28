package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable this service reads.
	EnvPrefix = "aromaten"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "AROMATEN_APP_ENV"
	EnvAppPort   = "AROMATEN_APP_PORT"
	EnvDBDSN     = "AROMATEN_DB_DSN"
	EnvRedisURL  = "AROMATEN_REDIS_URL"
	EnvJWTSecret = "AROMATEN_JWT_SECRET"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AROMATEN_APP_ENV" required:"true"`
	Port         string `envconfig:"AROMATEN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"AROMATEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AROMATEN_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"AROMATEN_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AROMATEN_DB_DSN"`
	Driver string `envconfig:"AROMATEN_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"AROMATEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AROMATEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AROMATEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AROMATEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AROMATEN_REDIS_URL"`
	Address      string        `envconfig:"AROMATEN_REDIS_ADDR"`
	Password     string        `envconfig:"AROMATEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"AROMATEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AROMATEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AROMATEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AROMATEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AROMATEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AROMATEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AROMATEN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AROMATEN_JWT_ISSUER" default:"aromaten"`
	ExpirationMinutes int    `envconfig:"AROMATEN_JWT_EXPIRATION_MINUTES" default:"480"`
	CookieName        string `envconfig:"AROMATEN_ADMIN_COOKIE_NAME" default:"aromaten_admin"`
	CookieSecure      bool   `envconfig:"AROMATEN_ADMIN_COOKIE_SECURE" default:"true"`
}

// AccessTokenTTL returns the admin token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AROMATEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AROMATEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AROMATEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AROMATEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AROMATEN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"AROMATEN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"AROMATEN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"AROMATEN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"AROMATEN_UPLOADS_DIR" default:"./public/uploads"`
	PublicPath  string `envconfig:"AROMATEN_UPLOADS_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"AROMATEN_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes converts the configured megabyte cap to bytes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	return int64(u.MaxUploadMB) << 20
}

type MailConfig struct {
	APIKey  string `envconfig:"AROMATEN_RESEND_API_KEY"`
	BaseURL string `envconfig:"AROMATEN_RESEND_BASE_URL" default:"https://api.resend.com"`
	From    string `envconfig:"AROMATEN_MAIL_FROM" default:"Aromaten <onboarding@resend.dev>"`
}

// Enabled reports whether outbound mail is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.APIKey) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AROMATEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AROMATEN_AUTO_MIGRATE" default:"false"`
}
