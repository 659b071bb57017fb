package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	OTP       OTPConfig
	ImageHost ImageHostConfig
	Admin     AdminSeedConfig
	Features  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"AUTHLINE_APP_ENV" required:"true"`
	Port         string   `envconfig:"AUTHLINE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"AUTHLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"AUTHLINE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"AUTHLINE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AUTHLINE_DB_DSN" required:"true"`
	Driver string `envconfig:"AUTHLINE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"AUTHLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTHLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTHLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTHLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTHLINE_REDIS_URL"`
	Address      string        `envconfig:"AUTHLINE_REDIS_ADDR"`
	Password     string        `envconfig:"AUTHLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTHLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTHLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTHLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTHLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTHLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTHLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The OTP
// challenge store falls back to its in-process implementation otherwise.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret string        `envconfig:"AUTHLINE_JWT_SECRET" required:"true"`
	Issuer string        `envconfig:"AUTHLINE_JWT_ISSUER" default:"authline"`
	TTL    time.Duration `envconfig:"AUTHLINE_JWT_TTL" default:"6h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUTHLINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUTHLINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUTHLINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUTHLINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUTHLINE_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL    time.Duration `envconfig:"AUTHLINE_OTP_TTL" default:"5m"`
	Digits int           `envconfig:"AUTHLINE_OTP_DIGITS" default:"6"`
	// StaticCode, when set, is accepted for any phone on password reset.
	// Kept for environments without a real delivery channel.
	StaticCode string `envconfig:"AUTHLINE_OTP_STATIC_CODE"`
}

type ImageHostConfig struct {
	BaseURL string        `envconfig:"AUTHLINE_IMAGE_HOST_URL" default:"https://api.imgbb.com/1"`
	APIKey  string        `envconfig:"AUTHLINE_IMAGE_HOST_API_KEY"`
	Timeout time.Duration `envconfig:"AUTHLINE_IMAGE_HOST_TIMEOUT" default:"15s"`
}

// AdminSeedConfig describes the admin record created once at startup when no
// admin-role user exists yet.
type AdminSeedConfig struct {
	FirstName string `envconfig:"AUTHLINE_ADMIN_FIRST_NAME" default:"System"`
	LastName  string `envconfig:"AUTHLINE_ADMIN_LAST_NAME" default:"Admin"`
	Phone     string `envconfig:"AUTHLINE_ADMIN_PHONE" default:"+919999999999"`
	Password  string `envconfig:"AUTHLINE_ADMIN_PASSWORD"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AUTHLINE_AUTO_MIGRATE" default:"false"`
}
