package config

const (
	EnvPrefix = "AUTHLINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced from tests and docs.
const (
	EnvAppEnv    = "AUTHLINE_APP_ENV"
	EnvPort      = "AUTHLINE_APP_PORT"
	EnvDBDSN     = "AUTHLINE_DB_DSN"
	EnvRedisURL  = "AUTHLINE_REDIS_URL"
	EnvJWTSecret = "AUTHLINE_JWT_SECRET"
	EnvJWTIssuer = "AUTHLINE_JWT_ISSUER"
	EnvJWTTTL    = "AUTHLINE_JWT_TTL"
	EnvOTPStatic = "AUTHLINE_OTP_STATIC_CODE"
)
