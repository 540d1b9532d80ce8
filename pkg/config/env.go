package config

const (
	EnvPrefix = "WAHIBA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "WAHIBA_APP_ENV"
	EnvPort     = "WAHIBA_APP_PORT"
	EnvLogLevel = "WAHIBA_LOG_LEVEL"

	EnvDBDSN  = "WAHIBA_DB_DSN"
	EnvDBHost = "WAHIBA_DB_HOST"
	EnvDBPort = "WAHIBA_DB_PORT"
	EnvDBUser = "WAHIBA_DB_USER"
	EnvDBPass = "WAHIBA_DB_PASSWORD"
	EnvDBName = "WAHIBA_DB_NAME"

	EnvRedisURL = "WAHIBA_REDIS_URL"

	EnvJWTSecret = "WAHIBA_AUTH_JWT_SECRET"
	EnvJWTIssuer = "WAHIBA_AUTH_JWT_ISSUER"

	EnvCORSAllowedOrigins = "WAHIBA_CORS_ALLOWED_ORIGINS"
	EnvCartTTL            = "WAHIBA_CART_TTL"
	EnvAvailabilityTTL    = "WAHIBA_AVAILABILITY_CACHE_TTL"
	EnvPubSubBookings     = "WAHIBA_PUBSUB_BOOKINGS_TOPIC"
	EnvCronRetentionDays  = "WAHIBA_CRON_OUTBOX_RETENTION_DAYS"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
