package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	CORS         CORSConfig
	Cart         CartConfig
	Availability AvailabilityConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WAHIBA_APP_ENV" required:"true"`
	Port         string `envconfig:"WAHIBA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WAHIBA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAHIBA_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"WAHIBA_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"WAHIBA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"WAHIBA_DB_DSN"`
	Driver string `envconfig:"WAHIBA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WAHIBA_DB_HOST"`
	Port     int    `envconfig:"WAHIBA_DB_PORT" default:"5432"`
	User     string `envconfig:"WAHIBA_DB_USER"`
	Password string `envconfig:"WAHIBA_DB_PASSWORD"`
	Name     string `envconfig:"WAHIBA_DB_NAME"`
	SSLMode  string `envconfig:"WAHIBA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WAHIBA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WAHIBA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WAHIBA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAHIBA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"WAHIBA_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WAHIBA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WAHIBA_REDIS_ADDR"`
	Password     string        `envconfig:"WAHIBA_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAHIBA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAHIBA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAHIBA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAHIBA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAHIBA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAHIBA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig holds the settings used to verify back-office tokens minted by
// the identity provider.
type AuthConfig struct {
	JWTSecret string        `envconfig:"WAHIBA_AUTH_JWT_SECRET" required:"true"`
	Issuer    string        `envconfig:"WAHIBA_AUTH_JWT_ISSUER" required:"true"`
	AdminRole string        `envconfig:"WAHIBA_AUTH_ADMIN_ROLE" default:"admin"`
	ClockSkew time.Duration `envconfig:"WAHIBA_AUTH_CLOCK_SKEW" default:"30s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WAHIBA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	MaxAge         int      `envconfig:"WAHIBA_CORS_MAX_AGE" default:"300"`
}

type CartConfig struct {
	TTL       time.Duration `envconfig:"WAHIBA_CART_TTL" default:"720h"`
	StoreName string        `envconfig:"WAHIBA_CART_STORE_NAME" default:"cart-storage"`
}

type AvailabilityConfig struct {
	CacheTTL time.Duration `envconfig:"WAHIBA_AVAILABILITY_CACHE_TTL" default:"60s"`
	// CalendarMaxDays bounds the span a single calendar request may cover.
	CalendarMaxDays int `envconfig:"WAHIBA_AVAILABILITY_CALENDAR_MAX_DAYS" default:"400"`
}

type IdempotencyConfig struct {
	CheckoutTTL time.Duration `envconfig:"WAHIBA_IDEMPOTENCY_CHECKOUT_TTL" default:"24h"`
	ContactTTL  time.Duration `envconfig:"WAHIBA_IDEMPOTENCY_CONTACT_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WAHIBA_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WAHIBA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"WAHIBA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WAHIBA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	BookingsTopic string `envconfig:"WAHIBA_PUBSUB_BOOKINGS_TOPIC" default:"wahiba-booking-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"WAHIBA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"WAHIBA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"WAHIBA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval            time.Duration `envconfig:"WAHIBA_CRON_INTERVAL" default:"1h"`
	LockTTL             time.Duration `envconfig:"WAHIBA_CRON_LOCK_TTL" default:"10m"`
	OutboxRetentionDays int           `envconfig:"WAHIBA_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
