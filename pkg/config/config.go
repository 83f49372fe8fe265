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
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Store        StoreConfig
	Idempotency  IdempotencyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Metrics      MetricsConfig
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
	Env          string `envconfig:"GRYADKA_APP_ENV" required:"true"`
	Port         string `envconfig:"GRYADKA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GRYADKA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GRYADKA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GRYADKA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GRYADKA_DB_DSN"`
	Driver string `envconfig:"GRYADKA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GRYADKA_DB_HOST"`
	LegacyPort     int    `envconfig:"GRYADKA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GRYADKA_DB_USER"`
	LegacyPassword string `envconfig:"GRYADKA_DB_PASSWORD"`
	LegacyName     string `envconfig:"GRYADKA_DB_NAME"`
	LegacySSLMode  string `envconfig:"GRYADKA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GRYADKA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GRYADKA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GRYADKA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GRYADKA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GRYADKA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GRYADKA_REDIS_ADDR"`
	Password     string        `envconfig:"GRYADKA_REDIS_PASSWORD"`
	DB           int           `envconfig:"GRYADKA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GRYADKA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GRYADKA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GRYADKA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GRYADKA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GRYADKA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GRYADKA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GRYADKA_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GRYADKA_CORS_ALLOWED_ORIGINS" default:"*"`
}

// StoreConfig tunes how storefront settings are served.
type StoreConfig struct {
	SettingsRefreshInterval time.Duration `envconfig:"GRYADKA_SETTINGS_REFRESH_INTERVAL" default:"1m"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"GRYADKA_IDEMPOTENCY_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GRYADKA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"GRYADKA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GRYADKA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrderEventsTopic        string `envconfig:"GRYADKA_PUBSUB_ORDER_EVENTS_TOPIC" required:"true"`
	OrderEventsSubscription string `envconfig:"GRYADKA_PUBSUB_ORDER_EVENTS_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GRYADKA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GRYADKA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GRYADKA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type MetricsConfig struct {
	Port string `envconfig:"GRYADKA_METRICS_PORT" default:"9091"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
