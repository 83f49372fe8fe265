package config

// EnvPrefix is the envconfig prefix shared by every variable below.
const EnvPrefix = "GRYADKA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "GRYADKA_APP_ENV"
	EnvPort     = "GRYADKA_APP_PORT"
	EnvLogLevel = "GRYADKA_LOG_LEVEL"

	EnvDBDSN      = "GRYADKA_DB_DSN"
	EnvDBHost     = "GRYADKA_DB_HOST"
	EnvDBPort     = "GRYADKA_DB_PORT"
	EnvDBUser     = "GRYADKA_DB_USER"
	EnvDBPassword = "GRYADKA_DB_PASSWORD"
	EnvDBName     = "GRYADKA_DB_NAME"

	EnvRedisURL = "GRYADKA_REDIS_URL"

	EnvGCPProjectID     = "GRYADKA_GCP_PROJECT_ID"
	EnvPubSubOrderTopic = "GRYADKA_PUBSUB_ORDER_EVENTS_TOPIC"
	EnvPubSubOrderSub   = "GRYADKA_PUBSUB_ORDER_EVENTS_SUBSCRIPTION"
)

// legacyDBEnvVars are the discrete connection vars accepted when
// GRYADKA_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
