package config

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "billbook"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "BILLBOOK_APP_ENV"
	EnvPort     = "BILLBOOK_APP_PORT"
	EnvRedisURL = "BILLBOOK_REDIS_URL"

	EnvDBDSN  = "BILLBOOK_DB_DSN"
	EnvDBHost = "BILLBOOK_DB_HOST"
	EnvDBUser = "BILLBOOK_DB_USER"
	EnvDBName = "BILLBOOK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
