package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified names.
const EnvPrefix = "CAMPUSLEND"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv     = "CAMPUSLEND_APP_ENV"
	EnvPort       = "CAMPUSLEND_APP_PORT"
	EnvDBDSN      = "CAMPUSLEND_DB_DSN"
	EnvUseSQLite  = "CAMPUSLEND_USE_SQLITE"
	EnvDBHost     = "CAMPUSLEND_DB_HOST"
	EnvDBUser     = "CAMPUSLEND_DB_USER"
	EnvDBName     = "CAMPUSLEND_DB_NAME"
	EnvRedisURL   = "CAMPUSLEND_REDIS_URL"
	EnvJWTSecret  = "CAMPUSLEND_JWT_SECRET"
	EnvJWTIssuer  = "CAMPUSLEND_JWT_ISSUER"
	EnvJWTExpMins = "CAMPUSLEND_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
