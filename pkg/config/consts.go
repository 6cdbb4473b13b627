package config

// EnvPrefix is empty because every field spells out its fully-prefixed
// variable name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "BUILDLEDGER_APP_ENV"
	EnvPort     = "BUILDLEDGER_APP_PORT"
	EnvDBDSN    = "BUILDLEDGER_DB_DSN"
	EnvDBHost   = "BUILDLEDGER_DB_HOST"
	EnvDBUser   = "BUILDLEDGER_DB_USER"
	EnvDBName   = "BUILDLEDGER_DB_NAME"
	EnvRedisURL = "BUILDLEDGER_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
