package config

// EnvPrefix is passed to envconfig so struct fields without explicit tags
// still resolve under the application namespace.
const EnvPrefix = "SHOPEASY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SHOPEASY_DB_DSN"
	EnvDBHost = "SHOPEASY_DB_HOST"
	EnvDBUser = "SHOPEASY_DB_USER"
	EnvDBName = "SHOPEASY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
