package config

const EnvPrefix = "MICRON"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "MICRON_APP_ENV"
	EnvPort      = "MICRON_APP_PORT"
	EnvLogLevel  = "MICRON_LOG_LEVEL"
	EnvLanguages = "MICRON_LANGUAGES"

	EnvDBDSN    = "MICRON_DB_DSN"
	EnvDBDriver = "MICRON_DB_DRIVER"
	EnvDBHost   = "MICRON_DB_HOST"
	EnvDBUser   = "MICRON_DB_USER"
	EnvDBName   = "MICRON_DB_NAME"

	EnvRedisURL = "MICRON_REDIS_URL"

	EnvJWTSecret = "MICRON_JWT_SECRET"
	EnvJWTIssuer = "MICRON_JWT_ISSUER"

	EnvCurrencyURL = "MICRON_CURRENCY_NBU_URL"

	EnvStorefrontURL      = "MICRON_STOREFRONT_URL"
	EnvStorefrontLanguage = "MICRON_STOREFRONT_LANGUAGE"
	EnvStorefrontUAHRate  = "MICRON_STOREFRONT_UAH_RATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
