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
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	JWT          JWTConfig
	Currency     CurrencyConfig
	Catalog      CatalogConfig
	CouponLimit  CouponRateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string   `envconfig:"MICRON_APP_ENV" required:"true"`
	Port            string   `envconfig:"MICRON_APP_PORT" default:"8000"`
	LogLevel        string   `envconfig:"MICRON_LOG_LEVEL" default:"info"`
	LogWarnStack    bool     `envconfig:"MICRON_LOG_WARN_STACK" default:"false"`
	DefaultLanguage string   `envconfig:"MICRON_DEFAULT_LANGUAGE" default:"en"`
	Languages       []string `envconfig:"MICRON_LANGUAGES" default:"en,uk"`
	CORSOrigins     []string `envconfig:"MICRON_CORS_ORIGINS" default:"http://localhost:8000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SupportsLanguage reports whether code is one of the configured URL prefixes.
func (a AppConfig) SupportsLanguage(code string) bool {
	for _, lang := range a.Languages {
		if strings.EqualFold(lang, code) {
			return true
		}
	}
	return false
}

type DBConfig struct {
	DSN    string `envconfig:"MICRON_DB_DSN"`
	Driver string `envconfig:"MICRON_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MICRON_DB_HOST"`
	LegacyPort     int    `envconfig:"MICRON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MICRON_DB_USER"`
	LegacyPassword string `envconfig:"MICRON_DB_PASSWORD"`
	LegacyName     string `envconfig:"MICRON_DB_NAME"`
	LegacySSLMode  string `envconfig:"MICRON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MICRON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MICRON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MICRON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MICRON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MICRON_REDIS_URL"`
	Address      string        `envconfig:"MICRON_REDIS_ADDR"`
	Password     string        `envconfig:"MICRON_REDIS_PASSWORD"`
	DB           int           `envconfig:"MICRON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MICRON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MICRON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MICRON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MICRON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MICRON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig names the cookies that carry the anonymous cart session and
// the CSRF secret.
type SessionConfig struct {
	CookieName     string        `envconfig:"MICRON_SESSION_COOKIE" default:"sessionid"`
	CSRFCookieName string        `envconfig:"MICRON_CSRF_COOKIE" default:"csrftoken"`
	CSRFHeaderName string        `envconfig:"MICRON_CSRF_HEADER" default:"X-CSRFToken"`
	CartTTL        time.Duration `envconfig:"MICRON_CART_TTL" default:"336h"`
	SecureCookies  bool          `envconfig:"MICRON_SECURE_COOKIES" default:"false"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MICRON_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MICRON_JWT_ISSUER" default:"micron"`
	ExpirationMinutes int    `envconfig:"MICRON_JWT_EXPIRATION_MINUTES" default:"1440"`
	CookieName        string `envconfig:"MICRON_JWT_COOKIE" default:"access_token"`
}

type CurrencyConfig struct {
	NBUURL   string        `envconfig:"MICRON_CURRENCY_NBU_URL" default:"https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?valcode=USD&json"`
	CacheTTL time.Duration `envconfig:"MICRON_CURRENCY_CACHE_TTL" default:"1h"`
	Timeout  time.Duration `envconfig:"MICRON_CURRENCY_TIMEOUT" default:"5s"`
}

type CatalogConfig struct {
	PageSize int `envconfig:"MICRON_CATALOG_PAGE_SIZE" default:"5"`
}

// CouponRateLimitConfig throttles coupon guessing per client IP.
type CouponRateLimitConfig struct {
	Window time.Duration `envconfig:"MICRON_COUPON_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"MICRON_COUPON_RATE_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MICRON_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MICRON_AUTO_MIGRATE" default:"false"`
}

// ClientConfig drives the storefront CLI.
type ClientConfig struct {
	BaseURL  string `envconfig:"MICRON_STOREFRONT_URL" default:"http://localhost:8000"`
	Language string `envconfig:"MICRON_STOREFRONT_LANGUAGE" default:"en"`
	UAHRate  string `envconfig:"MICRON_STOREFRONT_UAH_RATE"`
	LogLevel string `envconfig:"MICRON_LOG_LEVEL" default:"info"`
}

func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvStorefrontURL, err)
	}
	return &cfg, nil
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		db.Driver = "sqlite"
		if db.DSN == "" {
			db.DSN = "file:micron.db?cache=shared"
		}
		return nil
	}
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
