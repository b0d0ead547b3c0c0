package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	Media         MediaConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SHOPEASY_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPEASY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPEASY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPEASY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPEASY_DB_DSN"`
	Driver string `envconfig:"SHOPEASY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPEASY_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPEASY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPEASY_DB_USER"`
	LegacyPassword string `envconfig:"SHOPEASY_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPEASY_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPEASY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPEASY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPEASY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPEASY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPEASY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPEASY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPEASY_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPEASY_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPEASY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPEASY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPEASY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPEASY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPEASY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPEASY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPEASY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPEASY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOPEASY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPEASY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPEASY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPEASY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPEASY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPEASY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPEASY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPEASY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOPEASY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPEASY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOPEASY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPEASY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPEASY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CheckoutConfig carries the order pricing knobs. Shipping is a flat fee and
// tax is a fraction of the subtotal, both applied at place-order time.
type CheckoutConfig struct {
	ShippingFeeCents int     `envconfig:"SHOPEASY_CHECKOUT_SHIPPING_FEE_CENTS" default:"1000"`
	TaxRate          float64 `envconfig:"SHOPEASY_CHECKOUT_TAX_RATE" default:"0.08"`
}

type MediaConfig struct {
	UploadDir      string `envconfig:"SHOPEASY_MEDIA_UPLOAD_DIR" default:"uploads"`
	MaxUploadMB    int    `envconfig:"SHOPEASY_MEDIA_MAX_UPLOAD_MB" default:"5"`
	ImageMaxWidth  int    `envconfig:"SHOPEASY_MEDIA_IMAGE_MAX_WIDTH" default:"800"`
	ImageMaxHeight int    `envconfig:"SHOPEASY_MEDIA_IMAGE_MAX_HEIGHT" default:"800"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPEASY_AUTO_MIGRATE" default:"false"`
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
