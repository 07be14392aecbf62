package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "slideforge"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "SLIDEFORGE_DB_DSN"
	EnvDBHost = "SLIDEFORGE_DB_HOST"
	EnvDBUser = "SLIDEFORGE_DB_USER"
	EnvDBName = "SLIDEFORGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Export        ExportConfig
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
	Env          string `envconfig:"SLIDEFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"SLIDEFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLIDEFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLIDEFORGE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"SLIDEFORGE_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SLIDEFORGE_DB_DSN"`
	Driver string `envconfig:"SLIDEFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLIDEFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"SLIDEFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLIDEFORGE_DB_USER"`
	LegacyPassword string `envconfig:"SLIDEFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLIDEFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLIDEFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLIDEFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLIDEFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLIDEFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLIDEFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLIDEFORGE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SLIDEFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLIDEFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLIDEFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLIDEFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLIDEFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLIDEFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLIDEFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SLIDEFORGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SLIDEFORGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SLIDEFORGE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SLIDEFORGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SLIDEFORGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SLIDEFORGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SLIDEFORGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SLIDEFORGE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SLIDEFORGE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SLIDEFORGE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SLIDEFORGE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SLIDEFORGE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SLIDEFORGE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SLIDEFORGE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLIDEFORGE_AUTO_MIGRATE" default:"false"`
}

// ExportConfig holds settings for the pptx exporter.
type ExportConfig struct {
	UnidocLicenseKey string `envconfig:"SLIDEFORGE_UNIDOC_LICENSE_KEY"`
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
