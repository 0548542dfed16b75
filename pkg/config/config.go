package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Saymandev/samucha-storefront/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SAMUCHA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "SAMUCHA_APP_ENV"
	EnvDBDSN  = "SAMUCHA_DB_DSN"
	EnvDBHost = "SAMUCHA_DB_HOST"
	EnvDBUser = "SAMUCHA_DB_USER"
	EnvDBName = "SAMUCHA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Cart         CartConfig
	Variants     VariantsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := enums.ParseOverMaxPolicy(cfg.Cart.OverMaxPolicy); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SAMUCHA_APP_ENV" required:"true"`
	Port         string `envconfig:"SAMUCHA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SAMUCHA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAMUCHA_LOG_WARN_STACK" default:"false"`

	// CORSOrigins is a comma separated list of storefront origins.
	CORSOrigins []string `envconfig:"SAMUCHA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"SAMUCHA_DB_DSN"`
	SQLitePath string `envconfig:"SAMUCHA_DB_SQLITE_PATH" default:"samucha.db"`

	LegacyHost     string `envconfig:"SAMUCHA_DB_HOST"`
	LegacyPort     int    `envconfig:"SAMUCHA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAMUCHA_DB_USER"`
	LegacyPassword string `envconfig:"SAMUCHA_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAMUCHA_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAMUCHA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAMUCHA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAMUCHA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAMUCHA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAMUCHA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAMUCHA_REDIS_URL"`
	Address      string        `envconfig:"SAMUCHA_REDIS_ADDR"`
	Password     string        `envconfig:"SAMUCHA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAMUCHA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAMUCHA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAMUCHA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAMUCHA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAMUCHA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAMUCHA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SAMUCHA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SAMUCHA_AUTO_MIGRATE" default:"false"`
}

// CartConfig tunes the session cart engine.
type CartConfig struct {
	OverMaxPolicy string        `envconfig:"SAMUCHA_CART_OVER_MAX_POLICY" default:"reject"`
	SnapshotTTL   time.Duration `envconfig:"SAMUCHA_CART_SNAPSHOT_TTL" default:"720h"`
	Namespace     string        `envconfig:"SAMUCHA_CART_NAMESPACE" default:"app-storage"`
}

// Policy returns the parsed over-max policy. Load has already validated it.
func (c CartConfig) Policy() enums.OverMaxPolicy {
	policy, err := enums.ParseOverMaxPolicy(c.OverMaxPolicy)
	if err != nil {
		return enums.OverMaxPolicyReject
	}
	return policy
}

type VariantsConfig struct {
	SKUMaxAttempts int `envconfig:"SAMUCHA_VARIANTS_SKU_MAX_ATTEMPTS" default:"5"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
