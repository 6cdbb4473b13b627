package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full environment-driven configuration for every
// BuildLedger binary.
type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	Idempotency  IdempotencyConfig
	Recent       RecentConfig
	FeatureFlags FeatureFlagsConfig
}

// Load reads configuration from the environment and normalizes the DSN.
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
	Env          string `envconfig:"BUILDLEDGER_APP_ENV" required:"true"`
	Port         string `envconfig:"BUILDLEDGER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUILDLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUILDLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BUILDLEDGER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BUILDLEDGER_DB_DSN"`
	Driver string `envconfig:"BUILDLEDGER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BUILDLEDGER_DB_HOST"`
	LegacyPort     int    `envconfig:"BUILDLEDGER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BUILDLEDGER_DB_USER"`
	LegacyPassword string `envconfig:"BUILDLEDGER_DB_PASSWORD"`
	LegacyName     string `envconfig:"BUILDLEDGER_DB_NAME"`
	LegacySSLMode  string `envconfig:"BUILDLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUILDLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUILDLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUILDLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUILDLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUILDLEDGER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUILDLEDGER_REDIS_ADDR"`
	Password     string        `envconfig:"BUILDLEDGER_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUILDLEDGER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUILDLEDGER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUILDLEDGER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUILDLEDGER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUILDLEDGER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUILDLEDGER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CronConfig drives the cron worker: how often the cycle runs and how long
// pruned QuickBooks sync history is retained.
type CronConfig struct {
	Interval          time.Duration `envconfig:"BUILDLEDGER_CRON_INTERVAL" default:"1h"`
	LockTTL           time.Duration `envconfig:"BUILDLEDGER_CRON_LOCK_TTL" default:"2h"`
	SyncRetentionDays int           `envconfig:"BUILDLEDGER_SYNC_RETENTION_DAYS" default:"90"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"BUILDLEDGER_IDEMPOTENCY_TTL" default:"24h"`
}

// RecentConfig sizes the per-actor recently-viewed project list.
type RecentConfig struct {
	MaxEntries int           `envconfig:"BUILDLEDGER_RECENT_MAX_ENTRIES" default:"10"`
	TTL        time.Duration `envconfig:"BUILDLEDGER_RECENT_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BUILDLEDGER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BUILDLEDGER_AUTO_MIGRATE" default:"false"`
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
