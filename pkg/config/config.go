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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Outbox       OutboxConfig
	Reminder     ReminderConfig
	Retention    RetentionConfig
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
	Env          string `envconfig:"CAMPUSLEND_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSLEND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSLEND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSLEND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CAMPUSLEND_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"CAMPUSLEND_DB_DSN"`

	// UseSQLite swaps the dialector to sqlite for local single-binary runs;
	// the DSN must then be a sqlite path.
	UseSQLite bool `envconfig:"CAMPUSLEND_USE_SQLITE" default:"false"`

	LegacyHost     string `envconfig:"CAMPUSLEND_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSLEND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSLEND_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSLEND_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSLEND_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSLEND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSLEND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSLEND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSLEND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSLEND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSLEND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSLEND_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSLEND_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSLEND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSLEND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSLEND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSLEND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSLEND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSLEND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CAMPUSLEND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CAMPUSLEND_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CAMPUSLEND_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSLEND_AUTO_MIGRATE" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CAMPUSLEND_OUTBOX_DISPATCH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CAMPUSLEND_OUTBOX_DISPATCH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CAMPUSLEND_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type ReminderConfig struct {
	Interval time.Duration `envconfig:"CAMPUSLEND_REMINDER_INTERVAL" default:"60m"`
	Window   time.Duration `envconfig:"CAMPUSLEND_REMINDER_WINDOW" default:"24h"`
}

type RetentionConfig struct {
	ReadNotificationAge time.Duration `envconfig:"CAMPUSLEND_NOTIFICATION_RETENTION" default:"720h"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.UseSQLite {
		return fmt.Errorf("%s is required when %s is set", EnvDBDSN, EnvUseSQLite)
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
