package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Lock         LockConfig         `mapstructure:"lock"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	App          AppConfig          `mapstructure:"app"`
	Reservation  ReservationConfig  `mapstructure:"reservation"`
	Availability AvailabilityConfig `mapstructure:"availability"`
	Sweeper      SweeperConfig      `mapstructure:"sweeper"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Host                    string        `mapstructure:"host"`
	Port                    int           `mapstructure:"port"`
	Mode                    string        `mapstructure:"mode"`
	ReadTimeout             time.Duration `mapstructure:"read_timeout"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver      string         `mapstructure:"driver"` // "postgres" | "sqlite"
	AutoMigrate bool           `mapstructure:"auto_migrate"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
	SQLite      SQLiteConfig   `mapstructure:"sqlite"`
	Redis       RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DB              string        `mapstructure:"db"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SQLiteConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LockConfig struct {
	Backend string        `mapstructure:"backend"` // "redis" | "memory"
	TTL     time.Duration `mapstructure:"ttl"`
	Wait    time.Duration `mapstructure:"wait"`
}

// JWTConfig selects how bearer tokens are checked: HS256 with a shared signing
// key, or RS256 against the identity provider's JWKS when jwks_url is set.
type JWTConfig struct {
	SigningKey     string        `mapstructure:"signing_key"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	JWKSURL        string        `mapstructure:"jwks_url"`
	RoleClaim      string        `mapstructure:"role_claim"`
}

type AppConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type ReservationConfig struct {
	SeatAccounting string        `mapstructure:"seat_accounting"` // "seats" | "legacy"
	InvitationTTL  time.Duration `mapstructure:"invitation_ttl"`
}

type AvailabilityConfig struct {
	Timezone  string `mapstructure:"timezone"`
	OpenHour  int    `mapstructure:"open_hour"`
	CloseHour int    `mapstructure:"close_hour"`
}

type SweeperConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.graceful_shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.sqlite.path", "spacehub.db")
	v.SetDefault("database.sqlite.busy_timeout", 5*time.Second)
	v.SetDefault("database.redis.port", 6379)

	v.SetDefault("lock.backend", "memory")
	v.SetDefault("lock.ttl", 10*time.Second)
	v.SetDefault("lock.wait", 3*time.Second)

	v.SetDefault("jwt.signing_key", "")
	v.SetDefault("jwt.issuer", "spacehub")
	v.SetDefault("jwt.access_token_ttl", time.Hour)
	v.SetDefault("jwt.jwks_url", "")
	v.SetDefault("jwt.role_claim", "role")

	v.SetDefault("app.base_url", "http://localhost:3000")

	v.SetDefault("reservation.seat_accounting", "seats")
	v.SetDefault("reservation.invitation_ttl", 30*24*time.Hour)

	v.SetDefault("availability.timezone", "UTC")
	v.SetDefault("availability.open_hour", 8)
	v.SetDefault("availability.close_hour", 22)

	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.interval", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads config.yaml, overlays environment variables, and returns Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Environment variable override: DATABASE_POSTGRES_HOST -> database.postgres.host
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Lock.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown lock backend %q", c.Lock.Backend)
	}
	switch c.Reservation.SeatAccounting {
	case "seats", "legacy":
	default:
		return fmt.Errorf("unknown seat accounting mode %q", c.Reservation.SeatAccounting)
	}
	if strings.TrimSpace(c.JWT.SigningKey) == "" && c.JWT.JWKSURL == "" {
		return fmt.Errorf("jwt.signing_key or jwt.jwks_url is required")
	}
	if c.Reservation.InvitationTTL <= 0 {
		return fmt.Errorf("reservation.invitation_ttl must be positive")
	}
	if c.Availability.OpenHour < 0 || c.Availability.CloseHour > 24 || c.Availability.OpenHour >= c.Availability.CloseHour {
		return fmt.Errorf("availability hours must satisfy 0 <= open_hour < close_hour <= 24")
	}
	if _, err := c.Availability.Location(); err != nil {
		return fmt.Errorf("availability.timezone: %w", err)
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return fmt.Errorf("sweeper.interval must be positive")
	}
	return nil
}

// Location resolves the calendar zone used for day grids.
func (a AvailabilityConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}
