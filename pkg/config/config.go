package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers understood by the snapshot bootstrap.
const (
	StoreDriverFile     = "file"
	StoreDriverBolt     = "bolt"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mirror   MirrorConfig
	CORS     CORSConfig
	Log      LogConfig
	Sheets   SheetsConfig
	Seed     SeedConfig
}

// StoreConfig selects the durable backend for the scheduling snapshot.
type StoreConfig struct {
	Driver    string
	Path      string
	SQLiteDSN string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MirrorConfig controls the best-effort Redis copy of committed snapshots.
type MirrorConfig struct {
	Enabled    bool
	Key        string
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SheetsConfig bounds slot batch creation.
type SheetsConfig struct {
	MaxSlotsPerBatch int
}

// SeedConfig points at an optional TOML roster applied at startup.
type SeedConfig struct {
	RosterFile string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Store = StoreConfig{
		Driver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		Path:      v.GetString("STORE_PATH"),
		SQLiteDSN: v.GetString("SQLITE_DSN"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Mirror = MirrorConfig{
		Enabled:    v.GetBool("MIRROR_REDIS_ENABLED"),
		Key:        v.GetString("MIRROR_REDIS_KEY"),
		Workers:    v.GetInt("MIRROR_WORKERS"),
		Retries:    v.GetInt("MIRROR_RETRIES"),
		RetryDelay: parseDuration(v.GetString("MIRROR_RETRY_DELAY"), time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sheets = SheetsConfig{MaxSlotsPerBatch: v.GetInt("MAX_SLOTS_PER_BATCH")}
	if cfg.Sheets.MaxSlotsPerBatch <= 0 {
		cfg.Sheets.MaxSlotsPerBatch = 100
	}

	cfg.Seed = SeedConfig{RosterFile: v.GetString("ROSTER_SEED_FILE")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_PATH", "./data/db.json")
	v.SetDefault("SQLITE_DSN", "file:./data/signups.db?_foreign_keys=on")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "signup_sheets")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MIRROR_REDIS_ENABLED", false)
	v.SetDefault("MIRROR_REDIS_KEY", "signup-sheets:snapshot")
	v.SetDefault("MIRROR_WORKERS", 1)
	v.SetDefault("MIRROR_RETRIES", 3)
	v.SetDefault("MIRROR_RETRY_DELAY", "1s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAX_SLOTS_PER_BATCH", 100)
	v.SetDefault("ROSTER_SEED_FILE", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
