package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the timetable-engine process's full configuration, loaded
// once at startup by Load. The core csp/generator packages never see this
// type — only cmd/timetable-engine and the pkg logger, database and cache
// helpers do.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Solver   SolverConfig
	Auth     AuthConfig
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

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig carries the solver defaults. DefaultTimeout and
// DefaultMaxAttempts are handed to the generate handler for requests that
// don't override them, and ProposalTTL sets its proposal cache lifetime;
// MaxDailyHours and DefaultMaxSolutions are loaded but not read by any
// caller.
type SolverConfig struct {
	MaxDailyHours       float64
	DefaultTimeout      time.Duration
	DefaultMaxAttempts  int
	DefaultMaxSolutions int
	ProposalTTL         time.Duration
}

// AuthConfig gates the timetables route group (generate and proposal
// fetch). An empty BearerToken disables
// the gate entirely.
type AuthConfig struct {
	BearerToken string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		MaxDailyHours:       v.GetFloat64("SOLVER_MAX_DAILY_HOURS"),
		DefaultTimeout:      parseDuration(v.GetString("SOLVER_DEFAULT_TIMEOUT"), 30*time.Second),
		DefaultMaxAttempts:  v.GetInt("SOLVER_DEFAULT_MAX_ATTEMPTS"),
		DefaultMaxSolutions: v.GetInt("SOLVER_DEFAULT_MAX_SOLUTIONS"),
		ProposalTTL:         parseDuration(v.GetString("SOLVER_PROPOSAL_TTL"), 30*time.Minute),
	}

	cfg.Auth = AuthConfig{
		BearerToken: v.GetString("AUTH_BEARER_TOKEN"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable_engine")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_MAX_DAILY_HOURS", 6.0)
	v.SetDefault("SOLVER_DEFAULT_TIMEOUT", "30s")
	v.SetDefault("SOLVER_DEFAULT_MAX_ATTEMPTS", 3)
	v.SetDefault("SOLVER_DEFAULT_MAX_SOLUTIONS", 1)
	v.SetDefault("SOLVER_PROPOSAL_TTL", "30m")

	v.SetDefault("AUTH_BEARER_TOKEN", "")
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
