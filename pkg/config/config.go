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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream   UpstreamConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Gazetteer  GazetteerConfig
	SchoolList SchoolListConfig
	Views      ViewsConfig
}

// UpstreamConfig points the gateway at the school REST API.
type UpstreamConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Language string
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

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the redis backed read-through caches.
type CacheConfig struct {
	Enabled       bool
	AttendanceTTL time.Duration
	LocationTTL   time.Duration
}

// GazetteerConfig toggles the local postgres location-name table.
type GazetteerConfig struct {
	Enabled bool
}

// SchoolListConfig tunes the school page fan-out.
type SchoolListConfig struct {
	Concurrency  int
	DefaultLimit int
	MaxLimit     int
}

// ViewsConfig controls server-held view model sessions.
type ViewsConfig struct {
	SessionTTL time.Duration
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

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL:  strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout:  parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
		Language: v.GetString("UPSTREAM_LANG"),
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

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:       v.GetBool("ENABLE_CACHE"),
		AttendanceTTL: parseDuration(v.GetString("ATTENDANCE_CACHE_TTL"), 30*time.Second),
		LocationTTL:   parseDuration(v.GetString("LOCATION_CACHE_TTL"), 24*time.Hour),
	}

	cfg.Gazetteer = GazetteerConfig{
		Enabled: v.GetBool("ENABLE_GAZETTEER"),
	}

	cfg.SchoolList = SchoolListConfig{
		Concurrency:  v.GetInt("SCHOOL_LIST_CONCURRENCY"),
		DefaultLimit: v.GetInt("SCHOOL_LIST_DEFAULT_LIMIT"),
		MaxLimit:     v.GetInt("SCHOOL_LIST_MAX_LIMIT"),
	}

	cfg.Views = ViewsConfig{
		SessionTTL: parseDuration(v.GetString("VIEW_SESSION_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("UPSTREAM_LANG", "kh")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dashboard_gazetteer")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("ATTENDANCE_CACHE_TTL", "30s")
	v.SetDefault("LOCATION_CACHE_TTL", "24h")
	v.SetDefault("ENABLE_GAZETTEER", false)

	v.SetDefault("SCHOOL_LIST_CONCURRENCY", 8)
	v.SetDefault("SCHOOL_LIST_DEFAULT_LIMIT", 10)
	v.SetDefault("SCHOOL_LIST_MAX_LIMIT", 100)

	v.SetDefault("VIEW_SESSION_TTL", "30m")
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
