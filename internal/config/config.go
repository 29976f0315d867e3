package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	Environment string // "dev" | "prod"
	MySQL       MySQLConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Migrate     bool
	HTTPAddr    string
	MasterKey   string // 64 hex chars; seals tenant API credentials at rest
	Publish     PublishConfig
	Stats       StatsConfig
	Uploads     UploadsConfig
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// PublishConfig holds the page publish pipeline configuration
type PublishConfig struct {
	PreviewRoot    string // filesystem root for preview renders
	PublishRoot    string // filesystem root for published pages
	BaseURL        string // public base for published pages, e.g. https://pages.offerhub.io
	PreviewBaseURL string // public base for previews
	CDNBase        string // versioned template asset base
	CacheSeconds   int    // Redis TTL for served pages
}

// StatsConfig holds the dashboard stats configuration
type StatsConfig struct {
	CacheSeconds int
}

// UploadsConfig holds the image upload watcher configuration
type UploadsConfig struct {
	PollIntervalSec int
	MaxAttempts     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "offerhub"),
		},
		Migrate:   getEnv("MIGRATE", "0") == "1",
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		MasterKey: getEnv("MASTER_KEY", ""),
		Publish: PublishConfig{
			PreviewRoot:    getEnv("PREVIEW_ROOT", "/data/pages/preview"),
			PublishRoot:    getEnv("PUBLISH_ROOT", "/data/pages/live"),
			BaseURL:        getEnv("PAGES_BASE_URL", "https://pages.offerhub.io"),
			PreviewBaseURL: getEnv("PREVIEW_BASE_URL", "https://preview.offerhub.io"),
			CDNBase:        getEnv("TEMPLATE_CDN_BASE", ""),
			CacheSeconds:   getEnvInt("PAGE_CACHE_SECONDS", 300),
		},
		Stats: StatsConfig{
			CacheSeconds: getEnvInt("STATS_CACHE_SECONDS", 300),
		},
		Uploads: UploadsConfig{
			PollIntervalSec: getEnvInt("UPLOAD_POLL_INTERVAL_SEC", 2),
			MaxAttempts:     getEnvInt("UPLOAD_POLL_MAX_ATTEMPTS", 30),
		},
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MasterKey == "" {
		return nil, fmt.Errorf("MASTER_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		Environment: getValue("ENVIRONMENT", "app", "environment", "dev"),
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "offerhub"),
		},
		Migrate:   getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr:  getValue("HTTP_ADDR", "http", "addr", ":8080"),
		MasterKey: getValue("MASTER_KEY", "app", "master_key", ""),
		Publish: PublishConfig{
			PreviewRoot:    getValue("PREVIEW_ROOT", "publish", "preview_root", "/data/pages/preview"),
			PublishRoot:    getValue("PUBLISH_ROOT", "publish", "publish_root", "/data/pages/live"),
			BaseURL:        getValue("PAGES_BASE_URL", "publish", "base_url", "https://pages.offerhub.io"),
			PreviewBaseURL: getValue("PREVIEW_BASE_URL", "publish", "preview_base_url", "https://preview.offerhub.io"),
			CDNBase:        getValue("TEMPLATE_CDN_BASE", "publish", "cdn_base", ""),
			CacheSeconds:   getValueInt("PAGE_CACHE_SECONDS", "publish", "cache_seconds", 300),
		},
		Stats: StatsConfig{
			CacheSeconds: getValueInt("STATS_CACHE_SECONDS", "stats", "cache_seconds", 300),
		},
		Uploads: UploadsConfig{
			PollIntervalSec: getValueInt("UPLOAD_POLL_INTERVAL_SEC", "uploads", "poll_interval_sec", 2),
			MaxAttempts:     getValueInt("UPLOAD_POLL_MAX_ATTEMPTS", "uploads", "max_attempts", 30),
		},
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MasterKey == "" {
		return nil, fmt.Errorf("MASTER_KEY is required")
	}

	return cfg, nil
}
