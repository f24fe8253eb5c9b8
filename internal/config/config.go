package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"donoryuk/internal/adapters/storage"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Storage  storage.Config
	Log      LogConfig
	Admin    AdminSeedConfig
	Cron     CronConfig

	// ProofURLExpiry is how long a presigned proof link stays valid
	ProofURLExpiry time.Duration

	// EnvFileLoaded is false when no .env file was found
	EnvFileLoaded bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// AdminSeedConfig is the first administrator created on an empty database
type AdminSeedConfig struct {
	Email    string
	Password string
	Name     string
}

// CronConfig holds the job schedules (six-field specs, seconds first)
type CronConfig struct {
	Timezone       string
	TokenCleanup   string
	CooldownDigest string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Missing .env is fine in production
	envLoaded := godotenv.Load() == nil

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	storageCfg, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	expiryMins, _ := strconv.Atoi(getEnv("STORAGE_URL_EXPIRY_MINUTES", "15"))

	cfg := &Config{
		AppMode:        appMode,
		Port:           getEnv("PORT", "3000"),
		Database:       loadDatabaseConfig(appMode),
		JWT:            loadJWTConfig(appMode),
		Cookie:         loadCookieConfig(appMode),
		Storage:        storageCfg,
		Log:            loadLogConfig(appMode),
		Admin:          loadAdminSeedConfig(),
		Cron:           loadCronConfig(),
		ProofURLExpiry: time.Duration(expiryMins) * time.Minute,
		EnvFileLoaded:  envLoaded,
	}

	if cfg.IsProd() && (cfg.JWT.Secret == defaultJWTSecret || cfg.JWT.RefreshSecret == defaultRefreshSecret) {
		return nil, fmt.Errorf("PROD_JWT_SECRET and PROD_JWT_REFRESH_SECRET must be set in prod mode")
	}

	return cfg, nil
}

func envPrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := envPrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "donoryuk"),
	}
}

const (
	defaultJWTSecret     = "default_secret"
	defaultRefreshSecret = "default_refresh_secret"
)

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := envPrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", defaultJWTSecret),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", defaultRefreshSecret),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(envPrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadStorageConfig loads the proof document storage backend
func loadStorageConfig() (storage.Config, error) {
	cfg := storage.Config{
		Type:      storage.Type(getEnv("STORAGE_TYPE", string(storage.TypeLocal))),
		LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		PublicURL: getEnv("STORAGE_PUBLIC_URL", "/files"),
	}

	switch cfg.Type {
	case storage.TypeLocal:
	case storage.TypeS3:
		cfg.S3 = &storage.S3Config{
			Bucket: getEnv("STORAGE_S3_BUCKET", ""),
			Region: getEnv("STORAGE_S3_REGION", ""),
		}
		if cfg.S3.Bucket == "" || cfg.S3.Region == "" {
			return cfg, fmt.Errorf("S3 storage requires STORAGE_S3_BUCKET and STORAGE_S3_REGION")
		}
	default:
		return cfg, fmt.Errorf("invalid STORAGE_TYPE: '%s' (must be 'local' or 's3')", cfg.Type)
	}
	return cfg, nil
}

// loadLogConfig defaults to console output in dev and JSON in prod
func loadLogConfig(mode string) LogConfig {
	format := "json"
	if mode == "dev" {
		format = "console"
	}
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", format),
	}
}

func loadAdminSeedConfig() AdminSeedConfig {
	return AdminSeedConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Name:     getEnv("ADMIN_NAME", "Administrator"),
	}
}

func loadCronConfig() CronConfig {
	return CronConfig{
		Timezone:       getEnv("CRON_TIMEZONE", "Asia/Jakarta"),
		TokenCleanup:   getEnv("CRON_TOKEN_CLEANUP", "0 0 3 * * *"),
		CooldownDigest: getEnv("CRON_COOLDOWN_DIGEST", "0 30 8 * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://donoryuk.id"
	}
	return origins
}
