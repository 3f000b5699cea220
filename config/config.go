package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	S3        S3Config
	Store     StoreConfig
	Cart      CartConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds the shared secret of the external auth provider that signs
// admin tokens. The backend only verifies them.
type JWTConfig struct {
	Secret    string
	AdminRole string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// StoreConfig describes the storefront itself.
type StoreConfig struct {
	WhatsAppNumber string
	DefaultLocale  string
}

// CartConfig selects where cart snapshots are persisted.
type CartConfig struct {
	Backend      string // memory, file, redis
	StorageKey   string
	FileDir      string
	SnapshotTTL  time.Duration // 0 keeps snapshots forever
	IdleTTL      time.Duration // in-memory session eviction
	CookieName   string
	CookieMaxAge int
}

type SchedulerConfig struct {
	FlashSaleSpec string
	CartEvictSpec string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "kreslo"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", "your-secret-key"),
			AdminRole: getEnv("JWT_ADMIN_ROLE", "admin"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "kreslo-catalog"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Store: StoreConfig{
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),
			DefaultLocale:  getEnv("DEFAULT_LOCALE", "az"),
		},
		Cart: CartConfig{
			Backend:      getEnv("CART_BACKEND", "redis"),
			StorageKey:   getEnv("CART_STORAGE_KEY", "kreslo-cart"),
			FileDir:      getEnv("CART_FILE_DIR", "./data/carts"),
			SnapshotTTL:  parseDuration(getEnv("CART_SNAPSHOT_TTL", "0s"), 0),
			IdleTTL:      parseDuration(getEnv("CART_IDLE_TTL", "30m"), 30*time.Minute),
			CookieName:   getEnv("CART_COOKIE_NAME", "kreslo_cart_session"),
			CookieMaxAge: parseInt(getEnv("CART_COOKIE_MAX_AGE", "31536000"), 31536000),
		},
		Scheduler: SchedulerConfig{
			FlashSaleSpec: getEnv("FLASH_SALE_CRON", "@every 1m"),
			CartEvictSpec: getEnv("CART_EVICT_CRON", "@every 10m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Cart.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.Cart.Backend)
	}
	if c.Cart.StorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY must not be empty")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
