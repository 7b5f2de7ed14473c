package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIBaseURL = "http://localhost:5000"

type Config struct {
	Port         string
	APIBaseURL   string
	APITimeout   time.Duration
	DBDSN        string
	RedisURL     string
	MediaDir     string
	LogFile      string
	CookieSecure bool
	// TokenSealKey seals stored bearer tokens when set (32 bytes, hex or base64).
	TokenSealKey string
	Storage      StorageConfig
}

type StorageConfig struct {
	Driver        string // local | s3
	Bucket        string
	Prefix        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
	PresignTTL    time.Duration
	MaxBytes      int64
}

func Load() Config {
	// .env is optional; real environment wins.
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("../.env")
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		APIBaseURL:   APIBaseURL(),
		APITimeout:   getDurationEnv("API_TIMEOUT", 15*time.Second),
		DBDSN:        getEnv("DB_DSN", "touradmin.db"),
		RedisURL:     os.Getenv("REDIS_URL"),
		MediaDir:     getEnv("MEDIA_DIR", "./web/media"),
		LogFile:      os.Getenv("LOG_FILE"),
		CookieSecure: getBoolEnv("COOKIE_SECURE", false),
		TokenSealKey: os.Getenv("TOKEN_SEAL_KEY"),
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			Bucket:        os.Getenv("S3_BUCKET"),
			Prefix:        getEnv("S3_PREFIX", "uploads"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			PublicBaseURL: strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretKey:     os.Getenv("S3_SECRET_ACCESS_KEY"),
			PresignTTL:    getDurationEnv("S3_PRESIGN_TTL", 0),
			MaxBytes:      getInt64Env("UPLOAD_MAX_BYTES", 5<<20),
		},
	}

	log.Printf("[config] PORT=%s API=%s DB_DSN=%s REDIS=%t MEDIA_DIR=%s LOG_FILE=%s STORAGE=%s BUCKET=%s SEALED_TOKENS=%t",
		cfg.Port, cfg.APIBaseURL, cfg.DBDSN, cfg.RedisURL != "", cfg.MediaDir, cfg.LogFile,
		cfg.Storage.Driver, cfg.Storage.Bucket, cfg.TokenSealKey != "")
	return cfg
}

// APIBaseURL resolves the backend origin: TOUR_API_BASE_URL, then
// API_BASE_URL, then the localhost fallback. Trailing slashes are stripped.
func APIBaseURL() string {
	for _, k := range []string{"TOUR_API_BASE_URL", "API_BASE_URL"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return DefaultAPIBaseURL
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
