package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	ListenAddr   string
	DatabaseURL  string
	LogLevel     string
	AMQPURL      string
	AMQPQueue    string
	PreviewTTL   time.Duration
	StoreTimeout time.Duration
	MaxUploadMB  int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env when present, then the environment. A missing
// DATABASE_URL is reported as an error alongside a usable config so callers
// can decide whether they need the store.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPQueue:    getenv("AMQP_QUEUE", "dashpmo.imports"),
		PreviewTTL:   getenvDuration("PREVIEW_TTL", 30*time.Minute),
		StoreTimeout: getenvDuration("STORE_TIMEOUT", 10*time.Second),
		MaxUploadMB:  getenvInt("MAX_UPLOAD_MB", 20),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

// MaxUploadBytes converts MaxUploadMB for http.MaxBytesReader.
func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
