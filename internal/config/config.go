package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read once at process start and injected into every component.
// Nothing re-reads the environment per request.
type Config struct {
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	ServerPort   string
	SessionSlot  int
	AdminToken   string
	CookieSecret string
	TickInterval time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "campusreport"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		SessionSlot:  getEnvInt("SESSION_SLOT", 1),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),
		CookieSecret: getEnv("COOKIE_SECRET", ""),
		TickInterval: getEnvDuration("TICK_INTERVAL_MS", 1000*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}
