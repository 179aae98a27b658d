package main

import (
	"os"
	"strconv"
	"time"
)

// Config holds all environment variables for the service.
type Config struct {
	Env        string // "development" or "production"
	Port       string // Service port (default: 3000)
	MongoURL   string
	MongoDB    string
	RedisURL   string
	CORSOrigin string

	RateLimitRPS   float64       // requests per second per client IP
	RateLimitBurst int
	RateLimitTTL   time.Duration // idle time before a client's limiter is dropped
}

// LoadConfig loads environment variables into a Config struct with defaults.
func LoadConfig() *Config {
	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "3000"),
		MongoURL:   getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "ecommerce"),
		RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),
		RateLimitTTL:   3 * time.Minute,
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
