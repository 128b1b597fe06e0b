// Package config reads coursesync settings from the process environment,
// optionally seeded from .env files.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvScheduleURL = "SCHEDULE_URL"
	EnvMongoURI    = "MONGO_URI"
	EnvDatabase    = "MONGO_DATABASE"
	EnvCollection  = "MONGO_COLLECTION"
	EnvTLSInsecure = "MONGO_TLS_INSECURE"
	EnvLogLevel    = "LOG_LEVEL"
	EnvTimeout     = "FETCH_TIMEOUT"
)

// DefaultEnvFiles are loaded by Load, most specific first
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config holds the settings for one run
type Config struct {
	ScheduleURL string
	MongoURI    string
	Database    string
	Collection  string
	TLSInsecure bool
	LogLevel    string
	Timeout     time.Duration
}

// LoadEnvFiles copies variables from the given files into the environment.
// Variables that are already set win, and missing files are ignored, so an
// earlier file takes precedence over a later one.
func LoadEnvFiles(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load reads DefaultEnvFiles and then the environment
func Load() Config {
	LoadEnvFiles(DefaultEnvFiles...)
	return FromEnv()
}

// FromEnv builds a Config from the current environment. Empty values are left
// empty so that callers can apply their own defaults.
func FromEnv() Config {
	return Config{
		ScheduleURL: env(EnvScheduleURL),
		MongoURI:    env(EnvMongoURI),
		Database:    env(EnvDatabase),
		Collection:  env(EnvCollection),
		TLSInsecure: envBool(EnvTLSInsecure),
		LogLevel:    envOr(EnvLogLevel, "info"),
		Timeout:     envDuration(EnvTimeout),
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOr(key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(env(key))
	return err == nil && v
}

func envDuration(key string) time.Duration {
	v := env(key)
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}
