package config

import (
	"log"
	"strings"
	"sync"
	"time"
)

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	LogJSON         bool
	LogDebug        bool
	MaxUploadSize   int64
	RateLimitMax    int
	RateLimitWindow time.Duration
	AllowOrigins    string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := getEnv("APP_ENV", "")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:            getEnv("APP_NAME", "career-gateway"),
			Env:             env,
			Port:            normalizePort(getEnv("APP_PORT", "3000")),
			LogJSON:         getEnvAsBool("LOG_JSON", env == "production"),
			LogDebug:        getEnvAsBool("LOG_DEBUG", false),
			MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
			RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 50),
			RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			AllowOrigins:    getEnv("CORS_ALLOW_ORIGINS", "*"),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// normalizePort accepts both "3000" and ":3000".
func normalizePort(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
