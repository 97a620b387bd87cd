package config

import (
	"os"
	"strconv"
)

type Config struct {
	MetricsAddr string
	Debug       bool
}

func Load() *Config {
	return &Config{
		MetricsAddr: getEnv("QUERYLOG_METRICS_ADDR", ":9102"),
		Debug:       getEnvBool("QUERYLOG_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
