package config

import (
	"os"
)

type Config struct {
	Port           string
	DBUser         string
	DBPassword     string
	DBHost         string
	DBPort         string
	DBName         string
	TimezoneAPIURL string
	TimezoneAPIKey string
}

func Load() Config {
	return Config{
		Port:           get("PORT", "8080"),
		DBUser:         get("DB_USER", "root"),
		DBPassword:     get("DB_PASSWORD", ""),
		DBHost:         get("DB_HOST", "localhost"),
		DBPort:         get("DB_PORT", "3306"),
		DBName:         get("DB_NAME", "ledger"),
		TimezoneAPIURL: get("TIMEZONE_API_URL", "https://maps.googleapis.com/maps/api/timezone/json"),
		TimezoneAPIKey: get("TIMEZONE_API_KEY", ""),
	}
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
