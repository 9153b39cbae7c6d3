package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration from environment variables.
type Config struct {
	Port            int
	GTFSDir         string // directory holding the GTFS .txt tables
	GTFSURL         string // optional feed zip to download when the dir is empty
	RemoteConfigURL string // remote user/group configuration document
	Timezone        string
	Location        *time.Location

	ImportGTFS bool // CLI flag: download the feed and exit
}

// Load reads configuration from a .env file (if present) and environment
// variables with defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("BUSPRED_PORT", 5000),
		GTFSDir:         envStr("BUSPRED_GTFS_DIR", "./gtfs_data"),
		GTFSURL:         envStr("BUSPRED_GTFS_URL", ""),
		RemoteConfigURL: envStr("USER_GROUPS_JSON_URL", "https://angelgallardo.com.es/bus_predictor/config.json"),
		Timezone:        envStr("BUSPRED_TZ", "Europe/Madrid"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSPRED_TZ %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
