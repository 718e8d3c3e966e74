package config

import (
	"fmt"
	"os"
)

type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string
	ScanWorkers int
	DNSServer   string
	DNSFallback string
	IPIntelURL  string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV", "development"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ScanWorkers: getenvInt("SCAN_WORKERS", 2),
		DNSServer:   getenv("DNS_SERVER", "8.8.8.8:53"),
		DNSFallback: getenv("DNS_FALLBACK", "1.1.1.1:53"),
		IPIntelURL:  getenv("IP_INTEL_URL", ""),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
