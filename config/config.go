package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const devSessionSecret = "parkshare-dev-session-secret"

type Config struct {
	Port       string
	ListenHost string

	// PostgresDSN selects the Postgres repositories. Empty keeps everything in memory.
	PostgresDSN string

	SessionDir    string
	SessionSecret string

	VerifyPasswords    bool
	SeedCatalog        bool
	SettlementSchedule string
}

func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	secret, ok := os.LookupEnv("SESSION_SECRET")
	if !ok || secret == "" {
		log.Printf("warning: SESSION_SECRET not set, using the development secret")
		secret = devSessionSecret
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		ListenHost:         getEnv("LISTEN_HOST", "127.0.0.1"),
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		SessionDir:         getEnv("SESSION_DIR", ".parkshare"),
		SessionSecret:      secret,
		VerifyPasswords:    getBool("VERIFY_PASSWORDS", false),
		SeedCatalog:        getBool("SEED_CATALOG", true),
		SettlementSchedule: getEnv("SETTLEMENT_SCHEDULE", "@every 1m"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("env %s not set, using default %q", key, fallback)
	return fallback
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, strconv.FormatBool(fallback))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("env %s=%q is not a boolean, using default %t", key, raw, fallback)
		return fallback
	}
	return v
}
