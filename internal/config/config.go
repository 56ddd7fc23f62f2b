package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	Port              string
	DBDSN             string
	LogFile           string
	AdminPasswordHash string   // bcrypt hash; empty disables the admin console
	AdminIDs          []string // Telegram ids allowed into the admin console
	CategoriesFile    string   // optional YAML taxonomy override
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "baraholka.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./baraholka.log"
	}

	var adminIDs []string
	for _, id := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			adminIDs = append(adminIDs, id)
		}
	}

	cfg := Config{
		Port:              port,
		DBDSN:             dsn,
		LogFile:           logFile,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminIDs:          adminIDs,
		CategoriesFile:    os.Getenv("CATEGORIES_FILE"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s ADMIN_IDS=%d CATEGORIES_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, len(cfg.AdminIDs), cfg.CategoriesFile)
	return cfg
}

// IsAdminID reports whether the Telegram id is on the admin allowlist.
func (c Config) IsAdminID(id string) bool {
	for _, a := range c.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}
