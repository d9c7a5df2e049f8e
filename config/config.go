package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          int
	DatabaseURL   string // empty = file store under DataDir
	DataDir       string
	AdminToken    string // bearer token for admin endpoints; empty disables them
	AllowedOrigin string // CORS Access-Control-Allow-Origin
}

func Load() *Config {
	port := 8080
	// Prefer PORT (Render, Fly.io, Railway, etc.) then GAME_PORT
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			port = v
		}
	} else if p := os.Getenv("GAME_PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			port = v
		}
	}
	dataDir := os.Getenv("GAME_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	return &Config{
		Port:          port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DataDir:       dataDir,
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		AllowedOrigin: origin,
	}
}
