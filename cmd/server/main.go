package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/mroblesdev/scratch-win-server/config"
	"github.com/mroblesdev/scratch-win-server/server"
)

func main() {
	// Load .env so DATABASE_URL and ADMIN_TOKEN are set locally.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg := config.Load()
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
