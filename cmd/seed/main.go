package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mroblesdev/scratch-win-server/config"
	"github.com/mroblesdev/scratch-win-server/store"
)

// Seeds the configured store with the default catalog, settings, and stats.
// For Postgres it also creates the tables when missing; the file store seeds
// itself on first open.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg := config.Load()
	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("seed: open file store: %v", err)
		}
		defer fs.Close()
		prizes, err := fs.ListPrizes(ctx)
		if err != nil {
			log.Fatalf("seed: list prizes: %v", err)
		}
		log.Printf("seed: file store ready in %s (%d prizes)", cfg.DataDir, len(prizes))
		return
	}

	pg, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("seed: connect: %v", err)
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		log.Fatalf("seed: ensure schema: %v", err)
	}
	if err := pg.SeedDefaults(ctx); err != nil {
		log.Fatalf("seed: insert defaults: %v", err)
	}
	prizes, err := pg.ListPrizes(ctx)
	if err != nil {
		log.Fatalf("seed: list prizes: %v", err)
	}
	log.Printf("seed: postgres ready (%d prizes)", len(prizes))
}
