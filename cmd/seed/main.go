package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/mixfeed/mixfeed/config"
	"github.com/mixfeed/mixfeed/internal/infrastructure/memory"
	pginfra "github.com/mixfeed/mixfeed/internal/infrastructure/postgres"
)

// Seeds the postgres store with the demo dataset (three users, the shared
// song catalog and three playlists). Safe to run once against a freshly
// migrated database.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := pginfra.NewStore(pool)
	if err := memory.Seed(ctx, store); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	fmt.Println("seeded demo users (password: password123), songs and playlists")
}
