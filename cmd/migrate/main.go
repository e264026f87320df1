// Command migrate applies the PostgreSQL schema and seeds the rack catalogue into an empty places table.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	inventorypostgres "github.com/Apurer/rack-rental/internal/domains/inventory/adapters/persistence/postgres"
	"github.com/Apurer/rack-rental/internal/domains/inventory/adapters/seed"
	platformpostgres "github.com/Apurer/rack-rental/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.Open(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot migrate")
	}

	places, err := seed.LoadFile(os.Getenv("INVENTORY_SEED_FILE"))
	if err != nil {
		log.Fatalf("failed to load seed: %v", err)
	}
	seeded, err := seed.Apply(ctx, inventorypostgres.NewRepository(db), places)
	if err != nil {
		log.Fatalf("failed to seed places: %v", err)
	}
	log.Printf("migration completed, %d places seeded", seeded)
}
