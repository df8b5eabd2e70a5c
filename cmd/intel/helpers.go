package main

import (
	"context"
	"database/sql"
	"fmt"

	"exitlens/api/internal/config"
	"exitlens/api/internal/store"
)

// openSnapshots connects to the database using the environment config. The
// caller owns closing the returned *sql.DB.
func openSnapshots(ctx context.Context) (*sql.DB, *store.SnapshotStore, error) {
	cfg := config.Load()
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return db, store.NewSnapshotStore(db), nil
}
