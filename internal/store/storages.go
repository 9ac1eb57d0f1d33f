// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import (
	"context"
	"fmt"

	"github.com/evenstad/julekalender/internal/config"
	"github.com/evenstad/julekalender/internal/logger"
)

// Storages bundles the persistence layer handed to the HTTP handlers.
type Storages struct {
	Sessions SessionRepository
}

// NewStorages selects and initialises the session store backend from
// configuration: PostgreSQL when a DSN is set, SQLite when a file path
// is set, otherwise an in-memory store. SQL backends are migrated to
// the current schema before use.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	switch {
	case cfg.DB.DSN != "":
		db, err := NewConnectPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("error connecting postgres: %w", err)
		}
		if err = db.Migrate(); err != nil {
			return nil, fmt.Errorf("error migrating postgres: %w", err)
		}
		return &Storages{Sessions: NewSessionRepository(db, log)}, nil

	case cfg.SQLite.Path != "":
		db, err := NewConnectSQLite(ctx, cfg.SQLite, log)
		if err != nil {
			return nil, fmt.Errorf("error connecting sqlite: %w", err)
		}
		if err = db.Migrate(); err != nil {
			return nil, fmt.Errorf("error migrating sqlite: %w", err)
		}
		return &Storages{Sessions: NewSessionRepository(db, log)}, nil

	default:
		log.Info().Msg("no database configured, sessions held in memory")
		return &Storages{Sessions: NewMemorySessionRepository()}, nil
	}
}
