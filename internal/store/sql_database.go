// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/migrations"
)

// DB wraps a database/sql connection with the dialect-specific pieces
// the shared session repository needs: the placeholder format for query
// building, the migration dialect and an optional retryability
// classifier.
type DB struct {
	*sql.DB
	dialect            string
	placeholder        sq.PlaceholderFormat
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// retryable reports whether err is a transient backend failure. With no
// classifier configured every error is final.
func (db *DB) retryable(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable
}
