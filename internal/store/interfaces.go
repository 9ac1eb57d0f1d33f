// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

// Package store persists session documents for the server side of the
// julekalender session store.
//
// Three backends implement [SessionRepository]: PostgreSQL (pgx),
// SQLite (mattn/go-sqlite3) and an in-memory map used by tests and
// zero-config deployments. The SQL backends share one repository
// implementation with squirrel-built queries; only connection setup and
// error classification differ.
package store

import (
	"context"

	"github.com/evenstad/julekalender/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_repository_mock.go -package=mock

// SessionRepository is the persistence contract of the session store.
//
// Updates use optimistic concurrency: every applied update increments
// the session's version, and a writer that lost the race gets
// [ErrVersionConflict]. Transient backend failures are reported as
// [ErrStoreUnavailable] (wrapped) so the transport layer can mark them
// retryable.
type SessionRepository interface {
	// Get returns the session for the tenant id, or
	// [ErrSessionNotFound].
	Get(ctx context.Context, sessionID string) (models.Session, error)

	// Create stores a new session with the given initial document.
	// Returns [ErrSessionExists] when the tenant already has one.
	Create(ctx context.Context, sessionID string, doc models.SessionDocument) (models.Session, error)

	// ApplyUpdates merges the field updates into the tenant's document
	// and bumps its version. Returns [ErrSessionNotFound] when no
	// document exists and [ErrVersionConflict] on a lost write race.
	ApplyUpdates(ctx context.Context, sessionID string, updates map[string]any) (models.Session, error)

	// Delete removes the tenant's session. Returns
	// [ErrSessionNotFound] when there is nothing to delete.
	Delete(ctx context.Context, sessionID string) error

	// Close releases backend resources.
	Close() error
}
