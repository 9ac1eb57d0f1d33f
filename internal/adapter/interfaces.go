// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

// Package adapter provides the transport layer for talking to the
// remote session document store.
//
// The primary abstraction is [SessionStore], which decouples the
// storage core from the wire protocol. The package ships an HTTP/JSON
// implementation ([NewHTTPSessionStore]) built on resty.
//
// Transport and status errors are mapped to the sentinel values in
// errors.go so callers can classify failures with [errors.Is] — in
// particular [ErrConflict] and [ErrUnavailable], the two retryable
// classes of the background sync engine.
package adapter

import (
	"context"

	"github.com/evenstad/julekalender/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_store_mock.go -package=mock

// SessionStore defines transport-agnostic access to the remote
// multi-tenant document store. Implementations own serialisation and
// the mapping of transport-level failures to this package's sentinels.
type SessionStore interface {
	// GetSession fetches the full document for the given tenant id.
	// Returns [ErrNotFound] (wrapped) when no document exists yet.
	GetSession(ctx context.Context, tenantID string) (models.SessionDocument, error)

	// CreateSession creates the tenant's document populated with the
	// documented default field values and returns it. The server also
	// sets the long-lived session cookie on this call.
	CreateSession(ctx context.Context, tenantID string) (models.SessionDocument, error)

	// SyncSession applies a partial field update to the tenant's
	// document and returns the updated document. Returns [ErrConflict]
	// (wrapped) on a concurrent-write conflict and [ErrUnavailable]
	// (wrapped) on a transient store failure; both are retryable.
	SyncSession(ctx context.Context, tenantID string, updates map[string]any) (models.SessionDocument, error)

	// DeleteSession removes the tenant's document. Administrative and
	// test cleanup only.
	DeleteSession(ctx context.Context, tenantID string) error
}
