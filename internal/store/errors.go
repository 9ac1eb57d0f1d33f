// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

package store

import "errors"

var (
	// ErrSessionNotFound is returned when no document exists for the
	// tenant id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned by Create when the tenant already
	// has a document.
	ErrSessionExists = errors.New("session already exists")

	// ErrVersionConflict is returned when an update lost a concurrent
	// write race. Clients are expected to retry.
	ErrVersionConflict = errors.New("session version conflict")

	// ErrStoreUnavailable wraps transient backend failures such as a
	// dropped database connection. Maps to 503 at the transport layer.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
