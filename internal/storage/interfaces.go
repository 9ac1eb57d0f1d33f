// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jonas Evenstad

// Package storage implements the client-side storage core: the adapter
// contract every game component reads and writes through, a local
// file-backed implementation, and the cache-first remote sync adapter
// with its background retry engine.
//
// All adapter calls are synchronous and answered from memory; only the
// network leg of a remote write runs in the background. Callers that
// need to observe "all writes settled" — above all when switching
// tenants — await [RemoteSyncAdapter.Drain] or [Registry.DrainAll].
package storage

import "context"

// Adapter is the synchronous key-value contract the application depends
// on, independent of backend. Values are plain JSON values (bool,
// float64, string, []any, map[string]any).
//
// Get and Set never block on I/O and never return errors to the caller;
// persistence failures are absorbed or retried in the background.
type Adapter interface {
	// Get returns the value stored under key, or def when the key is
	// absent or the backend is not ready yet.
	Get(key string, def any) any

	// Set stores value under key. Visible to Get immediately.
	Set(key string, value any)

	// Remove deletes key.
	Remove(key string)

	// Has reports whether key currently holds a value.
	Has(key string) bool

	// Clear removes every key.
	Clear()
}

// Drainer is implemented by adapters whose writes settle asynchronously.
type Drainer interface {
	// Drain blocks until every background write enqueued so far has
	// resolved (success or exhausted retries), or ctx is done.
	Drain(ctx context.Context) error
}
