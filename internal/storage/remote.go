package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/evenstad/julekalender/internal/adapter"
	"github.com/evenstad/julekalender/internal/fieldmap"
	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/models"
)

// RemoteConfig configures one [RemoteSyncAdapter] instance.
type RemoteConfig struct {
	// TenantID addresses the tenant's remote document. Required.
	TenantID string

	// RetryDelay is the fixed pause before the single retry of a
	// failed sync attempt.
	RetryDelay time.Duration

	// InitTimeout bounds the initialization fetch. Initialization
	// failure is non-fatal either way; the adapter degrades to an
	// empty cache instead of blocking forever.
	InitTimeout time.Duration
}

// RemoteSyncAdapter implements [Adapter] with a cache-first strategy
// against the remote session store. Reads are synchronous against an
// in-memory cache populated once at initialization; writes update the
// cache immediately and enqueue a background partial-update sync with a
// single fixed-delay retry for retryable failures.
//
// The cache always reflects the most recent local write, even when the
// corresponding remote sync has not completed or has failed — this is a
// best-effort layer, not a durability guarantee.
type RemoteSyncAdapter struct {
	tenantID   string
	store      adapter.SessionStore
	logger     *logger.Logger
	retryDelay time.Duration

	mu    sync.RWMutex
	cache map[string]any
	ready chan struct{}

	queue *syncQueue
}

// NewRemoteSyncAdapter constructs the adapter, registers it in reg, and
// immediately begins initialization in the background: fetch the
// tenant's document by explicit id (never trusting an ambient cookie —
// a previously selected tenant may have set it), create it with
// defaults on 404, and populate the cache via the field mapping. Any
// other initialization failure leaves the adapter ready with an empty
// cache.
func NewRemoteSyncAdapter(cfg RemoteConfig, store adapter.SessionStore, reg *Registry, log *logger.Logger) *RemoteSyncAdapter {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 30 * time.Second
	}

	a := &RemoteSyncAdapter{
		tenantID:   cfg.TenantID,
		store:      store,
		logger:     log,
		retryDelay: cfg.RetryDelay,
		cache:      make(map[string]any),
		ready:      make(chan struct{}),
		queue:      newSyncQueue(),
	}

	reg.register(a)
	go a.initialize(cfg.InitTimeout)
	go a.runWorker()

	return a
}

// initialize performs the GET-or-create sequence and closes the ready
// gate. Runs exactly once, in its own goroutine.
func (a *RemoteSyncAdapter) initialize(timeout time.Duration) {
	defer close(a.ready)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	doc, err := a.store.GetSession(ctx, a.tenantID)
	if errors.Is(err, adapter.ErrNotFound) {
		doc, err = a.store.CreateSession(ctx, a.tenantID)
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("tenant", a.tenantID).
			Msg("session fetch failed, starting with empty cache")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for remoteField, remoteValue := range doc {
		key, value, convErr := fieldmap.FromRemote(remoteField, remoteValue)
		if convErr != nil {
			a.logger.Debug().Str("field", remoteField).Msg("skipping unmapped remote field")
			continue
		}
		// a write that raced ahead of initialization wins
		if _, written := a.cache[key]; !written {
			a.cache[key] = value
		}
	}
	a.logger.Debug().Str("tenant", a.tenantID).Int("fields", len(doc)).Msg("session cache populated")
}

// WaitReady blocks until initialization has finished (successfully or
// degraded) or ctx is done. Callers must order state-changing calls
// after it; Get before ready returns the caller's default.
func (a *RemoteSyncAdapter) WaitReady(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *RemoteSyncAdapter) isReady() bool {
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

func (a *RemoteSyncAdapter) Get(key string, def any) any {
	if !a.isReady() {
		return def
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.cache[key]
	if !ok {
		return def
	}
	return v
}

func (a *RemoteSyncAdapter) Set(key string, value any) {
	a.mu.Lock()
	a.cache[key] = value
	a.mu.Unlock()

	remoteField, remoteValue, err := fieldmap.ToRemote(key, value)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("unmapped key kept cache-only")
		return
	}

	a.queue.Enqueue(fieldDelta{updates: map[string]any{remoteField: remoteValue}})
}

func (a *RemoteSyncAdapter) Remove(key string) {
	a.mu.Lock()
	delete(a.cache, key)
	a.mu.Unlock()

	remoteField, ok := fieldmap.RemoteName(key)
	if !ok {
		return
	}

	// removal resets the remote field to its documented empty value
	a.queue.Enqueue(fieldDelta{updates: map[string]any{remoteField: models.FieldDefault(remoteField)}})
}

func (a *RemoteSyncAdapter) Has(key string) bool {
	if !a.isReady() {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	_, ok := a.cache[key]
	return ok
}

// Clear wipes the cache and resets every mapped field to its default in
// a single sync request.
func (a *RemoteSyncAdapter) Clear() {
	a.mu.Lock()
	a.cache = make(map[string]any)
	a.mu.Unlock()

	a.queue.Enqueue(fieldDelta{updates: models.DefaultDocument()})
}

// Drain implements [Drainer].
func (a *RemoteSyncAdapter) Drain(ctx context.Context) error {
	return a.queue.Drain(ctx)
}

// Close stops the background worker. Queued deltas that have not
// started are dropped; call Drain first when they matter.
func (a *RemoteSyncAdapter) Close() {
	a.queue.Close()
}

// runWorker applies queued deltas in order until Close.
func (a *RemoteSyncAdapter) runWorker() {
	for {
		d, ok := a.queue.next()
		if !ok {
			return
		}
		a.push(d)
		a.queue.complete()
	}
}

// push sends one delta to the session store: one attempt plus exactly
// one fixed-delay retry for retryable failures (conflict, transient
// store or transport error). Anything else is logged and given up on —
// the cache stays ahead of the remote document by design.
func (a *RemoteSyncAdapter) push(d fieldDelta) {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(a.retryDelay))

	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		_, syncErr := a.store.SyncSession(ctx, a.tenantID, d.updates)
		if syncErr != nil && adapter.IsRetryable(syncErr) {
			return retry.RetryableError(syncErr)
		}
		return syncErr
	})
	if err != nil {
		a.logger.Error().Err(err).Str("tenant", a.tenantID).
			Int("fields", len(d.updates)).Msg("background sync abandoned")
	}
}
