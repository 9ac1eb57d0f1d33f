package storage

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry tracks every remote adapter constructed during the process
// lifetime so in-flight syncs can be awaited across tenant switches:
// the application may already hold a fresh adapter for the newly
// selected tenant while the previous tenant's adapter still has writes
// in flight.
//
// The registry is an explicit object owned by the application root and
// passed to adapter constructors — there is no hidden package-level
// state, so tests reset it by simply creating a new one.
type Registry struct {
	mu       sync.Mutex
	adapters []*RemoteSyncAdapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) register(a *RemoteSyncAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, a)
}

// DrainAll awaits every pending sync across every adapter ever
// registered, or fails with ctx's error.
func (r *Registry) DrainAll(ctx context.Context) error {
	r.mu.Lock()
	snapshot := make([]*RemoteSyncAdapter, len(r.adapters))
	copy(snapshot, r.adapters)
	r.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, a := range snapshot {
		a := a
		g.Go(func() error {
			return a.Drain(ctx)
		})
	}
	return g.Wait()
}

// Size returns the number of registered adapters.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.adapters)
}
