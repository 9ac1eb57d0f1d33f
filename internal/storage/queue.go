package storage

import (
	"context"
	"sync"
)

// fieldDelta is one pending background sync: a partial update carrying
// only changed fields, already converted to remote shape.
type fieldDelta struct {
	updates map[string]any
}

// syncQueue is the explicit task queue behind one remote adapter:
// enqueue never blocks the caller, a single worker applies deltas in
// call order, and Drain waits for everything enqueued so far to resolve.
// Deltas are never coalesced.
type syncQueue struct {
	mu          sync.Mutex
	cond        *sync.Cond
	items       []fieldDelta
	outstanding int
	closed      bool
}

func newSyncQueue() *syncQueue {
	q := &syncQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a delta. A closed queue silently drops it.
func (q *syncQueue) Enqueue(d fieldDelta) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.items = append(q.items, d)
	q.outstanding++
	q.cond.Broadcast()
}

// next blocks until a delta is available or the queue is closed. The
// second return value is false only on shutdown.
func (q *syncQueue) next() (fieldDelta, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return fieldDelta{}, false
	}

	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

// complete marks one delta as resolved, whatever the outcome.
func (q *syncQueue) complete() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.outstanding--
	q.cond.Broadcast()
}

// Drain blocks until the queue is empty and the worker idle, or ctx is
// done.
func (q *syncQueue) Drain(ctx context.Context) error {
	settled := make(chan struct{})
	go func() {
		q.mu.Lock()
		for q.outstanding > 0 {
			q.cond.Wait()
		}
		q.mu.Unlock()
		close(settled)
	}()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker after the current delta. Outstanding queued
// deltas are dropped and counted as resolved.
func (q *syncQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.outstanding -= len(q.items)
	q.items = nil
	q.cond.Broadcast()
}
