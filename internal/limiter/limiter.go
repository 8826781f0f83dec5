package limiter

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Limiter is a fixed-capacity concurrency gate. Waiters are admitted in
// arrival order.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int
}

// New creates a limiter admitting up to capacity concurrent holders.
// Capacities below one are raised to one.
func New(capacity int) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// DefaultCapacity returns the host-derived capacity: one below the CPU
// count, never less than one.
func DefaultCapacity() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Capacity returns the configured concurrency bound.
func (l *Limiter) Capacity() int {
	return l.capacity
}

// Acquire blocks until a slot is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns a slot to the limiter.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Result pairs one item's output with its error.
type Result[T any] struct {
	Value T
	Err   error
}

// Map runs fn over every item with bounded parallelism and returns results
// in input order. Items start in submission order and failures are
// independent: an item's error is recorded in its slot without cancelling
// the rest. Items that never acquire a slot because ctx was done carry the
// context error.
func Map[In, Out any](ctx context.Context, l *Limiter, items []In, fn func(context.Context, int, In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		if err := l.Acquire(ctx); err != nil {
			results[i] = Result[Out]{Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, item In) {
			defer wg.Done()
			defer l.Release()
			out, err := fn(ctx, i, item)
			results[i] = Result[Out]{Value: out, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}
