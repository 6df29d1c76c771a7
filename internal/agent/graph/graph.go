// Package graph provides the fan-out, join and step accounting primitives the
// report workflow is built from.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrRecursionLimit is returned once a run has taken more steps than allowed.
var ErrRecursionLimit = errors.New("recursion limit reached")

// Dispatch runs fn once per input concurrently and waits for all of them.
// The branch count is len(inputs), so an empty slice returns immediately.
// The first failing branch cancels the context handed to its siblings and
// its error is returned. limit bounds concurrency; 0 means unbounded.
func Dispatch[T any](ctx context.Context, inputs []T, limit int, fn func(ctx context.Context, in T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, in := range inputs {
		g.Go(func() error {
			return fn(gctx, in)
		})
	}
	return g.Wait()
}

// Accumulator is an append-only collection shared by concurrent branches.
type Accumulator[T any] struct {
	mu    sync.Mutex
	items []T
}

// Add appends items.
func (a *Accumulator[T]) Add(items ...T) {
	a.mu.Lock()
	a.items = append(a.items, items...)
	a.mu.Unlock()
}

// Snapshot returns a copy of everything added so far, in append order.
func (a *Accumulator[T]) Snapshot() []T {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]T, len(a.items))
	copy(out, a.items)
	return out
}

// Len returns the number of items added.
func (a *Accumulator[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// StepLimiter counts the steps of one workflow graph. Parallel branches
// dispatched in one step cost that single step; a subgraph run per branch
// takes its own StepLimiter.
type StepLimiter struct {
	limit int64
	used  atomic.Int64
}

// NewStepLimiter allows limit steps; limit <= 0 disables the check.
func NewStepLimiter(limit int) *StepLimiter {
	return &StepLimiter{limit: int64(limit)}
}

// Step consumes one step for the named node.
func (s *StepLimiter) Step(node string) error {
	n := s.used.Add(1)
	if s.limit > 0 && n > s.limit {
		return fmt.Errorf("%w: %d steps without completion (at %s)", ErrRecursionLimit, s.limit, node)
	}
	return nil
}

// Used returns the number of steps taken so far.
func (s *StepLimiter) Used() int {
	return int(s.used.Load())
}
