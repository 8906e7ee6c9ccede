// Package workerpool runs a bounded number of concurrent client
// handlers against the filesystem serializer, the same
// errgroup-over-a-semaphore shape used for concurrent build jobs in
// the wider Go ecosystem (e.g. distri's squashfs/package builders).
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many handler goroutines run at once. A zero-value
// Pool is not usable; use New.
type Pool struct {
	sem  chan struct{}
	eg   *errgroup.Group
	ctx  context.Context
}

// New creates a Pool allowing up to size concurrent tasks. ctx is the
// group's parent context; the first task to return an error cancels
// it, per errgroup.WithContext semantics.
func New(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	eg, gctx := errgroup.WithContext(ctx)
	return &Pool{sem: make(chan struct{}, size), eg: eg, ctx: gctx}
}

// Context returns the pool's group context, cancelled once any
// submitted task returns a non-nil error.
func (p *Pool) Context() context.Context { return p.ctx }

// Go blocks until a slot is free, then runs fn in its own goroutine as
// part of the pool's errgroup. Go itself never blocks on fn's
// completion.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.sem <- struct{}{}
	p.eg.Go(func() error {
		defer func() { <-p.sem }()
		return fn(p.ctx)
	})
}

// Wait blocks until every submitted task has returned, and returns the
// first non-nil error among them, if any.
func (p *Pool) Wait() error {
	return p.eg.Wait()
}
