// Package lifecycle runs subsystem startup and shutdown hooks and tracks readiness.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker is implemented by anything /readyz should wait on.
type ReadinessChecker interface {
	Ready() bool
}

// AllReady is true when every checker is ready, including when there are none.
func AllReady(checkers ...ReadinessChecker) bool {
	for _, c := range checkers {
		if !c.Ready() {
			return false
		}
	}
	return true
}

// Coordinator starts hooks as they are registered. Shutdown hooks are
// expected to block on Context().Done() before releasing their resources.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	starting sync.WaitGroup
	stopping sync.WaitGroup
	started  atomic.Bool
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn in its own goroutine. WaitForStartup waits for it.
func (c *Coordinator) OnStartup(fn func()) {
	c.starting.Go(fn)
}

// OnShutdown runs fn in its own goroutine. Shutdown waits for it.
func (c *Coordinator) OnShutdown(fn func()) {
	c.stopping.Go(fn)
}

// Ready is true once WaitForStartup has returned.
func (c *Coordinator) Ready() bool {
	return c.started.Load()
}

func (c *Coordinator) WaitForStartup() {
	c.starting.Wait()
	c.started.Store(true)
}

// Shutdown cancels Context and waits up to timeout for the shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.started.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.stopping.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
