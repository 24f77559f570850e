package di

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Awaitable is an asynchronous computation. Lifecycle methods and injected
// functions may return one as their first result.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Future is an Awaitable that runs a function at most once. It does not
// start until Start or Await is first called.
type Future struct {
	fn      func(ctx context.Context) (any, error)
	once    sync.Once
	started atomic.Bool
	done    chan struct{}
	value   any
	err     error
}

// Async wraps fn in a Future.
func Async(fn func(ctx context.Context) (any, error)) *Future {
	return &Future{fn: fn, done: make(chan struct{})}
}

// Start runs the computation in its own goroutine, once. ctx is the context
// the computation sees.
func (f *Future) Start(ctx context.Context) {
	f.once.Do(func() {
		f.started.Store(true)
		go func() {
			defer close(f.done)
			defer func() {
				if r := recover(); r != nil {
					f.err = fmt.Errorf("di: asynchronous computation panicked: %v", r)
				}
			}()
			f.value, f.err = f.fn(ctx)
		}()
	})
}

// Await starts the computation if needed and waits for it, or for ctx.
// Cancelling ctx abandons the wait but not the computation.
func (f *Future) Await(ctx context.Context) (any, error) {
	f.Start(context.WithoutCancel(ctx))
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Started reports whether the computation has been started.
func (f *Future) Started() bool { return f.started.Load() }

// Done is closed when the computation has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Scheduler runs detached work. Active reports whether the caller is
// currently running under the scheduler, in which case the blocking call
// path must not wait on asynchronous results inline.
type Scheduler interface {
	Active() bool
	Go(task func())
}

// Loop is a Scheduler. It is active while a Run callback or a task spawned
// with Go is executing.
type Loop struct {
	running atomic.Int32
	wg      sync.WaitGroup
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Run executes fn with the loop active and then waits for every task spawned
// with Go.
func (l *Loop) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	l.running.Add(1)
	err := func() error {
		defer l.running.Add(-1)
		return fn(ctx)
	}()
	l.wg.Wait()
	return err
}

// Active implements Scheduler.
func (l *Loop) Active() bool { return l.running.Load() > 0 }

// Go implements Scheduler.
func (l *Loop) Go(task func()) {
	l.wg.Add(1)
	l.running.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.running.Add(-1)
		task()
	}()
}

// Wait blocks until every task spawned with Go has returned.
func (l *Loop) Wait() { l.wg.Wait() }
