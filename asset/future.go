package asset

import (
	"context"
	"fmt"
	"sync"
)

// Future is the eventual result of an asynchronous load
// Consumers poll it from the frame loop and never block on it
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	mu    sync.RWMutex
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Load runs fn on its own goroutine; a panic inside fn becomes the future's error
func Load[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		var (
			v   T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("asset: load panicked: %v", r)
			}
			f.resolve(v, err)
		}()
		v, err = fn(ctx)
	}()
	return f
}

// Resolved returns a future that already holds v
func Resolved[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.resolve(v, nil)
	return f
}

// Failed returns a future that already holds err
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.value, f.err = v, err
		f.mu.Unlock()
		close(f.done)
	})
}

// Done is closed once the load finished either way
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Poll returns the result without blocking; done is false while loading
func (f *Future[T]) Poll() (value T, done bool, err error) {
	select {
	case <-f.done:
	default:
		return value, false, nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value, true, f.err
}

// Ready reports a successful completion
func (f *Future[T]) Ready() bool {
	_, done, err := f.Poll()
	return done && err == nil
}

// Wait blocks until the load finishes or ctx is cancelled
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.RLock()
		defer f.mu.RUnlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
