// Package async provides a single-assignment future used by the asynchronous
// call modes. A Future is completed exactly once; later completions are ignored.
package async

import (
	"context"
	"fmt"
	"sync"
)

// Future holds the eventual result of an operation running on another goroutine.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// New returns an incomplete future and the function that completes it.
// Only the first call to complete has any effect.
func New[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.complete
}

// Resolved returns a future that is already complete.
func Resolved[T any](value T, err error) *Future[T] {
	f, complete := New[T]()
	complete(value, err)
	return f
}

// Go runs fn on a new goroutine and completes the returned future with its
// result. A panic in fn completes the future with an error. When wg is non-nil
// the goroutine is tracked so owners can drain in-flight work.
func Go[T any](wg *sync.WaitGroup, fn func() (T, error)) *Future[T] {
	f, complete := New[T]()
	if wg != nil {
		wg.Add(1)
	}
	go func() {
		if wg != nil {
			defer wg.Done()
		}
		defer func() {
			if r := recover(); r != nil {
				var zero T
				complete(zero, fmt.Errorf("async: panic: %v", r))
			}
		}()
		complete(fn())
	}()
	return f
}

// Then waits for f on a worker goroutine and completes the returned future with
// the continuation's result.
func Then[T, U any](wg *sync.WaitGroup, f *Future[T], fn func(T, error) (U, error)) *Future[U] {
	return Go(wg, func() (U, error) {
		return fn(f.Result())
	})
}

func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future is complete.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future is complete.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}

// Wait blocks until the future completes or ctx is done. Giving up on the wait
// does not cancel the underlying operation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete invokes fn with the result on a separate goroutine once the
// future completes.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	go func() {
		fn(f.Result())
	}()
}
