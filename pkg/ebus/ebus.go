// Package ebus holds the synchronous reactive primitives the widgets are built on.
// Every push is delivered to all current subscribers before Push returns.
package ebus

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Stream is a push based source of float64 values.
type Stream interface {
	// Subscribe registers fn and returns a function that can be used to unsubscribe.
	Subscribe(fn func(float64)) (cancel func())
}

// View is a Stream that also retains the last pushed value.
type View interface {
	Stream
	Current() (float64, bool)
}

type StreamFunc func(fn func(float64)) (cancel func())

func (f StreamFunc) Subscribe(fn func(float64)) func() {
	return f(fn)
}

// Map returns a stream emitting f(v) for every v emitted by s.
func Map(s Stream, f func(float64) float64) Stream {
	return StreamFunc(func(fn func(float64)) func() {
		return s.Subscribe(func(v float64) {
			fn(f(v))
		})
	})
}

func noop() {}

// Never returns a stream that never emits.
func Never() Stream {
	return StreamFunc(func(func(float64)) func() {
		return noop
	})
}

type subscriber struct {
	fn        func(float64)
	cancelled atomic.Bool
}

// Bus fans out pushed values to its subscribers in subscription order.
type Bus struct {
	mu     sync.Mutex
	subs   []*subscriber
	closed bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Push delivers v to every subscriber. It returns false once the bus is closed.
func (b *Bus) Push(v float64) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		if sub.cancelled.Load() {
			continue
		}
		sub.fn(v)
	}
	return true
}

func (b *Bus) Subscribe(fn func(float64)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return noop
	}
	sub := &subscriber{fn: fn}
	b.subs = append(b.subs, sub)
	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(sub)
		})
	}
}

func (b *Bus) unsubscribe(sub *subscriber) {
	sub.cancelled.Store(true)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(s *subscriber) bool {
		return s == sub
	})
}

// Len returns the number of live subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close drops all subscribers. Later pushes and subscriptions are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		sub.cancelled.Store(true)
	}
	b.subs = nil
}
