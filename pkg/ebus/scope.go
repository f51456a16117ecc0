package ebus

import "sync"

// Scope records the subscriptions made through the streams it tracks so they
// can all be cancelled at once.
type Scope struct {
	mu      sync.Mutex
	next    int
	cancels map[int]func()
	closed  bool
}

func NewScope() *Scope {
	return &Scope{cancels: make(map[int]func())}
}

// Track wraps s so that every subscription is owned by the scope.
func (sc *Scope) Track(s Stream) Stream {
	return StreamFunc(func(fn func(float64)) func() {
		return sc.subscribe(s, fn)
	})
}

// TrackView is Track for views, Current is passed through.
func (sc *Scope) TrackView(v View) View {
	return &trackedView{View: v, scope: sc}
}

type trackedView struct {
	View
	scope *Scope
}

func (t *trackedView) Subscribe(fn func(float64)) func() {
	return t.scope.subscribe(t.View, fn)
}

func (sc *Scope) subscribe(s Stream, fn func(float64)) func() {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return noop
	}
	id := sc.next
	sc.next++
	sc.mu.Unlock()

	cancel := s.Subscribe(fn)

	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		cancel()
		return noop
	}
	sc.cancels[id] = cancel
	sc.mu.Unlock()

	return func() {
		sc.mu.Lock()
		c, ok := sc.cancels[id]
		delete(sc.cancels, id)
		sc.mu.Unlock()
		if ok {
			c()
		}
	}
}

// Len returns the number of live subscriptions owned by the scope.
func (sc *Scope) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.cancels)
}

// Close cancels every live subscription. Subscribing afterwards is a no-op.
func (sc *Scope) Close() {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return
	}
	sc.closed = true
	cancels := sc.cancels
	sc.cancels = nil
	sc.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}
