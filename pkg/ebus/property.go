package ebus

import "sync"

// Property is a Bus that remembers the last pushed value. A subscriber
// registering after a push immediately receives that value.
type Property struct {
	bus *Bus

	mu     sync.Mutex
	value  float64
	has    bool
	closed bool
}

func NewProperty() *Property {
	return &Property{bus: NewBus()}
}

func (p *Property) Push(v float64) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.value, p.has = v, true
	p.mu.Unlock()
	return p.bus.Push(v)
}

func (p *Property) Current() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.has
}

func (p *Property) Subscribe(fn func(float64)) func() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return noop
	}
	cancel := p.bus.Subscribe(fn)
	v, has := p.value, p.has
	p.mu.Unlock()
	if has {
		fn(v)
	}
	return cancel
}

func (p *Property) Len() int {
	return p.bus.Len()
}

func (p *Property) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.bus.Close()
}
