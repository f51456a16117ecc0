// Package streambundle resolves (sourceId, path) pairs to live value streams.
package streambundle

import (
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/roffe/gaugepanel/pkg/ebus"
)

type Config struct {
	// CacheTTL is how long the last sample of a stream is replayed to new subscribers.
	CacheTTL time.Duration
	// Units maps a path to the unit its raw values are expressed in.
	Units map[string]string
	Log   *zap.SugaredLogger
}

var DefaultConfig = &Config{
	CacheTTL: time.Minute,
}

type Bundle struct {
	mu     sync.Mutex
	topics map[string]*ebus.Bus
	units  map[string]string
	cache  *ttlcache.Cache[string, float64]
	closed bool

	log *zap.SugaredLogger

	onMessage func(sourceID, path string, value float64)
}

func New(cfg *Config) *Bundle {
	if cfg == nil {
		cfg = DefaultConfig
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultConfig.CacheTTL
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	b := &Bundle{
		topics: make(map[string]*ebus.Bus),
		units:  make(map[string]string),
		cache:  ttlcache.New[string, float64](ttlcache.WithTTL[string, float64](ttl)),
		log:    log,
	}
	for path, unit := range cfg.Units {
		b.units[path] = unit
	}
	return b
}

// Topic returns the key a (sourceID, path) pair is stored under.
func Topic(sourceID, path string) string {
	return sourceID + "/" + path
}

// SplitTopic reverses Topic. Paths may contain '/', source ids may not.
func SplitTopic(topic string) (sourceID, path string, ok bool) {
	return strings.Cut(topic, "/")
}

func (b *Bundle) SetOnMessage(f func(sourceID, path string, value float64)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onMessage = f
}

// Publish stores value as the latest sample and delivers it to every
// subscriber of the stream before returning.
func (b *Bundle) Publish(sourceID, path string, value float64) {
	topic := Topic(sourceID, path)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	bus := b.topics[topic]
	onMessage := b.onMessage
	b.mu.Unlock()

	b.cache.Set(topic, value, ttlcache.DefaultTTL)
	if onMessage != nil {
		onMessage(sourceID, path, value)
	}
	if bus != nil {
		bus.Push(value)
	}
}

// StreamForSourcePath never fails. A pair nobody publishes to yields a stream
// that simply never emits.
func (b *Bundle) StreamForSourcePath(sourceID, path string) ebus.Stream {
	topic := Topic(sourceID, path)
	return ebus.StreamFunc(func(fn func(float64)) func() {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return func() {}
		}
		bus, ok := b.topics[topic]
		if !ok {
			bus = ebus.NewBus()
			b.topics[topic] = bus
		}
		cancel := bus.Subscribe(fn)
		b.mu.Unlock()

		if item := b.cache.Get(topic); item != nil {
			fn(item.Value())
		}
		return func() {
			cancel()
			b.release(topic, bus)
		}
	})
}

func (b *Bundle) release(topic string, bus *ebus.Bus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bus.Len() == 0 && b.topics[topic] == bus {
		delete(b.topics, topic)
	}
}

func (b *Bundle) SetUnit(path, unit string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.units[path] = unit
}

func (b *Bundle) UnitForPath(path string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	unit, ok := b.units[path]
	return unit, ok && unit != ""
}

// Subscribers returns the number of live subscribers of a stream.
func (b *Bundle) Subscribers(sourceID, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bus, ok := b.topics[Topic(sourceID, path)]; ok {
		return bus.Len()
	}
	return 0
}

// Values returns the latest unexpired sample of every stream keyed by topic.
func (b *Bundle) Values() map[string]float64 {
	values := make(map[string]float64)
	for k, v := range b.cache.Items() {
		if v.IsExpired() {
			continue
		}
		values[k] = v.Value()
	}
	return values
}

func (b *Bundle) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, bus := range b.topics {
		bus.Close()
		delete(b.topics, topic)
	}
	b.cache.DeleteAll()
	b.log.Debugw("stream bundle closed")
}
