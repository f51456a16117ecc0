package streambundle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roffe/gaugepanel/pkg/streambundle"
)

func TestPublishSubscribe(t *testing.T) {
	b := streambundle.New(nil)
	defer b.Close()

	var got []float64
	cancel := b.StreamForSourcePath("s1", "speed").Subscribe(func(v float64) {
		got = append(got, v)
	})
	b.Publish("s1", "speed", 3.14)
	b.Publish("s2", "speed", 99)
	b.Publish("s1", "rpm", 99)
	assert.Equal(t, 1, b.Subscribers("s1", "speed"))

	cancel()
	b.Publish("s1", "speed", 2.71)

	assert.Equal(t, []float64{3.14}, got)
	assert.Zero(t, b.Subscribers("s1", "speed"))
}

func TestLateSubscriberGetsCachedValue(t *testing.T) {
	b := streambundle.New(&streambundle.Config{CacheTTL: time.Hour})
	defer b.Close()

	b.Publish("s1", "temp", 300)
	var got []float64
	b.StreamForSourcePath("s1", "temp").Subscribe(func(v float64) {
		got = append(got, v)
	})
	assert.Equal(t, []float64{300}, got)
	assert.Equal(t, map[string]float64{"s1/temp": 300}, b.Values())
}

func TestUnknownStreamNeverEmits(t *testing.T) {
	b := streambundle.New(nil)
	defer b.Close()

	called := false
	cancel := b.StreamForSourcePath("nope", "nothing").Subscribe(func(float64) {
		called = true
	})
	cancel()
	assert.False(t, called)
}

func TestUnitForPath(t *testing.T) {
	b := streambundle.New(&streambundle.Config{Units: map[string]string{"speed": "m/s", "blank": ""}})
	defer b.Close()

	unit, ok := b.UnitForPath("speed")
	assert.True(t, ok)
	assert.Equal(t, "m/s", unit)

	_, ok = b.UnitForPath("blank")
	assert.False(t, ok)

	b.SetUnit("pressure", "Pa")
	unit, ok = b.UnitForPath("pressure")
	assert.True(t, ok)
	assert.Equal(t, "Pa", unit)
}

func TestOnMessage(t *testing.T) {
	b := streambundle.New(nil)
	defer b.Close()

	var topics []string
	b.SetOnMessage(func(sourceID, path string, _ float64) {
		topics = append(topics, streambundle.Topic(sourceID, path))
	})
	b.Publish("s1", "a/b", 1)
	assert.Equal(t, []string{"s1/a/b"}, topics)

	src, path, ok := streambundle.SplitTopic(topics[0])
	assert.True(t, ok)
	assert.Equal(t, "s1", src)
	assert.Equal(t, "a/b", path)
}

func TestClose(t *testing.T) {
	b := streambundle.New(nil)
	var got []float64
	b.StreamForSourcePath("s1", "speed").Subscribe(func(v float64) {
		got = append(got, v)
	})
	b.Close()
	b.Publish("s1", "speed", 1)
	b.StreamForSourcePath("s1", "speed").Subscribe(func(v float64) {
		got = append(got, v)
	})
	assert.Empty(t, got)
	assert.Empty(t, b.Values())
}
