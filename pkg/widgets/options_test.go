package widgets_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roffe/gaugepanel/pkg/widgets"
)

func TestOptionsDefaults(t *testing.T) {
	o := &widgets.Options{}
	assert.Equal(t, 0.0, o.Threshold(widgets.MinThreshold))
	assert.Equal(t, 2.0, o.Threshold(widgets.MaxThreshold))
	assert.Equal(t, 1.5, o.Threshold(widgets.RedLineThreshold))
	assert.Equal(t, widgets.Digital, o.Selected())

	_, ok := o.Conversion()
	assert.False(t, ok)
	o.ConvertTo = strp("")
	_, ok = o.Conversion()
	assert.False(t, ok)
}

func TestOptionsPersistedLayout(t *testing.T) {
	opts := &widgets.Options{ID: "w1", SourceID: "s1", Path: "speed"}
	widgets.NewUniversal("w1", opts, newBundle(t), nil)

	data, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"w1","sourceId":"s1","path":"speed","selectedWidget":0}`, string(data))
}

func TestOptionsClone(t *testing.T) {
	o := &widgets.Options{ID: "w1", ConvertTo: strp("kn"), SelectedWidget: intp(1), MaxValue: floatp(9)}
	c := o.Clone()
	*o.ConvertTo = "km/h"
	*o.SelectedWidget = 0
	*o.MaxValue = 1

	assert.Equal(t, "kn", *c.ConvertTo)
	assert.Equal(t, 1, *c.SelectedWidget)
	assert.Equal(t, 9.0, *c.MaxValue)
	assert.Nil(t, c.MinValue)
}

func TestParseThreshold(t *testing.T) {
	for _, th := range widgets.Thresholds {
		got, ok := widgets.ParseThreshold(th.String())
		assert.True(t, ok)
		assert.Equal(t, th, got)
	}
	_, ok := widgets.ParseThreshold("median")
	assert.False(t, ok)
}
