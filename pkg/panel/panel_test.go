package panel_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roffe/gaugepanel/pkg/layout"
	"github.com/roffe/gaugepanel/pkg/panel"
	"github.com/roffe/gaugepanel/pkg/streambundle"
	"github.com/roffe/gaugepanel/pkg/widgets"
)

func intp(i int) *int { return &i }

func newBundle(t *testing.T) *streambundle.Bundle {
	t.Helper()
	b := streambundle.New(&streambundle.Config{Units: map[string]string{"speed": "m/s", "temp": "K"}})
	t.Cleanup(b.Close)
	return b
}

func seededStore() *panel.MemoryStore {
	return &panel.MemoryStore{Doc: &panel.Document{Widgets: []panel.CellDocument{
		{Type: "universal", Options: &widgets.Options{ID: "w1", SourceID: "s1", Path: "speed"}},
		{Type: "universal", Options: &widgets.Options{ID: "w2", SourceID: "s1", Path: "temp", SelectedWidget: intp(1)}},
	}}}
}

func TestLoad(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := seededStore()
	store.Doc.Widgets = append(store.Doc.Widgets,
		panel.CellDocument{Type: "sparkline", Options: &widgets.Options{ID: "w3"}},
		panel.CellDocument{Type: "universal"},
	)
	p := panel.New(&panel.Config{Store: store, Bundle: newBundle(t), Columns: 2, Log: zap.New(core).Sugar()})

	require.NoError(t, p.Load(context.Background()))
	assert.Len(t, p.Widgets(), 2)
	assert.Equal(t, 2, logs.Len())
	assert.Zero(t, store.Saves, "loading does not persist")

	placements := p.Placements()
	require.Len(t, placements, 2)
	assert.Equal(t, fyne.NewSize(160, 80), placements[0].Size)
	assert.Equal(t, fyne.NewSize(200, 200), placements[1].Size)
}

func TestSettingsEditsPersist(t *testing.T) {
	store := seededStore()
	p := panel.New(&panel.Config{Store: store, Bundle: newBundle(t), Columns: 2})
	require.NoError(t, p.Load(context.Background()))

	var layouts [][]layout.Placement
	p.OnLayout(func(pl []layout.Placement) {
		layouts = append(layouts, pl)
	})

	w, ok := p.Widget("w1")
	require.True(t, ok)

	require.NoError(t, w.Settings().Unit.OnChange("km/h"))
	assert.Equal(t, 1, store.Saves)
	assert.Len(t, layouts, 1)
	assert.Equal(t, "km/h", *store.Doc.Widgets[0].Options.ConvertTo)

	require.NoError(t, w.Settings().Mode(widgets.Analog).OnChange())
	assert.Equal(t, 2, store.Saves)
	require.Len(t, layouts, 2)
	assert.Equal(t, fyne.NewSize(200, 200), layouts[1][0].Size)

	require.NoError(t, w.Settings().Threshold(widgets.MaxThreshold).OnChange("120"))
	assert.Equal(t, 3, store.Saves)
	assert.Len(t, layouts, 2, "threshold edits keep the layout")
	assert.Equal(t, 120.0, *store.Doc.Widgets[0].Options.MaxValue)

	assert.Error(t, w.Settings().Threshold(widgets.MaxThreshold).OnChange("abc"))
	assert.Equal(t, 3, store.Saves)

	// the saved document is a snapshot, not the live options
	*w.Options().MaxValue = 1
	assert.Equal(t, 120.0, *store.Doc.Widgets[0].Options.MaxValue)
}

func TestAddRemove(t *testing.T) {
	bundle := newBundle(t)
	store := &panel.MemoryStore{}
	p := panel.New(&panel.Config{Store: store, Bundle: bundle})

	w, err := p.Add(widgets.TypeUniversal, &widgets.Options{SourceID: "s1", Path: "speed"})
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID())
	assert.Equal(t, w.ID(), w.Options().ID)
	assert.Equal(t, 1, store.Saves)

	_, err = p.Add(widgets.TypeUniversal, &widgets.Options{ID: w.ID(), SourceID: "s1", Path: "speed"})
	assert.ErrorIs(t, err, panel.ErrDuplicateWidget)

	var got []float64
	w.Display().Values.Subscribe(func(v float64) { got = append(got, v) })
	assert.Equal(t, 1, bundle.Subscribers("s1", "speed"))

	require.NoError(t, p.Remove(w.ID()))
	assert.Zero(t, bundle.Subscribers("s1", "speed"))
	assert.Empty(t, p.Widgets())
	assert.Empty(t, store.Doc.Widgets)
	assert.ErrorIs(t, p.Remove(w.ID()), panel.ErrWidgetNotFound)

	bundle.Publish("s1", "speed", 1)
	assert.Empty(t, got)
}

func TestConcurrentAddSameID(t *testing.T) {
	bundle := newBundle(t)
	p := panel.New(&panel.Config{Store: &panel.MemoryStore{}, Bundle: bundle})

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = p.Add(widgets.TypeUniversal, &widgets.Options{ID: "w1", SourceID: "s1", Path: "speed"})
		}()
	}
	wg.Wait()

	var added int
	for _, err := range errs {
		if err == nil {
			added++
			continue
		}
		assert.ErrorIs(t, err, panel.ErrDuplicateWidget)
	}
	assert.Equal(t, 1, added)
	assert.Len(t, p.Widgets(), 1)
	assert.Len(t, p.Document().Widgets, 1)
}

func TestPersistFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := &panel.MemoryStore{Err: errors.New("disk full")}
	p := panel.New(&panel.Config{Store: store, PersistAttempts: 3, Log: zap.New(core).Sugar()})

	_, err := p.Add(widgets.TypeUniversal, &widgets.Options{ID: "w1", Path: "speed"})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist dashboard").Len())
}

func TestFileStore(t *testing.T) {
	for _, name := range []string{"dashboard.yaml", "dashboard.json"} {
		t.Run(name, func(t *testing.T) {
			store := &panel.FileStore{Path: filepath.Join(t.TempDir(), name)}

			doc, err := store.Load()
			require.NoError(t, err)
			assert.Empty(t, doc.Widgets)

			p := panel.New(&panel.Config{Store: store, Bundle: newBundle(t)})
			require.NoError(t, p.Load(context.Background()))
			w, err := p.Add(widgets.TypeUniversal, &widgets.Options{ID: "w1", SourceID: "s1", Path: "speed"})
			require.NoError(t, err)
			require.NoError(t, w.Settings().Unit.OnChange("kn"))

			reloaded := panel.New(&panel.Config{Store: store, Bundle: newBundle(t)})
			require.NoError(t, reloaded.Load(context.Background()))
			rw, ok := reloaded.Widget("w1")
			require.True(t, ok)
			assert.Equal(t, "kn", rw.Display().Unit)
			assert.Equal(t, 0, *rw.Options().SelectedWidget)
		})
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	p := panel.New(&panel.Config{Store: &panel.FileStore{Path: path}})
	assert.Error(t, p.Load(context.Background()))
}
