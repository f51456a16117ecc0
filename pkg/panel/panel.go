// Package panel is the instrument panel hosting widgets: it owns the cell
// list, their layout and the saved dashboard document.
package panel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roffe/gaugepanel/pkg/layout"
	"github.com/roffe/gaugepanel/pkg/units"
	"github.com/roffe/gaugepanel/pkg/widgets"
)

var (
	ErrDuplicateWidget = errors.New("duplicate widget id")
	ErrWidgetNotFound  = errors.New("widget not found")
)

type Config struct {
	Store    Store
	Bundle   widgets.StreamBundle
	Registry *units.Registry

	Columns int
	Padding float32

	PersistAttempts uint
	PersistDelay    time.Duration

	Log *zap.SugaredLogger
}

type cell struct {
	typ    string
	widget widgets.Instance
}

type Panel struct {
	cfg  *Config
	log  *zap.SugaredLogger
	grid *layout.Grid

	mu         sync.Mutex
	cells      []*cell
	placements []layout.Placement
	onLayout   func([]layout.Placement)
}

func New(cfg *Config) *Panel {
	if cfg.Store == nil {
		cfg.Store = &MemoryStore{}
	}
	if cfg.Registry == nil {
		cfg.Registry = units.Default()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	if cfg.PersistAttempts == 0 {
		cfg.PersistAttempts = 1
	}
	return &Panel{
		cfg:  cfg,
		log:  cfg.Log,
		grid: layout.NewGrid(cfg.Columns, cfg.Padding),
	}
}

// Load instantiates every cell of the saved document and lays them out.
func (p *Panel) Load(ctx context.Context) error {
	doc, err := p.cfg.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	for _, c := range doc.Widgets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Options == nil {
			p.log.Warnw("skipping cell without options", "type", c.Type)
			continue
		}
		if _, err := p.add(c.Type, c.Options); err != nil {
			// one bad cell must not take down the dashboard
			p.log.Warnw("skipping cell", "type", c.Type, "id", c.Options.ID, "err", err)
		}
	}
	p.PushGridChanges()
	return nil
}

// Add creates a new cell, persists the dashboard and lays it out again.
func (p *Panel) Add(typ string, options *widgets.Options) (widgets.Instance, error) {
	w, err := p.add(typ, options)
	if err != nil {
		return nil, err
	}
	p.Persist()
	p.PushGridChanges()
	return w, nil
}

func (p *Panel) add(typ string, options *widgets.Options) (widgets.Instance, error) {
	if options.ID == "" {
		options.ID = uuid.NewString()
	}
	w, err := widgets.New(typ, options.ID, options, p.cfg.Bundle, p,
		widgets.WithRegistry(p.cfg.Registry),
		widgets.WithLogger(p.log),
	)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	dup := slices.ContainsFunc(p.cells, func(c *cell) bool {
		return c.widget.ID() == options.ID
	})
	if !dup {
		p.cells = append(p.cells, &cell{typ: typ, widget: w})
	}
	p.mu.Unlock()

	if dup {
		w.Detach()
		return nil, fmt.Errorf("%w: %q", ErrDuplicateWidget, options.ID)
	}
	return w, nil
}

// Remove detaches the widget and drops its cell.
func (p *Panel) Remove(id string) error {
	p.mu.Lock()
	i := slices.IndexFunc(p.cells, func(c *cell) bool {
		return c.widget.ID() == id
	})
	if i < 0 {
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrWidgetNotFound, id)
	}
	c := p.cells[i]
	p.cells = slices.Delete(p.cells, i, i+1)
	p.mu.Unlock()

	c.widget.Detach()
	p.Persist()
	p.PushGridChanges()
	return nil
}

func (p *Panel) Widget(id string) (widgets.Instance, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.cells {
		if c.widget.ID() == id {
			return c.widget, true
		}
	}
	return nil, false
}

func (p *Panel) Widgets() []widgets.Instance {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]widgets.Instance, 0, len(p.cells))
	for _, c := range p.cells {
		out = append(out, c.widget)
	}
	return out
}

// Document snapshots the options of every cell.
func (p *Panel) Document() *Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	doc := &Document{Widgets: make([]CellDocument, 0, len(p.cells))}
	for _, c := range p.cells {
		doc.Widgets = append(doc.Widgets, CellDocument{
			Type:    c.typ,
			Options: c.widget.Options().Clone(),
		})
	}
	return doc
}

// Persist saves the dashboard. Failures are logged, never returned.
func (p *Panel) Persist() {
	doc := p.Document()
	err := retry.Do(
		func() error {
			return p.cfg.Store.Save(doc)
		},
		retry.Attempts(p.cfg.PersistAttempts),
		retry.Delay(p.cfg.PersistDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		p.log.Errorw("failed to persist dashboard", "err", err)
		return
	}
	p.log.Debugw("dashboard persisted", "widgets", len(doc.Widgets))
}

// PushGridChanges lays out every cell using the size of its current display.
func (p *Panel) PushGridChanges() {
	p.mu.Lock()
	cells := make([]layout.Cell, 0, len(p.cells))
	for _, c := range p.cells {
		cells = append(cells, layout.Cell{
			ID:   c.widget.ID(),
			Size: c.widget.Display().MinSize,
		})
	}
	p.placements = p.grid.Layout(cells)
	placements := slices.Clone(p.placements)
	onLayout := p.onLayout
	p.mu.Unlock()

	if onLayout != nil {
		onLayout(placements)
	}
}

func (p *Panel) Placements() []layout.Placement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.placements)
}

func (p *Panel) OnLayout(fn func([]layout.Placement)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLayout = fn
}

// Close detaches every widget. The document is left as last persisted.
func (p *Panel) Close() {
	p.mu.Lock()
	cells := p.cells
	p.cells = nil
	p.mu.Unlock()
	for _, c := range cells {
		c.widget.Detach()
	}
}
