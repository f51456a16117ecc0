package widgets

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roffe/gaugepanel/pkg/ebus"
	"github.com/roffe/gaugepanel/pkg/units"
)

var ErrUnknownType = errors.New("unknown widget type")

// StreamBundle resolves live value streams and their units.
type StreamBundle interface {
	StreamForSourcePath(sourceID, path string) ebus.Stream
	UnitForPath(path string) (string, bool)
}

// InstrumentPanel is the host owning layout and persistence.
type InstrumentPanel interface {
	Persist()
	PushGridChanges()
}

// Instance is what the host holds for every dashboard cell.
type Instance interface {
	ID() string
	Type() string
	Options() *Options
	Display() *Display
	Settings() *Settings
	// Detach releases every subscription the widget holds. Called when the cell is removed.
	Detach()
}

type config struct {
	registry *units.Registry
	log      *zap.SugaredLogger
}

type Option func(*config)

func WithRegistry(r *units.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *config) {
		c.log = l
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		registry: units.Default(),
		log:      zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type nopPanel struct{}

func (nopPanel) Persist()         {}
func (nopPanel) PushGridChanges() {}

// BaseWidget carries what every widget type shares.
type BaseWidget struct {
	id      string
	options *Options
	bundle  StreamBundle
	panel   InstrumentPanel
}

func NewBaseWidget(id string, options *Options, bundle StreamBundle, panel InstrumentPanel) BaseWidget {
	if options.ID == "" {
		options.ID = id
	}
	if panel == nil {
		panel = nopPanel{}
	}
	return BaseWidget{
		id:      id,
		options: options,
		bundle:  bundle,
		panel:   panel,
	}
}

func (b *BaseWidget) ID() string {
	return b.id
}

func (b *BaseWidget) Options() *Options {
	return b.options
}

// GetUnitForPath returns the unit of path or "" when it is unknown.
func (b *BaseWidget) GetUnitForPath(path string) string {
	if b.bundle == nil {
		return ""
	}
	unit, ok := b.bundle.UnitForPath(path)
	if !ok {
		return ""
	}
	return unit
}

// stream never returns nil.
func (b *BaseWidget) stream() ebus.Stream {
	if b.bundle == nil {
		return ebus.Never()
	}
	if s := b.bundle.StreamForSourcePath(b.options.SourceID, b.options.Path); s != nil {
		return s
	}
	return ebus.Never()
}

type Constructor func(id string, options *Options, bundle StreamBundle, panel InstrumentPanel, opts ...Option) Instance

var constructors = map[string]Constructor{
	TypeUniversal: func(id string, options *Options, bundle StreamBundle, panel InstrumentPanel, opts ...Option) Instance {
		return NewUniversal(id, options, bundle, panel, opts...)
	},
}

// New creates a widget of the named type.
func New(typ, id string, options *Options, bundle StreamBundle, panel InstrumentPanel, opts ...Option) (Instance, error) {
	ctor, ok := constructors[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return ctor(id, options, bundle, panel, opts...), nil
}

// Types lists the registered widget types.
func Types() []string {
	types := make([]string, 0, len(constructors))
	for t := range constructors {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
