// Package amp is a stereo effect with one parameter, amplitude, and an
// optional editor with a slider for it.
package amp

import (
	"github.com/sirupsen/logrus"

	"github.com/justyntemme/ampfx/pkg/framework/debug"
	"github.com/justyntemme/ampfx/pkg/framework/editor"
	"github.com/justyntemme/ampfx/pkg/framework/param"
	"github.com/justyntemme/ampfx/pkg/framework/plugin"
	vstplugin "github.com/justyntemme/ampfx/pkg/plugin"
	"github.com/justyntemme/ampfx/pkg/ui"
)

// Parameter indices.
const (
	ParamAmplitude = iota
)

// DefaultAmplitude is the amplitude of a fresh instance.
const DefaultAmplitude = 0.5

// Info is the plugin's identity.
func Info() plugin.Info {
	return plugin.Info{
		ID:             "com.justyntemme.ampfx",
		Name:           "Amp",
		Vendor:         "justyntemme",
		UniqueID:       243213073,
		Version:        1,
		InputChannels:  2,
		OutputChannels: 2,
		ParameterCount: 1,
		Category:       plugin.CategoryEffect,
	}
}

// Plugin is one loaded instance. It owns the parameter store; the
// processor and every editor it creates hold references to it.
type Plugin struct {
	params    *param.Store
	amplitude *param.Parameter
	processor *Processor
	windowing editor.Windowing
	log       logrus.FieldLogger
}

var _ vstplugin.Plugin = (*Plugin)(nil)

// Option configures a Plugin.
type Option func(*Plugin)

// WithWindowing sets the backend editors open their windows with.
func WithWindowing(w editor.Windowing) Option {
	return func(p *Plugin) {
		p.windowing = w
	}
}

// WithLogger sets the logger editors report their lifecycle to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Plugin) {
		p.log = l
	}
}

// New creates a fresh instance. Hosts get one per load.
func New(opts ...Option) *Plugin {
	amplitude := param.New(ParamAmplitude, "Amplitude").
		ShortName("Amp").
		Range(0, 1).
		Default(DefaultAmplitude).
		Unit("x").
		Formatter(param.MultiplierFormatter, param.MultiplierParser).
		Build()

	p := &Plugin{
		params:    param.NewStore(amplitude),
		amplitude: amplitude,
		processor: NewProcessor(amplitude),
		windowing: editor.NewHeadless(),
		log:       debug.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load creates a fresh instance wrapped for a host.
func Load(log logrus.FieldLogger, opts ...Option) (*vstplugin.Adapter, error) {
	if log != nil {
		opts = append([]Option{WithLogger(log)}, opts...)
	}
	return vstplugin.New(New(opts...), log)
}

// Info implements plugin.Plugin.
func (p *Plugin) Info() plugin.Info {
	return Info()
}

// Parameters implements plugin.Plugin.
func (p *Plugin) Parameters() *param.Store {
	return p.params
}

// Processor implements plugin.Plugin.
func (p *Plugin) Processor() vstplugin.Processor {
	return p.processor
}

// Amplitude returns the amplitude parameter.
func (p *Plugin) Amplitude() *param.Parameter {
	return p.amplitude
}

// NewEditor implements plugin.Plugin. Each editor gets its own binding to
// the shared amplitude parameter whenever it opens.
func (p *Plugin) NewEditor() vstplugin.Editor {
	desc := editor.WindowDescription{
		Title: Info().Name,
		Rect:  editor.DefaultRect,
	}
	return editor.NewController(p.windowing, desc, func() editor.View {
		return ui.NewBinding(p.amplitude, desc.Rect.Width, desc.Rect.Height)
	}, p.log)
}
