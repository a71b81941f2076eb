package plugin

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/justyntemme/ampfx/pkg/framework/debug"
	"github.com/justyntemme/ampfx/pkg/framework/param"
	"github.com/justyntemme/ampfx/pkg/framework/plugin"
	"github.com/justyntemme/ampfx/pkg/framework/process"
	"github.com/justyntemme/ampfx/pkg/framework/state"
)

// Adapter translates host calls into calls on a Plugin. One Adapter serves
// one plugin instance for the whole time the host has it loaded.
type Adapter struct {
	plugin    Plugin
	info      plugin.Info
	params    *param.Store
	processor Processor
	state     *state.Manager

	// ctx is reused by every Process call so the audio path never allocates.
	ctx       *process.Context
	faults    atomic.Uint64
	lastPanic atomic.Pointer[panicRecord]

	mu        sync.Mutex // guards the fields below; never taken on the audio path
	log       logrus.FieldLogger
	logCloser io.Closer
	reported  uint64
}

type panicRecord struct {
	value interface{}
}

// New creates an adapter for p after checking its metadata.
func New(p Plugin, log logrus.FieldLogger) (*Adapter, error) {
	info := p.Info()
	if err := info.Validate(); err != nil {
		return nil, err
	}
	params := p.Parameters()
	if params.Count() != info.ParameterCount {
		return nil, fmt.Errorf("%w: declares %d parameters, store holds %d",
			plugin.ErrInvalidInfo, info.ParameterCount, params.Count())
	}
	if log == nil {
		log = debug.Discard()
	}

	return &Adapter{
		plugin:    p,
		info:      info,
		params:    params,
		processor: p.Processor(),
		state:     state.NewManager(params),
		ctx:       process.NewContext(0),
		log:       log.WithField("plugin", info.Name),
	}, nil
}

// Init switches logging to the plugin log file in dir, since a host gives
// a plugin no console.
func (a *Adapter) Init(dir string) error {
	l, closer, err := debug.NewFileLogger(dir)
	if err != nil {
		return err
	}

	a.mu.Lock()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
	a.log = l.WithField("plugin", a.info.Name)
	a.logCloser = closer
	log := a.log
	a.mu.Unlock()

	log.WithField("version", a.info.Version).Info("init")
	return nil
}

func (a *Adapter) logger() logrus.FieldLogger {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.log
}

// Info returns the plugin's metadata. It has no side effects.
func (a *Adapter) Info() plugin.Info {
	return a.info
}

// Setup prepares the processor for the host's sample rate and block size.
func (a *Adapter) Setup(sampleRate float64, maxBlockSize int) error {
	if err := a.processor.Initialize(sampleRate, maxBlockSize); err != nil {
		a.logger().WithError(err).Error("processor setup failed")
		return err
	}
	a.ctx.SampleRate = sampleRate
	a.logger().WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"block_size":  maxBlockSize,
	}).Debug("processor setup")
	return nil
}

// GetParameter returns the host-normalized value at index.
func (a *Adapter) GetParameter(index int) (float32, error) {
	p, err := a.params.Param(index)
	if err != nil {
		return 0, err
	}
	return float32(p.Normalized()), nil
}

// SetParameter stores a host-normalized value at index.
func (a *Adapter) SetParameter(index int, value float32) error {
	p, err := a.params.Param(index)
	if err != nil {
		return err
	}
	if err := p.SetNormalized(float64(value)); err != nil {
		return fmt.Errorf("parameter %d: %w", index, err)
	}
	return nil
}

// SetParameterText parses text typed by the user, such as "0.5x", with the
// parameter's parser and stores the plain value.
func (a *Adapter) SetParameterText(index int, text string) error {
	p, err := a.params.Param(index)
	if err != nil {
		return err
	}
	v, err := p.ParseValue(text)
	if err != nil {
		return fmt.Errorf("parameter %d: parse %q: %w", index, text, err)
	}
	if err := p.SetValue(v); err != nil {
		return fmt.Errorf("parameter %d: %w", index, err)
	}
	return nil
}

// ParameterName returns the display name at index.
func (a *Adapter) ParameterName(index int) (string, error) {
	p, err := a.params.Param(index)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// ParameterLabel returns the unit label at index.
func (a *Adapter) ParameterLabel(index int) (string, error) {
	p, err := a.params.Param(index)
	if err != nil {
		return "", err
	}
	return p.Unit, nil
}

// ParameterDisplay returns the formatted current value at index.
func (a *Adapter) ParameterDisplay(index int) (string, error) {
	p, err := a.params.Param(index)
	if err != nil {
		return "", err
	}
	return p.Display(), nil
}

// Process runs one block. A panic in the processor silences the block and
// is counted instead of reaching the host; see Idle.
func (a *Adapter) Process(input, output [][]float32) {
	ctx := a.ctx
	ctx.Set(input, output)
	defer func() {
		if r := recover(); r != nil {
			ctx.Clear()
			a.lastPanic.Store(&panicRecord{value: r})
			a.faults.Add(1)
		}
		ctx.Release()
	}()
	a.processor.ProcessAudio(ctx)
}

// Faults returns how many blocks were silenced after a processor panic.
func (a *Adapter) Faults() uint64 {
	return a.faults.Load()
}

// Idle is called from the host's UI or idle thread. It logs processing
// faults that happened since the previous call.
func (a *Adapter) Idle() {
	faults := a.faults.Load()

	a.mu.Lock()
	previous := a.reported
	a.reported = faults
	log := a.log
	a.mu.Unlock()

	if faults > previous {
		log.WithField("faults", faults-previous).Error("audio blocks silenced after processor panic")
		if rec := a.lastPanic.Load(); rec != nil {
			debug.LogPanic(log, "process", rec.value)
		}
	}
}

// CreateEditor returns a new closed editor, or nil if the plugin has none.
// The adapter does not track editors it has handed out.
func (a *Adapter) CreateEditor() Editor {
	e := a.plugin.NewEditor()
	if e == nil {
		return nil
	}
	a.logger().Debug("editor created")
	return e
}

// GetChunk returns the parameter state for the host to persist.
func (a *Adapter) GetChunk() ([]byte, error) {
	return a.state.Bytes()
}

// SetChunk restores parameter state saved by GetChunk.
func (a *Adapter) SetChunk(chunk []byte) error {
	if err := a.state.SetBytes(chunk); err != nil {
		a.logger().WithError(err).Warn("rejected state chunk")
		return err
	}
	return nil
}

// Close releases the adapter's log file.
func (a *Adapter) Close() error {
	a.Idle()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Info("close")
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	a.log = debug.Discard()
	return err
}
