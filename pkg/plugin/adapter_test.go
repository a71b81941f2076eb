package plugin

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/ampfx/pkg/framework/debug"
	"github.com/justyntemme/ampfx/pkg/framework/editor"
	"github.com/justyntemme/ampfx/pkg/framework/param"
	"github.com/justyntemme/ampfx/pkg/framework/plugin"
	"github.com/justyntemme/ampfx/pkg/framework/process"
	"github.com/justyntemme/ampfx/pkg/framework/state"
)

type scaleProcessor struct {
	scale      *param.Parameter
	panicking  bool
	sampleRate float64
}

func (p *scaleProcessor) Initialize(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 {
		return assert.AnError
	}
	p.sampleRate = sampleRate
	return nil
}

func (p *scaleProcessor) ProcessAudio(ctx *process.Context) {
	if p.panicking {
		// Leave a partial block behind before failing.
		for ch := range ctx.Output {
			copy(ctx.Output[ch], ctx.Input[ch])
		}
		panic("boom")
	}
	s := float32(p.scale.Value())
	ctx.ProcessChannels(func(_ int, in, out []float32) {
		for i := range in {
			out[i] = in[i] * s
		}
	})
}

type fakeEditor struct{ open bool }

func (e *fakeEditor) Position() (int, int) { return 0, 0 }
func (e *fakeEditor) Size() (int, int)     { return 300, 300 }
func (e *fakeEditor) IsOpen() bool         { return e.open }
func (e *fakeEditor) Close()               { e.open = false }

func (e *fakeEditor) Open(parent editor.Handle) bool {
	e.open = parent != 0
	return e.open
}

type fakePlugin struct {
	info      plugin.Info
	params    *param.Store
	processor *scaleProcessor
	editors   bool
}

func newFakePlugin() *fakePlugin {
	scale := param.New(0, "Scale").
		Range(0, 2).
		Default(1).
		Unit("x").
		Build()
	level := param.New(7, "Level").
		Range(-60, 0).
		Default(-6).
		Unit("dB").
		Formatter(param.DecibelFormatter, nil).
		Build()
	return &fakePlugin{
		info: plugin.Info{
			ID:             "com.example.scale",
			Name:           "Scale",
			Vendor:         "Example",
			UniqueID:       0x5343414c,
			Version:        3,
			InputChannels:  2,
			OutputChannels: 2,
			ParameterCount: 2,
			Category:       plugin.CategoryEffect,
		},
		params:    param.NewStore(scale, level),
		processor: &scaleProcessor{scale: scale},
		editors:   true,
	}
}

func (p *fakePlugin) Info() plugin.Info        { return p.info }
func (p *fakePlugin) Parameters() *param.Store { return p.params }
func (p *fakePlugin) Processor() Processor     { return p.processor }

func (p *fakePlugin) NewEditor() Editor {
	if !p.editors {
		return nil
	}
	return &fakeEditor{}
}

func newTestAdapter(t *testing.T) (*Adapter, *fakePlugin) {
	t.Helper()
	p := newFakePlugin()
	a, err := New(p, debug.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, p
}

func TestNewRejectsInvalidInfo(t *testing.T) {
	p := newFakePlugin()
	p.info.Name = ""
	_, err := New(p, nil)
	assert.ErrorIs(t, err, plugin.ErrInvalidInfo)

	p = newFakePlugin()
	p.info.ParameterCount = 1
	_, err = New(p, nil)
	assert.ErrorIs(t, err, plugin.ErrInvalidInfo)
}

func TestAdapterInfo(t *testing.T) {
	a, p := newTestAdapter(t)
	assert.Equal(t, p.info, a.Info())
	assert.Equal(t, a.Info(), a.Info())
}

func TestAdapterParameters(t *testing.T) {
	a, p := newTestAdapter(t)

	v, err := a.GetParameter(0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), v)

	require.NoError(t, a.SetParameter(0, 0.25))
	assert.Equal(t, 0.5, p.params.All()[0].Value())

	v, err = a.GetParameter(0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), v)

	name, err := a.ParameterName(1)
	require.NoError(t, err)
	assert.Equal(t, "Level", name)

	label, err := a.ParameterLabel(1)
	require.NoError(t, err)
	assert.Equal(t, "dB", label)

	display, err := a.ParameterDisplay(1)
	require.NoError(t, err)
	assert.Equal(t, "-6.0 dB", display)
}

func TestAdapterParameterIndexOutOfBounds(t *testing.T) {
	a, _ := newTestAdapter(t)

	for _, index := range []int{-1, 2, 100} {
		_, err := a.GetParameter(index)
		assert.ErrorIs(t, err, param.ErrIndexOutOfBounds, "get %d", index)
		assert.ErrorIs(t, a.SetParameter(index, 0.5), param.ErrIndexOutOfBounds, "set %d", index)

		_, err = a.ParameterName(index)
		assert.ErrorIs(t, err, param.ErrIndexOutOfBounds)
		_, err = a.ParameterLabel(index)
		assert.ErrorIs(t, err, param.ErrIndexOutOfBounds)
		_, err = a.ParameterDisplay(index)
		assert.ErrorIs(t, err, param.ErrIndexOutOfBounds)
	}
}

func TestAdapterSetParameterText(t *testing.T) {
	a, p := newTestAdapter(t)

	require.NoError(t, a.SetParameterText(1, "-12.5"))
	assert.Equal(t, -12.5, p.params.All()[1].Value())

	assert.Error(t, a.SetParameterText(1, "loud"))
	assert.ErrorIs(t, a.SetParameterText(1, "1e39"), param.ErrOutOfRange)
	assert.ErrorIs(t, a.SetParameterText(5, "1"), param.ErrIndexOutOfBounds)
	assert.Equal(t, -12.5, p.params.All()[1].Value())
}

func TestAdapterRejectsNonFinite(t *testing.T) {
	a, _ := newTestAdapter(t)
	require.NoError(t, a.SetParameter(0, 0.75))

	for _, v := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		assert.ErrorIs(t, a.SetParameter(0, v), param.ErrNonFinite)
	}
	got, err := a.GetParameter(0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.75), got)
}

func TestAdapterSetup(t *testing.T) {
	a, p := newTestAdapter(t)
	assert.Error(t, a.Setup(0, 512))
	require.NoError(t, a.Setup(48000, 512))
	assert.Equal(t, 48000.0, p.processor.sampleRate)
}

func TestAdapterProcess(t *testing.T) {
	a, _ := newTestAdapter(t)
	require.NoError(t, a.SetParameter(0, 0.75))

	in := [][]float32{{1, 2}, {-1, 0.5}}
	out := [][]float32{{0, 0}, {0, 0}}
	a.Process(in, out)
	assert.Equal(t, [][]float32{{1.5, 3}, {-1.5, 0.75}}, out)

	assert.Nil(t, a.ctx.Input, "context keeps no reference to host buffers")
	assert.Nil(t, a.ctx.Output)
}

func TestAdapterProcessRecoversPanic(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	p := newFakePlugin()
	a, err := New(p, log)
	require.NoError(t, err)

	p.processor.panicking = true
	out := [][]float32{{9, 9}, {9, 9}}
	assert.NotPanics(t, func() { a.Process([][]float32{{1, 1}, {1, 1}}, out) })
	assert.Equal(t, [][]float32{{0, 0}, {0, 0}}, out)
	assert.Equal(t, uint64(1), a.Faults())

	a.Process([][]float32{{1, 1}, {1, 1}}, out)
	assert.Equal(t, uint64(2), a.Faults())

	hook.Reset()
	a.Idle()
	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.ErrorLevel, entries[0].Level)
	assert.Equal(t, uint64(2), entries[0].Data["faults"])
	assert.Equal(t, "process", entries[1].Data["operation"])
	assert.Equal(t, "boom", entries[1].Data["panic"])

	// Already reported.
	hook.Reset()
	a.Idle()
	assert.Empty(t, hook.AllEntries())

	p.processor.panicking = false
	a.Process([][]float32{{1, 1}, {1, 1}}, out)
	assert.Equal(t, [][]float32{{1, 1}, {1, 1}}, out)
	assert.Equal(t, uint64(2), a.Faults())
}

func TestAdapterProcessDoesNotAllocate(t *testing.T) {
	a, _ := newTestAdapter(t)
	in := [][]float32{make([]float32, 256), make([]float32, 256)}
	out := [][]float32{make([]float32, 256), make([]float32, 256)}
	allocs := testing.AllocsPerRun(100, func() { a.Process(in, out) })
	assert.Zero(t, allocs)
}

func TestAdapterCreateEditor(t *testing.T) {
	a, p := newTestAdapter(t)

	first := a.CreateEditor()
	require.NotNil(t, first)
	second := a.CreateEditor()
	assert.NotSame(t, first, second)

	assert.False(t, first.Open(0))
	assert.True(t, first.Open(1))
	assert.False(t, second.IsOpen())

	p.editors = false
	assert.Nil(t, a.CreateEditor())
}

func TestAdapterChunks(t *testing.T) {
	a, p := newTestAdapter(t)
	require.NoError(t, a.SetParameter(0, 0.1))
	require.NoError(t, p.params.Set(1, -30))

	chunk, err := a.GetChunk()
	require.NoError(t, err)

	p.params.Reset()
	require.NoError(t, a.SetChunk(chunk))
	assert.InDelta(t, 0.2, p.params.All()[0].Value(), 1e-6)
	assert.Equal(t, -30.0, p.params.All()[1].Value())

	err = a.SetChunk([]byte("garbage"))
	assert.ErrorIs(t, err, state.ErrInvalidFormat)
	assert.Equal(t, -30.0, p.params.All()[1].Value())
}

func TestAdapterInitWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	a, err := New(newFakePlugin(), nil)
	require.NoError(t, err)

	require.NoError(t, a.Init(dir))
	require.NoError(t, a.Setup(44100, 64))
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	data, err := os.ReadFile(filepath.Join(dir, debug.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=init")
	assert.Contains(t, string(data), "plugin=Scale")
	assert.Contains(t, string(data), "msg=close")
}
