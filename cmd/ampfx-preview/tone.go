package main

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	vstplugin "github.com/justyntemme/ampfx/pkg/plugin"
)

const (
	toneChannels  = 2
	toneBlockSize = 512
	toneLevel     = 0.5
)

// tonePlayer feeds a sine through the plugin to oto. Read runs on oto's
// audio goroutine and plays the role of the host's process callback.
type tonePlayer struct {
	adapter *vstplugin.Adapter
	ctx     *oto.Context
	player  *oto.Player

	phase float64
	step  float64

	// Pre-allocated block buffers and the per-call views into them.
	in, out         [][]float32
	inView, outView [][]float32

	mu      sync.Mutex
	started bool
}

func newTonePlayer(adapter *vstplugin.Adapter, sampleRate int, frequency float64) (*tonePlayer, error) {
	if err := adapter.Setup(float64(sampleRate), toneBlockSize); err != nil {
		return nil, err
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: toneChannels,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	t := &tonePlayer{
		adapter: adapter,
		ctx:     ctx,
		step:    2 * math.Pi * frequency / float64(sampleRate),
		in:      make([][]float32, toneChannels),
		out:     make([][]float32, toneChannels),
		inView:  make([][]float32, toneChannels),
		outView: make([][]float32, toneChannels),
	}
	for ch := 0; ch < toneChannels; ch++ {
		t.in[ch] = make([]float32, toneBlockSize)
		t.out[ch] = make([]float32, toneBlockSize)
	}
	t.player = ctx.NewPlayer(t)
	return t, nil
}

// Read implements io.Reader with interleaved float32 frames.
func (t *tonePlayer) Read(p []byte) (int, error) {
	const frameBytes = toneChannels * 4
	frames := len(p) / frameBytes

	for done := 0; done < frames; {
		n := min(frames-done, toneBlockSize)
		for ch := 0; ch < toneChannels; ch++ {
			t.inView[ch] = t.in[ch][:n]
			t.outView[ch] = t.out[ch][:n]
		}

		for i := 0; i < n; i++ {
			s := float32(toneLevel * math.Sin(t.phase))
			for ch := 0; ch < toneChannels; ch++ {
				t.inView[ch][i] = s
			}
			t.phase += t.step
			if t.phase >= 2*math.Pi {
				t.phase -= 2 * math.Pi
			}
		}

		t.adapter.Process(t.inView, t.outView)

		for i := 0; i < n; i++ {
			for ch := 0; ch < toneChannels; ch++ {
				off := ((done+i)*toneChannels + ch) * 4
				binary.LittleEndian.PutUint32(p[off:], math.Float32bits(t.outView[ch][i]))
			}
		}
		done += n
	}
	return frames * frameBytes, nil
}

func (t *tonePlayer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		t.player.Play()
		t.started = true
	}
}

func (t *tonePlayer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.player != nil {
		t.player.Close()
		t.player = nil
	}
	t.started = false
}
