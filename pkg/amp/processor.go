package amp

import (
	"fmt"

	"github.com/justyntemme/ampfx/pkg/dsp/gain"
	"github.com/justyntemme/ampfx/pkg/framework/param"
	"github.com/justyntemme/ampfx/pkg/framework/process"
)

// Processor multiplies every sample by the amplitude parameter.
//
// The amplitude is read once per block: a change made while a block is
// being processed takes effect from the next block, so the worst-case
// delay is one block. Within a block the gain is constant, which keeps
// out[i] = in[i] * amplitude exact.
type Processor struct {
	amplitude  *param.Parameter
	sampleRate float64
}

// NewProcessor creates a processor reading amplitude.
func NewProcessor(amplitude *param.Parameter) *Processor {
	return &Processor{amplitude: amplitude}
}

// Initialize implements plugin.Processor.
func (p *Processor) Initialize(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %v", sampleRate)
	}
	if maxBlockSize < 0 {
		return fmt.Errorf("invalid block size %d", maxBlockSize)
	}
	p.sampleRate = sampleRate
	return nil
}

// SampleRate returns the rate set by Initialize.
func (p *Processor) SampleRate() float64 {
	return p.sampleRate
}

// ProcessAudio implements plugin.Processor. Buffers whose shapes do not
// match are a host error; the block is silenced.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if !ctx.Matched() {
		ctx.Clear()
		return
	}

	amplitude := float32(p.amplitude.Value())
	ctx.ProcessChannels(func(_ int, in, out []float32) {
		gain.Scale(out, in, amplitude)
	})
}
