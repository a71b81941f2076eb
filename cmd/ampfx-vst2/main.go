//go:build plugin

// Command ampfx-vst2 builds the amp plugin as a VST2 shared library:
//
//	go build -tags plugin -buildmode c-shared -o ampfx.so ./cmd/ampfx-vst2
package main

import (
	"pipelined.dev/audio/vst2"

	"github.com/justyntemme/ampfx/pkg/amp"
	"github.com/justyntemme/ampfx/pkg/framework/debug"
	vstplugin "github.com/justyntemme/ampfx/pkg/plugin"
)

const maxBlockSize = 4096

func init() {
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		log := debug.GetLogger()
		adapter, err := amp.Load(log)
		if err != nil {
			log.WithError(err).Error("load failed")
			return vst2.Plugin{}, vst2.Dispatcher{}
		}
		if dir, err := debug.LogDir(); err != nil {
			log.WithError(err).Warn("no log directory")
		} else if err := adapter.Init(dir); err != nil {
			log.WithError(err).Warn("file logging unavailable")
		}
		if err := adapter.Setup(44100, maxBlockSize); err != nil {
			log.WithError(err).Error("setup failed")
		}

		info := adapter.Info()
		bridge := newParameterBridge(adapter)
		in := make([][]float32, info.InputChannels)
		out := make([][]float32, info.OutputChannels)

		return vst2.Plugin{
				UniqueID:       info.UID(),
				Version:        info.Version,
				InputChannels:  info.InputChannels,
				OutputChannels: info.OutputChannels,
				Name:           info.Name,
				Vendor:         info.Vendor,
				Category:       vst2.PluginCategoryEffect,
				Parameters:     bridge.params,
				ProcessFloatFunc: func(inBuf, outBuf vst2.FloatBuffer) {
					bridge.sync()
					for ch := range in {
						in[ch] = inBuf.Channel(ch)
					}
					for ch := range out {
						out[ch] = outBuf.Channel(ch)
					}
					adapter.Process(in, out)
				},
			}, vst2.Dispatcher{
				CloseFunc: func() {
					_ = adapter.Close()
				},
				GetChunkFunc: func(isPreset bool) []byte {
					chunk, err := adapter.GetChunk()
					if err != nil {
						return nil
					}
					return chunk
				},
				SetChunkFunc: func(data []byte, isPreset bool) {
					if err := adapter.SetChunk(data); err == nil {
						bridge.publish()
					}
				},
			}
	}
}

// parameterBridge keeps the host-visible parameter list and the plugin's
// store in step. The host writes Value directly; the editor writes the
// store. Whichever side changed since the last block wins.
type parameterBridge struct {
	adapter *vstplugin.Adapter
	params  []*vst2.Parameter
	seen    []float32
}

func newParameterBridge(adapter *vstplugin.Adapter) *parameterBridge {
	count := adapter.Info().ParameterCount
	b := &parameterBridge{
		adapter: adapter,
		params:  make([]*vst2.Parameter, count),
		seen:    make([]float32, count),
	}
	for i := range b.params {
		name, _ := adapter.ParameterName(i)
		unit, _ := adapter.ParameterLabel(i)
		b.params[i] = &vst2.Parameter{Name: name, Unit: unit}
	}
	b.publish()
	return b
}

// publish copies the store into the host-visible values.
func (b *parameterBridge) publish() {
	for i, p := range b.params {
		v, err := b.adapter.GetParameter(i)
		if err != nil {
			continue
		}
		p.Value = v
		b.seen[i] = v
	}
}

// sync runs at the top of every block.
func (b *parameterBridge) sync() {
	for i, p := range b.params {
		if p.Value != b.seen[i] {
			if err := b.adapter.SetParameter(i, p.Value); err == nil {
				b.seen[i] = p.Value
			}
			continue
		}
		v, err := b.adapter.GetParameter(i)
		if err != nil || v == b.seen[i] {
			continue
		}
		p.Value = v
		b.seen[i] = v
	}
}

func main() {}
