// Command ampfx-preview opens the amp editor in a desktop window and plays
// a test tone through the plugin, so the slider can be heard.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/justyntemme/ampfx/pkg/amp"
	"github.com/justyntemme/ampfx/pkg/framework/debug"
	"github.com/justyntemme/ampfx/pkg/framework/editor"
	vstplugin "github.com/justyntemme/ampfx/pkg/plugin"
)

func main() {
	var (
		tone       = flag.Float64("tone", 440, "test tone frequency in Hz; 0 disables audio")
		sampleRate = flag.Int("rate", 48000, "output sample rate")
		amplitude  = flag.Float64("amp", amp.DefaultAmplitude, "initial amplitude")
	)
	flag.Parse()

	if err := run(*tone, *sampleRate, *amplitude); err != nil {
		fmt.Fprintf(os.Stderr, "ampfx-preview: %v\n", err)
		os.Exit(1)
	}
}

func run(tone float64, sampleRate int, amplitude float64) error {
	log := debug.GetLogger()

	p := amp.New(amp.WithLogger(log))
	if err := p.Parameters().Set(amp.ParamAmplitude, amplitude); err != nil {
		return err
	}
	adapter, err := vstplugin.New(p, log)
	if err != nil {
		return err
	}
	defer adapter.Close()

	if tone > 0 {
		player, err := newTonePlayer(adapter, sampleRate, tone)
		if err != nil {
			return fmt.Errorf("audio: %w", err)
		}
		defer player.Close()
		player.Start()
	}

	rect := editor.DefaultRect
	ebiten.SetWindowSize(rect.Width*2, rect.Height*2)
	ebiten.SetWindowTitle(adapter.Info().Name)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)

	return ebiten.RunGame(newWindow(p.Amplitude(), adapter, rect))
}
