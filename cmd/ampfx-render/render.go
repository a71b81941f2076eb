package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justyntemme/ampfx/pkg/amp"
	"github.com/justyntemme/ampfx/pkg/framework/debug"
	"github.com/justyntemme/ampfx/pkg/render"
)

type renderCommand struct {
	in        string
	out       string
	amplitude string
	blockSize int
	state     string
	saveState string
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Scale a wav file by the amplitude parameter"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "input wav file (required)")
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.StringVar(&cmd.amplitude, "amp", "0.5", `amplitude, e.g. "0.5" or "0.5x"`)
	fs.IntVar(&cmd.blockSize, "block", render.DefaultBlockSize, "frames per processing block")
	fs.StringVar(&cmd.state, "state", "", "load parameters from a saved state chunk; overrides -amp")
	fs.StringVar(&cmd.saveState, "save-state", "", "write the parameters used to a state chunk")
}

func (cmd *renderCommand) Validate() error {
	var missing []string
	if cmd.in == "" {
		missing = append(missing, "Missing -in required flag")
	}
	if cmd.out == "" {
		missing = append(missing, "Missing -out required flag")
	}
	if cmd.blockSize <= 0 {
		missing = append(missing, fmt.Sprintf("Invalid -block %d", cmd.blockSize))
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, "\n"))
	}
	return nil
}

func (cmd *renderCommand) Run() error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := debug.GetLogger()
	adapter, err := amp.Load(log)
	if err != nil {
		return err
	}
	defer adapter.Close()

	if cmd.state != "" {
		chunk, err := os.ReadFile(cmd.state)
		if err != nil {
			return err
		}
		if err := adapter.SetChunk(chunk); err != nil {
			return err
		}
	} else if err := adapter.SetParameterText(amp.ParamAmplitude, cmd.amplitude); err != nil {
		return err
	}

	display, _ := adapter.ParameterDisplay(amp.ParamAmplitude)
	started := time.Now()
	stats, err := render.File(cmd.in, cmd.out, adapter, cmd.blockSize)
	if err != nil {
		return err
	}
	adapter.Idle()

	log.WithFields(logrus.Fields{
		"in":          cmd.in,
		"out":         cmd.out,
		"amplitude":   display,
		"sample_rate": stats.SampleRate,
		"channels":    stats.Channels,
		"bit_depth":   stats.BitDepth,
		"frames":      stats.Frames,
		"elapsed":     time.Since(started),
	}).Info("rendered")

	if cmd.saveState != "" {
		chunk, err := adapter.GetChunk()
		if err != nil {
			return err
		}
		return os.WriteFile(cmd.saveState, chunk, 0o644)
	}
	return nil
}
