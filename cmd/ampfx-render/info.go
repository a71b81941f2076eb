package main

import (
	"flag"
	"fmt"

	"github.com/justyntemme/ampfx/pkg/amp"
)

type infoCommand struct{}

func (cmd *infoCommand) Name() string {
	return "info"
}

func (cmd *infoCommand) Help() string {
	return "Print plugin metadata and parameters"
}

func (cmd *infoCommand) Register(*flag.FlagSet) {}

func (cmd *infoCommand) Run() error {
	adapter, err := amp.Load(nil)
	if err != nil {
		return err
	}
	defer adapter.Close()

	info := adapter.Info()
	uid := info.UID()
	fmt.Printf("%s by %s (%s)\n", info.Name, info.Vendor, info.ID)
	fmt.Printf("  unique id: %q version: %d category: %s\n", uid[:], info.Version, info.Category)
	fmt.Printf("  channels: %d in, %d out\n", info.InputChannels, info.OutputChannels)
	fmt.Printf("  parameters:\n")
	for i := 0; i < info.ParameterCount; i++ {
		name, err := adapter.ParameterName(i)
		if err != nil {
			return err
		}
		label, _ := adapter.ParameterLabel(i)
		display, _ := adapter.ParameterDisplay(i)
		fmt.Printf("    %d %s = %s %s\n", i, name, display, label)
	}

	e := adapter.CreateEditor()
	if e != nil {
		w, h := e.Size()
		fmt.Printf("  editor: %dx%d\n", w, h)
	}
	return nil
}
