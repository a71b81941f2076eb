// Command ampfx-render runs the amp plugin offline over wav files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/justyntemme/ampfx/pkg/amp"
	"github.com/justyntemme/ampfx/pkg/framework/debug"
)

type config struct {
	args []string
}

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
}

func (config *config) run() int {
	cmdName, args := parseArgs(config.args)
	if cmdName == "" {
		printUsage()
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ExitOnError)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			flags.PrintDefaults()
			return errorExitCode
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", cmdName, err)
			return errorExitCode
		}
		return successExitCode
	}

	printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        []command
)

func main() {
	commands = []command{&renderCommand{}, &infoCommand{}}
	c := config{
		args: os.Args,
	}
	os.Exit(c.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func printUsage() {
	info := amp.Info()
	fmt.Printf("%s %s offline renderer\n", info.Vendor, info.Name)
	fmt.Println()
	fmt.Println("Usage: ampfx-render <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range commands {
		fmt.Printf("\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
	fmt.Println()
	fmt.Printf("Set %s=1 for debug logging.\n", debug.EnvDebug)
}
