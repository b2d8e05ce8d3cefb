// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Binary a72ss composes an ARM application processor subsystem and
// reports its cores, memory map and interrupt wiring.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(os.Stderr)

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(new(Presets), "")
	subcommands.Register(new(Compose), "")
	subcommands.Register(new(Memmap), "")
	subcommands.Register(new(Irqmap), "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
