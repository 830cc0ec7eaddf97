package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&loginCmd{}, "session")
	commander.Register(&registerCmd{}, "session")
	commander.Register(&logoutCmd{}, "session")
	commander.Register(&whoamiCmd{}, "session")

	commander.Register(&businessesCmd{}, "businesses")

	commander.Register(&dashboardCmd{}, "dashboard")
	commander.Register(&watchCmd{}, "dashboard")

	commander.Register(&uploadCmd{}, "data")
	commander.Register(&bankSyncCmd{}, "data")
	commander.Register(&reportCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
