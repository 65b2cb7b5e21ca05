// Command cli generates, publishes and reports on the card transactions
// dataset.
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
	commander.Register(&generateCmd{}, "dataset")
	commander.Register(&uploadCmd{}, "dataset")
	commander.Register(&reportCmd{}, "analytics")
	commander.Register(&queriesCmd{}, "analytics")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
