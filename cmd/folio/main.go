// Command folio is the command-line front end for the TWR calculator and the
// portfolio returns series.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "", "Path to folio.toml (default: $FOLIO_CONFIG, then next to the binary)")
	logLevel   = flag.String("log-level", "warn", "Log level: trace, debug, info, warn, error")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&calcCmd{}, "calculator")
	commander.Register(&exportCmd{}, "calculator")
	commander.Register(&seriesCmd{}, "series")
	commander.Register(&chartCmd{}, "series")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
