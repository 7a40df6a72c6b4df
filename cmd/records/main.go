package main

import (
	"os"

	"github.com/conduit-lang/records/internal/cli/commands"
)

// Version information - set at build time with -ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	commands.Version = Version
	commands.GitCommit = GitCommit
	commands.BuildDate = BuildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
