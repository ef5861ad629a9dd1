package main

import (
	"github.com/neilberkman/recap/cmd/clear"
	imports "github.com/neilberkman/recap/cmd/import"
	"github.com/neilberkman/recap/cmd/root"
	"github.com/neilberkman/recap/cmd/stats"
	"github.com/neilberkman/recap/cmd/summary"
	"github.com/neilberkman/recap/cmd/wrapped"
)

// Version information, set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set version information
	root.Version = version
	root.Commit = commit
	root.Date = date
	root.RootCmd.Version = version

	// Add subcommands
	root.RootCmd.AddCommand(imports.ImportCmd)
	root.RootCmd.AddCommand(stats.StatsCmd)
	root.RootCmd.AddCommand(wrapped.WrappedCmd)
	root.RootCmd.AddCommand(summary.SummaryCmd)
	root.RootCmd.AddCommand(clear.ClearCmd)

	// Execute
	root.Execute()
}
