package main

import (
	"log"

	"github.com/alecthomas/kong"

	"github.com/fangbw17/sidebar/cmd/sidebar/commands"
	"github.com/fangbw17/sidebar/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("sidebar"),
		kong.Description("Builds and serves site sidebar configuration from navigation locale files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	if err := ctx.Run(cli); err != nil {
		log.Fatalf("❌ sidebar failed: %v", err)
	}
}
