package commands

import "github.com/alecthomas/kong"

// CLI is the root command.
type CLI struct {
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve ServeCmd `cmd:"" default:"1" help:"Serve sidebar configuration over HTTP (configured from SIDEBAR_* env)"`
	Build BuildCmd `cmd:"" help:"Build the sidebar of one locale file and print it as JSON"`
}
