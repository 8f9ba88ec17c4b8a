package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" default:""`

	Chat   ChatCmd   `cmd:"" default:"1" help:"Start an interactive chat session (default)"`
	Ask    AskCmd    `cmd:"" help:"Ask a single question and exit"`
	Query  QueryCmd  `cmd:"" help:"Run a raw SELECT statement against the warehouse"`
	Schema SchemaCmd `cmd:"" help:"Print the table schema and query guidelines"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("wxcopilot"),
		kong.Description("Conversational assistant for weather data in BigQuery"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
