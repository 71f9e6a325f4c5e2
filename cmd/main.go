package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "vibravision"

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           appName,
		Short:         "GenTwin structural telemetry relay",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// With no subcommand the relay runs the server.
		RunE: serve.RunE,
	}
	root.AddCommand(serve, newSendCmd())
	return root
}
