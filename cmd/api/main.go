package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configFile string

	root := &cobra.Command{
		Use:           "syndication",
		Short:         "Syndicated loan lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml/json/toml), keyed like the env vars")

	root.AddCommand(serveCmd(&configFile))
	root.AddCommand(migrateCmd(&configFile))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
